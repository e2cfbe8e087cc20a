package refs

import "github.com/go-mdlint/mdlint/pkg/scan"

// Collect builds a reference Context from the Structural Scanner's output:
// heading anchors, link/image usages, and the reference-definition table.
func Collect(lines []scan.LineInfo, aux *scan.Aux) *Context {
	ctx := NewContext()
	if aux == nil {
		return ctx
	}

	collectHeadingAnchors(ctx, lines)
	collectDefinitions(ctx, aux)
	collectUsages(ctx, aux)
	resolveUsages(ctx)

	return ctx
}

func collectHeadingAnchors(ctx *Context, lines []scan.LineInfo) {
	for _, li := range lines {
		if li.Heading == nil {
			continue
		}
		pos := Position{
			StartLine: li.Number(), StartColumn: li.Heading.ContentColumn,
			EndLine: li.Heading.EndLine,
		}
		ctx.Anchors.AddFromHeading(li.Heading.Text, pos)
	}
}

func collectDefinitions(ctx *Context, aux *scan.Aux) {
	seen := make(map[string]bool)
	for _, def := range aux.AllReferences() {
		rd := toRefDefinition(def)
		if seen[def.Label] {
			rd.IsDuplicate = true
		} else {
			seen[def.Label] = true
			ctx.Definitions[def.Label] = rd
		}
		ctx.AllDefinitions = append(ctx.AllDefinitions, rd)
	}
}

func toRefDefinition(def scan.ReferenceDefinition) *ReferenceDefinition {
	return &ReferenceDefinition{
		Label:           def.RawLabel,
		NormalizedLabel: def.Label,
		Destination:     def.URL,
		Title:           def.Title,
		LineNumber:      def.StartLine,
		Position: Position{
			StartLine: def.StartLine, StartColumn: def.StartCol,
			EndLine: def.EndLine, EndColumn: def.EndCol,
		},
	}
}

func collectUsages(ctx *Context, aux *scan.Aux) {
	for _, link := range aux.Links() {
		usage := &ReferenceUsage{
			IsImage: link.IsImage,
			Text:    link.Text,
			Position: Position{
				StartLine: link.Line, StartColumn: link.StartCol,
				EndLine: link.Line, EndColumn: link.EndCol,
			},
		}

		switch {
		case link.RefLabel == "":
			usage.Style = StyleInline
			usage.Destination = link.Dest
			usage.Fragment = ExtractFragment(link.Dest)
		case link.IsShortcut:
			usage.Style = StyleShortcut
			usage.Label = link.Text
			usage.NormalizedLabel = link.RefLabel
		case link.IsCollapsed:
			usage.Style = StyleCollapsed
			usage.Label = link.Text
			usage.NormalizedLabel = link.RefLabel
		default:
			usage.Style = StyleFull
			usage.Label = link.RefLabel
			usage.NormalizedLabel = link.RefLabel
		}

		ctx.Usages = append(ctx.Usages, usage)
	}
}

func resolveUsages(ctx *Context) {
	for _, usage := range ctx.Usages {
		if usage.NormalizedLabel == "" {
			continue
		}
		def := ctx.Definitions[usage.NormalizedLabel]
		if def == nil {
			continue
		}
		usage.ResolvedDefinition = def
		usage.Fragment = ExtractFragment(def.Destination)
		def.UsageCount++
	}
}
