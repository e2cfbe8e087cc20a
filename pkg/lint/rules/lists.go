package rules

import (
	"fmt"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
	"github.com/go-mdlint/mdlint/pkg/lint"
	"github.com/go-mdlint/mdlint/pkg/scan"
)

// BulletStyle represents the style of unordered list bullets.
type BulletStyle string

const (
	// BulletDash uses "-" as the bullet marker.
	BulletDash BulletStyle = "dash"
	// BulletPlus uses "+" as the bullet marker.
	BulletPlus BulletStyle = "plus"
	// BulletAsterisk uses "*" as the bullet marker.
	BulletAsterisk BulletStyle = "asterisk"
	// BulletConsistent uses whatever style is first encountered.
	BulletConsistent BulletStyle = "consistent"
)

// getBulletMarker returns the character representation for a bullet style.
func getBulletMarker(style BulletStyle) string {
	switch style {
	case BulletDash:
		return "-"
	case BulletPlus:
		return "+"
	case BulletAsterisk:
		return "*"
	default:
		return ""
	}
}

// getBulletStyle returns the bullet style for a marker character.
func getBulletStyle(marker string) (BulletStyle, bool) {
	switch marker {
	case "-":
		return BulletDash, true
	case "+":
		return BulletPlus, true
	case "*":
		return BulletAsterisk, true
	default:
		return "", false
	}
}

// UnorderedListStyleRule enforces consistent bullet markers in unordered lists.
type UnorderedListStyleRule struct {
	lint.BaseRule
}

// NewUnorderedListStyleRule creates a new unordered list style rule.
func NewUnorderedListStyleRule() *UnorderedListStyleRule {
	return &UnorderedListStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD004",
			"unordered-list-style",
			"Unordered list style should be consistent",
			[]string{"lists", "style"},
			true,
		),
	}
}

// Apply checks that all unordered lists use consistent bullet markers.
// Consistency is tracked document-wide: the first bullet encountered (or the
// configured style) sets the expected marker for every later bullet item.
func (r *UnorderedListStyleRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	configStyle := BulletStyle(ctx.OptionString("style", string(BulletDash)))

	effectiveStyle := configStyle
	effectiveMarker := getBulletMarker(effectiveStyle)

	if configStyle == BulletConsistent {
		effectiveStyle = "" // Will be set from first bullet.
		effectiveMarker = ""
	}

	items := ctx.Cache().ListItems()
	var diags []lint.Diagnostic

	for _, li := range items {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		if li.List.MarkerType == scan.MarkerOrdered {
			continue
		}

		marker := li.List.Marker
		if marker == "" {
			continue
		}

		if effectiveStyle == "" {
			if style, ok := getBulletStyle(marker); ok {
				effectiveStyle = style
				effectiveMarker = marker
			}
			continue
		}

		if marker != effectiveMarker {
			diag := r.createBulletDiagnostic(ctx, li, marker, effectiveMarker)
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

func (r *UnorderedListStyleRule) createBulletDiagnostic(
	ctx *lint.RuleContext,
	li scan.LineInfo,
	actual, expected string,
) lint.Diagnostic {
	msg := fmt.Sprintf("Unordered list bullet '%s' does not match expected '%s'", actual, expected)

	pos := lint.SourcePosition{
		StartLine: li.Number(), StartColumn: li.List.Indent + 1,
		EndLine: li.Number(), EndColumn: li.List.Indent + 2,
	}

	diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos, msg).
		WithSeverity(config.SeverityWarning).
		WithSuggestion(fmt.Sprintf("Use '%s' as the bullet marker", expected))

	if builder := r.buildBulletFix(ctx, li, expected); builder != nil {
		diagBuilder = diagBuilder.WithFix(builder)
	}

	return diagBuilder.Build()
}

func (r *UnorderedListStyleRule) buildBulletFix(
	ctx *lint.RuleContext,
	li scan.LineInfo,
	expectedMarker string,
) *fix.EditBuilder {
	idx := ctx.Idx()
	rec, ok := idx.Line(li.Number())
	if !ok {
		return nil
	}

	start := rec.Offset + li.List.Indent
	builder := fix.NewEditBuilder()
	builder.ReplaceRange(start, start+1, expectedMarker)
	return builder
}

// OrderedListIncrementRule enforces sequential numbering in ordered lists.
type OrderedListIncrementRule struct {
	lint.BaseRule
}

// NewOrderedListIncrementRule creates a new ordered list increment rule.
func NewOrderedListIncrementRule() *OrderedListIncrementRule {
	return &OrderedListIncrementRule{
		BaseRule: lint.NewBaseRule(
			"MD029",
			"ol-prefix",
			"Ordered list item prefix",
			[]string{"ol"},
			true,
		),
	}
}

// listRun groups a contiguous run of same-kind (ordered or unordered) list
// items sharing the same indent, approximating a containing list node since
// pkg/scan carries no block-containment tree.
type listRun struct {
	indent  int
	ordered bool
	items   []scan.LineInfo
}

// orderedListContinues reports whether the gap between two list items at the
// given indent is only blank lines and/or more deeply nested content (never
// a dedent below indent), which means they belong to the same list.
func orderedListContinues(idx *scan.LineIndex, prevLine, curLine, indent int) bool {
	for ln := prevLine + 1; ln < curLine; ln++ {
		rec, ok := idx.Line(ln)
		if !ok || rec.IsBlank {
			continue
		}
		if rec.Indent < indent {
			return false
		}
	}
	return true
}

// groupListRuns splits every list-item line into runs of the same marker
// kind (ordered/unordered) and indent, restarting a run whenever the
// contiguity check above fails. This is the line-based stand-in for the
// teacher's AST "List" node grouping, shared by every list rule below.
func groupListRuns(idx *scan.LineIndex, items []scan.LineInfo) []*listRun {
	type key struct {
		indent  int
		ordered bool
	}
	active := make(map[key]*listRun)
	var runs []*listRun

	for _, li := range items {
		ordered := li.List.MarkerType == scan.MarkerOrdered
		k := key{indent: li.List.Indent, ordered: ordered}

		if run, ok := active[k]; ok {
			lastLine := run.items[len(run.items)-1].Number()
			if orderedListContinues(idx, lastLine, li.Number(), k.indent) {
				run.items = append(run.items, li)
				continue
			}
		}

		run := &listRun{indent: k.indent, ordered: ordered, items: []scan.LineInfo{li}}
		runs = append(runs, run)
		active[k] = run
	}

	return runs
}

// Apply checks that ordered lists have sequential numbering.
func (r *OrderedListIncrementRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	allowRenumbering := ctx.OptionBool("allow_renumbering", true)

	idx := ctx.Idx()
	items := ctx.Cache().ListItems()
	runs := groupListRuns(idx, items)

	var diags []lint.Diagnostic

	for _, run := range runs {
		if !run.ordered {
			continue
		}
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		startNumber := run.items[0].List.OrderedIndex
		if startNumber <= 0 {
			startNumber = 1
		}
		delimiter := run.items[0].List.Delimiter
		if delimiter == "" {
			delimiter = "."
		}

		expectedNum := startNumber
		for _, li := range run.items {
			actualNum := li.List.OrderedIndex
			if actualNum != expectedNum {
				diag := r.createNumberDiagnostic(ctx, li, actualNum, expectedNum, delimiter, allowRenumbering)
				diags = append(diags, diag)
			}
			expectedNum++
		}
	}

	return diags, nil
}

func (r *OrderedListIncrementRule) createNumberDiagnostic(
	ctx *lint.RuleContext,
	li scan.LineInfo,
	actual, expected int,
	delimiter string,
	allowRenumbering bool,
) lint.Diagnostic {
	msg := fmt.Sprintf("Ordered list item numbered %d should be %d", actual, expected)

	pos := lint.SourcePosition{
		StartLine: li.Number(), StartColumn: li.List.Indent + 1,
		EndLine: li.Number(), EndColumn: li.List.Indent + len(li.List.Marker) + 1,
	}

	diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos, msg).
		WithSeverity(config.SeverityWarning).
		WithSuggestion(fmt.Sprintf("Use %d%s instead", expected, delimiter))

	if allowRenumbering {
		builder := r.buildNumberFix(ctx, li, expected, delimiter)
		if builder != nil {
			diagBuilder = diagBuilder.WithFix(builder)
		}
	}

	return diagBuilder.Build()
}

func (r *OrderedListIncrementRule) buildNumberFix(
	ctx *lint.RuleContext,
	li scan.LineInfo,
	expectedNum int,
	delimiter string,
) *fix.EditBuilder {
	idx := ctx.Idx()
	rec, ok := idx.Line(li.Number())
	if !ok {
		return nil
	}

	start := rec.Offset + li.List.Indent
	end := start + len(li.List.Marker)

	builder := fix.NewEditBuilder()
	builder.ReplaceRange(start, end, fmt.Sprintf("%d%s", expectedNum, delimiter))
	return builder
}
