package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
	"github.com/go-mdlint/mdlint/pkg/lint"
)

// NoEmphasisAsHeadingRule checks for emphasis used instead of headings.
type NoEmphasisAsHeadingRule struct {
	lint.BaseRule
}

// NewNoEmphasisAsHeadingRule creates a new no-emphasis-as-heading rule.
func NewNoEmphasisAsHeadingRule() *NoEmphasisAsHeadingRule {
	return &NoEmphasisAsHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD036",
			"no-emphasis-as-heading",
			"Emphasis used instead of a heading",
			[]string{"emphasis", "headings"},
			true, // Auto-fixable - infers heading level from context.
		),
	}
}

// defaultEmphasisPunctuation is the default punctuation that indicates emphasis is not a heading.
const defaultEmphasisPunctuation = ".,;:!?"

// emphasisOnlyLinePattern matches a line whose entire trimmed content is a
// single emphasis or strong span, with nothing else on the line.
var emphasisOnlyLinePattern = regexp.MustCompile(`^(\*\*([^*]+)\*\*|__([^_]+)__|\*([^*]+)\*|_([^_]+)_)$`)

// Apply checks for emphasis used instead of headings. A "paragraph" here is
// approximated as a single non-blank line isolated by blank lines (or
// document boundaries) on both sides, since pkg/scan has no block tree to
// read actual paragraph nodes from.
func (r *NoEmphasisAsHeadingRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	punctuation := ctx.OptionString("punctuation", defaultEmphasisPunctuation)

	idx := ctx.Idx()
	lines := ctx.Lines()
	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		li := lines[lineNum-1]
		if li.IsBlank() || li.InCodeBlock || li.IsFenceLine || li.InHTMLBlock ||
			li.Heading != nil || li.List != nil || li.Blockquote != nil {
			continue
		}

		if !lint.IsBlankLine(idx, lineNum-1) || !lint.IsBlankLine(idx, lineNum+1) {
			continue
		}

		content := strings.TrimSpace(string(lint.LineContent(idx, lineNum)))
		match := emphasisOnlyLinePattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}

		var innerText string
		var isBold bool
		switch {
		case match[2] != "":
			innerText, isBold = match[2], true
		case match[3] != "":
			innerText, isBold = match[3], true
		case match[4] != "":
			innerText = match[4]
		default:
			innerText = match[5]
		}

		innerText = strings.TrimSpace(innerText)
		if innerText == "" {
			continue
		}

		lastRune := []rune(innerText)[len([]rune(innerText))-1]
		if strings.ContainsRune(punctuation, lastRune) {
			continue
		}

		diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(),
			lint.SourcePosition{StartLine: lineNum, StartColumn: 1, EndLine: lineNum, EndColumn: len(content) + 1},
			"Emphasis used instead of a heading").
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Use a heading instead of emphasis for section titles")

		if isBold {
			level := r.inferHeadingLevel(ctx, lineNum)
			rec, ok := idx.Line(lineNum)
			if ok {
				replacement := strings.Repeat("#", level) + " " + innerText
				builder := fix.NewEditBuilder()
				builder.ReplaceRange(rec.Offset, rec.End(), replacement)
				diagBuilder = diagBuilder.WithFix(builder)
			}
		}

		diags = append(diags, diagBuilder.Build())
	}

	return diags, nil
}

// inferHeadingLevel scans backwards from lineNum to find the nearest
// preceding heading, returns that heading's level + 1, caps at H6, and
// defaults to H2 if no heading is found.
func (r *NoEmphasisAsHeadingRule) inferHeadingLevel(ctx *lint.RuleContext, lineNum int) int {
	const (
		defaultLevel = 2
		maxLevel     = 6
	)

	headings := ctx.Cache().Headings()
	level := 0
	for _, h := range headings {
		if h.Number() >= lineNum {
			break
		}
		level = h.Heading.Level
	}

	if level == 0 {
		return defaultLevel
	}

	level++
	if level > maxLevel {
		level = maxLevel
	}
	return level
}

// NoSpaceInEmphasisRule checks for spaces inside emphasis markers.
type NoSpaceInEmphasisRule struct {
	lint.BaseRule
}

// NewNoSpaceInEmphasisRule creates a new no-space-in-emphasis rule.
func NewNoSpaceInEmphasisRule() *NoSpaceInEmphasisRule {
	return &NoSpaceInEmphasisRule{
		BaseRule: lint.NewBaseRule(
			"MD037",
			"no-space-in-emphasis",
			"Spaces inside emphasis markers",
			[]string{"emphasis", "whitespace"},
			true,
		),
	}
}

// emphasisSpacePattern matches emphasis with spaces inside.
var emphasisSpacePattern = regexp.MustCompile(`(\*{1,2}|_{1,2})\s+([^*_]+)\s+(\*{1,2}|_{1,2})`)

// emphasisSpaceMatchGroups is the minimum submatch indices for the emphasisSpacePattern.
const emphasisSpaceMatchGroups = 8

// Apply checks for spaces inside emphasis markers.
func (r *NoSpaceInEmphasisRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	idx := ctx.Idx()
	lines := ctx.Lines()
	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if lines[lineNum-1].InCodeBlock || lines[lineNum-1].IsFenceLine {
			continue
		}

		lineContent := lint.LineContent(idx, lineNum)
		codeSpans := spansOnLine(ctx.Aux(), lineNum)
		matches := emphasisSpacePattern.FindAllSubmatchIndex(lineContent, -1)

		for _, match := range matches {
			if len(match) < emphasisSpaceMatchGroups {
				continue
			}

			start, end := match[0], match[1]
			if inAnyCodeSpan(codeSpans, start+1, end+1) {
				continue
			}

			openMarker := string(lineContent[match[2]:match[3]])
			content := string(lineContent[match[4]:match[5]])
			closeMarker := string(lineContent[match[6]:match[7]])

			// Markers should match.
			if openMarker != closeMarker {
				continue
			}

			rec, ok := idx.Line(lineNum)
			if !ok {
				continue
			}

			builder := fix.NewEditBuilder()
			fixedEmphasis := openMarker + strings.TrimSpace(content) + closeMarker
			builder.ReplaceRange(rec.Offset+start, rec.Offset+end, fixedEmphasis)

			diagPos := lint.SourcePosition{
				StartLine:   lineNum,
				StartColumn: start + 1,
				EndLine:     lineNum,
				EndColumn:   end + 1,
			}

			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), diagPos,
				"Spaces inside emphasis markers").
				WithSeverity(config.SeverityWarning).
				WithSuggestion("Remove spaces from inside emphasis markers").
				WithFix(builder).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// emphasisMarkerPattern finds emphasis/strong open markers together with
// the character immediately preceding and following them, used to classify
// marker style (asterisk vs underscore) per occurrence.
var emphasisMarkerPattern = regexp.MustCompile(`(\*\*|__|\*|_)([^\s*_](?:[^*_]*[^\s*_])?)(\*\*|__|\*|_)`)

// emphasisStyleFromMarker classifies a marker run as "asterisk" or
// "underscore", or "" if neither character.
func emphasisStyleFromMarker(marker string) string {
	if marker == "" {
		return ""
	}
	switch marker[0] {
	case '*':
		return "asterisk"
	case '_':
		return "underscore"
	default:
		return ""
	}
}

// EmphasisStyleRule checks for consistent emphasis style.
type EmphasisStyleRule struct {
	lint.BaseRule
}

// NewEmphasisStyleRule creates a new emphasis-style rule.
func NewEmphasisStyleRule() *EmphasisStyleRule {
	return &EmphasisStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD049",
			"emphasis-style",
			"Emphasis style should be consistent",
			[]string{"emphasis"},
			true,
		),
	}
}

// Apply checks for consistent emphasis style, scanning single-character
// markers (single * or _, not part of a ** or __ strong run).
func (r *EmphasisStyleRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	configStyle := ctx.OptionString("style", "consistent")
	var expectedStyle string
	if configStyle != "consistent" {
		expectedStyle = configStyle
	}

	idx := ctx.Idx()
	lines := ctx.Lines()
	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if lines[lineNum-1].InCodeBlock || lines[lineNum-1].IsFenceLine {
			continue
		}

		lineContent := lint.LineContent(idx, lineNum)
		codeSpans := spansOnLine(ctx.Aux(), lineNum)
		matches := emphasisMarkerPattern.FindAllStringSubmatchIndex(string(lineContent), -1)

		for _, match := range matches {
			openMarker := string(lineContent[match[2]:match[3]])
			closeMarker := string(lineContent[match[6]:match[7]])
			if openMarker != closeMarker || len(openMarker) != 1 {
				continue // Only single-char markers are "emphasis" here; strong is handled separately.
			}

			start, end := match[0], match[1]
			if inAnyCodeSpan(codeSpans, start+1, end+1) {
				continue
			}

			style := emphasisStyleFromMarker(openMarker)
			if style == "" {
				continue
			}

			if expectedStyle == "" {
				expectedStyle = style
				continue
			}

			if style != expectedStyle {
				wantMarker := "*"
				if expectedStyle == "underscore" {
					wantMarker = "_"
				}

				rec, ok := idx.Line(lineNum)
				var builder *fix.EditBuilder
				if ok {
					builder = fix.NewEditBuilder()
					builder.ReplaceRange(rec.Offset+match[2], rec.Offset+match[3], wantMarker)
					builder.ReplaceRange(rec.Offset+match[6], rec.Offset+match[7], wantMarker)
				}

				pos := lint.SourcePosition{
					StartLine: lineNum, StartColumn: start + 1,
					EndLine: lineNum, EndColumn: end + 1,
				}

				diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
					fmt.Sprintf("Emphasis style %q does not match expected %q", style, expectedStyle)).
					WithSeverity(config.SeverityWarning).
					WithSuggestion(fmt.Sprintf("Use %q for all emphasis", expectedStyle))
				if builder != nil {
					diagBuilder = diagBuilder.WithFix(builder)
				}
				diags = append(diags, diagBuilder.Build())
			}
		}
	}

	return diags, nil
}

// StrongStyleRule checks for consistent strong (bold) style.
type StrongStyleRule struct {
	lint.BaseRule
}

// NewStrongStyleRule creates a new strong-style rule.
func NewStrongStyleRule() *StrongStyleRule {
	return &StrongStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD050",
			"strong-style",
			"Strong style should be consistent",
			[]string{"emphasis"},
			true,
		),
	}
}

// Apply checks for consistent strong style, scanning double-character
// markers (** or __).
func (r *StrongStyleRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	configStyle := ctx.OptionString("style", "consistent")
	var expectedStyle string
	if configStyle != "consistent" {
		expectedStyle = configStyle
	}

	idx := ctx.Idx()
	lines := ctx.Lines()
	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if lines[lineNum-1].InCodeBlock || lines[lineNum-1].IsFenceLine {
			continue
		}

		lineContent := lint.LineContent(idx, lineNum)
		codeSpans := spansOnLine(ctx.Aux(), lineNum)
		matches := emphasisMarkerPattern.FindAllStringSubmatchIndex(string(lineContent), -1)

		for _, match := range matches {
			openMarker := string(lineContent[match[2]:match[3]])
			closeMarker := string(lineContent[match[6]:match[7]])
			if openMarker != closeMarker || len(openMarker) != 2 {
				continue
			}

			start, end := match[0], match[1]
			if inAnyCodeSpan(codeSpans, start+1, end+1) {
				continue
			}

			style := emphasisStyleFromMarker(openMarker)
			if style == "" {
				continue
			}

			if expectedStyle == "" {
				expectedStyle = style
				continue
			}

			if style != expectedStyle {
				wantMarker := "**"
				if expectedStyle == "underscore" {
					wantMarker = "__"
				}

				rec, ok := idx.Line(lineNum)
				var builder *fix.EditBuilder
				if ok {
					builder = fix.NewEditBuilder()
					builder.ReplaceRange(rec.Offset+match[2], rec.Offset+match[3], wantMarker)
					builder.ReplaceRange(rec.Offset+match[6], rec.Offset+match[7], wantMarker)
				}

				pos := lint.SourcePosition{
					StartLine: lineNum, StartColumn: start + 1,
					EndLine: lineNum, EndColumn: end + 1,
				}

				diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
					fmt.Sprintf("Strong style %q does not match expected %q", style, expectedStyle)).
					WithSeverity(config.SeverityWarning).
					WithSuggestion(fmt.Sprintf("Use %q for all strong emphasis", expectedStyle))
				if builder != nil {
					diagBuilder = diagBuilder.WithFix(builder)
				}
				diags = append(diags, diagBuilder.Build())
			}
		}
	}

	return diags, nil
}
