package rules

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
	"github.com/go-mdlint/mdlint/pkg/lint"
	"github.com/go-mdlint/mdlint/pkg/scan"
)

// ListIndentRule checks for inconsistent indentation of list items at the same level.
type ListIndentRule struct {
	lint.BaseRule
}

// NewListIndentRule creates a new list-indent rule.
func NewListIndentRule() *ListIndentRule {
	return &ListIndentRule{
		BaseRule: lint.NewBaseRule(
			"MD005",
			"list-indent",
			"Inconsistent indentation for list items at the same level",
			[]string{"bullet", "indentation", "ul"},
			true,
		),
	}
}

// Apply checks for inconsistent list item indentation.
func (r *ListIndentRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	idx := ctx.Idx()
	items := ctx.Cache().ListItems()
	runs := groupListRuns(idx, items)

	var diags []lint.Diagnostic

	for _, run := range runs {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		if len(run.items) < 2 {
			continue
		}

		referenceIndent := run.items[0].List.Indent

		for i := 1; i < len(run.items); i++ {
			li := run.items[i]
			indent := li.List.Indent
			if indent == referenceIndent {
				continue
			}

			rec, ok := idx.Line(li.Number())
			if !ok {
				continue
			}

			builder := fix.NewEditBuilder()
			content := idx.Content(li.Number())
			trimmed := bytes.TrimLeft(content, " \t")
			newLine := strings.Repeat(" ", referenceIndent) + string(trimmed)
			builder.ReplaceRange(rec.Offset, rec.End(), newLine)

			pos := lint.SourcePosition{
				StartLine: li.Number(), StartColumn: 1,
				EndLine: li.Number(), EndColumn: 1,
			}

			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
				fmt.Sprintf("List item indentation %d does not match expected %d", indent, referenceIndent)).
				WithSeverity(config.SeverityWarning).
				WithSuggestion(fmt.Sprintf("Indent list item by %d spaces", referenceIndent)).
				WithFix(builder).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// ULIndentRule checks unordered list indentation.
type ULIndentRule struct {
	lint.BaseRule
}

// NewULIndentRule creates a new ul-indent rule.
func NewULIndentRule() *ULIndentRule {
	return &ULIndentRule{
		BaseRule: lint.NewBaseRule(
			"MD007",
			"ul-indent",
			"Unordered list indentation",
			[]string{"bullet", "indentation", "ul"},
			true,
		),
	}
}

// ulDepthEntry tracks one open nesting level while walking unordered list
// items in document order.
type ulDepthEntry struct {
	indent int
	depth  int
}

// Apply checks unordered list indentation. Nesting depth is approximated by
// tracking indent thresholds across unordered list-item lines in document
// order, since there is no block-containment tree to recurse over here.
func (r *ULIndentRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	indentCfg := ctx.OptionInt("indent", 2)
	startIndented := ctx.OptionBool("start_indented", false)
	startIndent := ctx.OptionInt("start_indent", indentCfg)

	idx := ctx.Idx()
	items := ctx.Cache().ListItems()

	var diags []lint.Diagnostic
	var stack []ulDepthEntry

	for _, li := range items {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		if li.List.MarkerType == scan.MarkerOrdered {
			continue
		}

		itemIndent := li.List.Indent

		for len(stack) > 0 && stack[len(stack)-1].indent > itemIndent {
			stack = stack[:len(stack)-1]
		}

		var depth int
		if len(stack) > 0 && stack[len(stack)-1].indent == itemIndent {
			depth = stack[len(stack)-1].depth
		} else {
			depth = len(stack)
			stack = append(stack, ulDepthEntry{indent: itemIndent, depth: depth})
		}

		var expectedIndent int
		switch {
		case depth == 0 && startIndented:
			expectedIndent = startIndent
		case depth == 0:
			expectedIndent = 0
		case startIndented:
			expectedIndent = startIndent + depth*indentCfg
		default:
			expectedIndent = depth * indentCfg
		}

		if itemIndent == expectedIndent {
			continue
		}

		rec, ok := idx.Line(li.Number())
		if !ok {
			continue
		}

		builder := fix.NewEditBuilder()
		content := idx.Content(li.Number())
		trimmed := bytes.TrimLeft(content, " \t")
		newLine := strings.Repeat(" ", expectedIndent) + string(trimmed)
		builder.ReplaceRange(rec.Offset, rec.End(), newLine)

		pos := lint.SourcePosition{
			StartLine: li.Number(), StartColumn: 1,
			EndLine: li.Number(), EndColumn: 1,
		}

		diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
			fmt.Sprintf("Unordered list indentation %d does not match expected %d", itemIndent, expectedIndent)).
			WithSeverity(config.SeverityWarning).
			WithSuggestion(fmt.Sprintf("Indent list item by %d spaces", expectedIndent)).
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// ListMarkerSpaceRule checks for correct spaces after list markers.
type ListMarkerSpaceRule struct {
	lint.BaseRule
}

// NewListMarkerSpaceRule creates a new list-marker-space rule.
func NewListMarkerSpaceRule() *ListMarkerSpaceRule {
	return &ListMarkerSpaceRule{
		BaseRule: lint.NewBaseRule(
			"MD030",
			"list-marker-space",
			"Spaces after list markers",
			[]string{"ol", "ul", "whitespace"},
			true,
		),
	}
}

// isRunTight reports whether a list run contains no blank lines between its
// first and last item, i.e. a "tight" list (every item is a single
// paragraph with no blank-line separation).
func isRunTight(idx *scan.LineIndex, run *listRun) bool {
	first := run.items[0].Number()
	last := run.items[len(run.items)-1].Number()
	for ln := first; ln <= last; ln++ {
		rec, ok := idx.Line(ln)
		if ok && rec.IsBlank {
			return false
		}
	}
	return true
}

// Apply checks for correct spaces after list markers.
func (r *ListMarkerSpaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	ulSingle := ctx.OptionInt("ul_single", 1)
	ulMulti := ctx.OptionInt("ul_multi", 1)
	olSingle := ctx.OptionInt("ol_single", 1)
	olMulti := ctx.OptionInt("ol_multi", 1)

	idx := ctx.Idx()
	items := ctx.Cache().ListItems()
	runs := groupListRuns(idx, items)

	var diags []lint.Diagnostic

	for _, run := range runs {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		isTight := isRunTight(idx, run)

		var expectedSpaces int
		switch {
		case run.ordered && isTight:
			expectedSpaces = olSingle
		case run.ordered:
			expectedSpaces = olMulti
		case isTight:
			expectedSpaces = ulSingle
		default:
			expectedSpaces = ulMulti
		}

		for _, li := range run.items {
			actualSpaces := li.List.SpacesAfterMarker
			if actualSpaces == expectedSpaces {
				continue
			}

			rec, ok := idx.Line(li.Number())
			if !ok {
				continue
			}

			markerEnd := rec.Offset + li.List.Indent + len(li.List.Marker)
			spacesEnd := markerEnd + actualSpaces

			builder := fix.NewEditBuilder()
			builder.ReplaceRange(markerEnd, spacesEnd, strings.Repeat(" ", expectedSpaces))

			diagPos := lint.SourcePosition{
				StartLine:   li.Number(),
				StartColumn: li.List.Indent + len(li.List.Marker) + 1,
				EndLine:     li.Number(),
				EndColumn:   li.List.Indent + len(li.List.Marker) + actualSpaces + 1,
			}

			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), diagPos,
				fmt.Sprintf("List marker space %d does not match expected %d", actualSpaces, expectedSpaces)).
				WithSeverity(config.SeverityWarning).
				WithSuggestion(fmt.Sprintf("Use %d space(s) after the list marker", expectedSpaces)).
				WithFix(builder).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// BlanksAroundListsRule checks that lists are surrounded by blank lines.
type BlanksAroundListsRule struct {
	lint.BaseRule
}

// NewBlanksAroundListsRule creates a new blanks-around-lists rule.
func NewBlanksAroundListsRule() *BlanksAroundListsRule {
	return &BlanksAroundListsRule{
		BaseRule: lint.NewBaseRule(
			"MD032",
			"blanks-around-lists",
			"Lists should be surrounded by blank lines",
			[]string{"blank_lines", "bullet", "ol", "ul"},
			true,
		),
	}
}

// Apply checks that lists are surrounded by blank lines. Only runs at
// indent 0 are treated as "top-level" lists needing surrounding blank
// lines, i.e. lists that are direct children of the document.
func (r *BlanksAroundListsRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	idx := ctx.Idx()
	lastLine := idx.Count()
	items := ctx.Cache().ListItems()
	runs := groupListRuns(idx, items)

	var diags []lint.Diagnostic

	for _, run := range runs {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		if run.indent != 0 {
			continue
		}

		firstLine := run.items[0].Number()
		endLine := run.items[len(run.items)-1].Number()
		// Extend to cover any lazy-continuation text absorbed after the
		// last item's marker line, up to (but not past) the next blank line.
		for ln := endLine + 1; ln <= lastLine; ln++ {
			rec, ok := idx.Line(ln)
			if !ok || rec.IsBlank {
				break
			}
			if rec.Indent < run.indent+1 {
				break
			}
			endLine = ln
		}

		if firstLine > 1 && !lint.IsBlankLine(idx, firstLine-1) {
			rec, ok := idx.Line(firstLine)
			if ok {
				builder := fix.NewEditBuilder()
				builder.Insert(rec.Offset, "\n")

				pos := lint.SourcePosition{
					StartLine: firstLine, StartColumn: 1,
					EndLine: firstLine, EndColumn: 1,
				}
				diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
					"Missing blank line before list").
					WithSeverity(config.SeverityWarning).
					WithSuggestion("Add a blank line before the list").
					WithFix(builder).
					Build()
				diags = append(diags, diag)
			}
		}

		if endLine < lastLine && !lint.IsBlankLine(idx, endLine+1) {
			rec, ok := idx.Line(endLine)
			if ok {
				builder := fix.NewEditBuilder()
				builder.Insert(rec.End(), "\n")

				pos := lint.SourcePosition{
					StartLine: endLine, StartColumn: 1,
					EndLine: endLine, EndColumn: 1,
				}
				diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
					"Missing blank line after list").
					WithSeverity(config.SeverityWarning).
					WithSuggestion("Add a blank line after the list").
					WithFix(builder).
					Build()
				diags = append(diags, diag)
			}
		}
	}

	return diags, nil
}

// listMarkerPattern matches list markers and captures the spaces after.
// Retained for potential reuse by future line-based list diagnostics.
var listMarkerPattern = regexp.MustCompile(`^(\s*)([-*+]|\d+[.)])(\s+)`)
