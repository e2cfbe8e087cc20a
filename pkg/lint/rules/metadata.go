package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
	"github.com/go-mdlint/mdlint/pkg/lint"
	"github.com/go-mdlint/mdlint/pkg/scan"
)

// FirstLineHeadingRule checks that files begin with a top-level heading.
type FirstLineHeadingRule struct {
	lint.BaseRule
}

// NewFirstLineHeadingRule creates a new first line heading rule.
func NewFirstLineHeadingRule() *FirstLineHeadingRule {
	return &FirstLineHeadingRule{
		BaseRule: lint.NewBaseRule(
			"MD041",
			"first-line-heading",
			"First line in a file should be a top-level heading",
			[]string{"headings", "metadata"},
			false, // Not auto-fixable.
		),
	}
}

// DefaultEnabled returns false - this rule is opt-in.
func (r *FirstLineHeadingRule) DefaultEnabled() bool {
	return false
}

// Apply checks that the first content in the file is a top-level heading.
func (r *FirstLineHeadingRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || len(ctx.File.Content) == 0 {
		return nil, nil
	}

	requiredLevel := ctx.OptionInt("level", 1)
	frontMatterTitlePattern := ctx.OptionString("front_matter_title", "")

	idx := ctx.Idx()
	lines := ctx.Lines()

	firstContentLine := r.findFirstContentLine(idx, lines)
	if firstContentLine < 1 {
		return nil, nil
	}

	if frontMatterTitlePattern != "" {
		hasFrontMatterTitle, err := r.checkFrontMatterTitle(idx, lines, frontMatterTitlePattern)
		if err == nil && hasFrontMatterTitle {
			return nil, nil
		}
	}

	li := lines[firstContentLine-1]

	if li.Heading == nil {
		pos := lint.SourcePosition{
			StartLine:   firstContentLine,
			StartColumn: 1,
			EndLine:     firstContentLine,
			EndColumn:   1,
		}

		var msg string
		if requiredLevel == 1 {
			msg = "First line should be a top-level heading"
		} else {
			msg = fmt.Sprintf("First line should be an H%d heading", requiredLevel)
		}

		diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos, msg).
			WithSeverity(config.SeverityWarning).
			WithSuggestion(fmt.Sprintf("Add an H%d heading at the beginning", requiredLevel)).
			Build()
		return []lint.Diagnostic{diag}, nil
	}

	if li.Heading.Level != requiredLevel {
		pos := lint.SourcePosition{
			StartLine: firstContentLine, StartColumn: 1,
			EndLine: li.Heading.EndLine, EndColumn: 1,
		}
		diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
			fmt.Sprintf("First heading should be H%d, found H%d", requiredLevel, li.Heading.Level)).
			WithSeverity(config.SeverityWarning).
			WithSuggestion(fmt.Sprintf("Change to an H%d heading", requiredLevel)).
			Build()
		return []lint.Diagnostic{diag}, nil
	}

	return nil, nil
}

func (r *FirstLineHeadingRule) findFirstContentLine(idx *scan.LineIndex, lines []scan.LineInfo) int {
	if len(lines) == 0 {
		return 0
	}

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if lines[lineNum-1].InFrontMatter {
			continue
		}
		if lint.IsBlankLine(idx, lineNum) {
			continue
		}
		return lineNum
	}

	return 1
}

func (r *FirstLineHeadingRule) checkFrontMatterTitle(
	idx *scan.LineIndex,
	lines []scan.LineInfo,
	pattern string,
) (bool, error) {
	if len(lines) == 0 || !lines[0].InFrontMatter {
		return false, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid front matter title pattern: %w", err)
	}

	for lineNum := 1; lineNum <= len(lines) && lines[lineNum-1].InFrontMatter; lineNum++ {
		content := lint.LineContent(idx, lineNum)
		if re.Match(content) {
			return true, nil
		}
	}

	return false, nil
}

// HeadingBlankLinesRule ensures headings are surrounded by blank lines.
type HeadingBlankLinesRule struct {
	lint.BaseRule
}

// NewHeadingBlankLinesRule creates a new heading blank lines rule.
func NewHeadingBlankLinesRule() *HeadingBlankLinesRule {
	return &HeadingBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"MD022",
			"heading-blank-lines",
			"Headings should be surrounded by blank lines",
			[]string{"headings", "whitespace"},
			true, // Auto-fixable.
		),
	}
}

// Apply checks that headings have blank lines around them.
func (r *HeadingBlankLinesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	linesAbove := ctx.OptionInt("lines_above", 1)
	linesBelow := ctx.OptionInt("lines_below", 1)

	idx := ctx.Idx()
	headings := ctx.Cache().Headings()
	totalLines := idx.Count()

	var diags []lint.Diagnostic

	for _, h := range headings {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		startLine := h.Number()
		endLine := h.Heading.EndLine
		if endLine == 0 {
			endLine = startLine
		}

		if startLine > 1 && linesAbove > 0 {
			blanksBefore := lint.CountBlankLinesBefore(idx, startLine)
			if blanksBefore < linesAbove && !r.isPreviousLineHeadingEnd(ctx, startLine) {
				diag := r.createBlankBeforeDiagnostic(ctx, startLine, blanksBefore, linesAbove)
				diags = append(diags, diag)
			}
		}

		if endLine < totalLines && linesBelow > 0 {
			blanksAfter := lint.CountBlankLinesAfter(idx, endLine)
			if blanksAfter < linesBelow && !r.isNextLineHeadingStart(ctx, endLine) {
				diag := r.createBlankAfterDiagnostic(ctx, endLine, blanksAfter, linesBelow)
				diags = append(diags, diag)
			}
		}
	}

	return diags, nil
}

func (r *HeadingBlankLinesRule) isPreviousLineHeadingEnd(ctx *lint.RuleContext, lineNum int) bool {
	idx := ctx.Idx()
	lines := ctx.Lines()

	for ln := lineNum - 1; ln >= 1; ln-- {
		if lint.IsBlankLine(idx, ln) {
			continue
		}
		li := lines[ln-1]
		return li.Heading != nil && li.Heading.EndLine == ln
	}
	return false
}

func (r *HeadingBlankLinesRule) isNextLineHeadingStart(ctx *lint.RuleContext, lineNum int) bool {
	idx := ctx.Idx()
	lines := ctx.Lines()

	for ln := lineNum + 1; ln <= len(lines); ln++ {
		if lint.IsBlankLine(idx, ln) {
			continue
		}
		li := lines[ln-1]
		return li.Heading != nil && li.Number() == ln
	}
	return false
}

func (r *HeadingBlankLinesRule) createBlankBeforeDiagnostic(
	ctx *lint.RuleContext,
	startLine, current, required int,
) lint.Diagnostic {
	msg := fmt.Sprintf("Heading needs %d blank line(s) above, found %d", required, current)

	blanksNeeded := required - current
	insertion := strings.Repeat("\n", blanksNeeded)

	diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(),
		lint.SourcePosition{StartLine: startLine, StartColumn: 1, EndLine: startLine, EndColumn: 1}, msg).
		WithSeverity(config.SeverityWarning).
		WithSuggestion(fmt.Sprintf("Add %d blank line(s) before the heading", blanksNeeded))

	if rec, ok := ctx.Idx().Line(startLine); ok {
		builder := fix.NewEditBuilder()
		builder.Insert(rec.Offset, insertion)
		diagBuilder = diagBuilder.WithFix(builder)
	}

	return diagBuilder.Build()
}

func (r *HeadingBlankLinesRule) createBlankAfterDiagnostic(
	ctx *lint.RuleContext,
	endLine, current, required int,
) lint.Diagnostic {
	msg := fmt.Sprintf("Heading needs %d blank line(s) below, found %d", required, current)

	blanksNeeded := required - current
	insertion := strings.Repeat("\n", blanksNeeded)

	diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(),
		lint.SourcePosition{StartLine: endLine, StartColumn: 1, EndLine: endLine, EndColumn: 1}, msg).
		WithSeverity(config.SeverityWarning).
		WithSuggestion(fmt.Sprintf("Add %d blank line(s) after the heading", blanksNeeded))

	if rec, ok := ctx.Idx().Line(endLine); ok {
		builder := fix.NewEditBuilder()
		builder.Insert(rec.End(), insertion)
		diagBuilder = diagBuilder.WithFix(builder)
	}

	return diagBuilder.Build()
}

// RequiredHeadingsRule checks that document follows required heading structure.
type RequiredHeadingsRule struct {
	lint.BaseRule
}

// NewRequiredHeadingsRule creates a new required headings rule.
func NewRequiredHeadingsRule() *RequiredHeadingsRule {
	return &RequiredHeadingsRule{
		BaseRule: lint.NewBaseRule(
			"MD043",
			"required-headings",
			"Required heading structure",
			[]string{"headings"},
			false, // Not auto-fixable.
		),
	}
}

// DefaultEnabled returns false - this rule requires configuration.
func (r *RequiredHeadingsRule) DefaultEnabled() bool {
	return false
}

// Apply checks document heading structure against required pattern.
func (r *RequiredHeadingsRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	requiredHeadings := r.getRequiredHeadings(ctx)
	if len(requiredHeadings) == 0 {
		return nil, nil
	}

	matchCase := ctx.OptionBool("match_case", false)
	headings := ctx.Cache().Headings()
	actualHeadings := r.buildActualHeadings(headings)

	return r.matchHeadings(ctx, headings, actualHeadings, requiredHeadings, matchCase)
}

func (r *RequiredHeadingsRule) getRequiredHeadings(ctx *lint.RuleContext) []string {
	headingsOption := ctx.Option("headings", nil)
	if headingsOption == nil {
		return nil
	}

	switch h := headingsOption.(type) {
	case []string:
		return h
	case []interface{}:
		var result []string
		for _, item := range h {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}

func (r *RequiredHeadingsRule) buildActualHeadings(headings []scan.LineInfo) []string {
	result := make([]string, 0, len(headings))
	for _, h := range headings {
		result = append(result, fmt.Sprintf("%s %s", strings.Repeat("#", h.Heading.Level), h.Heading.Text))
	}
	return result
}

func (r *RequiredHeadingsRule) matchHeadings(
	ctx *lint.RuleContext,
	headings []scan.LineInfo,
	actualHeadings, requiredHeadings []string,
	matchCase bool,
) ([]lint.Diagnostic, error) {
	reqIdx, actIdx := 0, 0

	for reqIdx < len(requiredHeadings) && actIdx < len(actualHeadings) {
		required := requiredHeadings[reqIdx]

		switch required {
		case "*", "+":
			reqIdx, actIdx = r.handleWildcard(required, reqIdx, actIdx, actualHeadings, requiredHeadings, matchCase)
		case "?":
			actIdx++
			reqIdx++
		default:
			if r.headingMatches(actualHeadings[actIdx], required, matchCase) {
				actIdx++
				reqIdx++
				continue
			}
			return r.createMismatchDiagnostic(ctx, headings, actualHeadings, required, actIdx), nil
		}
	}

	return r.checkRemainingRequired(ctx, requiredHeadings, reqIdx)
}

func (r *RequiredHeadingsRule) handleWildcard(
	pattern string,
	reqIdx, actIdx int,
	actualHeadings, requiredHeadings []string,
	matchCase bool,
) (int, int) {
	if pattern == "+" {
		actIdx++ // Must match at least one
	}
	reqIdx++

	if reqIdx >= len(requiredHeadings) {
		return reqIdx, len(actualHeadings)
	}

	nextRequired := requiredHeadings[reqIdx]
	for actIdx < len(actualHeadings) {
		if r.headingMatches(actualHeadings[actIdx], nextRequired, matchCase) {
			break
		}
		actIdx++
	}
	return reqIdx, actIdx
}

func (r *RequiredHeadingsRule) createMismatchDiagnostic(
	ctx *lint.RuleContext,
	headings []scan.LineInfo,
	actualHeadings []string,
	required string,
	actIdx int,
) []lint.Diagnostic {
	pos := r.getPositionForIndex(ctx, headings, actIdx)
	msg := r.getMismatchMessage(actualHeadings, required, actIdx)

	diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos, msg).
		WithSeverity(config.SeverityWarning).
		WithSuggestion("Update heading to match required structure").
		Build()
	return []lint.Diagnostic{diag}
}

func (r *RequiredHeadingsRule) getPositionForIndex(
	ctx *lint.RuleContext,
	headings []scan.LineInfo,
	actIdx int,
) lint.SourcePosition {
	if actIdx < len(headings) {
		ln := headings[actIdx].Number()
		return lint.SourcePosition{StartLine: ln, StartColumn: 1, EndLine: ln, EndColumn: 1}
	}
	last := ctx.Idx().Count()
	return lint.SourcePosition{StartLine: last, StartColumn: 1, EndLine: last, EndColumn: 1}
}

func (r *RequiredHeadingsRule) getMismatchMessage(actualHeadings []string, required string, actIdx int) string {
	if actIdx < len(actualHeadings) {
		return fmt.Sprintf("Expected heading %q, found %q", required, actualHeadings[actIdx])
	}
	return fmt.Sprintf("Missing required heading %q", required)
}

func (r *RequiredHeadingsRule) checkRemainingRequired(
	ctx *lint.RuleContext,
	requiredHeadings []string,
	reqIdx int,
) ([]lint.Diagnostic, error) {
	for reqIdx < len(requiredHeadings) {
		required := requiredHeadings[reqIdx]
		if required != "*" && required != "+" && required != "?" {
			last := ctx.Idx().Count()
			pos := lint.SourcePosition{StartLine: last, StartColumn: 1, EndLine: last, EndColumn: 1}
			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
				fmt.Sprintf("Missing required heading %q", required)).
				WithSeverity(config.SeverityWarning).
				WithSuggestion("Add required heading").
				Build()
			return []lint.Diagnostic{diag}, nil
		}
		reqIdx++
	}
	return nil, nil
}

func (r *RequiredHeadingsRule) headingMatches(actual, required string, matchCase bool) bool {
	if matchCase {
		return actual == required
	}
	return strings.EqualFold(actual, required)
}

// ProperNamesRule checks for correct capitalization of proper names.
type ProperNamesRule struct {
	lint.BaseRule
}

// NewProperNamesRule creates a new proper names rule.
func NewProperNamesRule() *ProperNamesRule {
	return &ProperNamesRule{
		BaseRule: lint.NewBaseRule(
			"MD044",
			"proper-names",
			"Proper names should have the correct capitalization",
			[]string{"spelling"},
			true, // Auto-fixable.
		),
	}
}

// DefaultEnabled returns false - this rule requires configuration.
func (r *ProperNamesRule) DefaultEnabled() bool {
	return false
}

// Apply checks for incorrect capitalization of proper names.
func (r *ProperNamesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	namesOption := ctx.Option("names", nil)
	if namesOption == nil {
		return nil, nil
	}

	var properNames []string
	switch n := namesOption.(type) {
	case []string:
		properNames = n
	case []interface{}:
		for _, item := range n {
			if s, ok := item.(string); ok {
				properNames = append(properNames, s)
			}
		}
	}

	if len(properNames) == 0 {
		return nil, nil
	}

	includeCodeBlocks := ctx.OptionBool("code_blocks", true)
	includeHTMLElements := ctx.OptionBool("html_elements", true)

	type namePattern struct {
		correct string
		pattern *regexp.Regexp
	}
	patterns := make([]namePattern, 0, len(properNames))

	for _, name := range properNames {
		escaped := regexp.QuoteMeta(name)
		pattern, err := regexp.Compile(`(?i)\b` + escaped + `\b`)
		if err != nil {
			continue
		}
		patterns = append(patterns, namePattern{correct: name, pattern: pattern})
	}

	idx := ctx.Idx()
	lines := ctx.Lines()
	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		li := lines[lineNum-1]
		if !includeCodeBlocks && (li.InCodeBlock || li.IsFenceLine) {
			continue
		}

		if !includeHTMLElements && li.InHTMLBlock {
			continue
		}

		lineContent := lint.LineContent(idx, lineNum)

		for _, np := range patterns {
			matches := np.pattern.FindAllIndex(lineContent, -1)
			for _, match := range matches {
				found := string(lineContent[match[0]:match[1]])
				if found == np.correct {
					continue
				}

				pos := lint.SourcePosition{
					StartLine:   lineNum,
					StartColumn: match[0] + 1,
					EndLine:     lineNum,
					EndColumn:   match[1] + 1,
				}

				rec, ok := idx.Line(lineNum)
				if !ok {
					continue
				}

				builder := fix.NewEditBuilder()
				builder.ReplaceRange(rec.Offset+match[0], rec.Offset+match[1], np.correct)

				diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
					fmt.Sprintf("Proper name %q should be %q", found, np.correct)).
					WithSeverity(config.SeverityWarning).
					WithSuggestion(fmt.Sprintf("Use %q", np.correct)).
					WithFix(builder).
					Build()
				diags = append(diags, diag)
			}
		}
	}

	return diags, nil
}

