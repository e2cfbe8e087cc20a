package rules

import (
	"fmt"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
	"github.com/go-mdlint/mdlint/pkg/lint"
)

// TrailingWhitespaceRule checks for trailing whitespace on lines.
type TrailingWhitespaceRule struct {
	lint.BaseRule
}

// NewTrailingWhitespaceRule creates a new trailing whitespace rule.
func NewTrailingWhitespaceRule() *TrailingWhitespaceRule {
	return &TrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"MD009",
			"no-trailing-spaces",
			"Lines should not have trailing spaces",
			[]string{"whitespace"},
			true,
		),
	}
}

// Apply checks for trailing whitespace on each line.
func (r *TrailingWhitespaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	ignoreCodeBlocks := ctx.OptionBool("ignore_code_blocks", false)
	keepBreakSpaces := ctx.OptionInt("br_spaces", 2)

	idx := ctx.Idx()
	lines := ctx.Lines()

	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		li := lines[lineNum-1]
		if ignoreCodeBlocks && (li.InCodeBlock || li.IsFenceLine) {
			continue
		}
		if li.InFrontMatter {
			continue
		}

		if !lint.HasTrailingWhitespace(idx, lineNum) {
			continue
		}

		start, end := lint.TrailingWhitespaceRange(idx, lineNum)
		if start < 0 || end <= start {
			continue
		}

		// A run of exactly br_spaces trailing spaces on a non-blank line is
		// a hard line break and is preserved rather than stripped.
		trailingLen := end - start
		content := idx.Content(lineNum)
		isHardBreak := !li.IsBlank() && trailingLen == keepBreakSpaces &&
			allSpaces(content[len(content)-trailingLen:])
		if isHardBreak {
			continue
		}

		rec, _ := idx.Line(lineNum)
		builder := fix.NewEditBuilder()
		builder.Delete(start, end)

		pos := lint.SourcePosition{
			StartLine:   lineNum,
			StartColumn: start - rec.Offset + 1,
			EndLine:     lineNum,
			EndColumn:   end - rec.Offset + 1,
		}

		diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos, "Trailing whitespace").
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Remove trailing whitespace").
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

func allSpaces(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}

// FinalNewlineRule ensures files end with a single newline.
type FinalNewlineRule struct {
	lint.BaseRule
}

// NewFinalNewlineRule creates a new final newline rule.
func NewFinalNewlineRule() *FinalNewlineRule {
	return &FinalNewlineRule{
		BaseRule: lint.NewBaseRule(
			"MD047",
			"single-trailing-newline",
			"Files should end with a single newline character",
			[]string{"blank_lines"},
			true,
		),
	}
}

// Apply checks that the file ends with exactly one newline.
func (r *FinalNewlineRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || len(ctx.File.Doc.Normalized) == 0 {
		return nil, nil
	}

	content := ctx.File.Doc.Normalized
	contentLen := len(content)
	lines := ctx.Lines()
	idx := ctx.Idx()

	// Check if file ends with a newline.
	if content[contentLen-1] != '\n' {
		builder := fix.NewEditBuilder()
		builder.Insert(contentLen, "\n")

		lastLine := len(lines)
		col := lint.LineLength(idx, lastLine) + 1
		pos := lint.SourcePosition{
			StartLine: lastLine, StartColumn: col,
			EndLine: lastLine, EndColumn: col,
		}

		diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos, "File should end with a newline").
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Add a newline at end of file").
			WithFix(builder).
			Build()
		return []lint.Diagnostic{diag}, nil
	}

	// Check for excessive trailing blank lines.
	maxTrailingBlankLines := ctx.OptionInt("max_trailing_blank_lines", 1)

	trailingBlankCount := 0
	for lineNum := len(lines); lineNum >= 1; lineNum-- {
		if !lint.IsBlankLine(idx, lineNum) {
			break
		}
		trailingBlankCount++
	}

	if trailingBlankCount > maxTrailingBlankLines {
		excessCount := trailingBlankCount - maxTrailingBlankLines
		firstExcessLine := len(lines) - trailingBlankCount + 1
		lastExcessLine := firstExcessLine + excessCount - 1

		firstRec, _ := idx.Line(firstExcessLine)
		lastRec, _ := idx.Line(lastExcessLine)

		builder := fix.NewEditBuilder()
		builder.Delete(firstRec.Offset, lastRec.End())

		pos := lint.SourcePosition{
			StartLine: firstExcessLine, StartColumn: 1,
			EndLine: lastExcessLine, EndColumn: 1,
		}

		diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
			fmt.Sprintf("Too many trailing blank lines (found %d, max %d)", trailingBlankCount, maxTrailingBlankLines)).
			WithSeverity(config.SeverityWarning).
			WithSuggestion(fmt.Sprintf("Remove %d trailing blank line(s)", excessCount)).
			WithFix(builder).
			Build()
		return []lint.Diagnostic{diag}, nil
	}

	return nil, nil
}

// MultipleBlankLinesRule checks for consecutive blank lines.
type MultipleBlankLinesRule struct {
	lint.BaseRule
}

// NewMultipleBlankLinesRule creates a new multiple blank lines rule.
func NewMultipleBlankLinesRule() *MultipleBlankLinesRule {
	return &MultipleBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"MD012",
			"no-multiple-blank-lines",
			"Multiple consecutive blank lines should be collapsed",
			[]string{"whitespace", "layout"},
			true,
		),
	}
}

// Apply checks for sequences of blank lines exceeding the maximum.
func (r *MultipleBlankLinesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	lines := ctx.Lines()
	if ctx.File == nil || len(lines) == 0 {
		return nil, nil
	}

	maxConsecutive := ctx.OptionInt("max_consecutive", 1)
	if maxConsecutive < 0 {
		maxConsecutive = 1
	}

	var diags []lint.Diagnostic
	streakStart := 0
	streakCount := 0
	idx := ctx.Idx()

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if lint.IsBlankLine(idx, lineNum) {
			if streakCount == 0 {
				streakStart = lineNum
			}
			streakCount++
		} else {
			if streakCount > maxConsecutive {
				diags = append(diags, r.createDiagnostic(ctx, streakStart, streakCount, maxConsecutive))
			}
			streakCount = 0
		}
	}

	// Handle trailing blank lines streak (but don't double-report with MD047).
	if streakCount > maxConsecutive {
		diags = append(diags, r.createDiagnostic(ctx, streakStart, streakCount, maxConsecutive))
	}

	return diags, nil
}

func (r *MultipleBlankLinesRule) createDiagnostic(
	ctx *lint.RuleContext,
	streakStart, streakCount, maxConsecutive int,
) lint.Diagnostic {
	excessCount := streakCount - maxConsecutive
	firstExcessLine := streakStart + maxConsecutive
	lastExcessLine := streakStart + streakCount - 1

	idx := ctx.Idx()
	firstRec, _ := idx.Line(firstExcessLine)
	lastRec, _ := idx.Line(lastExcessLine)

	builder := fix.NewEditBuilder()
	builder.Delete(firstRec.Offset, lastRec.End())

	pos := lint.SourcePosition{
		StartLine: firstExcessLine, StartColumn: 1,
		EndLine: lastExcessLine, EndColumn: 1,
	}

	return lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
		fmt.Sprintf("Multiple consecutive blank lines (found %d, max %d)", streakCount, maxConsecutive)).
		WithSeverity(config.SeverityWarning).
		WithSuggestion(fmt.Sprintf("Remove %d blank line(s)", excessCount)).
		WithFix(builder).
		Build()
}
