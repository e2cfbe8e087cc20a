package rules

import (
	"fmt"
	"strings"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
	"github.com/go-mdlint/mdlint/pkg/langdetect"
	"github.com/go-mdlint/mdlint/pkg/lint"
	"github.com/go-mdlint/mdlint/pkg/scan"
)

// codeBlockPos returns the diagnostic position spanning a code block.
func codeBlockPos(cb scan.CodeBlock) lint.SourcePosition {
	return lint.SourcePosition{
		StartLine: cb.StartLine, StartColumn: 1,
		EndLine: cb.EndLine, EndColumn: 1,
	}
}

// codeBlockContentLines returns the first/last line numbers of a code
// block's content, excluding fence lines for fenced blocks.
func codeBlockContentLines(cb scan.CodeBlock) (int, int) {
	if cb.Type == scan.Indented {
		return cb.StartLine, cb.EndLine
	}
	start := cb.StartLine + 1
	end := cb.EndLine
	if !cb.Unclosed {
		end = cb.EndLine - 1
	}
	return start, end
}

// CodeBlockLanguageRule checks that fenced code blocks have a language specified.
type CodeBlockLanguageRule struct {
	lint.BaseRule
}

// NewCodeBlockLanguageRule creates a new code block language rule.
func NewCodeBlockLanguageRule() *CodeBlockLanguageRule {
	return &CodeBlockLanguageRule{
		BaseRule: lint.NewBaseRule(
			"MD040",
			"fenced-code-language",
			"Fenced code blocks should have a language specified",
			[]string{"code"},
			false, // Choice of language is editorial; not auto-fixed.
		),
	}
}

// Apply checks that fenced code blocks have an info string.
func (r *CodeBlockLanguageRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	allowedLanguages := ctx.Option("allowed_languages", nil)
	var allowedSet map[string]bool
	if langs, ok := allowedLanguages.([]any); ok && len(langs) > 0 {
		allowedSet = make(map[string]bool)
		for _, l := range langs {
			if s, ok := l.(string); ok {
				allowedSet[strings.ToLower(s)] = true
			}
		}
	}

	var diags []lint.Diagnostic

	for _, cb := range ctx.File.CodeBlocks {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		// Skip indented code blocks.
		if cb.Type == scan.Indented {
			continue
		}

		langName := cb.Language

		if langName == "" {
			suggestion := "Add a language identifier after the opening fence"
			if detected := r.detectLanguage(ctx, cb); detected != "" {
				suggestion = fmt.Sprintf("Add a language identifier after the opening fence (detected: %s)", detected)
			}

			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), codeBlockPos(cb),
				"Fenced code block has no language specified").
				WithSeverity(config.SeverityWarning).
				WithSuggestion(suggestion).
				Build()

			diags = append(diags, diag)
			continue
		}

		// Check against allowed languages if configured.
		if allowedSet != nil && !allowedSet[langName] {
			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), codeBlockPos(cb),
				fmt.Sprintf("Language '%s' is not in the allowed list", langName)).
				WithSeverity(config.SeverityWarning).
				WithSuggestion("Use one of the allowed language identifiers").
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// detectLanguage runs language detection over a code block's content and
// returns the guessed language name, or "" if detection is inconclusive.
// The result is surfaced only as a diagnostic suggestion: MD040 never
// auto-fixes, since the choice of language is editorial.
func (r *CodeBlockLanguageRule) detectLanguage(ctx *lint.RuleContext, cb scan.CodeBlock) string {
	startLine, endLine := codeBlockContentLines(cb)
	content := r.getContent(ctx, startLine, endLine)
	if len(content) == 0 {
		return ""
	}

	detectedLang := langdetect.Detect(content)
	if detectedLang == "text" {
		return ""
	}
	return detectedLang
}

// getContent returns the joined byte content spanning [startLine, endLine].
func (r *CodeBlockLanguageRule) getContent(ctx *lint.RuleContext, startLine, endLine int) []byte {
	if startLine > endLine {
		return nil
	}
	idx := ctx.Idx()
	var out []byte
	for ln := startLine; ln <= endLine; ln++ {
		if ln > startLine {
			out = append(out, '\n')
		}
		out = append(out, idx.Content(ln)...)
	}
	return out
}

// CodeBlockStyleRule enforces consistent code block style (fenced vs indented).
type CodeBlockStyleRule struct {
	lint.BaseRule
}

// NewCodeBlockStyleRule creates a new code block style rule.
func NewCodeBlockStyleRule() *CodeBlockStyleRule {
	return &CodeBlockStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD046",
			"code-block-style",
			"Code block style should be consistent",
			[]string{"code", "style"},
			false, // Not auto-fixable (complex transformation).
		),
	}
}

// CodeBlockStyle represents the style of code blocks.
type CodeBlockStyle string

const (
	// CodeBlockFenced uses fenced code blocks (```).
	CodeBlockFenced CodeBlockStyle = "fenced"
	// CodeBlockIndented uses indented code blocks.
	CodeBlockIndented CodeBlockStyle = "indented"
	// CodeBlockConsistent uses whatever style is first encountered.
	CodeBlockConsistent CodeBlockStyle = "consistent"
)

// Apply checks that code blocks use a consistent style.
func (r *CodeBlockStyleRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	configStyle := CodeBlockStyle(ctx.OptionString("style", string(CodeBlockFenced)))
	effectiveStyle := configStyle
	if configStyle == CodeBlockConsistent {
		effectiveStyle = "" // Will be set from first code block.
	}

	var diags []lint.Diagnostic

	for _, cb := range ctx.File.CodeBlocks {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		var detectedStyle CodeBlockStyle
		if cb.Type == scan.Fenced {
			detectedStyle = CodeBlockFenced
		} else {
			detectedStyle = CodeBlockIndented
		}

		// Set consistent style from first code block.
		if effectiveStyle == "" {
			effectiveStyle = detectedStyle
			continue
		}

		// Check for style mismatch.
		if detectedStyle != effectiveStyle {
			msg := fmt.Sprintf("Code block style '%s' does not match expected '%s'",
				detectedStyle, effectiveStyle)

			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), codeBlockPos(cb), msg).
				WithSeverity(config.SeverityWarning).
				WithSuggestion(fmt.Sprintf("Use %s code blocks", effectiveStyle)).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// CodeFenceStyleRule enforces consistent code fence style (backtick vs tilde).
type CodeFenceStyleRule struct {
	lint.BaseRule
}

// NewCodeFenceStyleRule creates a new code fence style rule.
func NewCodeFenceStyleRule() *CodeFenceStyleRule {
	return &CodeFenceStyleRule{
		BaseRule: lint.NewBaseRule(
			"MD048",
			"code-fence-style",
			"Code fence style should be consistent",
			[]string{"code", "style"},
			true, // Auto-fixable.
		),
	}
}

// FenceStyle represents the style of code fences.
type FenceStyle string

const (
	// FenceBacktick uses backticks (```).
	FenceBacktick FenceStyle = "backtick"
	// FenceTilde uses tildes (~~~).
	FenceTilde FenceStyle = "tilde"
	// FenceConsistent uses whatever style is first encountered.
	FenceConsistent FenceStyle = "consistent"
)

// Apply checks that fenced code blocks use a consistent fence style.
func (r *CodeFenceStyleRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	configStyle := FenceStyle(ctx.OptionString("style", string(FenceBacktick)))
	effectiveStyle := configStyle
	effectiveChar := byte('`')

	switch configStyle {
	case FenceConsistent:
		effectiveStyle = "" // Will be set from first fence.
		effectiveChar = 0
	case FenceTilde:
		effectiveChar = '~'
	case FenceBacktick:
		// Default values already set.
	}

	var diags []lint.Diagnostic

	for _, cb := range ctx.File.CodeBlocks {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if cb.Type != scan.Fenced || cb.FenceChar == 0 {
			continue
		}

		var detectedStyle FenceStyle
		if cb.FenceChar == '`' {
			detectedStyle = FenceBacktick
		} else {
			detectedStyle = FenceTilde
		}

		// Set consistent style from first fence.
		if effectiveStyle == "" {
			effectiveStyle = detectedStyle
			effectiveChar = cb.FenceChar
			continue
		}

		// Check for style mismatch.
		if cb.FenceChar != effectiveChar {
			msg := fmt.Sprintf("Code fence style '%s' does not match expected '%s'",
				detectedStyle, effectiveStyle)

			builder := r.buildFenceFix(ctx, cb, effectiveChar)

			diagBuilder := lint.NewDiagnosticAt(r.ID(), ctx.Path(), codeBlockPos(cb), msg).
				WithSeverity(config.SeverityWarning).
				WithSuggestion(fmt.Sprintf("Use %s for code fences", effectiveStyle))

			if builder != nil {
				diagBuilder = diagBuilder.WithFix(builder)
			}

			diags = append(diags, diagBuilder.Build())
		}
	}

	return diags, nil
}

func (r *CodeFenceStyleRule) buildFenceFix(ctx *lint.RuleContext, cb scan.CodeBlock, expectedChar byte) *fix.EditBuilder {
	fenceLength := cb.FenceLength
	if fenceLength < 3 {
		fenceLength = 3
	}

	newFence := strings.Repeat(string(expectedChar), fenceLength)
	builder := fix.NewEditBuilder()
	idx := ctx.Idx()

	replaceFenceOnLine := func(lineNum int) {
		rec, ok := idx.Line(lineNum)
		if !ok {
			return
		}
		content := idx.Content(lineNum)

		fenceStart := -1
		fenceEnd := -1
		for i, ch := range content {
			if ch == '`' || ch == '~' {
				if fenceStart < 0 {
					fenceStart = i
				}
				fenceEnd = i + 1
			} else if fenceStart >= 0 {
				break
			}
		}
		if fenceStart < 0 {
			return
		}
		if fenceEnd > len(content) {
			fenceEnd = len(content)
		}
		builder.ReplaceRange(rec.Offset+fenceStart, rec.Offset+fenceEnd, newFence)
	}

	replaceFenceOnLine(cb.StartLine)
	if cb.EndLine != cb.StartLine && !cb.Unclosed {
		replaceFenceOnLine(cb.EndLine)
	}

	return builder
}

// CommandsShowOutputRule checks for unnecessary dollar signs in shell code blocks.
type CommandsShowOutputRule struct {
	lint.BaseRule
}

// NewCommandsShowOutputRule creates a new commands-show-output rule.
func NewCommandsShowOutputRule() *CommandsShowOutputRule {
	return &CommandsShowOutputRule{
		BaseRule: lint.NewBaseRule(
			"MD014",
			"commands-show-output",
			"Dollar signs used before commands without showing output",
			[]string{"code"},
			true, // Auto-fixable
		),
	}
}

// Apply checks for unnecessary dollar signs in code blocks.
func (r *CommandsShowOutputRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, cb := range ctx.File.CodeBlocks {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if diag := r.checkCodeBlock(ctx, cb); diag != nil {
			diags = append(diags, *diag)
		}
	}

	return diags, nil
}

func (r *CommandsShowOutputRule) checkCodeBlock(ctx *lint.RuleContext, cb scan.CodeBlock) *lint.Diagnostic {
	if !r.isShellCodeBlock(cb) {
		return nil
	}

	contentLines := r.getCodeBlockContentLines(ctx, cb)
	if len(contentLines) == 0 {
		return nil
	}

	if !r.hasOnlyDollarCommands(contentLines) {
		return nil
	}

	builder := r.buildDollarRemovalFix(contentLines)
	diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), codeBlockPos(cb),
		"Dollar signs used before commands without showing output").
		WithSeverity(config.SeverityWarning).
		WithSuggestion("Remove dollar signs from command-only code blocks").
		WithFix(builder).
		Build()
	return &diag
}

func (r *CommandsShowOutputRule) isShellCodeBlock(cb scan.CodeBlock) bool {
	info := cb.Language
	return info == "" || info == "sh" || info == "shell" || info == "bash" ||
		info == "zsh" || info == "console" || info == "terminal"
}

func (r *CommandsShowOutputRule) startsWithDollar(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "$ ") || strings.HasPrefix(trimmed, "$\t") || trimmed == "$"
}

func (r *CommandsShowOutputRule) hasOnlyDollarCommands(lines []codeLineInfo) bool {
	hasAnyCommand := false

	for lineIdx, line := range lines {
		trimmed := strings.TrimSpace(line.content)
		if trimmed == "" {
			continue
		}

		if !r.startsWithDollar(trimmed) {
			return false
		}
		hasAnyCommand = true

		// Check if there's output after this command
		if r.hasOutputAfter(lines, lineIdx) {
			return false
		}
	}

	return hasAnyCommand
}

func (r *CommandsShowOutputRule) hasOutputAfter(lines []codeLineInfo, startIdx int) bool {
	for j := startIdx + 1; j < len(lines); j++ {
		nextTrimmed := strings.TrimSpace(lines[j].content)
		if nextTrimmed == "" {
			continue
		}
		// If next non-empty line doesn't start with $, it's output
		return !r.startsWithDollar(nextTrimmed)
	}
	return false
}

func (r *CommandsShowOutputRule) buildDollarRemovalFix(lines []codeLineInfo) *fix.EditBuilder {
	builder := fix.NewEditBuilder()
	for _, line := range lines {
		trimmed := strings.TrimSpace(line.content)
		if trimmed == "" {
			continue
		}

		dollarIdx := strings.Index(line.content, "$")
		if dollarIdx < 0 {
			continue
		}

		removeEnd := dollarIdx + 1
		if removeEnd < len(line.content) && (line.content[removeEnd] == ' ' || line.content[removeEnd] == '\t') {
			removeEnd++
		}
		builder.Delete(line.startOffset+dollarIdx, line.startOffset+removeEnd)
	}
	return builder
}

type codeLineInfo struct {
	content     string
	startOffset int
	lineNum     int
}

func (r *CommandsShowOutputRule) getCodeBlockContentLines(ctx *lint.RuleContext, cb scan.CodeBlock) []codeLineInfo {
	var lines []codeLineInfo

	idx := ctx.Idx()
	startLine, endLine := codeBlockContentLines(cb)

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		rec, ok := idx.Line(lineNum)
		if !ok {
			continue
		}
		content := string(idx.Content(lineNum))
		lines = append(lines, codeLineInfo{
			content:     content,
			startOffset: rec.Offset,
			lineNum:     lineNum,
		})
	}

	return lines
}
