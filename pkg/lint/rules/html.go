package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/lint"
)

// InlineHTMLRule restricts the use of raw HTML in Markdown.
type InlineHTMLRule struct {
	lint.BaseRule
}

// NewInlineHTMLRule creates a new inline HTML rule.
func NewInlineHTMLRule() *InlineHTMLRule {
	return &InlineHTMLRule{
		BaseRule: lint.NewBaseRule(
			"MD033",
			"no-inline-html",
			"Inline HTML should be avoided or restricted to allowed elements",
			[]string{"html"},
			false, // Not auto-fixable.
		),
	}
}

// htmlTagPattern matches an opening or closing HTML tag.
var htmlTagPattern = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)([^>]*)>`)

// commonmarkAllowedHTMLElements returns the default allowed elements for CommonMark.
// CommonMark is strict - no HTML allowed by default.
func commonmarkAllowedHTMLElements() []string {
	return nil
}

// gfmAllowedHTMLElements returns the default allowed elements for GFM.
// Includes common formatting elements used in GitHub.
func gfmAllowedHTMLElements() []string {
	return []string{"br", "sup", "sub", "details", "summary", "kbd", "abbr"}
}

// DefaultEnabled returns false - this rule is opt-in.
func (r *InlineHTMLRule) DefaultEnabled() bool {
	return false
}

// Apply checks for inline and block HTML usage.
func (r *InlineHTMLRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	allowedElements := r.getAllowedElements(ctx)
	allowedSet := make(map[string]bool)
	for _, el := range allowedElements {
		allowedSet[strings.ToLower(el)] = true
	}

	idx := ctx.Idx()
	lines := ctx.Lines()

	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= len(lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		li := lines[lineNum-1]
		if li.InCodeBlock || li.IsFenceLine || li.InFrontMatter || li.InHTMLComment {
			continue
		}

		content := idx.Content(lineNum)
		matches := htmlTagPattern.FindAllSubmatchIndex(content, -1)
		if matches == nil {
			continue
		}

		codeSpans := spansOnLine(ctx.Aux(), lineNum)

		for _, m := range matches {
			startCol, endCol := m[0]+1, m[1]+1
			if inAnyCodeSpan(codeSpans, startCol, endCol) {
				continue
			}

			tagName := strings.ToLower(string(content[m[4]:m[5]]))
			if allowedSet[tagName] {
				continue
			}

			nodeType := "Inline HTML"
			if li.InHTMLBlock {
				nodeType = "HTML block"
			}

			var suggestion string
			if len(allowedSet) > 0 {
				allowed := make([]string, 0, len(allowedSet))
				for k := range allowedSet {
					allowed = append(allowed, k)
				}
				suggestion = "Allowed elements: " + strings.Join(allowed, ", ")
			} else {
				suggestion = "Remove HTML or use Markdown syntax"
			}

			pos := lint.SourcePosition{
				StartLine: lineNum, StartColumn: startCol,
				EndLine: lineNum, EndColumn: endCol,
			}

			diag := lint.NewDiagnosticAt(r.ID(), ctx.Path(), pos,
				fmt.Sprintf("%s element '%s' is not allowed", nodeType, tagName)).
				WithSeverity(config.SeverityWarning).
				WithSuggestion(suggestion).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

func (r *InlineHTMLRule) getAllowedElements(ctx *lint.RuleContext) []string {
	// Check for explicit configuration.
	if allowed := ctx.Option("allowed_elements", nil); allowed != nil {
		if list, ok := allowed.([]any); ok {
			result := make([]string, 0, len(list))
			for _, v := range list {
				if s, ok := v.(string); ok {
					result = append(result, s)
				}
			}
			return result
		}
	}

	// Use flavor-based defaults.
	if ctx.Config != nil && ctx.Config.Flavor == config.FlavorGFM {
		return gfmAllowedHTMLElements()
	}

	return commonmarkAllowedHTMLElements()
}
