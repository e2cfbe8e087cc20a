package lint

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
)

// FileResult contains the results of linting a single file.
type FileResult struct {
	// File is the scanned file.
	File *ParsedFile

	// Diagnostics contains all issues found.
	Diagnostics []Diagnostic

	// Edits contains validated, sorted edits for auto-fix.
	// Empty if no fixes are available or --fix was not requested.
	Edits []fix.TextEdit

	// SkippedEdits contains edits that were skipped due to conflicts.
	// When multiple edits overlap, earlier edits (by start position) take precedence.
	SkippedEdits []fix.TextEdit

	// EditConflicts is true if any edits were skipped: because they
	// overlapped, or because the batch failed range or UTF-8 validation.
	EditConflicts bool

	// RuleErrors contains any errors from rule execution.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes returns true if any fixes are available.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics with fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.HasFix() {
			count++
		}
	}
	return count
}

// Engine coordinates scanning and rule execution for linting.
type Engine struct {
	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// LintFile scans and lints a single file.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	parsed := ParseFile(path, content)

	// Resolve which rules to run, then remove any this file's
	// per_file_ignores patterns exclude.
	resolved := ResolveRules(e.Registry, cfg)
	ignored := PerFileIgnoredRules(cfg, path)
	if !ignored.empty() {
		filtered := resolved[:0]
		for _, rr := range resolved {
			if ignored.has(rr.Rule.ID()) {
				continue
			}
			filtered = append(filtered, rr)
		}
		resolved = filtered
	}

	result := &FileResult{
		File:        parsed,
		Diagnostics: nil,
		Edits:       nil,
		RuleErrors:  make(map[string]error),
	}

	// Collect all edits for validation.
	var allEdits []fix.TextEdit

	// Run each rule.
	for _, rr := range resolved {
		// Check for cancellation.
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("linting cancelled: %w", ctx.Err())
		default:
		}

		// Create rule context.
		ruleCtx := NewRuleContext(ctx, parsed, cfg, rr.Config)
		ruleCtx.Registry = e.Registry

		// Execute rule.
		diags, err := rr.Rule.Apply(ruleCtx)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		// Process diagnostics.
		for diagIdx := range diags {
			// Apply resolved severity.
			diags[diagIdx].Severity = rr.Severity

			// Ensure file path is set.
			if diags[diagIdx].FilePath == "" {
				diags[diagIdx].FilePath = path
			}

			// Ensure rule name is set for human-readable output.
			if diags[diagIdx].RuleName == "" {
				diags[diagIdx].RuleName = rr.Rule.Name()
			}

			// Collect edits if auto-fix is enabled for this rule, tagging
			// each with the producing rule's id and fix-ordering priority
			// so SortEdits can apply the documented tiebreak.
			if rr.AutoFix && len(diags[diagIdx].FixEdits) > 0 {
				priority := rulePriority(rr.Rule)
				for editIdx := range diags[diagIdx].FixEdits {
					diags[diagIdx].FixEdits[editIdx].RuleID = rr.Rule.ID()
					diags[diagIdx].FixEdits[editIdx].Priority = priority
				}
				allEdits = append(allEdits, diags[diagIdx].FixEdits...)
			}
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	// Warnings from a single file are emitted sorted by (line ASC, column
	// ASC, rule id ASC) regardless of the order rules ran in.
	sort.SliceStable(result.Diagnostics, func(i, j int) bool {
		a, b := result.Diagnostics[i], result.Diagnostics[j]
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.StartColumn != b.StartColumn {
			return a.StartColumn < b.StartColumn
		}
		return a.RuleID < b.RuleID
	})

	// Validate and prepare edits, merging deletions and filtering conflicts.
	// Edit ranges are in the LF-normalized coordinate space the scanner
	// operates on, so validation must bound against the normalized length,
	// not the possibly-CRLF original.
	if len(allEdits) > 0 {
		content := parsed.Doc.Normalized
		if err := fix.ValidateUTF8Boundaries(content, allEdits); err != nil {
			// A fix would split a UTF-8 code point: refuse to apply any
			// edit from this batch, but keep the diagnostics.
			result.Edits = nil
			result.SkippedEdits = allEdits
			result.EditConflicts = true
		} else if accepted, skipped, _, err := fix.PrepareEditsFiltered(allEdits, len(content)); err != nil {
			// Validation error (not conflicts - those are filtered).
			// Still include diagnostics but clear edits.
			result.Edits = nil
			result.SkippedEdits = nil
			result.EditConflicts = true
		} else {
			result.Edits = accepted
			result.SkippedEdits = skipped
			result.EditConflicts = len(skipped) > 0
		}
	}

	return result, nil
}
