package lint

import (
	"context"

	"github.com/go-mdlint/mdlint/pkg/config"
	"github.com/go-mdlint/mdlint/pkg/fix"
	"github.com/go-mdlint/mdlint/pkg/lint/refs"
	"github.com/go-mdlint/mdlint/pkg/scan"
)

// RuleContext provides all context needed by a rule to perform linting.
//
// Design note: RuleContext stores context.Context as a field (Ctx) rather than
// passing it as a method parameter. This is acceptable because RuleContext is
// a short-lived parameter object created per-rule-invocation, not a long-lived
// struct. This design simplifies the Rule interface (single Apply method) while
// still providing cancellation support via the Cancelled() helper.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// File is the scanned file.
	File *ParsedFile

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Builder accumulates text edits for auto-fix.
	Builder *fix.EditBuilder

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry

	// cache holds per-file collections of lines by structural kind, built
	// lazily and shared across every rule run against this file.
	cache *NodeCache

	// refCtx is the cached reference context, lazily initialized.
	refCtx *refs.Context
}

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(
	ctx context.Context,
	file *ParsedFile,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	var cache *NodeCache
	if file != nil {
		cache = newNodeCache(file.Lines, file.CodeBlocks, file.Aux)
	}

	return &RuleContext{
		Ctx:        ctx,
		File:       file,
		Config:     cfg,
		RuleConfig: ruleCfg,
		Builder:    fix.NewEditBuilder(),
		cache:      cache,
	}
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Lines returns the per-line classification for the whole file.
func (rc *RuleContext) Lines() []scan.LineInfo {
	if rc.File == nil {
		return nil
	}
	return rc.File.Lines
}

// Idx returns the file's byte/line index.
func (rc *RuleContext) Idx() *scan.LineIndex {
	if rc.File == nil {
		return nil
	}
	return rc.File.Idx
}

// Aux returns the file's lazily computed auxiliary detectors.
func (rc *RuleContext) Aux() *scan.Aux {
	if rc.File == nil {
		return nil
	}
	return rc.File.Aux
}

// Cache returns the per-file structural-kind cache, building it on first use.
func (rc *RuleContext) Cache() *NodeCache {
	if rc.cache == nil {
		rc.cache = newNodeCache(rc.Lines(), rc.File.CodeBlocks, rc.Aux())
	}
	return rc.cache
}

// Path returns the logical file path.
func (rc *RuleContext) Path() string {
	if rc.File == nil {
		return ""
	}
	return rc.File.Path
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns a rule-specific integer option, or the default.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	v := rc.Option(key, defaultValue)
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a rule-specific string option, or the default.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	v := rc.Option(key, defaultValue)
	if s, ok := v.(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a rule-specific boolean option, or the default.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	v := rc.Option(key, defaultValue)
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string slice option, or the default.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	// Handle []interface{} from YAML/JSON parsing
	if iface, ok := v.([]interface{}); ok {
		result := make([]string, 0, len(iface))
		for _, item := range iface {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// RefContext returns the reference context for this file, building it lazily.
// The reference context contains all link/image usages, reference definitions,
// and document anchors needed by reference-tracking rules (MD051-MD054).
func (rc *RuleContext) RefContext() *refs.Context {
	if rc.refCtx == nil {
		rc.refCtx = refs.Collect(rc.Lines(), rc.Aux())
	}
	return rc.refCtx
}
