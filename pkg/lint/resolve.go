package lint

import (
	"path/filepath"
	"strings"

	"github.com/go-mdlint/mdlint/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// AutoFix indicates whether auto-fix is enabled for this rule.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ruleNameSet builds a normalized set from a list of rule identifiers for
// case/separator-insensitive membership tests (spec §4.6).
type ruleNameSet map[string]struct{}

func newRuleNameSet(names []string) ruleNameSet {
	s := make(ruleNameSet, len(names))
	for _, n := range names {
		s[normalizeRuleKey(n)] = struct{}{}
	}
	return s
}

func (s ruleNameSet) has(id string) bool {
	_, ok := s[normalizeRuleKey(id)]
	return ok
}

func (s ruleNameSet) empty() bool { return len(s) == 0 }

// ResolveRules determines which rules to run based on registry and config,
// following the precedence in spec §4.6. Returns only enabled rules with
// their resolved configuration, in the registry's stable (sorted-by-ID)
// order.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	allRules := registry.Rules()

	enabledIDs := computeEnabledSet(allRules, cfg)

	var resolved []ResolvedRule
	for _, rule := range allRules {
		if !enabledIDs.has(rule.ID()) {
			continue
		}
		resolved = append(resolved, resolveRuleConfig(rule, cfg))
	}
	return resolved
}

// computeEnabledSet implements spec §4.6's three-branch precedence.
func computeEnabledSet(allRules []Rule, cfg *config.Config) ruleNameSet {
	allIDs := make([]string, len(allRules))
	for i, r := range allRules {
		allIDs[i] = r.ID()
	}

	if cfg == nil {
		return defaultEnabledSet(allRules)
	}

	invocationEnable := newRuleNameSet(cfg.EnableRules)
	invocationDisable := newRuleNameSet(cfg.DisableRules)

	// Step 1: invocation enable is an exclusive allow-list.
	if !invocationEnable.empty() {
		result := make(ruleNameSet, len(invocationEnable))
		for id := range invocationEnable {
			result[id] = struct{}{}
		}
		return subtract(result, invocationDisable)
	}

	extendEnable := newRuleNameSet(cfg.ExtendEnable)
	extendDisable := newRuleNameSet(cfg.ExtendDisable)
	globalEnable := newRuleNameSet(cfg.GlobalEnable)
	globalDisable := newRuleNameSet(cfg.GlobalDisable)

	// Step 2: invocation extend_enable/extend_disable present.
	if !extendEnable.empty() || !extendDisable.empty() {
		base := startingSet(globalEnable, allIDs)
		base = union(base, extendEnable)
		base = subtract(base, globalDisable)
		base = subtract(base, extendDisable)
		base = subtract(base, invocationDisable)
		return base
	}

	// Step 3: default path — configuration enable/disable, then
	// invocation disable.
	base := startingSet(globalEnable, allIDs)
	base = subtract(base, globalDisable)
	base = subtract(base, invocationDisable)
	return applyDefaultEnabled(base, allRules, globalEnable)
}

// startingSet returns globalEnable verbatim (as a new set) when non-empty,
// exclusively; otherwise every known rule ID.
func startingSet(globalEnable ruleNameSet, allIDs []string) ruleNameSet {
	if !globalEnable.empty() {
		result := make(ruleNameSet, len(globalEnable))
		for id := range globalEnable {
			result[id] = struct{}{}
		}
		return result
	}
	return newRuleNameSet(allIDs)
}

// applyDefaultEnabled removes rules that default to disabled, unless they
// were explicitly named by GlobalEnable (an explicit mention always wins
// over a rule's own DefaultEnabled()).
func applyDefaultEnabled(base ruleNameSet, allRules []Rule, globalEnable ruleNameSet) ruleNameSet {
	result := make(ruleNameSet, len(base))
	for _, rule := range allRules {
		key := normalizeRuleKey(rule.ID())
		if _, ok := base[key]; !ok {
			continue
		}
		if !rule.DefaultEnabled() && !globalEnable.has(rule.ID()) {
			continue
		}
		result[key] = struct{}{}
	}
	return result
}

func defaultEnabledSet(allRules []Rule) ruleNameSet {
	result := make(ruleNameSet, len(allRules))
	for _, rule := range allRules {
		if rule.DefaultEnabled() {
			result[normalizeRuleKey(rule.ID())] = struct{}{}
		}
	}
	return result
}

func union(a, b ruleNameSet) ruleNameSet {
	result := make(ruleNameSet, len(a)+len(b))
	for k := range a {
		result[k] = struct{}{}
	}
	for k := range b {
		result[k] = struct{}{}
	}
	return result
}

func subtract(a, b ruleNameSet) ruleNameSet {
	if b.empty() {
		return a
	}
	result := make(ruleNameSet, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			continue
		}
		result[k] = struct{}{}
	}
	return result
}

// resolveRuleConfig resolves per-rule severity/auto-fix/options from the
// rule-specific configuration section plus fixable/unfixable gating.
func resolveRuleConfig(rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  true,
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}

	if cfg == nil {
		return rr
	}

	if ruleCfg, ok := cfg.Rules[rule.ID()]; ok {
		rr.Config = &ruleCfg
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
	}

	rr.AutoFix = rr.AutoFix && isFixable(rule.ID(), cfg)

	// Legacy CLI fix-rules filter, applied after config-level gating.
	if len(cfg.FixRules) > 0 {
		rr.AutoFix = false
		for _, id := range cfg.FixRules {
			if normalizeRuleKey(id) == normalizeRuleKey(rule.ID()) && rule.CanFix() {
				rr.AutoFix = true
				break
			}
		}
	}

	if !cfg.Fix {
		rr.AutoFix = false
	}

	return rr
}

// isFixable implements spec §4.6's fixable/unfixable gating: a rule's
// fixes apply only if it is not in Unfixable, and (when Fixable is
// non-empty) it is in Fixable.
func isFixable(ruleID string, cfg *config.Config) bool {
	unfixable := newRuleNameSet(cfg.Unfixable)
	if unfixable.has(ruleID) {
		return false
	}
	fixable := newRuleNameSet(cfg.Fixable)
	if fixable.empty() {
		return true
	}
	return fixable.has(ruleID)
}

// PerFileIgnoredRules returns the union of rule IDs ignored for path across
// every matching per_file_ignores pattern (spec §4.6). Patterns are
// matched against both the full path and the base name so simple patterns
// like "CHANGELOG.md" work regardless of directory.
func PerFileIgnoredRules(cfg *config.Config, path string) ruleNameSet {
	ignored := make(ruleNameSet)
	if cfg == nil {
		return ignored
	}
	base := filepath.Base(path)
	for _, pfi := range cfg.PerFileIgnores {
		if globMatch(pfi.Pattern, path) || globMatch(pfi.Pattern, base) {
			for _, id := range pfi.Rules {
				ignored[normalizeRuleKey(id)] = struct{}{}
			}
		}
	}
	return ignored
}

func globMatch(pattern, path string) bool {
	ok, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if ok {
		return true
	}
	// Support "**/"-prefixed patterns as a simple suffix match, since
	// filepath.Match has no recursive-wildcard support.
	if strings.HasPrefix(pattern, "**/") {
		return globMatch(pattern[3:], path)
	}
	return false
}
