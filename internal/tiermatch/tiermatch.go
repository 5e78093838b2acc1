// Package tiermatch decides which price tier a context-free
// {{price_per_applicant}} token refers to. An ordered rule list (most
// specific band first) is matched against the document text immediately
// preceding the token; when no rule fires, tiers with a configured price
// are consumed sequentially by a cursor shared across the whole pass.
//
// The rules are textual and template-dependent, so they are data, not
// code: the built-in set covers English and Hebrew applicant-count
// phrasing and a custom set can be loaded from YAML.
package tiermatch

import (
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ContextWindow is how many characters of preceding document text are
// inspected per occurrence.
const ContextWindow = 200

// Rule maps a set of phrase patterns to one tier key.
type Rule struct {
	Tier     string
	patterns []*regexp.Regexp
}

// RuleSet is an ordered list of rules, tried first to last.
type RuleSet struct {
	rules []Rule
}

// defaultRules lists bands most specific first so that e.g. "10-15
// applicants" can never fall through to the single-applicant rule.
var defaultRules = []struct {
	tier     string
	patterns []string
}{
	{"16+", []string{
		`16\s*\+`,
		`(?i)\b16\s+or\s+more\s+applicants?\b`,
		`\b16\s+מבקשים\s+ומעלה`,
		`\b16\s+ומעלה`,
	}},
	{"10-15", []string{
		`(?i)\b10\s*[-–]\s*15\s+applicants?\b`,
		`(?i)\b10\s+to\s+15\s+applicants?\b`,
		`\b10\s*[-–]\s*15\s+מבקשים`,
	}},
	{"8-9", []string{
		`(?i)\b8\s*[-–]\s*9\s+applicants?\b`,
		`(?i)\b8\s+to\s+9\s+applicants?\b`,
		`\b8\s*[-–]\s*9\s+מבקשים`,
	}},
	{"4-7", []string{
		`(?i)\b4\s*[-–]\s*7\s+applicants?\b`,
		`(?i)\b4\s+to\s+7\s+applicants?\b`,
		`\b4\s*[-–]\s*7\s+מבקשים`,
	}},
	{"3", []string{
		`(?i)\b3\s+applicants?\b`,
		`(?i)\bthree\s+applicants?\b`,
		`\b3\s+מבקשים`,
		`שלושה\s+מבקשים`,
	}},
	{"2", []string{
		`(?i)\b2\s+applicants?\b`,
		`(?i)\btwo\s+applicants?\b`,
		`\b2\s+מבקשים`,
		`שני\s+מבקשים`,
	}},
	{"1", []string{
		`(?i)\b1\s+applicant\b`,
		`(?i)\b(one|single)\s+applicant\b`,
		`מבקש\s+אחד`,
	}},
}

// DefaultRules returns the built-in English + Hebrew rule set.
func DefaultRules() *RuleSet {
	rs := &RuleSet{}
	for _, d := range defaultRules {
		r := Rule{Tier: d.tier}
		for _, p := range d.patterns {
			r.patterns = append(r.patterns, regexp.MustCompile(p))
		}
		rs.rules = append(rs.rules, r)
	}
	return rs
}

type ruleFile struct {
	Rules []struct {
		Tier     string   `yaml:"tier"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"rules"`
}

// LoadRules parses a YAML rule set. Rule order in the file is match order.
func LoadRules(data []byte) (*RuleSet, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tier rules: %w", err)
	}
	rs := &RuleSet{}
	for _, fr := range f.Rules {
		if fr.Tier == "" {
			return nil, fmt.Errorf("tier rules: rule with empty tier key")
		}
		r := Rule{Tier: fr.Tier}
		for _, p := range fr.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("tier rules: pattern %q: %w", p, err)
			}
			r.patterns = append(r.patterns, re)
		}
		rs.rules = append(rs.rules, r)
	}
	return rs, nil
}

// LoadRulesFile loads a YAML rule set from disk.
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tier rules: %w", err)
	}
	return LoadRules(data)
}

// Match returns the first rule tier whose patterns match the context.
func (rs *RuleSet) Match(context string) (string, bool) {
	for _, r := range rs.rules {
		for _, re := range r.patterns {
			if re.MatchString(context) {
				return r.Tier, true
			}
		}
	}
	return "", false
}

// Window returns the last ContextWindow characters of s.
func Window(s string) string {
	if utf8.RuneCountInString(s) <= ContextWindow {
		return s
	}
	runes := []rune(s)
	return string(runes[len(runes)-ContextWindow:])
}

// Report counts how each price_per_applicant occurrence was resolved in
// one pass. A resolved count that differs from the number of configured
// tiers is worth surfacing to the template author.
type Report struct {
	Placeholders int `json:"placeholders"`
	ByRule       int `json:"by_rule"`
	ByFallback   int `json:"by_fallback"`
	Unresolved   int `json:"unresolved"`
}

// Mismatch reports whether the pass resolved a different number of
// placeholders than there are priced tiers.
func (r Report) Mismatch(pricedTiers int) bool {
	return r.Placeholders > 0 && r.ByRule+r.ByFallback != pricedTiers
}

// Cursor threads tier disambiguation state through one resolution pass.
// The fallback position is shared across every occurrence in the pass,
// regardless of which branch of the tree it sits in.
type Cursor struct {
	rules    *RuleSet
	eligible []string // priced tiers in ascending canonical order
	next     int
	report   Report
}

// NewCursor builds a cursor over the given rule set and the priced tiers
// in ascending canonical order.
func NewCursor(rules *RuleSet, eligible []string) *Cursor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Cursor{rules: rules, eligible: eligible}
}

// Resolve decides the tier for one occurrence. A specific phrase match
// always wins; otherwise the next priced tier is consumed from the shared
// fallback position. Returns false when the fallback is exhausted.
func (c *Cursor) Resolve(context string) (string, bool) {
	c.report.Placeholders++
	if tier, ok := c.rules.Match(Window(context)); ok {
		c.report.ByRule++
		return tier, true
	}
	if c.next < len(c.eligible) {
		tier := c.eligible[c.next]
		c.next++
		c.report.ByFallback++
		return tier, true
	}
	c.report.Unresolved++
	return "", false
}

// Report returns the resolution counts accumulated so far.
func (c *Cursor) Report() Report {
	return c.report
}
