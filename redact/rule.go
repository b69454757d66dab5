package redact

import (
	"fmt"
	"strings"

	"github.com/relloyd/stagehand/logger"
)

// Tactic is a named masking transformation applied to one column.
type Tactic string

const (
	TacticRedact          Tactic = "redact" // NULL
	TacticFingerprintHash Tactic = "FF"     // 64-bit fingerprint of the value as text
	TacticMask            Tactic = "mask"   // '****' plus the last 4 characters
	TacticHash            Tactic = "hash"   // hex SHA-256 of the value's bytes
)

// Tactics lists the known tactics.
var Tactics = []Tactic{TacticRedact, TacticFingerprintHash, TacticMask, TacticHash}

// IsKnown returns true if t is one of Tactics.
func (t Tactic) IsKnown() bool {
	for _, k := range Tactics {
		if t == k {
			return true
		}
	}
	return false
}

// Rule is one sensitive-column policy entry of the form dataset:table.column.tactic.
type Rule struct {
	Dataset string `json:"dataset"`
	Table   string `json:"table"`
	Column  string `json:"column"`
	Tactic  Tactic `json:"tactic"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%v:%v.%v.%v", r.Dataset, r.Table, r.Column, r.Tactic)
}

// ParseResult holds either a Rule or the reason an entry was malformed.
type ParseResult struct {
	Rule      Rule
	Malformed string
}

// OK returns true if the entry parsed into a Rule.
func (p ParseResult) OK() bool {
	return p.Malformed == ""
}

// ParseRule parses s of the form dataset:table.column.tactic.
// The tactic is not checked here; Engine skips unknown tactics when it applies rules.
func ParseRule(s string) ParseResult {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ParseResult{Malformed: fmt.Sprintf("expecting 1 ':' in %q", s)}
	}
	fields := strings.Split(parts[1], ".")
	if len(fields) != 3 {
		return ParseResult{Malformed: fmt.Sprintf("expecting 2 '.' after ':' in %q", s)}
	}
	for _, f := range append([]string{parts[0]}, fields...) {
		if strings.TrimSpace(f) == "" {
			return ParseResult{Malformed: fmt.Sprintf("empty field in %q", s)}
		}
	}
	return ParseResult{Rule: Rule{
		Dataset: parts[0],
		Table:   fields[0],
		Column:  fields[1],
		Tactic:  Tactic(fields[2]),
	}}
}

// ParseRules parses every entry, logging a warning for and skipping the malformed ones.
func ParseRules(log logger.Logger, entries []string) []Rule {
	rules := make([]Rule, 0, len(entries))
	for _, e := range entries {
		res := ParseRule(e)
		if !res.OK() {
			log.Warn("Skipping malformed sensitive column config: ", res.Malformed)
			continue
		}
		rules = append(rules, res.Rule)
	}
	return rules
}
