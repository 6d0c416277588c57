package catalog

import (
	"fmt"
	"sort"
	"strings"

	"bike-config/core/pricing"
	"bike-config/core/types"
)

// PartRule checks a single catalog entry
type PartRule func(types.Part) error

// DefaultPartRules returns the standard entry checks
func DefaultPartRules() []PartRule {
	return []PartRule{
		validateReference,
		validatePrice,
		validateLink,
	}
}

func validateReference(p types.Part) error {
	if strings.TrimSpace(string(p.Reference)) == "" {
		return fmt.Errorf("entry has no internal reference")
	}
	return nil
}

func validatePrice(p types.Part) error {
	_, _, err := pricing.ParsePrice(p.Price)
	return err
}

func validateLink(p types.Part) error {
	if p.Link == "" {
		return nil
	}
	if !strings.HasPrefix(p.Link, "http://") && !strings.HasPrefix(p.Link, "https://") {
		return fmt.Errorf("link %q is not an http(s) URL", p.Link)
	}
	return nil
}

// Report is the result of checking a catalog against the keys the rules
// can produce
type Report struct {
	Entries    int                  `json:"entries"`
	Missing    []types.ReferenceKey `json:"missing,omitempty"`
	Duplicates []types.ReferenceKey `json:"duplicates,omitempty"`
	Unused     []types.ReferenceKey `json:"unused,omitempty"`
	Stale      []types.ReferenceKey `json:"stale,omitempty"`
	Problems   []string             `json:"problems,omitempty"`
}

// OK reports whether every required key resolves and every entry passed
// the entry rules
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Problems) == 0
}

// Validate checks parts against the required keys and the entry rules.
// Duplicates, unused and stale entries are reported but do not fail the
// catalog.
func Validate(parts []types.Part, required []types.ReferenceKey, rules []PartRule) Report {
	report := Report{Entries: len(parts)}

	count := make(map[types.ReferenceKey]int, len(parts))
	for _, p := range parts {
		count[p.Reference]++
		if count[p.Reference] == 2 {
			report.Duplicates = append(report.Duplicates, p.Reference)
		}
		if count[p.Reference] == 1 && !p.UpToDate {
			report.Stale = append(report.Stale, p.Reference)
		}
		for _, rule := range rules {
			if err := rule(p); err != nil {
				report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", p.Reference, err))
			}
		}
	}

	wanted := make(map[types.ReferenceKey]bool, len(required))
	for _, k := range required {
		wanted[k] = true
		if count[k] == 0 {
			report.Missing = append(report.Missing, k)
		}
	}
	for k := range count {
		if !wanted[k] {
			report.Unused = append(report.Unused, k)
		}
	}

	sortKeys(report.Missing)
	sortKeys(report.Duplicates)
	sortKeys(report.Unused)
	sortKeys(report.Stale)
	return report
}

func sortKeys(keys []types.ReferenceKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
