// Package rules maps a bicycle specification to catalog reference keys.
//
// Each subsystem is a decision table over the specification's enums and gear
// counts. A rule either yields keys, deliberately skips with a reason, or
// reports a mismatch; a rule that yields nothing without saying why is
// itself reported as a mismatch.
package rules

import (
	"fmt"

	"bike-config/core/types"
)

// Categories name the component groups a rule resolves
const (
	CategoryFrame            = "Frame"
	CategoryHandlebars       = "HandleBars"
	CategoryWheels           = "Wheels"
	CategoryGroupset         = "Groupset"
	CategorySTIShifter       = "STI-Shifter"
	CategoryHydraulicShifter = "Hydraulic-Shifter"
	CategoryTriggerShifter   = "Trigger-Shifter"
	CategoryBrakeLevers      = "Brake-Levers"
	CategoryBrakeCaliper     = "Brake-Caliper"
	CategoryChainring        = "Chainring"
	CategoryCassette         = "Cassette"
	CategoryChain            = "Chain"
	CategoryRearDerailleur   = "Rear-Derailleur"
	CategoryFrontDerailleur  = "Front-Derailleur"
)

// Decision is what a rule produced for one specification
type Decision struct {
	Keys []types.ReferenceKey

	// Skip explains why the rule contributes no part, e.g. calipers that
	// ship with hydraulic levers.
	Skip string
}

func keys(k ...types.ReferenceKey) (Decision, error) {
	return Decision{Keys: k}, nil
}

func skip(reason string) (Decision, error) {
	return Decision{Skip: reason}, nil
}

// MismatchError reports a specification no branch of a rule accepts
type MismatchError struct {
	Category string
	Rule     string
	Key      types.ReferenceKey
	Reason   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s/%s: no rule matched: %s", e.Category, e.Rule, e.Reason)
}

func unmatched(format string, args ...interface{}) (Decision, error) {
	return Decision{}, &MismatchError{Reason: fmt.Sprintf(format, args...)}
}

// DecideFunc is the decision table of a rule
type DecideFunc func(spec types.BicycleSpecification) (Decision, error)

// Rule is a named decision table for one component category
type Rule struct {
	Category string
	Name     string
	Decide   DecideFunc
}

// Apply runs the rule. Any failure comes back as a *MismatchError tagged
// with the rule's category and name.
func (r Rule) Apply(spec types.BicycleSpecification) (Decision, *MismatchError) {
	d, err := r.Decide(spec)
	if err != nil {
		m, ok := err.(*MismatchError)
		if !ok {
			m = &MismatchError{Reason: err.Error()}
		}
		m.Category = r.Category
		m.Rule = r.Name
		return Decision{}, m
	}
	if len(d.Keys) == 0 && d.Skip == "" {
		return Decision{}, &MismatchError{Category: r.Category, Rule: r.Name, Reason: "rule produced no reference key"}
	}
	for _, k := range d.Keys {
		if k == "" {
			return Decision{}, &MismatchError{Category: r.Category, Rule: r.Name, Reason: "rule produced an empty reference key"}
		}
	}
	return d, nil
}

// TopLevel returns the rules dispatched alongside the groupset
func TopLevel() []Rule {
	return []Rule{FrameRule, HandlebarsRule, WheelsRule}
}
