package types

import (
	"fmt"

	"bike-config/internal/errors"
)

// ReferenceKey identifies a catalog entry, e.g. "ChainSet_2_11". Keys are
// produced by rules only, never supplied by users.
type ReferenceKey string

// String returns the key
func (k ReferenceKey) String() string {
	return string(k)
}

// Part is one purchasable component as stored in the catalog
type Part struct {
	Reference       ReferenceKey `json:"internalReference"`
	Component       string       `json:"component"`
	Name            string       `json:"name"`
	Price           string       `json:"price"`
	Link            string       `json:"link"`
	DateLastUpdated string       `json:"dateLastUpdated"`
	UpToDate        bool         `json:"isUpToDate"`
}

// ResolvedPart is a catalog part attached to the rule that asked for it
type ResolvedPart struct {
	Category string `json:"category"`
	Rule     string `json:"rule"`
	Part
}

// ResolutionError records one failed rule, lookup or unit. Errors are
// accumulated on the result and never abort a resolution.
type ResolutionError struct {
	Kind     errors.Type  `json:"kind"`
	Category string       `json:"category"`
	Rule     string       `json:"rule"`
	Key      ReferenceKey `json:"key,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// Error implements the error interface
func (e ResolutionError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("[%s] %s/%s: %s (key %q)", e.Kind, e.Category, e.Rule, e.Message, e.Key)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Kind, e.Category, e.Rule, e.Message)
}
