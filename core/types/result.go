package types

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bike-config/internal/errors"
)

// BikeConfigurationResult is the priced bill of materials of one resolution.
// Part order across categories is not significant.
type BikeConfigurationResult struct {
	ID                string               `json:"id"`
	Specification     BicycleSpecification `json:"specification"`
	Parts             []ResolvedPart       `json:"parts"`
	Errors            []ResolutionError    `json:"errors"`
	Warnings          []string             `json:"warnings,omitempty"`
	TotalPrice        decimal.Decimal      `json:"total_price"`
	TotalPriceDisplay string               `json:"total_price_display"`
	ResolvedAt        time.Time            `json:"resolved_at"`
}

// HasErrors reports whether any error was recorded
func (r *BikeConfigurationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Categories returns the sorted set of categories with at least one part
func (r *BikeConfigurationResult) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.Parts {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Keys returns the sorted reference keys of all resolved parts, duplicates
// included
func (r *BikeConfigurationResult) Keys() []ReferenceKey {
	out := make([]ReferenceKey, 0, len(r.Parts))
	for _, p := range r.Parts {
		out = append(out, p.Reference)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CountCategory returns how many parts were resolved for a category
func (r *BikeConfigurationResult) CountCategory(category string) int {
	n := 0
	for _, p := range r.Parts {
		if p.Category == category {
			n++
		}
	}
	return n
}

// ErrorsOfKind filters recorded errors by kind
func (r *BikeConfigurationResult) ErrorsOfKind(kind errors.Type) []ResolutionError {
	var out []ResolutionError
	for _, e := range r.Errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// SortParts orders parts by category then reference, for stable display
func (r *BikeConfigurationResult) SortParts() {
	sort.SliceStable(r.Parts, func(i, j int) bool {
		if r.Parts[i].Category != r.Parts[j].Category {
			return r.Parts[i].Category < r.Parts[j].Category
		}
		return r.Parts[i].Reference < r.Parts[j].Reference
	})
}
