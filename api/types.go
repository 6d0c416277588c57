// Package api - API types for bike resolution
// These types define the contract of the HTTP endpoints.
package api

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"bike-config/core/types"
	"bike-config/db/bikestore"
)

// SpecificationRequest is a bicycle specification as sent by clients. Enum
// fields accept the constant or the display name.
type SpecificationRequest struct {
	Name       string `json:"name,omitempty"`
	FrameStyle string `json:"frame_style"`

	// DiscBrakeCompatible defaults to whether the brake type is a disc brake
	DiscBrakeCompatible *bool `json:"disc_brake_compatible,omitempty"`

	BrakeType       string `json:"brake_type"`
	GroupsetBrand   string `json:"groupset_brand,omitempty"`
	HandleBarType   string `json:"handlebar_type"`
	ShifterStyle    string `json:"shifter_style"`
	FrontGears      int    `json:"front_gears"`
	RearGears       int    `json:"rear_gears"`
	WheelPreference string `json:"wheel_preference"`
}

// toSpecification parses every field. With partial set, empty fields are
// left unset instead of rejected.
func (r SpecificationRequest) toSpecification(partial bool) (types.BicycleSpecification, error) {
	spec := types.BicycleSpecification{
		Name:       r.Name,
		FrontGears: r.FrontGears,
		RearGears:  r.RearGears,
	}
	var err error

	parse := func(field, value string, fn func(string) error) {
		if value == "" {
			if !partial {
				err = multierr.Append(err, fmt.Errorf("%s is required", field))
			}
			return
		}
		if perr := fn(value); perr != nil {
			err = multierr.Append(err, perr)
		}
	}

	parse("frame_style", r.FrameStyle, func(s string) (e error) {
		spec.FrameStyle, e = types.ParseFrameStyle(s)
		return
	})
	parse("brake_type", r.BrakeType, func(s string) error {
		spec.BrakeType = types.ParseBrakeType(s)
		return nil
	})
	if r.GroupsetBrand != "" {
		parse("groupset_brand", r.GroupsetBrand, func(s string) (e error) {
			spec.GroupsetBrand, e = types.ParseGroupsetBrand(s)
			return
		})
	}
	parse("handlebar_type", r.HandleBarType, func(s string) (e error) {
		spec.HandleBarType, e = types.ParseHandleBarType(s)
		return
	})
	parse("shifter_style", r.ShifterStyle, func(s string) (e error) {
		spec.ShifterStyle, e = types.ParseShifterStyle(s)
		return
	})
	parse("wheel_preference", r.WheelPreference, func(s string) (e error) {
		spec.WheelPreference, e = types.ParseWheelPreference(s)
		return
	})

	spec.DiscBrakeCompatible = spec.BrakeType.IsDisc()
	if r.DiscBrakeCompatible != nil {
		spec.DiscBrakeCompatible = *r.DiscBrakeCompatible
	}
	return spec, err
}

// ResolveResponse is the output of POST /resolve
type ResolveResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "partial"

	Specification types.BicycleSpecification `json:"specification"`

	Parts    []PartDTO  `json:"parts"`
	Errors   []ErrorDTO `json:"errors"`
	Warnings []string   `json:"warnings,omitempty"`

	// TotalPrice is a plain decimal string, e.g. "1134.50"
	TotalPrice        string `json:"total_price"`
	TotalPriceDisplay string `json:"total_price_display"`

	ResolvedAt time.Time         `json:"resolved_at"`
	Metadata   *ResponseMetadata `json:"metadata,omitempty"`
}

// PartDTO is one resolved part
type PartDTO struct {
	Category        string `json:"category"`
	Rule            string `json:"rule"`
	Reference       string `json:"reference"`
	Component       string `json:"component,omitempty"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	Link            string `json:"link,omitempty"`
	DateLastUpdated string `json:"date_last_updated,omitempty"`
	UpToDate        bool   `json:"up_to_date"`
}

// ErrorDTO is one recorded resolution error
type ErrorDTO struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Rule     string `json:"rule"`
	Key      string `json:"key,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ResponseMetadata describes how a response was produced
type ResponseMetadata struct {
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// BikeResponse is one stored bike
type BikeResponse struct {
	ID            string                     `json:"id"`
	Specification types.BicycleSpecification `json:"specification"`
	CreatedAt     time.Time                  `json:"created_at"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func toResolveResponse(r *types.BikeConfigurationResult) *ResolveResponse {
	resp := &ResolveResponse{
		ID:                r.ID,
		Status:            "success",
		Specification:     r.Specification,
		Parts:             make([]PartDTO, 0, len(r.Parts)),
		Errors:            make([]ErrorDTO, 0, len(r.Errors)),
		Warnings:          r.Warnings,
		TotalPrice:        r.TotalPrice.StringFixed(2),
		TotalPriceDisplay: r.TotalPriceDisplay,
		ResolvedAt:        r.ResolvedAt,
	}
	if r.HasErrors() {
		resp.Status = "partial"
	}
	for _, p := range r.Parts {
		resp.Parts = append(resp.Parts, PartDTO{
			Category:        p.Category,
			Rule:            p.Rule,
			Reference:       p.Reference.String(),
			Component:       p.Component,
			Name:            p.Name,
			Price:           p.Price,
			Link:            p.Link,
			DateLastUpdated: p.DateLastUpdated,
			UpToDate:        p.UpToDate,
		})
	}
	for _, e := range r.Errors {
		resp.Errors = append(resp.Errors, ErrorDTO{
			Kind:     string(e.Kind),
			Category: e.Category,
			Rule:     e.Rule,
			Key:      e.Key.String(),
			Message:  e.Message,
		})
	}
	return resp
}

func toBikeResponse(b bikestore.Bike) BikeResponse {
	return BikeResponse{
		ID:            b.ID.String(),
		Specification: b.Specification,
		CreatedAt:     b.CreatedAt,
	}
}
