// Package options computes the legal choices for a partially specified bike.
// The resolver never consults it; it is used by the API, the CLI and tests.
package options

import (
	"fmt"

	"bike-config/core/types"
)

// Options lists the legal values per field and which fields to show
type Options struct {
	ShowFrameStyles bool               `json:"show_frame_styles"`
	FrameStyles     []types.FrameStyle `json:"frame_styles,omitempty"`

	ShowGroupsetBrand bool                  `json:"show_groupset_brand"`
	GroupsetBrands    []types.GroupsetBrand `json:"groupset_brands,omitempty"`

	ShowBrakeStyles bool              `json:"show_brake_styles"`
	BrakeStyles     []types.BrakeType `json:"brake_styles,omitempty"`

	ShowBarStyles bool                  `json:"show_bar_styles"`
	BarStyles     []types.HandleBarType `json:"bar_styles,omitempty"`

	ShowShifterStyles bool                 `json:"show_shifter_styles"`
	ShifterStyles     []types.ShifterStyle `json:"shifter_styles,omitempty"`

	ShowFrontGears bool  `json:"show_front_gears"`
	FrontGears     []int `json:"front_gears,omitempty"`

	ShowRearGears bool  `json:"show_rear_gears"`
	RearGears     []int `json:"rear_gears,omitempty"`

	ShowWheelPreference bool                    `json:"show_wheel_preference"`
	WheelPreferences    []types.WheelPreference `json:"wheel_preferences,omitempty"`
}

type frameOptions struct {
	brakes []types.BrakeType
	bars   []types.HandleBarType
	front  []int
	rear   []int
}

var allDiscBrakes = []types.BrakeType{types.BrakeRim, types.BrakeMechanicalDisc, types.BrakeHydraulicDisc}

var byFrame = map[types.FrameStyle]frameOptions{
	types.FrameSingleSpeed: {
		brakes: []types.BrakeType{types.BrakeRim, types.BrakeNotRequired},
		bars:   []types.HandleBarType{types.BarsDrops, types.BarsFlat, types.BarsBullhorns},
		front:  []int{1},
		rear:   []int{1},
	},
	types.FrameRoad: {
		brakes: allDiscBrakes,
		bars:   []types.HandleBarType{types.BarsDrops},
		front:  []int{2},
		rear:   []int{9, 10, 11, 12},
	},
	types.FrameGravel: {
		brakes: allDiscBrakes,
		bars:   []types.HandleBarType{types.BarsDrops, types.BarsFlare},
		front:  []int{2},
		rear:   []int{9, 10, 11},
	},
	types.FrameTour: {
		brakes: allDiscBrakes,
		bars:   []types.HandleBarType{types.BarsDrops, types.BarsFlare, types.BarsFlat},
		front:  []int{2, 3},
		rear:   []int{9, 10, 11},
	},
}

// StartNewBike returns the options for an empty specification
func StartNewBike() Options {
	return Options{
		ShowFrameStyles:   true,
		FrameStyles:       types.AllFrameStyles(),
		ShowGroupsetBrand: true,
		GroupsetBrands:    types.AllGroupsetBrands(),
	}
}

// Advise returns the options left once spec's frame style is chosen. An
// unknown or missing frame style gives the starting options.
func Advise(spec types.BicycleSpecification) Options {
	fo, ok := byFrame[spec.FrameStyle]
	if !ok {
		return StartNewBike()
	}

	o := Options{
		GroupsetBrands:      types.AllGroupsetBrands(),
		ShowBrakeStyles:     true,
		BrakeStyles:         fo.brakes,
		ShowBarStyles:       true,
		BarStyles:           fo.bars,
		ShifterStyles:       ShiftersFor(spec.FrameStyle, spec.HandleBarType),
		FrontGears:          fo.front,
		RearGears:           fo.rear,
		ShowWheelPreference: true,
		WheelPreferences:    types.AllWheelPreferences(),
	}
	if spec.FrameStyle != types.FrameSingleSpeed {
		o.ShowShifterStyles = true
		o.ShowFrontGears = true
		o.ShowRearGears = true
	}
	return o
}

// ShiftersFor returns the shifter styles that fit a frame and bar. Flat and
// bullhorn bars take triggers, drop and flare bars take STI levers.
func ShiftersFor(frame types.FrameStyle, bars types.HandleBarType) []types.ShifterStyle {
	if frame == types.FrameSingleSpeed {
		return []types.ShifterStyle{types.ShifterNone}
	}
	switch bars {
	case types.BarsFlat, types.BarsBullhorns:
		return []types.ShifterStyle{types.ShifterTrigger}
	case types.BarsDrops, types.BarsFlare:
		return []types.ShifterStyle{types.ShifterSTI}
	default:
		return []types.ShifterStyle{types.ShifterSTI, types.ShifterTrigger}
	}
}

// Violations lists every field of spec outside its legal set. An empty
// result means the specification is legal.
func Violations(spec types.BicycleSpecification) []string {
	fo, ok := byFrame[spec.FrameStyle]
	if !ok {
		return []string{fmt.Sprintf("frame style %q is not offered", spec.FrameStyle)}
	}

	var out []string
	if spec.GroupsetBrand != "" && !contains(types.AllGroupsetBrands(), spec.GroupsetBrand) {
		out = append(out, fmt.Sprintf("groupset brand %q is not offered", spec.GroupsetBrand))
	}
	if !contains(fo.brakes, spec.BrakeType) {
		out = append(out, fmt.Sprintf("brake type %q is not offered for %s frames", spec.BrakeType, spec.FrameStyle.DisplayName()))
	}
	if spec.BrakeType.IsDisc() && !spec.DiscBrakeCompatible {
		out = append(out, "disc brakes need a disc compatible frame")
	}
	if !contains(fo.bars, spec.HandleBarType) {
		out = append(out, fmt.Sprintf("handlebar type %q is not offered for %s frames", spec.HandleBarType, spec.FrameStyle.DisplayName()))
	}
	if !contains(ShiftersFor(spec.FrameStyle, spec.HandleBarType), spec.ShifterStyle) {
		out = append(out, fmt.Sprintf("shifter style %q does not fit %q bars", spec.ShifterStyle, spec.HandleBarType))
	}
	if !contains(fo.front, spec.FrontGears) {
		out = append(out, fmt.Sprintf("%d front gears are not offered for %s frames", spec.FrontGears, spec.FrameStyle.DisplayName()))
	}
	if !contains(fo.rear, spec.RearGears) {
		out = append(out, fmt.Sprintf("%d rear gears are not offered for %s frames", spec.RearGears, spec.FrameStyle.DisplayName()))
	}
	if !contains(types.AllWheelPreferences(), spec.WheelPreference) {
		out = append(out, fmt.Sprintf("wheel preference %q is not offered", spec.WheelPreference))
	}
	return out
}

// Combinations enumerates every legal specification for a frame style
func Combinations(frame types.FrameStyle) []types.BicycleSpecification {
	fo, ok := byFrame[frame]
	if !ok {
		return nil
	}

	var out []types.BicycleSpecification
	for _, brake := range fo.brakes {
		for _, bars := range fo.bars {
			for _, shifter := range ShiftersFor(frame, bars) {
				for _, front := range fo.front {
					for _, rear := range fo.rear {
						for _, wheels := range types.AllWheelPreferences() {
							out = append(out, types.BicycleSpecification{
								Name:                fmt.Sprintf("%s-%s-%s-%dx%d-%s", frame, brake, bars, front, rear, wheels),
								FrameStyle:          frame,
								DiscBrakeCompatible: brake.IsDisc(),
								BrakeType:           brake,
								GroupsetBrand:       types.GroupsetShimano,
								HandleBarType:       bars,
								ShifterStyle:        shifter,
								FrontGears:          front,
								RearGears:           rear,
								WheelPreference:     wheels,
							})
						}
					}
				}
			}
		}
	}
	return out
}

// AllCombinations enumerates every legal specification for every frame
func AllCombinations() []types.BicycleSpecification {
	var out []types.BicycleSpecification
	for _, frame := range types.AllFrameStyles() {
		out = append(out, Combinations(frame)...)
	}
	return out
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
