package rules

import "bike-config/core/types"

// FrameRule picks the frame by style and disc compatibility
var FrameRule = Rule{Category: CategoryFrame, Name: "frame", Decide: decideFrame}

// HandlebarsRule maps the handlebar type one to one
var HandlebarsRule = Rule{Category: CategoryHandlebars, Name: "handlebars", Decide: decideHandlebars}

// WheelsRule picks a wheelset by frame, brake and price band
var WheelsRule = Rule{Category: CategoryWheels, Name: "wheels", Decide: decideWheels}

var handlebarKeys = map[types.HandleBarType]types.ReferenceKey{
	types.BarsDrops:     "BarsDrop",
	types.BarsFlat:      "BarsFlat",
	types.BarsBullhorns: "BarsBull",
	types.BarsFlare:     "BarsFlare",
}

var fixieWheelKeys = map[types.WheelPreference]types.ReferenceKey{
	types.WheelsCheap:     "WheelFixieCheap",
	types.WheelsExpensive: "WheelFixieExpensive",
}

// The geared wheel table is kept exactly as the catalog was curated: rim
// brakes resolve to WheelRimExpensive/WheelDiscExpensive and every other
// brake to the rim wheels. See DESIGN.md (open question on wheels).
var (
	rimBrakeWheelKeys = map[types.WheelPreference]types.ReferenceKey{
		types.WheelsCheap:     "WheelRimExpensive",
		types.WheelsExpensive: "WheelDiscExpensive",
	}
	otherBrakeWheelKeys = map[types.WheelPreference]types.ReferenceKey{
		types.WheelsCheap:     "WheelRimCheap",
		types.WheelsExpensive: "WheelRimExpensive",
	}
)

func decideFrame(spec types.BicycleSpecification) (Decision, error) {
	switch spec.FrameStyle {
	case types.FrameRoad:
		if spec.DiscBrakeCompatible {
			return keys("FrameRoadDisc")
		}
		return keys("FrameRoadRim")
	case types.FrameTour:
		if spec.DiscBrakeCompatible {
			return keys("FrameTourDisc")
		}
		return keys("FrameTourRim")
	case types.FrameGravel:
		return keys("FrameGravel")
	case types.FrameSingleSpeed:
		return keys("FrameFixie")
	default:
		return unmatched("frame style %q", spec.FrameStyle)
	}
}

func decideHandlebars(spec types.BicycleSpecification) (Decision, error) {
	if key, ok := handlebarKeys[spec.HandleBarType]; ok {
		return keys(key)
	}
	return unmatched("handlebar type %q", spec.HandleBarType)
}

func decideWheels(spec types.BicycleSpecification) (Decision, error) {
	table := otherBrakeWheelKeys
	switch {
	case spec.FrameStyle == types.FrameSingleSpeed:
		table = fixieWheelKeys
	case spec.BrakeType == types.BrakeRim:
		table = rimBrakeWheelKeys
	}
	if key, ok := table[spec.WheelPreference]; ok {
		return keys(key)
	}
	return unmatched("wheel preference %q", spec.WheelPreference)
}
