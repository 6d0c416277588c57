package rules

import (
	"fmt"

	"bike-config/core/types"
)

var (
	// TriggerShifterRule picks flat-bar trigger shifters by rear gears
	TriggerShifterRule = Rule{Category: CategoryTriggerShifter, Name: "triggerShifters", Decide: decideTriggerShifter}

	// BrakeLeverRule picks standalone brake levers for non-STI setups
	BrakeLeverRule = Rule{Category: CategoryBrakeLevers, Name: "brakeLevers", Decide: decideBrakeLevers}

	// MechanicalSTIRule picks cable STI shifters by front x rear gears
	MechanicalSTIRule = Rule{Category: CategorySTIShifter, Name: "mechanicalSTIShifters", Decide: decideMechanicalSTI}

	// HydraulicSTIRightRule picks the right hydraulic STI lever by rear gears
	HydraulicSTIRightRule = Rule{Category: CategoryHydraulicShifter, Name: "hydraulicSTIShifters.right", Decide: decideHydraulicSTIRight}

	// HydraulicSTILeftRule picks the left hydraulic STI lever by front gears
	HydraulicSTILeftRule = Rule{Category: CategoryHydraulicShifter, Name: "hydraulicSTIShifters.left", Decide: decideHydraulicSTILeft}

	// STIBrakeRule rejects STI shifters for brakes without an STI lever
	STIBrakeRule = Rule{Category: CategorySTIShifter, Name: "stiShifters", Decide: decideSTIBrake}
)

type gearCombo struct {
	front, rear int
}

var triggerShifterKeys = gearKeys("TriggerShifter_%d", 8, 9, 10, 11)

var mechanicalSTIKeys = comboKeys("MechanicalSTI_%d_%d", map[int][]int{
	1: {9, 10, 11, 12},
	2: {9, 10, 11, 12},
	3: {9, 10},
})

var (
	hydraulicSTIRightKeys = gearKeys("Right-HydraulicSTI_%d", 9, 10, 11, 12)
	hydraulicSTILeftKeys  = gearKeys("Left-HydraulicSTI_%d", 1, 2, 3)
)

func decideTriggerShifter(spec types.BicycleSpecification) (Decision, error) {
	if key, ok := triggerShifterKeys[spec.RearGears]; ok {
		return keys(key)
	}
	return unmatched("no trigger shifter for %d rear gears", spec.RearGears)
}

func decideBrakeLevers(spec types.BicycleSpecification) (Decision, error) {
	switch spec.BrakeType {
	case types.BrakeHydraulicDisc:
		return keys("Left-HydraulicBrakeLever", "Right-HydraulicBrakeLever")
	case types.BrakeRim, types.BrakeMechanicalDisc:
		return keys("MechanicalBrakeLever")
	case types.BrakeNotRequired:
		return skip("brakes not required")
	default:
		return unmatched("brake type %q", spec.BrakeType)
	}
}

func decideMechanicalSTI(spec types.BicycleSpecification) (Decision, error) {
	if key, ok := mechanicalSTIKeys[gearCombo{spec.FrontGears, spec.RearGears}]; ok {
		return keys(key)
	}
	return unmatched("no mechanical STI for %dx%d", spec.FrontGears, spec.RearGears)
}

func decideHydraulicSTIRight(spec types.BicycleSpecification) (Decision, error) {
	if key, ok := hydraulicSTIRightKeys[spec.RearGears]; ok {
		return keys(key)
	}
	return unmatched("no right hydraulic STI for %d rear gears", spec.RearGears)
}

func decideHydraulicSTILeft(spec types.BicycleSpecification) (Decision, error) {
	if key, ok := hydraulicSTILeftKeys[spec.FrontGears]; ok {
		return keys(key)
	}
	return unmatched("no left hydraulic STI for %d front gears", spec.FrontGears)
}

func decideSTIBrake(spec types.BicycleSpecification) (Decision, error) {
	return unmatched("STI shifters need rim, mechanical or hydraulic brakes, got %q", spec.BrakeType)
}

func gearKeys(format string, gears ...int) map[int]types.ReferenceKey {
	out := make(map[int]types.ReferenceKey, len(gears))
	for _, g := range gears {
		out[g] = types.ReferenceKey(fmt.Sprintf(format, g))
	}
	return out
}

func comboKeys(format string, combos map[int][]int) map[gearCombo]types.ReferenceKey {
	out := make(map[gearCombo]types.ReferenceKey)
	for front, rears := range combos {
		for _, rear := range rears {
			out[gearCombo{front, rear}] = types.ReferenceKey(fmt.Sprintf(format, front, rear))
		}
	}
	return out
}
