package rules

import "bike-config/core/types"

// ClampWarning is emitted when a 3x chainset forces ten rear gears
const ClampWarning = "3 by Shimano gears are restricted to a maximum of 10 at the back"

// Normalize returns the specification every rule of one resolution sees,
// plus warnings for each adjustment. It runs once, before dispatch.
//
// Mechanical STI shifters for a triple chainset only exist for 9 and 10
// rear gears, so any other rear count is clamped to 10 for the whole
// drivetrain.
func Normalize(spec types.BicycleSpecification) (types.BicycleSpecification, []string) {
	var warnings []string

	if spec.GroupsetBrand == "" {
		spec.GroupsetBrand = types.GroupsetShimano
	}

	mechanical := spec.BrakeType == types.BrakeRim || spec.BrakeType == types.BrakeMechanicalDisc
	if spec.ShifterStyle == types.ShifterSTI && mechanical && spec.FrontGears == 3 && spec.RearGears != 9 && spec.RearGears != 10 {
		spec.RearGears = 10
		warnings = append(warnings, ClampWarning)
	}

	return spec, warnings
}
