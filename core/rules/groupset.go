package rules

import (
	"sort"

	"bike-config/core/types"
)

// GroupsetBrandRule rejects brands without a groupset table
var GroupsetBrandRule = Rule{Category: CategoryGroupset, Name: "groupset", Decide: decideGroupsetBrand}

func decideGroupsetBrand(spec types.BicycleSpecification) (Decision, error) {
	return unmatched("no groupset table for brand %q", spec.GroupsetBrand)
}

// GroupsetPlan splits the groupset into lead rules, resolved in order
// first, and drivetrain rules, which are independent of each other.
func GroupsetPlan(spec types.BicycleSpecification) (lead, drivetrain []Rule) {
	if spec.GroupsetBrand != types.GroupsetShimano {
		return []Rule{GroupsetBrandRule}, nil
	}

	if spec.IsSingleSpeed() {
		return []Rule{BrakeLeverRule}, []Rule{BrakeCaliperRule, ChainringRule}
	}

	switch {
	case spec.ShifterStyle != types.ShifterSTI:
		lead = []Rule{TriggerShifterRule, BrakeLeverRule}
	case spec.BrakeType == types.BrakeRim || spec.BrakeType == types.BrakeMechanicalDisc:
		lead = []Rule{MechanicalSTIRule}
	case spec.BrakeType == types.BrakeHydraulicDisc:
		lead = []Rule{HydraulicSTIRightRule, HydraulicSTILeftRule}
	default:
		lead = []Rule{STIBrakeRule}
	}

	drivetrain = []Rule{
		BrakeCaliperRule,
		ChainringRule,
		CassetteRule,
		ChainRule,
		RearDerailleurRule,
		FrontDerailleurRule,
	}
	return lead, drivetrain
}

// AllKeys lists every reference key any rule can produce, sorted. A catalog
// missing one of them cannot price every legal bike.
func AllKeys() []types.ReferenceKey {
	set := make(map[types.ReferenceKey]bool)
	add := func(ks ...types.ReferenceKey) {
		for _, k := range ks {
			set[k] = true
		}
	}

	add("FrameRoadDisc", "FrameRoadRim", "FrameTourDisc", "FrameTourRim", "FrameGravel", "FrameFixie")
	for _, k := range handlebarKeys {
		add(k)
	}
	for _, table := range []map[types.WheelPreference]types.ReferenceKey{fixieWheelKeys, rimBrakeWheelKeys, otherBrakeWheelKeys} {
		for _, k := range table {
			add(k)
		}
	}
	for _, table := range []map[int]types.ReferenceKey{
		triggerShifterKeys, hydraulicSTIRightKeys, hydraulicSTILeftKeys,
		chainringFallbackKeys, cassetteKeys, chainKeys, rearDerailleurKeys,
	} {
		for _, k := range table {
			add(k)
		}
	}
	for _, table := range []map[gearCombo]types.ReferenceKey{mechanicalSTIKeys, chainringKeys, frontDerailleurKeys} {
		for _, k := range table {
			add(k)
		}
	}
	for _, k := range caliperKeys {
		add("Front-"+k, "Rear-"+k)
	}
	add("Left-HydraulicBrakeLever", "Right-HydraulicBrakeLever", "MechanicalBrakeLever", chainCatcherKey)

	out := make([]types.ReferenceKey, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
