package rules

import (
	"fmt"

	"bike-config/core/types"
)

// Drivetrain rules run concurrently once the shifters are resolved.
var (
	BrakeCaliperRule    = Rule{Category: CategoryBrakeCaliper, Name: "brakeCalipers", Decide: decideBrakeCalipers}
	ChainringRule       = Rule{Category: CategoryChainring, Name: "chainring", Decide: decideChainring}
	CassetteRule        = Rule{Category: CategoryCassette, Name: "cassette", Decide: decideCassette}
	ChainRule           = Rule{Category: CategoryChain, Name: "chain", Decide: decideChain}
	RearDerailleurRule  = Rule{Category: CategoryRearDerailleur, Name: "rearDerailleur", Decide: decideRearDerailleur}
	FrontDerailleurRule = Rule{Category: CategoryFrontDerailleur, Name: "frontDerailleur", Decide: decideFrontDerailleur}
)

var caliperKeys = map[types.BrakeType]types.ReferenceKey{
	types.BrakeRim:            "RimBrakeCaliper",
	types.BrakeMechanicalDisc: "MechanicalBrakeCaliper",
}

// 1x12 cranks are the 1x10 part.
var chainringKeys = func() map[gearCombo]types.ReferenceKey {
	m := comboKeys("ChainSet_%d_%d", map[int][]int{
		1: {10, 11},
		2: {9, 10, 11, 12},
		3: {9, 10},
	})
	m[gearCombo{1, 12}] = "ChainSet_1_10"
	return m
}()

// chainringFallbackKeys is the generic crank per chainring count, used when
// no crank is listed for the exact rear gear count.
var chainringFallbackKeys = gearKeys("ChainSet_%d", 1, 2, 3)

var (
	cassetteKeys       = gearKeys("Cassette_%d", 8, 9, 10, 11, 12)
	chainKeys          = gearKeys("Chain_%d", 8, 9, 10, 11, 12)
	rearDerailleurKeys = gearKeys("RDerailleur_%d", 8, 9, 10, 11, 12)
)

var frontDerailleurKeys = comboKeys("FDerailleur_%d_%d", map[int][]int{
	2: {9, 10, 11, 12},
	3: {9, 10},
})

// chainCatcherKey stands in for a front derailleur on 1x drivetrains
const chainCatcherKey types.ReferenceKey = "FDerailleur_1"

func decideBrakeCalipers(spec types.BicycleSpecification) (Decision, error) {
	switch spec.BrakeType {
	case types.BrakeRim, types.BrakeMechanicalDisc:
		caliper := caliperKeys[spec.BrakeType]
		return keys("Front-"+caliper, "Rear-"+caliper)
	case types.BrakeHydraulicDisc:
		return skip("hydraulic calipers come with the levers")
	case types.BrakeNotRequired:
		return skip("brakes not required")
	default:
		return unmatched("brake type %q", spec.BrakeType)
	}
}

func decideChainring(spec types.BicycleSpecification) (Decision, error) {
	if key, ok := chainringKeys[gearCombo{spec.FrontGears, spec.RearGears}]; ok {
		return keys(key)
	}
	if key, ok := chainringFallbackKeys[spec.FrontGears]; ok {
		return keys(key)
	}
	return unmatched("no chainset for %d front gears", spec.FrontGears)
}

func decideCassette(spec types.BicycleSpecification) (Decision, error) {
	return byRearGears(cassetteKeys, "Cassette", spec.RearGears)
}

func decideChain(spec types.BicycleSpecification) (Decision, error) {
	return byRearGears(chainKeys, "Chain", spec.RearGears)
}

func decideRearDerailleur(spec types.BicycleSpecification) (Decision, error) {
	return byRearGears(rearDerailleurKeys, "RDerailleur", spec.RearGears)
}

func decideFrontDerailleur(spec types.BicycleSpecification) (Decision, error) {
	switch spec.FrontGears {
	case 1:
		return keys(chainCatcherKey)
	case 3:
		if spec.RearGears == 9 {
			return keys("FDerailleur_3_9")
		}
		return keys("FDerailleur_3_10")
	}
	if key, ok := frontDerailleurKeys[gearCombo{spec.FrontGears, spec.RearGears}]; ok {
		return keys(key)
	}
	return unmatched("no front derailleur for %dx%d", spec.FrontGears, spec.RearGears)
}

// byRearGears looks up a part sized only by the rear gear count. On a miss
// the mismatch carries the key that would have been needed.
func byRearGears(table map[int]types.ReferenceKey, prefix string, rear int) (Decision, error) {
	if key, ok := table[rear]; ok {
		return keys(key)
	}
	return Decision{}, &MismatchError{
		Key:    types.ReferenceKey(fmt.Sprintf("%s_%d", prefix, rear)),
		Reason: fmt.Sprintf("%d rear gears not supported", rear),
	}
}
