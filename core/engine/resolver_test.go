package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bike-config/core/catalog"
	"bike-config/core/options"
	"bike-config/core/pricing"
	"bike-config/core/rules"
	"bike-config/core/types"
	"bike-config/internal/errors"
	"bike-config/internal/metrics"
)

func loadParts(t *testing.T) []types.Part {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "links.json"))
	require.NoError(t, err)
	var parts []types.Part
	require.NoError(t, json.Unmarshal(data, &parts))
	return parts
}

func newTestResolver(t *testing.T, store catalog.Store, opts ...Option) *Resolver {
	t.Helper()
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return NewResolver(store, opts...)
}

func roadBike() types.BicycleSpecification {
	return types.BicycleSpecification{
		Name:            "road",
		FrameStyle:      types.FrameRoad,
		BrakeType:       types.BrakeRim,
		GroupsetBrand:   types.GroupsetShimano,
		HandleBarType:   types.BarsDrops,
		ShifterStyle:    types.ShifterSTI,
		FrontGears:      2,
		RearGears:       10,
		WheelPreference: types.WheelsExpensive,
	}
}

func priceOf(t *testing.T, p types.ResolvedPart) decimal.Decimal {
	t.Helper()
	d, ok, err := pricing.ParsePrice(p.Price)
	require.NoError(t, err)
	require.True(t, ok)
	return d
}

func TestCatalogCoversEveryKey(t *testing.T) {
	r := catalog.Validate(loadParts(t), rules.AllKeys(), catalog.DefaultPartRules())
	assert.True(t, r.OK(), "missing %v problems %v", r.Missing, r.Problems)
	assert.Empty(t, r.Duplicates)
	assert.Empty(t, r.Unused)
}

func TestRoadScenario(t *testing.T) {
	res := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...)).Resolve(context.Background(), roadBike())

	require.False(t, res.HasErrors(), "%v", res.Errors)
	keys := res.Keys()
	for _, k := range []types.ReferenceKey{
		"FrameRoadRim", "BarsDrop", "MechanicalSTI_2_10", "Cassette_10",
		"Chain_10", "RDerailleur_10", "FDerailleur_2_10", "ChainSet_2_10",
		"Front-RimBrakeCaliper", "Rear-RimBrakeCaliper", "WheelDiscExpensive",
	} {
		assert.Contains(t, keys, k)
	}
	assert.Len(t, keys, 11)

	for _, p := range res.Parts {
		assert.True(t, res.TotalPrice.GreaterThan(priceOf(t, p)), p.Reference)
	}
	assert.Equal(t, pricing.FormatGBP(res.TotalPrice), res.TotalPriceDisplay)
	assert.NotEmpty(t, res.ID)
}

func TestEveryLegalCombinationResolves(t *testing.T) {
	resolver := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...))
	for _, spec := range options.AllCombinations() {
		res := resolver.Resolve(context.Background(), spec)
		assert.NotEmpty(t, res.Parts, spec.Name)
		assert.True(t, res.TotalPrice.IsPositive(), spec.Name)
		assert.Empty(t, res.Errors, spec.Name)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	resolver := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...))
	spec := roadBike()
	spec.BrakeType = types.BrakeHydraulicDisc
	spec.DiscBrakeCompatible = true

	first := resolver.Resolve(context.Background(), spec)
	second := resolver.Resolve(context.Background(), spec)
	assert.True(t, first.TotalPrice.Equal(second.TotalPrice))
	assert.ElementsMatch(t, first.Keys(), second.Keys())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGearCountChangesDrivetrain(t *testing.T) {
	resolver := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...))
	nine := roadBike()
	nine.RearGears = 9
	eleven := roadBike()
	eleven.RearGears = 11

	small := resolver.Resolve(context.Background(), nine)
	large := resolver.Resolve(context.Background(), eleven)
	require.False(t, small.HasErrors())
	require.False(t, large.HasErrors())

	keyOf := func(res *types.BikeConfigurationResult, category string) types.ReferenceKey {
		for _, p := range res.Parts {
			if p.Category == category {
				return p.Reference
			}
		}
		return ""
	}
	for _, c := range []string{rules.CategoryCassette, rules.CategoryChain, rules.CategoryRearDerailleur} {
		assert.NotEqual(t, keyOf(small, c), keyOf(large, c), c)
	}
	assert.True(t, large.TotalPrice.GreaterThan(small.TotalPrice))
}

func TestSingleSpeedCategories(t *testing.T) {
	spec := types.BicycleSpecification{
		Name:            "fixie",
		FrameStyle:      types.FrameSingleSpeed,
		BrakeType:       types.BrakeRim,
		HandleBarType:   types.BarsBullhorns,
		ShifterStyle:    types.ShifterNone,
		FrontGears:      1,
		RearGears:       1,
		WheelPreference: types.WheelsCheap,
	}
	res := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...)).Resolve(context.Background(), spec)

	require.False(t, res.HasErrors(), "%v", res.Errors)
	assert.Equal(t, []string{
		rules.CategoryBrakeCaliper, rules.CategoryBrakeLevers, rules.CategoryChainring,
		rules.CategoryFrame, rules.CategoryHandlebars, rules.CategoryWheels,
	}, res.Categories())
	assert.Equal(t, 1, res.CountCategory(rules.CategoryFrame))
	assert.Equal(t, 1, res.CountCategory(rules.CategoryHandlebars))
	assert.Equal(t, 1, res.CountCategory(rules.CategoryWheels))
	assert.Equal(t, types.GroupsetShimano, res.Specification.GroupsetBrand)
}

func TestHydraulicSTI(t *testing.T) {
	spec := roadBike()
	spec.BrakeType = types.BrakeHydraulicDisc
	spec.DiscBrakeCompatible = true
	spec.RearGears = 11

	res := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...)).Resolve(context.Background(), spec)
	require.False(t, res.HasErrors(), "%v", res.Errors)

	assert.Contains(t, res.Keys(), types.ReferenceKey("Left-HydraulicSTI_2"))
	assert.Contains(t, res.Keys(), types.ReferenceKey("Right-HydraulicSTI_11"))
	assert.Equal(t, 2, res.CountCategory(rules.CategoryHydraulicShifter))
	assert.Zero(t, res.CountCategory(rules.CategoryBrakeCaliper))
	assert.Zero(t, res.CountCategory(rules.CategorySTIShifter))
}

func TestTripleClamp(t *testing.T) {
	spec := roadBike()
	spec.FrameStyle = types.FrameTour
	spec.FrontGears = 3
	spec.RearGears = 11

	res := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...)).Resolve(context.Background(), spec)
	require.False(t, res.HasErrors(), "%v", res.Errors)
	assert.Equal(t, []string{rules.ClampWarning}, res.Warnings)
	assert.Equal(t, 10, res.Specification.RearGears)
	assert.Contains(t, res.Keys(), types.ReferenceKey("MechanicalSTI_3_10"))
	assert.Contains(t, res.Keys(), types.ReferenceKey("Cassette_10"))
	assert.Equal(t, 11, spec.RearGears)
}

func TestUnsupportedRearGearsIsolated(t *testing.T) {
	spec := roadBike()
	spec.ShifterStyle = types.ShifterTrigger
	spec.HandleBarType = types.BarsFlat
	spec.RearGears = 3

	res := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...)).Resolve(context.Background(), spec)

	mismatched := make(map[string]bool)
	for _, e := range res.ErrorsOfKind(errors.TypeRuleMismatch) {
		mismatched[e.Category] = true
	}
	for _, c := range []string{rules.CategoryCassette, rules.CategoryChain, rules.CategoryRearDerailleur, rules.CategoryFrontDerailleur} {
		assert.True(t, mismatched[c], c)
	}
	for _, c := range []string{rules.CategoryFrame, rules.CategoryHandlebars, rules.CategoryWheels} {
		assert.Equal(t, 1, res.CountCategory(c), c)
		assert.False(t, mismatched[c], c)
	}
	assert.True(t, res.TotalPrice.IsPositive())
}

func TestCatalogMissIsolated(t *testing.T) {
	store := catalog.NewMemoryStore(loadParts(t)...)
	store.Remove("Cassette_10")

	res := newTestResolver(t, store).Resolve(context.Background(), roadBike())

	misses := res.ErrorsOfKind(errors.TypeCatalogMiss)
	require.Len(t, misses, 1)
	assert.Equal(t, rules.CategoryCassette, misses[0].Category)
	assert.Equal(t, "cassette", misses[0].Rule)
	assert.Equal(t, types.ReferenceKey("Cassette_10"), misses[0].Key)
	assert.Len(t, res.Errors, 1)
	assert.Len(t, res.Parts, 10)
	assert.Zero(t, res.CountCategory(rules.CategoryCassette))
}

func TestCatalogUnavailable(t *testing.T) {
	store := catalog.NewMemoryStore(loadParts(t)...)
	store.FailWith(fmt.Errorf("permission denied"))

	res := newTestResolver(t, store).Resolve(context.Background(), roadBike())

	require.Len(t, res.ErrorsOfKind(errors.TypeCatalogUnavailable), 1)
	assert.Len(t, res.ErrorsOfKind(errors.TypeCatalogMiss), 11)
	assert.Empty(t, res.Parts)
	assert.True(t, res.TotalPrice.IsZero())
	assert.Equal(t, "£0.00", res.TotalPriceDisplay)
}

func TestUnitPanicIsContained(t *testing.T) {
	boom := rules.Rule{Category: "Exploding", Name: "boom", Decide: func(types.BicycleSpecification) (rules.Decision, error) {
		panic("kaboom")
	}}
	r := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...))
	r.topLevel = func() []rules.Rule {
		return append(rules.TopLevel(), boom)
	}

	res := r.Resolve(context.Background(), roadBike())

	failures := res.ErrorsOfKind(errors.TypeUnitFailure)
	require.Len(t, failures, 1)
	assert.Equal(t, "Exploding", failures[0].Category)
	assert.Equal(t, "boom", failures[0].Rule)
	assert.Contains(t, failures[0].Message, "kaboom")
	assert.Len(t, res.Parts, 11)
}

func TestGroupsetPanicIsContained(t *testing.T) {
	r := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...))
	r.plan = func(types.BicycleSpecification) ([]rules.Rule, []rules.Rule) {
		panic("no plan")
	}

	res := r.Resolve(context.Background(), roadBike())
	failures := res.ErrorsOfKind(errors.TypeUnitFailure)
	require.Len(t, failures, 1)
	assert.Equal(t, rules.CategoryGroupset, failures[0].Category)
	assert.Len(t, res.Parts, 3)
}

func TestInvalidPriceRecorded(t *testing.T) {
	store := catalog.NewMemoryStore(loadParts(t)...)
	store.Put(types.Part{Reference: "BarsDrop", Component: "HandleBars", Name: "Bars", Price: "call us"})
	store.Put(types.Part{Reference: "Chain_10", Component: "Chain", Name: "Chain", Price: "1.2.3"})

	res := newTestResolver(t, store).Resolve(context.Background(), roadBike())

	invalid := res.ErrorsOfKind(errors.TypePriceInvalid)
	require.Len(t, invalid, 2)
	assert.ElementsMatch(t,
		[]types.ReferenceKey{"BarsDrop", "Chain_10"},
		[]types.ReferenceKey{invalid[0].Key, invalid[1].Key})
	assert.Len(t, res.Parts, 11)
}

func TestResolveConcurrently(t *testing.T) {
	resolver := newTestResolver(t, catalog.NewMemoryStore(loadParts(t)...), WithMaxWorkers(2))
	want := resolver.Resolve(context.Background(), roadBike()).TotalPrice

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := resolver.Resolve(context.Background(), roadBike())
			assert.True(t, want.Equal(got.TotalPrice))
		}()
	}
	wg.Wait()
}

func TestMetricsAndClock(t *testing.T) {
	rec := metrics.NewRecorder()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := catalog.NewMemoryStore(loadParts(t)...)
	store.Remove("FrameRoadRim")

	res := newTestResolver(t, store, WithMetrics(rec), WithClock(func() time.Time { return fixed })).
		Resolve(context.Background(), roadBike())

	assert.Equal(t, fixed, res.ResolvedAt)

	expected := `
# HELP bikeconfig_resolutions_total Number of bike configuration resolutions.
# TYPE bikeconfig_resolutions_total counter
bikeconfig_resolutions_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "bikeconfig_resolutions_total"))

	n, err := testutil.GatherAndCount(rec.Registry(), "bikeconfig_resolution_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
