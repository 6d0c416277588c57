package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsConstantsAndDisplayNames(t *testing.T) {
	f, err := ParseFrameStyle("Single Speed")
	require.NoError(t, err)
	assert.Equal(t, FrameSingleSpeed, f)

	f, err = ParseFrameStyle("gravel")
	require.NoError(t, err)
	assert.Equal(t, FrameGravel, f)

	_, err = ParseFrameStyle("tandem")
	assert.Error(t, err)

	h, err := ParseHandleBarType("Bullhorns")
	require.NoError(t, err)
	assert.Equal(t, BarsBullhorns, h)

	w, err := ParseWheelPreference("Cheap")
	require.NoError(t, err)
	assert.Equal(t, WheelsCheap, w)
}

func TestParseBrakeTypeFallsBackToNoSelection(t *testing.T) {
	assert.Equal(t, BrakeHydraulicDisc, ParseBrakeType("Hydraulic Disc"))
	assert.Equal(t, BrakeNotRequired, ParseBrakeType("NOT_REQUIRED"))
	assert.Equal(t, BrakeNoSelection, ParseBrakeType("coaster"))
}

func TestDisplayNamesRoundTrip(t *testing.T) {
	for _, b := range AllBrakeTypes() {
		assert.Equal(t, b, ParseBrakeType(b.DisplayName()))
	}
	for _, s := range AllShifterStyles() {
		got, err := ParseShifterStyle(s.DisplayName())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestResultHelpers(t *testing.T) {
	r := &BikeConfigurationResult{
		Parts: []ResolvedPart{
			{Category: "Brake-Caliper", Part: Part{Reference: "Rear-RimBrakeCaliper"}},
			{Category: "Frame", Part: Part{Reference: "FrameRoadRim"}},
			{Category: "Brake-Caliper", Part: Part{Reference: "Front-RimBrakeCaliper"}},
		},
	}

	assert.Equal(t, []string{"Brake-Caliper", "Frame"}, r.Categories())
	assert.Equal(t, 2, r.CountCategory("Brake-Caliper"))
	assert.Equal(t, []ReferenceKey{"FrameRoadRim", "Front-RimBrakeCaliper", "Rear-RimBrakeCaliper"}, r.Keys())

	r.SortParts()
	assert.Equal(t, ReferenceKey("Front-RimBrakeCaliper"), r.Parts[0].Reference)
	assert.False(t, r.HasErrors())
}
