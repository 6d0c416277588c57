package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-config/core/types"
	"bike-config/internal/errors"
)

func sampleResult() *types.BikeConfigurationResult {
	return &types.BikeConfigurationResult{
		ID: "r-1",
		Specification: types.BicycleSpecification{
			Name:            "racer",
			FrameStyle:      types.FrameRoad,
			BrakeType:       types.BrakeRim,
			HandleBarType:   types.BarsDrops,
			ShifterStyle:    types.ShifterSTI,
			FrontGears:      2,
			RearGears:       11,
			WheelPreference: types.WheelsCheap,
		},
		Parts: []types.ResolvedPart{
			{Category: "Frame", Rule: "frame", Part: types.Part{Reference: "FrameRoad", Name: "Road frame", Price: "899.00", Link: "https://example.com/frame", UpToDate: true}},
			{Category: "Bars", Rule: "bars", Part: types.Part{Reference: "BarsDrop", Name: "Drop bars", Price: "35.50"}},
		},
		Errors: []types.ResolutionError{
			{Kind: errors.TypeCatalogMiss, Category: "Wheels", Rule: "wheels", Key: "WheelsCheapRim", Message: "no catalog entry"},
		},
		Warnings:          []string{"front 3 rear 11 clamped to rear 10"},
		TotalPrice:        decimal.RequireFromString("934.50"),
		TotalPriceDisplay: "£934.50",
	}
}

func TestGet(t *testing.T) {
	f, err := Get("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f.Format())

	f, err = Get("cli")
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f.Format())

	_, err = Get("html")
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Equal(t, []string{"cli", "json"}, Formats())
}

func TestCLIFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CLIFormatter{Details: true}).Render(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "BIKE CONFIGURATION")
	assert.Contains(t, out, "racer")
	assert.Contains(t, out, "2x11")
	assert.Contains(t, out, "Road frame")
	assert.Contains(t, out, "Drop bars *")
	assert.Contains(t, out, "https://example.com/frame")
	assert.Contains(t, out, "Errors (1):")
	assert.Contains(t, out, "WheelsCheapRim")
	assert.Contains(t, out, "clamped to rear 10")
	assert.Contains(t, out, "TOTAL  £934.50")
	assert.Contains(t, out, "* 1 price(s) not confirmed recently")

	buf.Reset()
	require.NoError(t, (&CLIFormatter{}).Render(&buf, sampleResult()))
	assert.NotContains(t, buf.String(), "https://example.com/frame")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Render(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "£934.50", decoded["total_price_display"])
	assert.Equal(t, "934.5", decoded["total_price"])
	assert.Len(t, decoded["parts"], 2)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
