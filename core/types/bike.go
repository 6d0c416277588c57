// Package types - Bicycle specification model
package types

import (
	"fmt"
	"strings"
)

// FrameStyle is the frame geometry
type FrameStyle string

const (
	FrameRoad        FrameStyle = "ROAD"
	FrameTour        FrameStyle = "TOUR"
	FrameGravel      FrameStyle = "GRAVEL"
	FrameSingleSpeed FrameStyle = "SINGLE_SPEED"
)

// AllFrameStyles returns every frame style
func AllFrameStyles() []FrameStyle {
	return []FrameStyle{FrameRoad, FrameTour, FrameGravel, FrameSingleSpeed}
}

// DisplayName returns the name shown to users
func (f FrameStyle) DisplayName() string {
	switch f {
	case FrameRoad:
		return "Road"
	case FrameTour:
		return "Tour"
	case FrameGravel:
		return "Gravel"
	case FrameSingleSpeed:
		return "Single Speed"
	default:
		return string(f)
	}
}

// ParseFrameStyle accepts the constant or the display name
func ParseFrameStyle(s string) (FrameStyle, error) {
	for _, f := range AllFrameStyles() {
		if matches(s, string(f), f.DisplayName()) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frame style %q", s)
}

// BrakeType is the braking system
type BrakeType string

const (
	BrakeRim            BrakeType = "RIM"
	BrakeMechanicalDisc BrakeType = "MECHANICAL_DISC"
	BrakeHydraulicDisc  BrakeType = "HYDRAULIC_DISC"
	BrakeNotRequired    BrakeType = "NOT_REQUIRED"
	BrakeNoSelection    BrakeType = "NO_SELECTION"
)

// AllBrakeTypes returns every brake type
func AllBrakeTypes() []BrakeType {
	return []BrakeType{BrakeRim, BrakeMechanicalDisc, BrakeHydraulicDisc, BrakeNotRequired, BrakeNoSelection}
}

// DisplayName returns the name shown to users
func (b BrakeType) DisplayName() string {
	switch b {
	case BrakeRim:
		return "Rim"
	case BrakeMechanicalDisc:
		return "Mechanical Disc"
	case BrakeHydraulicDisc:
		return "Hydraulic Disc"
	case BrakeNotRequired:
		return "Not Required"
	case BrakeNoSelection:
		return "No Selection"
	default:
		return string(b)
	}
}

// IsDisc reports whether the brake needs a disc-compatible frame
func (b BrakeType) IsDisc() bool {
	return b == BrakeMechanicalDisc || b == BrakeHydraulicDisc
}

// ParseBrakeType accepts the constant or the display name. Unknown names
// map to BrakeNoSelection.
func ParseBrakeType(s string) BrakeType {
	for _, b := range AllBrakeTypes() {
		if matches(s, string(b), b.DisplayName()) {
			return b
		}
	}
	return BrakeNoSelection
}

// GroupsetBrand is the drivetrain manufacturer
type GroupsetBrand string

const (
	GroupsetShimano GroupsetBrand = "SHIMANO"
)

// AllGroupsetBrands returns every supported brand
func AllGroupsetBrands() []GroupsetBrand {
	return []GroupsetBrand{GroupsetShimano}
}

// DisplayName returns the name shown to users
func (g GroupsetBrand) DisplayName() string {
	if g == GroupsetShimano {
		return "Shimano"
	}
	return string(g)
}

// ParseGroupsetBrand accepts the constant or the display name
func ParseGroupsetBrand(s string) (GroupsetBrand, error) {
	for _, g := range AllGroupsetBrands() {
		if matches(s, string(g), g.DisplayName()) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown groupset brand %q", s)
}

// HandleBarType is the handlebar shape
type HandleBarType string

const (
	BarsDrops     HandleBarType = "DROPS"
	BarsFlat      HandleBarType = "FLAT"
	BarsBullhorns HandleBarType = "BULLHORNS"
	BarsFlare     HandleBarType = "FLARE"
)

// AllHandleBarTypes returns every handlebar type
func AllHandleBarTypes() []HandleBarType {
	return []HandleBarType{BarsDrops, BarsFlat, BarsBullhorns, BarsFlare}
}

// DisplayName returns the name shown to users
func (h HandleBarType) DisplayName() string {
	switch h {
	case BarsDrops:
		return "Drops"
	case BarsFlat:
		return "Flat"
	case BarsBullhorns:
		return "Bullhorns"
	case BarsFlare:
		return "Flare"
	default:
		return string(h)
	}
}

// ParseHandleBarType accepts the constant or the display name
func ParseHandleBarType(s string) (HandleBarType, error) {
	for _, h := range AllHandleBarTypes() {
		if matches(s, string(h), h.DisplayName()) {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown handlebar type %q", s)
}

// ShifterStyle is the gear shifting mechanism
type ShifterStyle string

const (
	ShifterSTI     ShifterStyle = "STI"
	ShifterTrigger ShifterStyle = "TRIGGER"
	ShifterNone    ShifterStyle = "NONE"
)

// AllShifterStyles returns every shifter style
func AllShifterStyles() []ShifterStyle {
	return []ShifterStyle{ShifterSTI, ShifterTrigger, ShifterNone}
}

// DisplayName returns the name shown to users
func (s ShifterStyle) DisplayName() string {
	switch s {
	case ShifterSTI:
		return "STI"
	case ShifterTrigger:
		return "Trigger"
	case ShifterNone:
		return "None"
	default:
		return string(s)
	}
}

// ParseShifterStyle accepts the constant or the display name
func ParseShifterStyle(s string) (ShifterStyle, error) {
	for _, st := range AllShifterStyles() {
		if matches(s, string(st), st.DisplayName()) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown shifter style %q", s)
}

// WheelPreference selects the wheel price band
type WheelPreference string

const (
	WheelsCheap     WheelPreference = "CHEAP"
	WheelsExpensive WheelPreference = "EXPENSIVE"
)

// AllWheelPreferences returns every wheel preference
func AllWheelPreferences() []WheelPreference {
	return []WheelPreference{WheelsCheap, WheelsExpensive}
}

// DisplayName returns the name shown to users
func (w WheelPreference) DisplayName() string {
	switch w {
	case WheelsCheap:
		return "Cheap"
	case WheelsExpensive:
		return "Expensive"
	default:
		return string(w)
	}
}

// ParseWheelPreference accepts the constant or the display name
func ParseWheelPreference(s string) (WheelPreference, error) {
	for _, w := range AllWheelPreferences() {
		if matches(s, string(w), w.DisplayName()) {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown wheel preference %q", s)
}

// BicycleSpecification is the read-only input of one resolution. It is a
// plain value: every rule receives its own copy.
type BicycleSpecification struct {
	Name                string          `json:"name,omitempty"`
	FrameStyle          FrameStyle      `json:"frame_style"`
	DiscBrakeCompatible bool            `json:"disc_brake_compatible"`
	BrakeType           BrakeType       `json:"brake_type"`
	GroupsetBrand       GroupsetBrand   `json:"groupset_brand,omitempty"`
	HandleBarType       HandleBarType   `json:"handlebar_type"`
	ShifterStyle        ShifterStyle    `json:"shifter_style"`
	FrontGears          int             `json:"front_gears"`
	RearGears           int             `json:"rear_gears"`
	WheelPreference     WheelPreference `json:"wheel_preference"`
}

// IsSingleSpeed reports whether the bike has no gears to shift
func (s BicycleSpecification) IsSingleSpeed() bool {
	return s.FrameStyle == FrameSingleSpeed
}

// String returns a compact description for logs
func (s BicycleSpecification) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%dx%d/%s/%s",
		s.FrameStyle, s.BrakeType, s.HandleBarType, s.ShifterStyle,
		s.FrontGears, s.RearGears, s.WheelPreference, s.GroupsetBrand)
}

func matches(input string, names ...string) bool {
	input = strings.TrimSpace(input)
	for _, n := range names {
		if strings.EqualFold(input, n) {
			return true
		}
	}
	return false
}
