// Package bikefile parses bike specifications written in HCL:
//
//	bike "commuter" {
//	  frame_style      = "TOUR"
//	  brake_type       = "Hydraulic Disc"
//	  handlebar_type   = "FLAT"
//	  shifter_style    = "TRIGGER"
//	  front_gears      = 3
//	  rear_gears       = 10
//	  wheel_preference = "Cheap"
//	}
//
// Enum values accept either the constant or the display name.
package bikefile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	"go.uber.org/multierr"

	"bike-config/core/types"
	"bike-config/internal/errors"
)

// Extension is the conventional file extension
const Extension = ".bike.hcl"

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "bike", LabelNames: []string{"name"}},
	},
}

var bikeSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "frame_style", Required: true},
		{Name: "disc_brakes"},
		{Name: "brake_type", Required: true},
		{Name: "groupset_brand"},
		{Name: "handlebar_type", Required: true},
		{Name: "shifter_style", Required: true},
		{Name: "front_gears", Required: true},
		{Name: "rear_gears", Required: true},
		{Name: "wheel_preference", Required: true},
	},
}

// Diagnostic is one problem found in a file
type Diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
}

// File is a parsed bike file
type File struct {
	Path        string
	Bikes       []types.BicycleSpecification
	Diagnostics []Diagnostic
}

// Err combines every diagnostic into one input error, or returns nil
func (f *File) Err() error {
	if len(f.Diagnostics) == 0 {
		return nil
	}
	var combined error
	for _, d := range f.Diagnostics {
		combined = multierr.Append(combined, d)
	}
	return errors.Wrap(errors.TypeInput, fmt.Sprintf("%s has %d problem(s)", f.Path, len(f.Diagnostics)), combined)
}

// Bike returns the named bike. With an empty name, a file holding exactly
// one bike returns it.
func (f *File) Bike(name string) (types.BicycleSpecification, error) {
	if name == "" {
		if len(f.Bikes) == 1 {
			return f.Bikes[0], nil
		}
		return types.BicycleSpecification{}, errors.Newf(errors.TypeInput, "%s defines %d bikes, choose one by name", f.Path, len(f.Bikes))
	}
	for _, b := range f.Bikes {
		if b.Name == name {
			return b, nil
		}
	}
	return types.BicycleSpecification{}, errors.NotFound("bike", name)
}

// Parse reads and parses the file at path
func Parse(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "read bike file", err)
	}
	return ParseBytes(src, path), nil
}

// ParseBytes parses src; filename is used in diagnostics
func ParseBytes(src []byte, filename string) *File {
	f := &File{Path: filename}

	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		f.addDiags(diags)
		return f
	}

	content, diags := hclFile.Body.Content(fileSchema)
	f.addDiags(diags)

	seen := make(map[string]int)
	for _, block := range content.Blocks {
		name := block.Labels[0]
		if first, dup := seen[name]; dup {
			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				File:    filename,
				Line:    block.DefRange.Start.Line,
				Message: fmt.Sprintf("bike %q already defined on line %d", name, first),
			})
			continue
		}
		seen[name] = block.DefRange.Start.Line

		if spec, ok := f.parseBike(name, block); ok {
			f.Bikes = append(f.Bikes, spec)
		}
	}
	return f
}

func (f *File) addDiags(diags hcl.Diagnostics) {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		f.Diagnostics = append(f.Diagnostics, Diagnostic{File: f.Path, Line: line, Message: msg})
	}
}

func (f *File) parseBike(name string, block *hcl.Block) (types.BicycleSpecification, bool) {
	content, diags := block.Body.Content(bikeSchema)
	f.addDiags(diags)
	if diags.HasErrors() {
		return types.BicycleSpecification{}, false
	}

	before := len(f.Diagnostics)
	spec := types.BicycleSpecification{Name: name}

	if s, ok := f.stringAttr(content, "frame_style"); ok {
		v, err := types.ParseFrameStyle(s)
		f.check(content, "frame_style", err)
		spec.FrameStyle = v
	}
	if s, ok := f.stringAttr(content, "brake_type"); ok {
		spec.BrakeType = types.ParseBrakeType(s)
		if spec.BrakeType == types.BrakeNoSelection && !strings.EqualFold(strings.ReplaceAll(s, " ", "_"), string(types.BrakeNoSelection)) {
			f.check(content, "brake_type", fmt.Errorf("unknown brake type %q", s))
		}
	}
	spec.GroupsetBrand = types.GroupsetShimano
	if s, ok := f.stringAttr(content, "groupset_brand"); ok {
		v, err := types.ParseGroupsetBrand(s)
		f.check(content, "groupset_brand", err)
		spec.GroupsetBrand = v
	}
	if s, ok := f.stringAttr(content, "handlebar_type"); ok {
		v, err := types.ParseHandleBarType(s)
		f.check(content, "handlebar_type", err)
		spec.HandleBarType = v
	}
	if s, ok := f.stringAttr(content, "shifter_style"); ok {
		v, err := types.ParseShifterStyle(s)
		f.check(content, "shifter_style", err)
		spec.ShifterStyle = v
	}
	if s, ok := f.stringAttr(content, "wheel_preference"); ok {
		v, err := types.ParseWheelPreference(s)
		f.check(content, "wheel_preference", err)
		spec.WheelPreference = v
	}
	if n, ok := f.intAttr(content, "front_gears"); ok {
		spec.FrontGears = n
	}
	if n, ok := f.intAttr(content, "rear_gears"); ok {
		spec.RearGears = n
	}

	spec.DiscBrakeCompatible = spec.BrakeType.IsDisc()
	if attr, ok := content.Attributes["disc_brakes"]; ok {
		var disc bool
		if val, ok := f.value(attr, cty.Bool); ok {
			f.check(content, "disc_brakes", gocty.FromCtyValue(val, &disc))
			spec.DiscBrakeCompatible = disc
		}
	}

	return spec, len(f.Diagnostics) == before
}

func (f *File) value(attr *hcl.Attribute, want cty.Type) (cty.Value, bool) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		f.addDiags(diags)
		return cty.NilVal, false
	}
	if !val.IsKnown() || val.IsNull() {
		f.diag(attr, fmt.Sprintf("%s must be a literal value", attr.Name))
		return cty.NilVal, false
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		f.diag(attr, fmt.Sprintf("%s: expected %s, got %s", attr.Name, want.FriendlyName(), val.Type().FriendlyName()))
		return cty.NilVal, false
	}
	return converted, true
}

func (f *File) stringAttr(content *hcl.BodyContent, name string) (string, bool) {
	attr, ok := content.Attributes[name]
	if !ok {
		return "", false
	}
	val, ok := f.value(attr, cty.String)
	if !ok {
		return "", false
	}
	return val.AsString(), true
}

func (f *File) intAttr(content *hcl.BodyContent, name string) (int, bool) {
	attr, ok := content.Attributes[name]
	if !ok {
		return 0, false
	}
	val, ok := f.value(attr, cty.Number)
	if !ok {
		return 0, false
	}
	var n int
	if err := gocty.FromCtyValue(val, &n); err != nil {
		f.diag(attr, fmt.Sprintf("%s must be a whole number", name))
		return 0, false
	}
	return n, true
}

func (f *File) check(content *hcl.BodyContent, name string, err error) {
	if err == nil {
		return
	}
	f.diag(content.Attributes[name], err.Error())
}

func (f *File) diag(attr *hcl.Attribute, msg string) {
	line := 0
	if attr != nil {
		line = attr.Range.Start.Line
	}
	f.Diagnostics = append(f.Diagnostics, Diagnostic{File: f.Path, Line: line, Message: msg})
}
