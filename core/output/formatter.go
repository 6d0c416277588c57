// Package output renders resolution results for people and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"bike-config/core/types"
	"bike-config/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes result to w
	Render(w io.Writer, result *types.BikeConfigurationResult) error
}

var formatters = map[Format]Formatter{
	FormatCLI:  &CLIFormatter{Details: true},
	FormatJSON: &JSONFormatter{Indent: true},
}

// Get returns the formatter for a format name
func Get(name string) (Formatter, error) {
	f, ok := formatters[Format(strings.ToLower(name))]
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "unknown output format %q (want cli or json)", name)
	}
	return f, nil
}

// Formats lists the registered format names, sorted
func Formats() []string {
	var out []string
	for f := range formatters {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// JSONFormatter writes the result as JSON
type JSONFormatter struct {
	Indent bool
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes result as a single JSON document
func (f *JSONFormatter) Render(w io.Writer, result *types.BikeConfigurationResult) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// CLIFormatter writes a boxed summary followed by the parts table
type CLIFormatter struct {
	// Details adds the product link under each part
	Details bool
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format { return FormatCLI }

const boxWidth = 73

// Render writes the bill of materials, errors and total
func (f *CLIFormatter) Render(w io.Writer, result *types.BikeConfigurationResult) error {
	p := &printer{w: w}

	p.line("┌" + strings.Repeat("─", boxWidth) + "┐")
	p.boxed(center("BIKE CONFIGURATION", boxWidth-2))
	p.line("├" + strings.Repeat("─", boxWidth) + "┤")
	spec := result.Specification
	if spec.Name != "" {
		p.boxed(fmt.Sprintf("%-20s %s", "Bike", spec.Name))
	}
	p.boxed(fmt.Sprintf("%-20s %s", "Frame", spec.FrameStyle.DisplayName()))
	p.boxed(fmt.Sprintf("%-20s %s", "Brakes", spec.BrakeType.DisplayName()))
	p.boxed(fmt.Sprintf("%-20s %s", "Bars", spec.HandleBarType.DisplayName()))
	p.boxed(fmt.Sprintf("%-20s %s", "Shifters", spec.ShifterStyle.DisplayName()))
	p.boxed(fmt.Sprintf("%-20s %dx%d", "Gears", spec.FrontGears, spec.RearGears))
	p.boxed(fmt.Sprintf("%-20s %s", "Wheels", spec.WheelPreference.DisplayName()))
	p.line("└" + strings.Repeat("─", boxWidth) + "┘")
	p.line("")

	if len(result.Parts) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tPART\tREFERENCE\tPRICE\t")
		for _, part := range result.Parts {
			price := part.Price
			if price == "" {
				price = "-"
			}
			name := part.Name
			if !part.UpToDate {
				name += " *"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", part.Category, truncate(name, 40), part.Reference, price)
			if f.Details && part.Link != "" {
				fmt.Fprintf(tw, "\t  %s\t\t\t\n", part.Link)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		p.line("")
	}

	if len(result.Warnings) > 0 {
		p.line("Warnings:")
		for _, warn := range result.Warnings {
			p.line("  " + warn)
		}
		p.line("")
	}

	if len(result.Errors) > 0 {
		p.line(fmt.Sprintf("Errors (%d):", len(result.Errors)))
		for _, e := range result.Errors {
			p.line("  " + e.Error())
		}
		p.line("")
	}

	p.line(fmt.Sprintf("TOTAL  %s", result.TotalPriceDisplay))
	if stale := countStale(result.Parts); stale > 0 {
		p.line(fmt.Sprintf("* %d price(s) not confirmed recently", stale))
	}
	return p.err
}

// printer remembers the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) boxed(s string) {
	p.line(fmt.Sprintf("│ %-*s │", boxWidth-2, truncate(s, boxWidth-2)))
}

func center(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func countStale(parts []types.ResolvedPart) int {
	n := 0
	for _, p := range parts {
		if !p.UpToDate {
			n++
		}
	}
	return n
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
