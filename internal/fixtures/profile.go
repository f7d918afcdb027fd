// Package fixtures defines photometric fixture profiles, the built-in
// catalog, and the empirical correction curves applied on top of the
// idealized inverse-square model.
package fixtures

import (
	"fmt"

	"github.com/luxplan/luxplan-go/pkg/photometry"
)

// EffectiveRange is the distance band in meters within which a fixture is
// practically usable.
type EffectiveRange struct {
	Min float64
	Max float64
}

// Measurement is one resolved photometric table entry: the modifier and color
// temperature the lookup actually landed on, and the measured illuminance in
// lux at the profile's reference distance.
type Measurement struct {
	Modifier  string
	ColorTemp string
	Lux       float64
}

// Profile is a read-only catalog entry describing one light fixture.
type Profile struct {
	// Name keys the fixture in the catalog.
	Name string
	// MaxOutput is the fixture's rated luminous intensity in lux·m².
	MaxOutput float64
	// ReferenceDistance is where the photometric measurements were taken, in meters.
	ReferenceDistance float64
	// Calibration ties the reference measurement to camera exposure.
	Calibration photometry.Calibration
	// Modifiers lists the fixture's diffusion or beam options in order; the
	// first entry is the default.
	Modifiers []string
	// ColorTemps lists supported color temperatures in order; the first entry
	// is the fallback.
	ColorTemps []string
	// Table maps modifier -> color temp -> measured lux at ReferenceDistance.
	Table map[string]map[string]float64
	// Range is the fixture's effective operating envelope.
	Range EffectiveRange
	// Curve parameterizes the fixture's empirical corrections.
	Curve CurveSpec
}

// DefaultModifier returns the fixture's first listed modifier.
func (p *Profile) DefaultModifier() string {
	return p.Modifiers[0]
}

// FirstColorTemp returns the fixture's first listed color temperature.
func (p *Profile) FirstColorTemp() string {
	return p.ColorTemps[0]
}

// Resolve looks up the measured illuminance for a modifier and color
// temperature. Unknown combinations never fail; they fall back in order to the
// same modifier with the first color temp, the default modifier with the
// requested temp, and finally the default modifier with the first temp. The
// returned Measurement carries the pair the lookup landed on so corrections
// key off resolved values.
func (p *Profile) Resolve(modifier, colorTemp string) Measurement {
	candidates := []Measurement{
		{Modifier: modifier, ColorTemp: colorTemp},
		{Modifier: modifier, ColorTemp: p.FirstColorTemp()},
		{Modifier: p.DefaultModifier(), ColorTemp: colorTemp},
		{Modifier: p.DefaultModifier(), ColorTemp: p.FirstColorTemp()},
	}
	for _, c := range candidates {
		if lux, ok := p.lookup(c.Modifier, c.ColorTemp); ok {
			c.Lux = lux
			return c
		}
	}
	// Validation guarantees the default/first entry exists, so this is
	// unreachable for a catalog profile.
	return Measurement{Modifier: p.DefaultModifier(), ColorTemp: p.FirstColorTemp()}
}

func (p *Profile) lookup(modifier, colorTemp string) (float64, bool) {
	row, ok := p.Table[modifier]
	if !ok {
		return 0, false
	}
	lux, ok := row[colorTemp]
	return lux, ok
}

// FullIntensity returns the luminous intensity in lux·m² the fixture delivers
// at 100% drive under the resolved measurement.
func (p *Profile) FullIntensity(m Measurement) float64 {
	return photometry.LuminousIntensity(m.Lux, p.ReferenceDistance)
}

// Validate checks a profile for internal consistency. Catalog construction
// rejects profiles that fail so lookups never have to handle bad data.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("fixture profile has no name")
	}
	if p.MaxOutput <= 0 {
		return fmt.Errorf("fixture %q: max output must be positive, got %v", p.Name, p.MaxOutput)
	}
	if p.ReferenceDistance <= 0 {
		return fmt.Errorf("fixture %q: reference distance must be positive, got %v", p.Name, p.ReferenceDistance)
	}
	if p.Calibration.Illuminance <= 0 || p.Calibration.TStop <= 0 {
		return fmt.Errorf("fixture %q: calibration must be positive, got %+v", p.Name, p.Calibration)
	}
	if len(p.Modifiers) == 0 {
		return fmt.Errorf("fixture %q: at least one modifier required", p.Name)
	}
	if len(p.ColorTemps) == 0 {
		return fmt.Errorf("fixture %q: at least one color temperature required", p.Name)
	}
	if p.Range.Min <= 0 || p.Range.Max <= p.Range.Min {
		return fmt.Errorf("fixture %q: effective range [%v, %v] is not a valid band", p.Name, p.Range.Min, p.Range.Max)
	}

	listedModifiers := make(map[string]bool, len(p.Modifiers))
	for _, m := range p.Modifiers {
		listedModifiers[m] = true
	}
	listedTemps := make(map[string]bool, len(p.ColorTemps))
	for _, c := range p.ColorTemps {
		listedTemps[c] = true
	}

	for modifier, row := range p.Table {
		if !listedModifiers[modifier] {
			return fmt.Errorf("fixture %q: table entry for unlisted modifier %q", p.Name, modifier)
		}
		if len(row) == 0 {
			return fmt.Errorf("fixture %q: modifier %q has no measurements", p.Name, modifier)
		}
		for colorTemp, lux := range row {
			if !listedTemps[colorTemp] {
				return fmt.Errorf("fixture %q: table entry for unlisted color temp %q", p.Name, colorTemp)
			}
			if lux <= 0 {
				return fmt.Errorf("fixture %q: measurement %s/%s must be positive, got %v", p.Name, modifier, colorTemp, lux)
			}
		}
	}
	for _, m := range p.Modifiers {
		if _, ok := p.Table[m]; !ok {
			return fmt.Errorf("fixture %q: listed modifier %q has no measurements", p.Name, m)
		}
	}
	if _, ok := p.lookup(p.DefaultModifier(), p.FirstColorTemp()); !ok {
		return fmt.Errorf("fixture %q: missing measurement for default modifier %q at %s", p.Name, p.DefaultModifier(), p.FirstColorTemp())
	}
	return p.Curve.validate(p.Name)
}
