package fixtures

import (
	"fmt"
	"math"
)

// CurveType selects which empirical correction a fixture applies.
type CurveType string

const (
	// CurveNone applies no distance correction.
	CurveNone CurveType = "NONE"
	// CurveNarrowBeam loses efficiency past a per-beam distance threshold.
	CurveNarrowBeam CurveType = "NARROW_BEAM"
	// CurveCompact ramps down below the minimum usable distance and pays a
	// power-law drive penalty beyond the maximum usable distance.
	CurveCompact CurveType = "COMPACT"
	// CurveSweetSpot gets a flat efficiency bonus inside a distance band.
	CurveSweetSpot CurveType = "SWEET_SPOT"
)

// CurveSpec parameterizes a fixture's measured deviation from the idealized
// inverse-square model. Only the fields for its Type are consulted; the color
// temperature penalty applies regardless of type.
type CurveSpec struct {
	Type CurveType

	// Narrow beam: distance threshold per modifier. Past the threshold the
	// intensity is reduced by FalloffRate per meter, never below FalloffFloor
	// of the base value.
	BeamThresholds map[string]float64
	FalloffRate    float64
	FalloffFloor   float64

	// Compact light: linear ramp below MinUsable, superlinear penalty beyond
	// MaxUsable (PenaltyRate times the excess distance raised to PenaltyExponent).
	MinUsable       float64
	MaxUsable       float64
	PenaltyRate     float64
	PenaltyExponent float64

	// Sweet spot: drive scaled by SpotFactor inside [SpotMin, SpotMax].
	SpotMin    float64
	SpotMax    float64
	SpotFactor float64

	// TempPenalty maps a color temperature to an extra drive factor, for
	// fixtures that need a few percent more power at one temperature.
	TempPenalty map[string]float64
}

// Apply adjusts a base intensity percentage for the fixture's measured
// behavior at the given distance and resolved modifier/color temperature.
// Deterministic in its inputs; clamping happens later in the solve path.
func (c CurveSpec) Apply(base, distance float64, modifier, colorTemp string) float64 {
	adjusted := base

	switch c.Type {
	case CurveNarrowBeam:
		if threshold, ok := c.BeamThresholds[modifier]; ok && distance > threshold {
			factor := 1 - c.FalloffRate*(distance-threshold)
			if factor < c.FalloffFloor {
				factor = c.FalloffFloor
			}
			adjusted *= factor
		}

	case CurveCompact:
		if distance < c.MinUsable {
			adjusted *= distance / c.MinUsable
		} else if distance > c.MaxUsable {
			adjusted *= 1 + c.PenaltyRate*math.Pow(distance-c.MaxUsable, c.PenaltyExponent)
		}

	case CurveSweetSpot:
		if distance >= c.SpotMin && distance <= c.SpotMax {
			adjusted *= c.SpotFactor
		}
	}

	if factor, ok := c.TempPenalty[colorTemp]; ok {
		adjusted *= factor
	}
	return adjusted
}

func (c CurveSpec) validate(fixture string) error {
	switch c.Type {
	case CurveNone, "":
	case CurveNarrowBeam:
		if len(c.BeamThresholds) == 0 {
			return fmt.Errorf("fixture %q: narrow-beam curve needs beam thresholds", fixture)
		}
		if c.FalloffRate <= 0 || c.FalloffFloor <= 0 || c.FalloffFloor > 1 {
			return fmt.Errorf("fixture %q: narrow-beam curve needs rate > 0 and floor in (0, 1]", fixture)
		}
	case CurveCompact:
		if c.MinUsable <= 0 || c.MaxUsable <= c.MinUsable {
			return fmt.Errorf("fixture %q: compact curve needs 0 < min usable < max usable", fixture)
		}
		if c.PenaltyRate <= 0 || c.PenaltyExponent <= 1 {
			return fmt.Errorf("fixture %q: compact curve needs rate > 0 and superlinear exponent", fixture)
		}
	case CurveSweetSpot:
		if c.SpotMin <= 0 || c.SpotMax <= c.SpotMin || c.SpotFactor <= 0 {
			return fmt.Errorf("fixture %q: sweet-spot curve needs a valid band and factor", fixture)
		}
	default:
		return fmt.Errorf("fixture %q: unknown correction curve type %q", fixture, c.Type)
	}
	for colorTemp, factor := range c.TempPenalty {
		if factor <= 0 {
			return fmt.Errorf("fixture %q: color temp penalty for %s must be positive, got %v", fixture, colorTemp, factor)
		}
	}
	return nil
}
