// Package solver implements the exposure-to-placement calculation: given
// camera settings and a fixture from the photometric catalog, it returns the
// placement distance and drive intensity that achieve correct exposure under
// one of three strategies (auto-balance, fixed distance, fixed intensity).
//
// The solver is stateless and performs no I/O; every call is deterministic in
// its inputs and the injected catalog, and safe to run concurrently.
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxplan/luxplan-go/internal/fixtures"
	"github.com/luxplan/luxplan-go/pkg/photometry"
)

// Mode selects which solve strategy runs.
type Mode string

const (
	// ModeAuto balances distance and intensity into a comfortable band.
	ModeAuto Mode = "AUTO"
	// ModeFixedDistance solves intensity for a caller-supplied distance.
	ModeFixedDistance Mode = "FIXED_DISTANCE"
	// ModeFixedIntensity solves distance for a caller-supplied intensity.
	ModeFixedIntensity Mode = "FIXED_INTENSITY"
)

// Warning classifies the exposure risk of a result. The values are the wire
// strings of the HTTP contract; WarningNone marshals as null at the boundary.
type Warning string

const (
	WarningNone              Warning = ""
	WarningInsufficientLight Warning = "insufficient_light"
	WarningTooMuchLight      Warning = "too_much_light"
	WarningTooFar            Warning = "too_far"
)

// Practical input bounds and placement limits.
const (
	MinTStop     = 0.7
	MaxTStop     = 45.0
	MinISO       = 50
	MaxISO       = 25600
	MinFramerate = 12.0
	MaxFramerate = 300.0

	// MinDistance is the enforced placement floor in meters.
	MinDistance = 1.0
	// MaxDistance is the placement ceiling in meters for derived distances.
	MaxDistance = 15.0
)

const (
	bandLow  = 30.0
	bandHigh = 80.0

	autoStep = 0.1
	// maxWalkSteps covers the whole [MinDistance, MaxDistance] range at
	// autoStep, so each walk direction terminates independent of float drift.
	maxWalkSteps = 140

	// minDrive is the lowest useful drive percentage; fixed-distance results
	// below it floor here and flag too much light.
	minDrive = 10.0

	closeRangePenalty = 0.8
	farRangeBoost     = 1.2

	// unreachableIntensity marks fixed-intensity requests that cannot make
	// exposure even at the closest placement.
	unreachableIntensity = 99.0
)

// ErrInvalidRequest is wrapped by every validation failure; match with
// errors.Is to translate into a client error.
var ErrInvalidRequest = errors.New("invalid request")

// Request is one solve invocation. Distance is consulted only in
// ModeFixedDistance and Intensity only in ModeFixedIntensity; both are
// pointers so a missing field is distinguishable from zero. Modifier and
// ColorTemp may be anything; unknown values resolve through the profile's
// fallback chain rather than failing.
type Request struct {
	TStop     float64
	ISO       int
	Framerate float64
	Fixture   string
	Modifier  string
	ColorTemp string
	Mode      Mode
	Distance  *float64
	Intensity *float64
}

// Result is the solved placement. Distance and Intensity are rounded to two
// decimals; ModeText describes which strategy produced the result.
type Result struct {
	Distance  float64
	Intensity float64
	Warning   Warning
	ModeText  string
}

// Solver computes placements against an immutable fixture catalog.
type Solver struct {
	catalog *fixtures.Catalog
}

// New creates a Solver over the given catalog.
func New(catalog *fixtures.Catalog) *Solver {
	return &Solver{catalog: catalog}
}

// Catalog returns the catalog the solver was built with.
func (s *Solver) Catalog() *fixtures.Catalog {
	return s.catalog
}

// Solve validates the request and runs exactly one strategy. It fails only
// with ErrInvalidRequest; a validated request always produces a result.
func (s *Solver) Solve(req Request) (Result, error) {
	if err := s.validate(req); err != nil {
		return Result{}, err
	}

	profile, _ := s.catalog.Get(req.Fixture)
	measurement := profile.Resolve(req.Modifier, req.ColorTemp)
	required := photometry.RequiredIlluminance(profile.Calibration, req.TStop, req.ISO, req.Framerate)
	full := profile.FullIntensity(measurement)

	switch req.Mode {
	case ModeFixedDistance:
		return s.solveAtDistance(profile, measurement, required, full, *req.Distance), nil
	case ModeFixedIntensity:
		return s.solveForIntensity(profile, measurement, required, full, *req.Intensity), nil
	default:
		return s.solveAuto(profile, measurement, required, full), nil
	}
}

func (s *Solver) validate(req Request) error {
	if !(req.TStop >= MinTStop && req.TStop <= MaxTStop) {
		return fmt.Errorf("%w: t_stop %v outside [%v, %v]", ErrInvalidRequest, req.TStop, MinTStop, MaxTStop)
	}
	if req.ISO < MinISO || req.ISO > MaxISO {
		return fmt.Errorf("%w: iso %d outside [%d, %d]", ErrInvalidRequest, req.ISO, MinISO, MaxISO)
	}
	if !(req.Framerate >= MinFramerate && req.Framerate <= MaxFramerate) {
		return fmt.Errorf("%w: framerate %v outside [%v, %v]", ErrInvalidRequest, req.Framerate, MinFramerate, MaxFramerate)
	}
	if _, ok := s.catalog.Get(req.Fixture); !ok {
		return fmt.Errorf("%w: unknown fixture %q", ErrInvalidRequest, req.Fixture)
	}

	switch req.Mode {
	case ModeFixedDistance:
		if req.Distance == nil {
			return fmt.Errorf("%w: fixed-distance solve requires a distance", ErrInvalidRequest)
		}
		if !(*req.Distance >= MinDistance) {
			return fmt.Errorf("%w: distance %v below the %v m floor", ErrInvalidRequest, *req.Distance, MinDistance)
		}
	case ModeFixedIntensity:
		if req.Intensity == nil {
			return fmt.Errorf("%w: fixed-intensity solve requires an intensity", ErrInvalidRequest)
		}
		if !(*req.Intensity > 0 && *req.Intensity <= 100) {
			return fmt.Errorf("%w: intensity %v outside (0, 100]", ErrInvalidRequest, *req.Intensity)
		}
	case ModeAuto, "":
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}
	return nil
}

// baseIntensity is the drive percentage that delivers the required
// illuminance at the given distance, before empirical corrections.
func baseIntensity(required, distance, full float64) float64 {
	return photometry.LuminousIntensity(required, distance) / full * 100
}

// solveAtDistance evaluates the single algebraic form for a fixed placement.
func (s *Solver) solveAtDistance(p *fixtures.Profile, m fixtures.Measurement, required, full, distance float64) Result {
	o := outcome{
		distance:  distance,
		intensity: baseIntensity(required, distance, full),
		correct:   true,
		penalize:  true,
		floorLow:  true,
	}
	return s.finish(p, m, o, fmt.Sprintf("at your specified distance of %g meters", distance))
}

// solveForIntensity inverts the inverse-square relation for a fixed drive.
// The caller fixed the intensity, so corrections and range penalties never
// alter it; only warnings are attached.
func (s *Solver) solveForIntensity(p *fixtures.Profile, m fixtures.Measurement, required, full, intensity float64) Result {
	modeText := fmt.Sprintf("at your specified intensity of %g%%", intensity)

	distance := photometry.DistanceFor(intensity/100*full, required)
	if distance < MinDistance && intensity >= unreachableIntensity {
		// Full drive at the closest placement still cannot make exposure.
		return Result{
			Distance:  MinDistance,
			Intensity: 100,
			Warning:   WarningInsufficientLight,
			ModeText:  modeText,
		}
	}

	o := outcome{distance: distance, intensity: intensity}
	switch {
	case distance < MinDistance:
		o.distance = MinDistance
	case distance > MaxDistance:
		o.distance = MaxDistance
		o.atCeiling = true
	}
	return s.finish(p, m, o, modeText)
}

// solveAuto seeds at the distance where the rated output would need 100%
// drive, then nudges placement in 0.1 m steps until the drive lands in the
// [30, 80] band, pinning at a band edge when the walk runs out of room.
func (s *Solver) solveAuto(p *fixtures.Profile, m fixtures.Measurement, required, full float64) Result {
	const modeText = "with automatically optimized settings"

	distance := photometry.DistanceFor(p.MaxOutput, required)
	distance = math.Min(math.Max(distance, MinDistance), MaxDistance)
	// Walk on the centimeter lattice the result is reported on, so replaying
	// the returned distance in fixed-distance mode reproduces the intensity.
	distance = round2(distance)
	intensity := baseIntensity(required, distance, full)

	for i := 0; i < maxWalkSteps && intensity > bandHigh && distance > MinDistance; i++ {
		distance = math.Max(MinDistance, distance-autoStep)
		intensity = baseIntensity(required, distance, full)
	}
	for i := 0; i < maxWalkSteps && intensity < bandLow && distance < MaxDistance; i++ {
		distance = math.Min(MaxDistance, distance+autoStep)
		intensity = baseIntensity(required, distance, full)
	}

	o := outcome{
		distance:  distance,
		intensity: intensity,
		correct:   true,
		penalize:  true,
		floorLow:  true,
	}
	if intensity > bandHigh && distance <= MinDistance {
		// Pinned at the floor: even the closest placement over-drives. The
		// pinned value is reported exactly, so corrections and range scaling
		// are skipped.
		if intensity > 100 {
			o.intensity = 100
		} else {
			o.intensity = bandHigh
		}
		o.warning = WarningInsufficientLight
		o.correct = false
		o.penalize = false
	}
	if intensity < bandLow && distance >= MaxDistance {
		o.intensity = bandLow
		o.correct = false
		o.penalize = false
	}
	if distance >= MaxDistance {
		o.atCeiling = true
	}
	return s.finish(p, m, o, modeText)
}

// outcome carries a strategy's raw solution into classification.
type outcome struct {
	distance  float64
	intensity float64
	// warning raised by the strategy itself (band pins, unreachable targets).
	warning Warning
	// atCeiling marks a derived distance that hit the 15 m ceiling.
	atCeiling bool
	// correct applies the profile's empirical curve to the intensity.
	correct bool
	// penalize scales intensity on effective-range violations.
	penalize bool
	// floorLow raises results below the minimum useful drive.
	floorLow bool
}

// finish applies corrections, effective-range classification, and clamps, in
// that order. Warning precedence, strongest last: clamp warnings < strategy
// warnings < range classification < the placement ceiling.
func (s *Solver) finish(p *fixtures.Profile, m fixtures.Measurement, o outcome, modeText string) Result {
	intensity := o.intensity
	if o.correct {
		intensity = p.Curve.Apply(intensity, o.distance, m.Modifier, m.ColorTemp)
	}

	warning := o.warning
	switch {
	case o.distance < p.Range.Min:
		if o.penalize {
			intensity *= closeRangePenalty
		}
		warning = WarningTooMuchLight
	case o.distance > p.Range.Max:
		if o.penalize {
			intensity *= farRangeBoost
		}
		warning = WarningInsufficientLight
	}

	if intensity > 100 {
		intensity = 100
		if warning == WarningNone {
			warning = WarningInsufficientLight
		}
	}
	if o.floorLow && intensity < minDrive {
		intensity = minDrive
		if warning == WarningNone {
			warning = WarningTooMuchLight
		}
	}

	if o.atCeiling {
		warning = WarningTooFar
	}

	return Result{
		Distance:  round2(o.distance),
		Intensity: round2(intensity),
		Warning:   warning,
		ModeText:  modeText,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
