// Package photometry provides the exposure and illuminance math used by the
// placement solver: the cine exposure relation, inverse-square law transfers,
// and illuminance unit conversions.
package photometry

import (
	"math"
)

const (
	// LuxPerFootCandle converts foot-candles to lux (1 fc = 1 lm/ft²).
	LuxPerFootCandle = 10.764
	// ReferenceISO is the sensitivity all calibration measurements assume.
	ReferenceISO = 800
	// ReferenceFramerate is the frame rate all calibration measurements assume.
	ReferenceFramerate = 24.0
	// ShutterDegrees is the shutter angle assumed for exposure time (180°).
	ShutterDegrees = 180.0
)

// Calibration ties a fixture's reference photometric measurement to camera
// exposure: Illuminance is the lux that measurement delivers at the fixture's
// reference distance, TStop is the aperture that exposes it correctly at
// ReferenceISO and ReferenceFramerate.
type Calibration struct {
	Illuminance float64
	TStop       float64
}

// ExposureTime returns the per-frame exposure window in seconds for a frame
// rate at a 180° shutter.
func ExposureTime(framerate float64) float64 {
	return (1.0 / framerate) * (ShutterDegrees / 360.0)
}

// RequiredIlluminance returns the subject illuminance in lux needed for
// correct exposure at the given camera settings. Illuminance demand scales
// with the square of the T-stop, inversely with ISO, and inversely with the
// exposure time (directly with frame rate at a fixed shutter angle).
func RequiredIlluminance(cal Calibration, tStop float64, iso int, framerate float64) float64 {
	tFactor := (tStop / cal.TStop) * (tStop / cal.TStop)
	isoFactor := float64(ReferenceISO) / float64(iso)
	timeFactor := ExposureTime(ReferenceFramerate) / ExposureTime(framerate)
	return cal.Illuminance * tFactor * isoFactor * timeFactor
}

// LuminousIntensity returns the distance-invariant output rating in lux·m²
// implied by an illuminance measured at a distance (inverse-square law).
func LuminousIntensity(lux, distance float64) float64 {
	return lux * distance * distance
}

// IlluminanceAt returns the illuminance in lux that a source of the given
// luminous intensity (lux·m²) delivers at a distance in meters. Distance must
// be positive.
func IlluminanceAt(intensity, distance float64) float64 {
	return intensity / (distance * distance)
}

// DistanceFor returns the distance in meters at which a source of the given
// luminous intensity (lux·m²) delivers the target illuminance. Target must be
// positive.
func DistanceFor(intensity, targetLux float64) float64 {
	return math.Sqrt(intensity / targetLux)
}

// LuxToFootCandles converts lux to foot-candles.
func LuxToFootCandles(lux float64) float64 {
	return lux / LuxPerFootCandle
}

// FootCandlesToLux converts foot-candles to lux.
func FootCandlesToLux(fc float64) float64 {
	return fc * LuxPerFootCandle
}
