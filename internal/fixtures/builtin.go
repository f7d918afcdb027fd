package fixtures

import (
	"github.com/luxplan/luxplan-go/pkg/photometry"
)

// Built-in fixture names.
const (
	SkyPanelS60C = "ARRI SkyPanel S60-C"
	L7C          = "ARRI L7-C"
	Gemini2x1    = "Litepanels Gemini 2x1 Soft"
	AputureMC    = "Aputure MC"
)

// BuiltInProfiles returns the four fixtures that ship with the catalog. Each
// calibration pair is chosen so the implied exposure constant matches the
// SkyPanel reference measurement (4225 lux exposing T16.03 at ISO 800/24fps),
// which keeps required illuminance fixture-independent.
func BuiltInProfiles() []Profile {
	return []Profile{
		{
			// Large panel. Photometric table from the manufacturer app,
			// measured at 3 m per diffusion panel and color temperature.
			Name:              SkyPanelS60C,
			MaxOutput:         45288.0,
			ReferenceDistance: 3.0,
			Calibration:       photometry.Calibration{Illuminance: 4225.0, TStop: 16.03},
			Modifiers:         []string{"Standard", "Lite", "Heavy", "Intensifier"},
			ColorTemps:        []string{"5600K", "3200K"},
			Table: map[string]map[string]float64{
				"Standard":    {"5600K": 1535, "3200K": 1305},
				"Lite":        {"5600K": 1561, "3200K": 1328},
				"Heavy":       {"5600K": 1213, "3200K": 1031},
				"Intensifier": {"5600K": 2431, "3200K": 2011},
			},
			Range: EffectiveRange{Min: 1.0, Max: 12.0},
			Curve: CurveSpec{
				Type:        CurveNone,
				TempPenalty: map[string]float64{"3200K": 1.05},
			},
		},
		{
			// Focusable fresnel. Spot holds its punch to about 8 m, flood
			// falls apart past 5 m.
			Name:              L7C,
			MaxOutput:         66900.0,
			ReferenceDistance: 3.0,
			Calibration:       photometry.Calibration{Illuminance: 6580.0, TStop: 20.0},
			Modifiers:         []string{"Spot", "Flood"},
			ColorTemps:        []string{"5600K", "3200K"},
			Table: map[string]map[string]float64{
				"Spot":  {"5600K": 7430, "3200K": 7090},
				"Flood": {"5600K": 1820, "3200K": 1740},
			},
			Range: EffectiveRange{Min: 2.0, Max: 10.0},
			Curve: CurveSpec{
				Type:           CurveNarrowBeam,
				BeamThresholds: map[string]float64{"Spot": 8.0, "Flood": 5.0},
				FalloffRate:    0.04,
				FalloffFloor:   0.75,
			},
		},
		{
			// Soft panel a stop and a half down from the SkyPanel; measured
			// sweet spot between 2 and 4 m where the soft source wraps.
			Name:              Gemini2x1,
			MaxOutput:         13700.0,
			ReferenceDistance: 3.0,
			Calibration:       photometry.Calibration{Illuminance: 2630.0, TStop: 12.65},
			Modifiers:         []string{"Open Face", "Snapbag", "Snapgrid"},
			ColorTemps:        []string{"5600K", "3200K"},
			Table: map[string]map[string]float64{
				"Open Face": {"5600K": 1480, "3200K": 1390},
				"Snapbag":   {"5600K": 1130, "3200K": 1060},
				"Snapgrid":  {"5600K": 990, "3200K": 930},
			},
			Range: EffectiveRange{Min: 1.0, Max: 9.0},
			Curve: CurveSpec{
				Type:        CurveSweetSpot,
				SpotMin:     2.0,
				SpotMax:     4.0,
				SpotFactor:  0.95,
				TempPenalty: map[string]float64{"3200K": 1.04},
			},
		},
		{
			// Small on-camera light, measured at 1 m. Useless much past arm's
			// length, so the drive penalty past 3 m grows superlinearly.
			Name:              AputureMC,
			MaxOutput:         112.0,
			ReferenceDistance: 1.0,
			Calibration:       photometry.Calibration{Illuminance: 100.0, TStop: 2.47},
			Modifiers:         []string{"Direct", "Diffuser"},
			ColorTemps:        []string{"5600K", "3200K"},
			Table: map[string]map[string]float64{
				"Direct":   {"5600K": 100, "3200K": 94},
				"Diffuser": {"5600K": 68, "3200K": 64},
			},
			Range: EffectiveRange{Min: 1.5, Max: 3.0},
			Curve: CurveSpec{
				Type:            CurveCompact,
				MinUsable:       1.5,
				MaxUsable:       3.0,
				PenaltyRate:     0.35,
				PenaltyExponent: 1.5,
				TempPenalty:     map[string]float64{"3200K": 1.06},
			},
		},
	}
}

// BuiltIn constructs the catalog of built-in fixtures.
func BuiltIn() (*Catalog, error) {
	return NewCatalog(BuiltInProfiles()...)
}
