// Package library imports, stores, and exports fixture profile documents and
// assembles the runtime catalog the solver works from.
package library

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/luxplan/luxplan-go/internal/database/models"
	"github.com/luxplan/luxplan-go/internal/fixtures"
	"github.com/luxplan/luxplan-go/pkg/photometry"
)

// CalibrationDocument ties a profile's reference measurement to camera
// exposure: the illuminance that exposed correctly at the given T-stop under
// the reference camera settings.
type CalibrationDocument struct {
	Illuminance float64 `json:"illuminance"`
	TStop       float64 `json:"t_stop"`
}

// MeasurementDocument is one photometric table entry.
type MeasurementDocument struct {
	Modifier  string  `json:"modifier"`
	ColorTemp string  `json:"color_temp"`
	Lux       float64 `json:"lux"`
}

// CorrectionDocument parameterizes a profile's correction curve. Type is one
// of "none", "narrow_beam", "compact", "sweet_spot"; only the fields for that
// type are consulted.
type CorrectionDocument struct {
	Type string `json:"type"`

	BeamThresholds map[string]float64 `json:"beam_thresholds,omitempty"`
	FalloffRate    float64            `json:"falloff_rate,omitempty"`
	FalloffFloor   float64            `json:"falloff_floor,omitempty"`

	MinUsable       float64 `json:"min_usable,omitempty"`
	MaxUsable       float64 `json:"max_usable,omitempty"`
	PenaltyRate     float64 `json:"penalty_rate,omitempty"`
	PenaltyExponent float64 `json:"penalty_exponent,omitempty"`

	SpotMin    float64 `json:"spot_min,omitempty"`
	SpotMax    float64 `json:"spot_max,omitempty"`
	SpotFactor float64 `json:"spot_factor,omitempty"`
}

// ProfileDocument is the JSON interchange format for fixture profiles, used
// both for library files on disk and for export.
type ProfileDocument struct {
	Name               string                `json:"name"`
	MaxOutput          float64               `json:"max_output"`
	ReferenceDistance  float64               `json:"reference_distance"`
	EffectiveRange     [2]float64            `json:"effective_range"`
	Calibration        CalibrationDocument   `json:"calibration"`
	Modifiers          []string              `json:"modifiers"`
	ColorTemps         []string              `json:"color_temps"`
	Measurements       []MeasurementDocument `json:"measurements"`
	Correction         *CorrectionDocument   `json:"correction,omitempty"`
	ColorTempPenalties map[string]float64    `json:"color_temp_penalties,omitempty"`
}

// ToProfile converts a document into a catalog profile, running full
// photometric validation.
func (d *ProfileDocument) ToProfile() (*fixtures.Profile, error) {
	table := make(map[string]map[string]float64)
	for _, m := range d.Measurements {
		row, ok := table[m.Modifier]
		if !ok {
			row = make(map[string]float64)
			table[m.Modifier] = row
		}
		row[m.ColorTemp] = m.Lux
	}

	curve := fixtures.CurveSpec{
		Type:        fixtures.CurveNone,
		TempPenalty: d.ColorTempPenalties,
	}
	if d.Correction != nil {
		if d.Correction.Type != "" {
			// The wire names are the lowercase form of the curve constants, so
			// unknown types surface through profile validation.
			curve.Type = fixtures.CurveType(strings.ToUpper(d.Correction.Type))
		}
		curve.BeamThresholds = d.Correction.BeamThresholds
		curve.FalloffRate = d.Correction.FalloffRate
		curve.FalloffFloor = d.Correction.FalloffFloor
		curve.MinUsable = d.Correction.MinUsable
		curve.MaxUsable = d.Correction.MaxUsable
		curve.PenaltyRate = d.Correction.PenaltyRate
		curve.PenaltyExponent = d.Correction.PenaltyExponent
		curve.SpotMin = d.Correction.SpotMin
		curve.SpotMax = d.Correction.SpotMax
		curve.SpotFactor = d.Correction.SpotFactor
	}

	profile := &fixtures.Profile{
		Name:              d.Name,
		MaxOutput:         d.MaxOutput,
		ReferenceDistance: d.ReferenceDistance,
		Calibration: photometry.Calibration{
			Illuminance: d.Calibration.Illuminance,
			TStop:       d.Calibration.TStop,
		},
		Modifiers:  d.Modifiers,
		ColorTemps: d.ColorTemps,
		Table:      table,
		Range: fixtures.EffectiveRange{
			Min: d.EffectiveRange[0],
			Max: d.EffectiveRange[1],
		},
		Curve: curve,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// DocumentFromProfile converts a catalog profile into its interchange form.
// Measurements are emitted in listed modifier and color temperature order so
// exports are deterministic.
func DocumentFromProfile(p *fixtures.Profile) *ProfileDocument {
	doc := &ProfileDocument{
		Name:              p.Name,
		MaxOutput:         p.MaxOutput,
		ReferenceDistance: p.ReferenceDistance,
		EffectiveRange:    [2]float64{p.Range.Min, p.Range.Max},
		Calibration: CalibrationDocument{
			Illuminance: p.Calibration.Illuminance,
			TStop:       p.Calibration.TStop,
		},
		Modifiers:          p.Modifiers,
		ColorTemps:         p.ColorTemps,
		ColorTempPenalties: p.Curve.TempPenalty,
	}

	for _, modifier := range p.Modifiers {
		row := p.Table[modifier]
		for _, colorTemp := range p.ColorTemps {
			lux, ok := row[colorTemp]
			if !ok {
				continue
			}
			doc.Measurements = append(doc.Measurements, MeasurementDocument{
				Modifier:  modifier,
				ColorTemp: colorTemp,
				Lux:       lux,
			})
		}
	}

	if p.Curve.Type != fixtures.CurveNone && p.Curve.Type != "" {
		doc.Correction = &CorrectionDocument{
			Type:            strings.ToLower(string(p.Curve.Type)),
			BeamThresholds:  p.Curve.BeamThresholds,
			FalloffRate:     p.Curve.FalloffRate,
			FalloffFloor:    p.Curve.FalloffFloor,
			MinUsable:       p.Curve.MinUsable,
			MaxUsable:       p.Curve.MaxUsable,
			PenaltyRate:     p.Curve.PenaltyRate,
			PenaltyExponent: p.Curve.PenaltyExponent,
			SpotMin:         p.Curve.SpotMin,
			SpotMax:         p.Curve.SpotMax,
			SpotFactor:      p.Curve.SpotFactor,
		}
	}

	return doc
}

// recordFromDocument converts a document into database rows. Ordered lists and
// curve parameters serialize to JSON string columns.
func recordFromDocument(doc *ProfileDocument) (*models.FixtureRecord, []models.PhotometricEntry, error) {
	modifiers, err := json.Marshal(doc.Modifiers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode modifiers: %w", err)
	}
	colorTemps, err := json.Marshal(doc.ColorTemps)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode color temps: %w", err)
	}

	penalties := []byte("{}")
	if len(doc.ColorTempPenalties) > 0 {
		penalties, err = json.Marshal(doc.ColorTempPenalties)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode color temp penalties: %w", err)
		}
	}

	curveType := string(fixtures.CurveNone)
	curveParams := []byte("{}")
	if doc.Correction != nil && doc.Correction.Type != "" {
		curveType = strings.ToUpper(doc.Correction.Type)
		curveParams, err = json.Marshal(doc.Correction)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode correction: %w", err)
		}
	}

	record := &models.FixtureRecord{
		Name:              doc.Name,
		MaxOutput:         doc.MaxOutput,
		ReferenceDistance: doc.ReferenceDistance,
		RangeMin:          doc.EffectiveRange[0],
		RangeMax:          doc.EffectiveRange[1],
		CalIlluminance:    doc.Calibration.Illuminance,
		CalTStop:          doc.Calibration.TStop,
		Modifiers:         string(modifiers),
		ColorTemps:        string(colorTemps),
		CurveType:         curveType,
		CurveParams:       string(curveParams),
		TempPenalties:     string(penalties),
		Source:            models.SourceImported,
	}

	entries := make([]models.PhotometricEntry, 0, len(doc.Measurements))
	for _, m := range doc.Measurements {
		entries = append(entries, models.PhotometricEntry{
			Modifier:  m.Modifier,
			ColorTemp: m.ColorTemp,
			Lux:       m.Lux,
		})
	}

	return record, entries, nil
}

// documentFromRecord converts database rows back into the interchange form.
// The record must have its Measurements relation loaded.
func documentFromRecord(record *models.FixtureRecord) (*ProfileDocument, error) {
	var modifiers []string
	if err := json.Unmarshal([]byte(record.Modifiers), &modifiers); err != nil {
		return nil, fmt.Errorf("profile %q: invalid modifiers column: %w", record.Name, err)
	}
	var colorTemps []string
	if err := json.Unmarshal([]byte(record.ColorTemps), &colorTemps); err != nil {
		return nil, fmt.Errorf("profile %q: invalid color temps column: %w", record.Name, err)
	}

	var penalties map[string]float64
	if record.TempPenalties != "" {
		if err := json.Unmarshal([]byte(record.TempPenalties), &penalties); err != nil {
			return nil, fmt.Errorf("profile %q: invalid temp penalties column: %w", record.Name, err)
		}
	}
	if len(penalties) == 0 {
		penalties = nil
	}

	var correction *CorrectionDocument
	if record.CurveType != "" && record.CurveType != string(fixtures.CurveNone) {
		correction = &CorrectionDocument{}
		if record.CurveParams != "" {
			if err := json.Unmarshal([]byte(record.CurveParams), correction); err != nil {
				return nil, fmt.Errorf("profile %q: invalid curve params column: %w", record.Name, err)
			}
		}
		correction.Type = strings.ToLower(record.CurveType)
	}

	doc := &ProfileDocument{
		Name:              record.Name,
		MaxOutput:         record.MaxOutput,
		ReferenceDistance: record.ReferenceDistance,
		EffectiveRange:    [2]float64{record.RangeMin, record.RangeMax},
		Calibration: CalibrationDocument{
			Illuminance: record.CalIlluminance,
			TStop:       record.CalTStop,
		},
		Modifiers:          modifiers,
		ColorTemps:         colorTemps,
		Correction:         correction,
		ColorTempPenalties: penalties,
	}

	for _, m := range record.Measurements {
		doc.Measurements = append(doc.Measurements, MeasurementDocument{
			Modifier:  m.Modifier,
			ColorTemp: m.ColorTemp,
			Lux:       m.Lux,
		})
	}

	return doc, nil
}
