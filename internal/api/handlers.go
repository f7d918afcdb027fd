// Package api exposes the HTTP and WebSocket surface: the calculate endpoint,
// the light catalog listing, and the interactive placement feed.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luxplan/luxplan-go/internal/fixtures"
	"github.com/luxplan/luxplan-go/internal/services/placement"
	"github.com/luxplan/luxplan-go/internal/services/pubsub"
	"github.com/luxplan/luxplan-go/internal/services/solver"
)

// Calculation mode strings accepted in calculate requests. Anything else
// falls back to auto.
const (
	CalcModeAuto           = "Auto Calculate"
	CalcModeFixedDistance  = "Specify Distance"
	CalcModeFixedIntensity = "Specify Intensity"
)

// Handler holds the dependencies of the HTTP and WebSocket endpoints.
type Handler struct {
	solver     *solver.Solver
	placements *placement.Service
	events     *pubsub.PubSub
	version    string
}

// NewHandler creates a new API handler.
func NewHandler(slv *solver.Solver, placements *placement.Service, events *pubsub.PubSub, version string) *Handler {
	return &Handler{
		solver:     slv,
		placements: placements,
		events:     events,
		version:    version,
	}
}

type calculateRequest struct {
	TStop              float64  `json:"t_stop"`
	ISO                int      `json:"iso"`
	Framerate          float64  `json:"framerate"`
	LightModel         string   `json:"light_model"`
	ModifierType       string   `json:"modifier_type"`
	ColorTemp          string   `json:"color_temp"`
	CalcMode           string   `json:"calc_mode"`
	PreferredDistance  *float64 `json:"preferred_distance"`
	PreferredIntensity *float64 `json:"preferred_intensity"`
}

type cameraSettings struct {
	TStop     float64 `json:"t_stop"`
	ISO       int     `json:"iso"`
	Framerate float64 `json:"framerate"`
}

type calculateResponse struct {
	Distance            float64        `json:"distance"`
	Intensity           float64        `json:"intensity"`
	ExposureWarning     *string        `json:"exposure_warning"`
	CalculationModeText string         `json:"calculation_mode_text"`
	CameraSettings      cameraSettings `json:"camera_settings"`
}

type lightSummary struct {
	Name              string     `json:"name"`
	Modifiers         []string   `json:"modifiers"`
	ColorTemps        []string   `json:"color_temps"`
	ReferenceDistance float64    `json:"reference_distance"`
	EffectiveRange    [2]float64 `json:"effective_range"`
	MaxOutput         float64    `json:"max_output"`
}

func solveMode(calcMode string) solver.Mode {
	switch calcMode {
	case CalcModeFixedDistance:
		return solver.ModeFixedDistance
	case CalcModeFixedIntensity:
		return solver.ModeFixedIntensity
	default:
		return solver.ModeAuto
	}
}

func (req *calculateRequest) toSolverRequest() solver.Request {
	return solver.Request{
		TStop:     req.TStop,
		ISO:       req.ISO,
		Framerate: req.Framerate,
		Fixture:   req.LightModel,
		Modifier:  req.ModifierType,
		ColorTemp: req.ColorTemp,
		Mode:      solveMode(req.CalcMode),
		Distance:  req.PreferredDistance,
		Intensity: req.PreferredIntensity,
	}
}

// warningJSON maps the empty warning to JSON null.
func warningJSON(w solver.Warning) *string {
	if w == solver.WarningNone {
		return nil
	}
	s := string(w)
	return &s
}

func lightSummaryFrom(p *fixtures.Profile) lightSummary {
	return lightSummary{
		Name:              p.Name,
		Modifiers:         p.Modifiers,
		ColorTemps:        p.ColorTemps,
		ReferenceDistance: p.ReferenceDistance,
		EffectiveRange:    [2]float64{p.Range.Min, p.Range.Max},
		MaxOutput:         p.MaxOutput,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Calculate solves one placement request.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.solver.Solve(req.toSolverRequest())
	if err != nil {
		if errors.Is(err, solver.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}

	writeJSON(w, http.StatusOK, calculateResponse{
		Distance:            result.Distance,
		Intensity:           result.Intensity,
		ExposureWarning:     warningJSON(result.Warning),
		CalculationModeText: result.ModeText,
		CameraSettings: cameraSettings{
			TStop:     req.TStop,
			ISO:       req.ISO,
			Framerate: req.Framerate,
		},
	})
}

// ListLights returns the catalog in listing order for dependent dropdowns.
func (h *Handler) ListLights(w http.ResponseWriter, r *http.Request) {
	catalog := h.solver.Catalog()
	lights := make([]lightSummary, 0, catalog.Len())
	for _, name := range catalog.Names() {
		if profile, ok := catalog.Get(name); ok {
			lights = append(lights, lightSummaryFrom(profile))
		}
	}
	writeJSON(w, http.StatusOK, lights)
}

// GetLight returns a single catalog entry by name.
func (h *Handler) GetLight(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Fixture names contain spaces, so they arrive URL-encoded.
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	profile, ok := h.solver.Catalog().Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown light %q", name))
		return
	}
	writeJSON(w, http.StatusOK, lightSummaryFrom(profile))
}

// Health returns the server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := fmt.Sprintf(`{
  "status": "ok",
  "timestamp": "%s",
  "version": "%s",
  "uptime": "N/A"
}`, time.Now().UTC().Format(time.RFC3339), h.version)

	_, _ = w.Write([]byte(response))
}
