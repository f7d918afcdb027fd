package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/luxplan/luxplan-go/internal/fixtures"
	"github.com/luxplan/luxplan-go/internal/services/solver"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeJSON(t *testing.T, output string) jsonOutput {
	t.Helper()
	var out jsonOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		t.Fatalf("Failed to decode output %q: %v", output, err)
	}
	return out
}

func TestRunSolve_JSON(t *testing.T) {
	output, err := executeCommand(t, "--light", fixtures.SkyPanelS60C, "--json")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := decodeJSON(t, output)
	if out.Distance <= 0 {
		t.Errorf("Expected positive distance, got %v", out.Distance)
	}
	if out.Intensity <= 0 || out.Intensity > 100 {
		t.Errorf("Expected intensity in (0, 100], got %v", out.Intensity)
	}
	if out.ExposureWarning != nil {
		t.Errorf("Expected null warning, got %q", *out.ExposureWarning)
	}
	if out.CalculationModeText != "with automatically optimized settings" {
		t.Errorf("Unexpected mode text: %q", out.CalculationModeText)
	}
	if out.CameraSettings.TStop != 2.8 || out.CameraSettings.ISO != 800 || out.CameraSettings.Framerate != 24 {
		t.Errorf("Camera settings should carry the flag defaults, got %+v", out.CameraSettings)
	}
}

func TestRunSolve_Human(t *testing.T) {
	output, err := executeCommand(t, "--light", fixtures.SkyPanelS60C)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	for _, want := range []string{"Light:", fixtures.SkyPanelS60C, "Camera:", "Distance:", "Intensity:", "Mode:"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Warning:") {
		t.Errorf("Expected no warning line, got:\n%s", output)
	}
}

func TestRunSolve_DistanceModeInferred(t *testing.T) {
	output, err := executeCommand(t, "--light", fixtures.SkyPanelS60C, "--distance", "5", "--json")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := decodeJSON(t, output)
	if out.Distance != 5 {
		t.Errorf("Expected distance 5, got %v", out.Distance)
	}
	if out.CalculationModeText != "at your specified distance of 5 meters" {
		t.Errorf("Unexpected mode text: %q", out.CalculationModeText)
	}
}

func TestRunSolve_IntensityModeInferred(t *testing.T) {
	output, err := executeCommand(t, "--light", fixtures.SkyPanelS60C, "--intensity", "50", "--json")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := decodeJSON(t, output)
	if out.Intensity != 50 {
		t.Errorf("Expected intensity 50, got %v", out.Intensity)
	}
	if out.CalculationModeText != "at your specified intensity of 50%" {
		t.Errorf("Unexpected mode text: %q", out.CalculationModeText)
	}
}

func TestRunSolve_WarningInJSON(t *testing.T) {
	output, err := executeCommand(t, "--light", fixtures.SkyPanelS60C, "--distance", "14", "--json")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := decodeJSON(t, output)
	if out.ExposureWarning == nil {
		t.Fatal("Expected a warning past the effective range")
	}
	if *out.ExposureWarning != "insufficient_light" {
		t.Errorf("Expected insufficient_light, got %q", *out.ExposureWarning)
	}
}

func TestRunSolve_UnknownLight(t *testing.T) {
	_, err := executeCommand(t, "--light", "Mystery Light 9000")
	if err == nil {
		t.Fatal("Expected an error for an unknown light")
	}
	if !strings.Contains(err.Error(), "unknown fixture") {
		t.Errorf("Expected unknown fixture error, got %v", err)
	}
}

func TestRunSolve_InvalidTStop(t *testing.T) {
	_, err := executeCommand(t, "--light", fixtures.SkyPanelS60C, "--t-stop", "0.1")
	if !errors.Is(err, solver.ErrInvalidRequest) {
		t.Fatalf("Expected ErrInvalidRequest, got %v", err)
	}
}

func TestRunSolve_UnknownMode(t *testing.T) {
	_, err := executeCommand(t, "--light", fixtures.SkyPanelS60C, "--mode", "sideways")
	if err == nil {
		t.Fatal("Expected an error for an unknown mode")
	}
	if !strings.Contains(err.Error(), "unknown mode") {
		t.Errorf("Expected unknown mode error, got %v", err)
	}
}

func TestRunSolve_MissingLight(t *testing.T) {
	_, err := executeCommand(t, "--json")
	if err == nil {
		t.Fatal("Expected an error when --light is missing")
	}
	if !strings.Contains(err.Error(), "light") {
		t.Errorf("Expected missing light flag error, got %v", err)
	}
}
