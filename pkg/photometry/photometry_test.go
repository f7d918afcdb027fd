package photometry

import (
	"math"
	"testing"
)

// skyPanelCal is the large-panel reference measurement used across the suite:
// 4225 lux at the reference distance exposes T16.03 at ISO 800 / 24 fps.
var skyPanelCal = Calibration{Illuminance: 4225.0, TStop: 16.03}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestExposureTime(t *testing.T) {
	tests := []struct {
		name      string
		framerate float64
		want      float64
	}{
		{name: "24fps", framerate: 24, want: 1.0 / 48.0},
		{name: "48fps", framerate: 48, want: 1.0 / 96.0},
		{name: "120fps", framerate: 120, want: 1.0 / 240.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExposureTime(tt.framerate)
			if !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("ExposureTime(%v) = %v, want %v", tt.framerate, got, tt.want)
			}
		})
	}
}

func TestRequiredIlluminance(t *testing.T) {
	tests := []struct {
		name      string
		tStop     float64
		iso       int
		framerate float64
		want      float64
		tolerance float64
	}{
		{
			// Reference settings reproduce the calibration illuminance exactly.
			name:      "reference settings",
			tStop:     16.03,
			iso:       800,
			framerate: 24,
			want:      4225.0,
			tolerance: 1e-9,
		},
		{
			name:      "T2.8 wide open needs far less light",
			tStop:     2.8,
			iso:       800,
			framerate: 24,
			want:      128.9068,
			tolerance: 0.001,
		},
		{
			name:      "doubling ISO halves demand",
			tStop:     16.03,
			iso:       1600,
			framerate: 24,
			want:      2112.5,
			tolerance: 1e-9,
		},
		{
			name:      "doubling frame rate doubles demand",
			tStop:     16.03,
			iso:       800,
			framerate: 48,
			want:      8450.0,
			tolerance: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredIlluminance(skyPanelCal, tt.tStop, tt.iso, tt.framerate)
			if !almostEqual(got, tt.want, tt.tolerance) {
				t.Errorf("RequiredIlluminance(T%v, ISO %d, %vfps) = %v, want %v",
					tt.tStop, tt.iso, tt.framerate, got, tt.want)
			}
		})
	}
}

func TestRequiredIlluminance_Monotonicity(t *testing.T) {
	// Narrower aperture needs strictly more light.
	prev := 0.0
	for _, tStop := range []float64{1.4, 2.0, 2.8, 4.0, 5.6, 8.0, 11.0, 16.0} {
		got := RequiredIlluminance(skyPanelCal, tStop, 800, 24)
		if got <= prev {
			t.Fatalf("RequiredIlluminance not increasing at T%v: %v <= %v", tStop, got, prev)
		}
		prev = got
	}

	// Higher ISO needs strictly less light.
	prev = math.Inf(1)
	for _, iso := range []int{100, 200, 400, 800, 1600, 3200} {
		got := RequiredIlluminance(skyPanelCal, 5.6, iso, 24)
		if got >= prev {
			t.Fatalf("RequiredIlluminance not decreasing at ISO %d: %v >= %v", iso, got, prev)
		}
		prev = got
	}
}

func TestInverseSquareTransfers(t *testing.T) {
	// A 1535 lux measurement at 3 m rates the source at 13815 lux·m².
	intensity := LuminousIntensity(1535, 3)
	if !almostEqual(intensity, 13815, 1e-9) {
		t.Errorf("LuminousIntensity(1535, 3) = %v, want 13815", intensity)
	}

	// The same source delivers a quarter of the illuminance at double the distance.
	near := IlluminanceAt(intensity, 3)
	far := IlluminanceAt(intensity, 6)
	if !almostEqual(near/far, 4.0, 1e-9) {
		t.Errorf("IlluminanceAt ratio at 2x distance = %v, want 4", near/far)
	}

	// DistanceFor inverts IlluminanceAt.
	d := DistanceFor(intensity, 128.9068)
	if !almostEqual(IlluminanceAt(intensity, d), 128.9068, 1e-6) {
		t.Errorf("DistanceFor/IlluminanceAt round trip gave %v at %v m", IlluminanceAt(intensity, d), d)
	}
	if !almostEqual(d, 10.3524, 0.001) {
		t.Errorf("DistanceFor(13815, 128.9068) = %v, want ~10.35", d)
	}
}

func TestUnitConversions(t *testing.T) {
	if got := FootCandlesToLux(1); !almostEqual(got, 10.764, 1e-9) {
		t.Errorf("FootCandlesToLux(1) = %v, want 10.764", got)
	}
	if got := LuxToFootCandles(10.764); !almostEqual(got, 1.0, 1e-9) {
		t.Errorf("LuxToFootCandles(10.764) = %v, want 1", got)
	}
	// Round trip.
	if got := LuxToFootCandles(FootCandlesToLux(42.5)); !almostEqual(got, 42.5, 1e-9) {
		t.Errorf("fc -> lux -> fc round trip = %v, want 42.5", got)
	}
}
