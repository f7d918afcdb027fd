package fixtures

import (
	"math"
	"testing"

	"github.com/luxplan/luxplan-go/pkg/photometry"
)

// syntheticProfile returns a minimal valid profile for catalog tests. The
// table deliberately has gaps so the fallback chain is observable: modifier
// "A" carries both temps, "B" only the first.
func syntheticProfile(name string) Profile {
	return Profile{
		Name:              name,
		MaxOutput:         9000,
		ReferenceDistance: 3.0,
		Calibration:       photometry.Calibration{Illuminance: 1000, TStop: 8.0},
		Modifiers:         []string{"A", "B"},
		ColorTemps:        []string{"T1", "T2"},
		Table: map[string]map[string]float64{
			"A": {"T1": 100, "T2": 110},
			"B": {"T1": 50},
		},
		Range: EffectiveRange{Min: 1.0, Max: 10.0},
		Curve: CurveSpec{Type: CurveNone},
	}
}

func TestNewCatalog(t *testing.T) {
	catalog, err := NewCatalog(syntheticProfile("one"), syntheticProfile("two"))
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if catalog.Len() != 2 {
		t.Errorf("Len() = %d, want 2", catalog.Len())
	}

	names := catalog.Names()
	if len(names) != 2 || names[0] != "one" || names[1] != "two" {
		t.Errorf("Names() = %v, want [one two]", names)
	}

	if _, ok := catalog.Get("one"); !ok {
		t.Error("Get(one) not found")
	}
	if _, ok := catalog.Get("missing"); ok {
		t.Error("Get(missing) unexpectedly found")
	}

	// The returned name slice is a copy.
	names[0] = "mutated"
	if catalog.Names()[0] != "one" {
		t.Error("mutating Names() result leaked into the catalog")
	}
}

func TestNewCatalog_DuplicateName(t *testing.T) {
	_, err := NewCatalog(syntheticProfile("dup"), syntheticProfile("dup"))
	if err == nil {
		t.Fatal("expected error for duplicate fixture name")
	}
}

func TestNewCatalog_InvalidProfiles(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{name: "empty name", mutate: func(p *Profile) { p.Name = "" }},
		{name: "non-positive max output", mutate: func(p *Profile) { p.MaxOutput = 0 }},
		{name: "non-positive reference distance", mutate: func(p *Profile) { p.ReferenceDistance = -3 }},
		{name: "zero calibration", mutate: func(p *Profile) { p.Calibration = photometry.Calibration{} }},
		{name: "no modifiers", mutate: func(p *Profile) { p.Modifiers = nil }},
		{name: "no color temps", mutate: func(p *Profile) { p.ColorTemps = nil }},
		{name: "inverted range", mutate: func(p *Profile) { p.Range = EffectiveRange{Min: 5, Max: 2} }},
		{name: "unlisted modifier in table", mutate: func(p *Profile) { p.Table["Z"] = map[string]float64{"T1": 10} }},
		{name: "unlisted color temp in table", mutate: func(p *Profile) { p.Table["A"]["T9"] = 10 }},
		{name: "non-positive measurement", mutate: func(p *Profile) { p.Table["A"]["T1"] = 0 }},
		{name: "listed modifier without measurements", mutate: func(p *Profile) { delete(p.Table, "B") }},
		{name: "missing default measurement", mutate: func(p *Profile) { delete(p.Table["A"], "T1") }},
		{name: "invalid curve", mutate: func(p *Profile) { p.Curve = CurveSpec{Type: CurveType("BOGUS")} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := syntheticProfile("bad")
			tt.mutate(&p)
			if _, err := NewCatalog(p); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestProfile_Resolve_FallbackChain(t *testing.T) {
	p := syntheticProfile("fallback")

	tests := []struct {
		name          string
		modifier      string
		colorTemp     string
		wantModifier  string
		wantColorTemp string
		wantLux       float64
	}{
		{
			name:         "exact match",
			modifier:     "A",
			colorTemp:    "T2",
			wantModifier: "A", wantColorTemp: "T2", wantLux: 110,
		},
		{
			name:         "same modifier falls back to first temp",
			modifier:     "B",
			colorTemp:    "T2",
			wantModifier: "B", wantColorTemp: "T1", wantLux: 50,
		},
		{
			name:         "unknown modifier falls back to default with requested temp",
			modifier:     "Z",
			colorTemp:    "T2",
			wantModifier: "A", wantColorTemp: "T2", wantLux: 110,
		},
		{
			name:         "unknown everything falls back to default and first temp",
			modifier:     "Z",
			colorTemp:    "T9",
			wantModifier: "A", wantColorTemp: "T1", wantLux: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Resolve(tt.modifier, tt.colorTemp)
			if got.Modifier != tt.wantModifier || got.ColorTemp != tt.wantColorTemp || got.Lux != tt.wantLux {
				t.Errorf("Resolve(%q, %q) = %+v, want {%s %s %v}",
					tt.modifier, tt.colorTemp, got, tt.wantModifier, tt.wantColorTemp, tt.wantLux)
			}
		})
	}
}

func TestProfile_FullIntensity(t *testing.T) {
	p := syntheticProfile("full")
	m := p.Resolve("A", "T1")
	got := p.FullIntensity(m)
	if math.Abs(got-900) > 1e-9 {
		t.Errorf("FullIntensity = %v, want 900 (100 lux at 3 m)", got)
	}
}
