package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/resemblance/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector()
	v := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		v[i] = spec.Max + 10
	}
	for i, c := range pv.Clamp(v) {
		if c != pv.Specs[i].Max {
			t.Errorf("%s: clamped to %v, want %v", pv.Specs[i].Name, c, pv.Specs[i].Max)
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()

	// Out-of-range values are clamped before they reach the config
	pv.ApplyToConfig(cfg, []float64{0.3, 1.7, -1})

	got := pv.ExtractFromConfig(cfg)
	want := []float64{0.3, 1.0, 0.0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("tuned config invalid: %v", err)
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	defaults := pv.DefaultVector()
	for i, v := range pv.ExtractFromConfig(cfg) {
		if v != defaults[i] {
			t.Errorf("%s default %v, config has %v", pv.Specs[i].Name, defaults[i], v)
		}
	}
}
