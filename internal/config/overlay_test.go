package config_test

import (
	"testing"

	"transmute/internal/config"
)

func TestOverlaySetCreatesIntermediateLevels(t *testing.T) {
	overlay := config.NewOverlay()
	if err := overlay.Set("stages.sim.binary", "verilator"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := overlay.Set("stages.sim.timeout", 120); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	// Setting a sibling must not disturb keys already present.
	if value, ok := overlay.Get("stages.sim.binary"); !ok || value != "verilator" {
		t.Fatalf("binary: got %v (present=%v)", value, ok)
	}
	if value, ok := overlay.Get("stages.sim.timeout"); !ok || value != 120 {
		t.Fatalf("timeout: got %v (present=%v)", value, ok)
	}
}

func TestOverlayRejectsNonTableIntermediate(t *testing.T) {
	overlay := config.NewOverlay()
	if err := overlay.Set("stages.sim", "scalar"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := overlay.Set("stages.sim.timeout", 5); err == nil {
		t.Fatal("expected error when descending through a scalar")
	}
}

func TestOverlayGetMissing(t *testing.T) {
	overlay := config.NewOverlay()
	if _, ok := overlay.Get("stages.absent.option"); ok {
		t.Fatal("expected miss for unset path")
	}
}

func TestScopedAccessors(t *testing.T) {
	overlay := config.NewOverlay()
	for key, value := range map[string]any{
		"stages.sim.binary":          "iverilog",
		"stages.sim.timeout_seconds": int64(30),
		"stages.sim.keep_temp":       true,
		"stages.sim.extra_args":      []any{"-g2012", "-Wall"},
	} {
		if err := overlay.Set(key, value); err != nil {
			t.Fatalf("Set(%s) returned error: %v", key, err)
		}
	}

	scope := overlay.Scope("stages.sim")
	if got := scope.String("binary", "fallback"); got != "iverilog" {
		t.Fatalf("String: got %q", got)
	}
	if got := scope.Int("timeout_seconds", 0); got != 30 {
		t.Fatalf("Int: got %d", got)
	}
	if !scope.Bool("keep_temp", false) {
		t.Fatal("Bool: expected true")
	}
	args := scope.Strings("extra_args")
	if len(args) != 2 || args[0] != "-g2012" || args[1] != "-Wall" {
		t.Fatalf("Strings: got %v", args)
	}
	if got := scope.Int("missing", 7); got != 7 {
		t.Fatalf("Int fallback: got %d", got)
	}
}

func TestStageOverlaySeedsFromDeclarations(t *testing.T) {
	cfg := config.Config{
		Stages: []config.Stage{
			{Name: "sim", Options: map[string]any{"binary": "verilator", "timeout_seconds": 15}},
		},
	}
	overlay, err := cfg.StageOverlay()
	if err != nil {
		t.Fatalf("StageOverlay returned error: %v", err)
	}
	if value, ok := overlay.Get("stages.sim.binary"); !ok || value != "verilator" {
		t.Fatalf("seeded binary: got %v (present=%v)", value, ok)
	}

	// A later override must not discard the sibling key set earlier.
	if err := overlay.Set("stages.sim.timeout_seconds", 90); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if value, ok := overlay.Get("stages.sim.binary"); !ok || value != "verilator" {
		t.Fatalf("sibling disturbed: got %v (present=%v)", value, ok)
	}
	if value, _ := overlay.Get("stages.sim.timeout_seconds"); value != 90 {
		t.Fatalf("override not applied: got %v", value)
	}
}

func TestOverlayRejectsMalformedPaths(t *testing.T) {
	overlay := config.NewOverlay()
	for _, path := range []string{"", "stages..timeout", ".stages.sim"} {
		if err := overlay.Set(path, 1); err == nil {
			t.Fatalf("expected error for path %q", path)
		}
	}
}
