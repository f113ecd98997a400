package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mandelbulb/core"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsMatchGenerator(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if s.Params() != core.DefaultParams() {
		t.Errorf("Params() = %+v, want %+v", s.Params(), core.DefaultParams())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Viewer.Distance != 4 || s.Server.Port != 8080 {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeSettings(t, `{
		"fractal": {"detail": 20, "power": 3, "scale": 1.5, "bailout": 2},
		"server": {"port": 9000}
	}`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := core.Params{Detail: 20, Power: 3, Scale: 1.5, Bailout: 2}
	if s.Params() != want {
		t.Errorf("Params() = %+v, want %+v", s.Params(), want)
	}
	if s.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", s.Server.Port)
	}
	// Untouched sections keep their defaults
	if s.Server.UpdateIntervalMs != 16 || s.Viewer.FOV != 75 {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool // wraps core.ErrInvalidParams
	}{
		{"malformed", `{"fractal": `, false},
		{"unknown field", `{"fractal": {"iterations": 4}}`, false},
		{"zero detail", `{"fractal": {"detail": 0}}`, true},
		{"negative power", `{"fractal": {"power": -2}}`, true},
		{"negative bailout", `{"fractal": {"bailout": -1}}`, true},
		{"zero width", `{"viewer": {"width": 0}}`, false},
		{"bad fov", `{"viewer": {"fov": 180}}`, false},
		{"far before near", `{"viewer": {"near": 10, "far": 1}}`, false},
		{"distance below floor", `{"viewer": {"distance": 0.01}}`, false},
		{"background out of range", `{"viewer": {"background": [0, 2, 0]}}`, false},
		{"bad interval", `{"server": {"updateIntervalMs": 0}}`, false},
		{"no gif frames", `{"export": {"gifFrames": 0}}`, false},
		{"frame quantile above one", `{"export": {"frameQuantile": 1.5}}`, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeSettings(t, tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, core.ErrInvalidParams); got != tc.invalid {
				t.Errorf("errors.Is(err, ErrInvalidParams) = %v, want %v (err: %v)", got, tc.invalid, err)
			}
		})
	}
}

func TestReadDefersValidation(t *testing.T) {
	s, err := Read(writeSettings(t, `{"fractal": {"power": -2}}`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Fractal.Power != -2 {
		t.Errorf("power = %d, want -2 as written", s.Fractal.Power)
	}
	if err := s.Validate(); !errors.Is(err, core.ErrInvalidParams) {
		t.Errorf("Validate = %v, want ErrInvalidParams", err)
	}

	if _, err := Read(writeSettings(t, `{"fractal": `)); err == nil {
		t.Error("Read accepted malformed JSON")
	}
}
