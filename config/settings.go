package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"mandelbulb/core"
)

type Settings struct {
	Fractal FractalSettings `json:"fractal"`
	Viewer  ViewerSettings  `json:"viewer"`
	Server  ServerSettings  `json:"server"`
	Export  ExportSettings  `json:"export"`
}

type FractalSettings struct {
	Detail  int     `json:"detail"`
	Power   int     `json:"power"`
	Scale   float64 `json:"scale"`
	Bailout float64 `json:"bailout"`
}

type ViewerSettings struct {
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	FOV           float64    `json:"fov"` // Vertical, degrees
	Near          float64    `json:"near"`
	Far           float64    `json:"far"`
	Distance      float64    `json:"distance"`      // Initial camera distance
	MinDistance   float64    `json:"minDistance"`   // Zoom floor
	ZoomSpeed     float64    `json:"zoomSpeed"`     // Distance per wheel pixel
	RotationSpeed float64    `json:"rotationSpeed"` // Radians per frame
	PointSize     float64    `json:"pointSize"`     // World units
	Background    [3]float64 `json:"background"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

type ExportSettings struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	GIFFrames int `json:"gifFrames"`
	GIFDelay  int `json:"gifDelay"` // 100ths of a second

	// FrameQuantile moves the snapshot camera so this fraction of the
	// points fits the view. Zero keeps the viewer distance.
	FrameQuantile float64 `json:"frameQuantile"`
}

// Default returns the settings used when no settings.json is present
func Default() *Settings {
	p := core.DefaultParams()
	return &Settings{
		Fractal: FractalSettings{
			Detail:  p.Detail,
			Power:   p.Power,
			Scale:   p.Scale,
			Bailout: p.Bailout,
		},
		Viewer: ViewerSettings{
			Width:         1280,
			Height:        720,
			FOV:           75,
			Near:          0.1,
			Far:           1000,
			Distance:      4,
			MinDistance:   0.1,
			ZoomSpeed:     0.001,
			RotationSpeed: 0.005,
			PointSize:     0.01,
			Background:    [3]float64{0, 0, 0},
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 16,
		},
		Export: ExportSettings{
			Width:         800,
			Height:        600,
			GIFFrames:     60,
			GIFDelay:      4,
			FrameQuantile: 0.95,
		},
	}
}

// Load reads settings from path on top of the defaults and validates them.
// A missing file is not an error.
func Load(path string) (*Settings, error) {
	settings, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return settings, nil
}

// Read decodes path on top of the defaults without validating, so callers
// can apply overrides first and validate the merged result.
func Read(path string) (*Settings, error) {
	settings := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	fmt.Printf("Loaded settings from %s\n", path)
	return settings, nil
}

// Params converts the fractal section for the generator
func (s *Settings) Params() core.Params {
	return core.Params{
		Detail:  s.Fractal.Detail,
		Power:   s.Fractal.Power,
		Scale:   s.Fractal.Scale,
		Bailout: s.Fractal.Bailout,
	}
}

// Validate checks every section
func (s *Settings) Validate() error {
	if err := s.Params().Validate(); err != nil {
		return fmt.Errorf("fractal: %w", err)
	}

	v := s.Viewer
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("viewer: window size must be positive, got %dx%d", v.Width, v.Height)
	}
	if !(v.FOV > 0 && v.FOV < 180) {
		return fmt.Errorf("viewer: fov must be in (0, 180), got %v", v.FOV)
	}
	if !(v.Near > 0) || !(v.Far > v.Near) {
		return fmt.Errorf("viewer: need 0 < near < far, got near %v far %v", v.Near, v.Far)
	}
	if !(v.MinDistance > 0) || !(v.Distance >= v.MinDistance) {
		return fmt.Errorf("viewer: need 0 < minDistance <= distance, got %v and %v", v.MinDistance, v.Distance)
	}
	if !finite(v.ZoomSpeed) || !finite(v.RotationSpeed) {
		return fmt.Errorf("viewer: zoomSpeed and rotationSpeed must be finite")
	}
	if !(v.PointSize > 0) {
		return fmt.Errorf("viewer: pointSize must be positive, got %v", v.PointSize)
	}
	for _, c := range v.Background {
		if !(c >= 0 && c <= 1) {
			return fmt.Errorf("viewer: background channels must be in [0, 1], got %v", v.Background)
		}
	}

	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", s.Server.Port)
	}
	if s.Server.UpdateIntervalMs <= 0 {
		return fmt.Errorf("server: updateIntervalMs must be positive, got %d", s.Server.UpdateIntervalMs)
	}

	e := s.Export
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("export: image size must be positive, got %dx%d", e.Width, e.Height)
	}
	if e.GIFFrames <= 0 || e.GIFDelay < 0 {
		return fmt.Errorf("export: need gifFrames > 0 and gifDelay >= 0, got %d and %d", e.GIFFrames, e.GIFDelay)
	}
	if !(e.FrameQuantile >= 0 && e.FrameQuantile <= 1) {
		return fmt.Errorf("export: frameQuantile must be in [0, 1], got %v", e.FrameQuantile)
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
