// Package view holds the camera and animation state shared by the viewers.
//
// A State is owned by one render loop and handed by pointer to its input
// callbacks and frame function. It is not safe for concurrent use; the web
// server guards its copy with a mutex.
package view

import (
	"math"

	"mandelbulb/config"
)

// WheelNotch is the pixel delta a browser reports for one wheel notch
const WheelNotch = 100.0

type State struct {
	Distance float64 // Camera distance from the origin along +Z
	Rotation float64 // Cloud rotation about +Y, radians
	Width    int
	Height   int

	FOV           float64 // Degrees
	Near, Far     float64
	MinDistance   float64
	ZoomSpeed     float64
	RotationSpeed float64
}

// New creates a state from viewer settings
func New(cfg config.ViewerSettings) *State {
	return &State{
		Distance:      cfg.Distance,
		Width:         cfg.Width,
		Height:        cfg.Height,
		FOV:           cfg.FOV,
		Near:          cfg.Near,
		Far:           cfg.Far,
		MinDistance:   cfg.MinDistance,
		ZoomSpeed:     cfg.ZoomSpeed,
		RotationSpeed: cfg.RotationSpeed,
	}
}

// Zoom moves the camera by a pixel delta. Positive deltas move closer,
// and the distance never drops below MinDistance.
func (s *State) Zoom(delta float64) {
	s.Distance -= delta * s.ZoomSpeed
	if s.Distance < s.MinDistance {
		s.Distance = s.MinDistance
	}
}

// Wheel applies a native scroll offset where positive means scrolling up
func (s *State) Wheel(notches float64) {
	s.Zoom(-notches * WheelNotch)
}

// TouchDrag applies the change in a touch point's Y position since the last event
func (s *State) TouchDrag(dy float64) {
	s.Zoom(dy)
}

// Advance steps the rotation by one frame
func (s *State) Advance() {
	s.Rotation += s.RotationSpeed
}

// Resize records a new viewport size. Zero sizes (minimized windows) are ignored.
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Width = width
	s.Height = height
}

func (s *State) Aspect() float64 {
	if s.Height == 0 {
		return 1
	}
	return float64(s.Width) / float64(s.Height)
}

// Frame moves the camera so a sphere of the given radius about the origin
// fills the narrower field of view. The distance keeps the MinDistance
// floor and Far grows to hold the far side of the sphere.
func (s *State) Frame(radius float64) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return
	}
	half := s.FOV * math.Pi / 360
	if a := s.Aspect(); a < 1 {
		half = math.Atan(math.Tan(half) * a)
	}

	s.Distance = math.Max(radius/math.Sin(half), s.MinDistance)
	if far := s.Distance + radius; far > s.Far {
		s.Far = far
	}
}

// Snapshot returns a copy of the state
func (s *State) Snapshot() State {
	return *s
}
