// Package rendering holds pieces shared by the viewer backends.
package rendering

import (
	"fmt"
	"time"
)

// FPSCounter averages frame rate over one-second windows
type FPSCounter struct {
	frames   int
	lastTime time.Time
	fps      float64
}

func NewFPSCounter(now time.Time) *FPSCounter {
	return &FPSCounter{lastTime: now}
}

// Tick records a frame and reports whether a new average is ready
func (c *FPSCounter) Tick(now time.Time) (float64, bool) {
	c.frames++
	elapsed := now.Sub(c.lastTime).Seconds()
	if elapsed < 1.0 {
		return c.fps, false
	}
	c.fps = float64(c.frames) / elapsed
	c.frames = 0
	c.lastTime = now
	return c.fps, true
}

// Status formats the line viewers print in place
func Status(fps, distance, rotation float64) string {
	return fmt.Sprintf("\rFPS: %.1f | Distance: %.2f | Rotation: %.2f rad", fps, distance, rotation)
}
