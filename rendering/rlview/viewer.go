// Package rlview shows the point cloud in a raylib window.
package rlview

import (
	"fmt"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"mandelbulb/config"
	"mandelbulb/core"
	"mandelbulb/rendering"
	"mandelbulb/view"
)

type Viewer struct {
	state      *view.State
	background rl.Color

	positions []mgl32.Vec4
	colors    []rl.Color

	touching   bool
	lastTouchY float32
}

// NewViewer converts the cloud into raylib types
func NewViewer(cloud *core.PointCloud, cfg config.ViewerSettings, state *view.State) *Viewer {
	v := &Viewer{
		state:      state,
		background: toColor(core.RGB{R: cfg.Background[0], G: cfg.Background[1], B: cfg.Background[2]}),
		positions:  make([]mgl32.Vec4, cloud.Len()),
		colors:     make([]rl.Color, cloud.Len()),
	}
	for k := 0; k < cloud.Len(); k++ {
		pt := cloud.At(k)
		v.positions[k] = mgl32.Vec4{float32(pt.Position.X), float32(pt.Position.Y), float32(pt.Position.Z), 1}
		v.colors[k] = toColor(pt.Color)
	}
	return v
}

// Run opens the window and blocks until it is closed
func (v *Viewer) Run() error {
	runtime.LockOSThread()

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(v.state.Width), int32(v.state.Height), "Mandelbulb (raylib)")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	if !rl.IsWindowReady() {
		return fmt.Errorf("failed to open raylib window")
	}

	fps := rendering.NewFPSCounter(time.Now())

	for !rl.WindowShouldClose() {
		v.handleInput()
		v.state.Advance()
		v.draw()

		if f, ok := fps.Tick(time.Now()); ok {
			fmt.Print(rendering.Status(f, v.state.Distance, v.state.Rotation))
		}
	}

	fmt.Println()
	return nil
}

func (v *Viewer) handleInput() {
	if rl.IsWindowResized() {
		v.state.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.state.Wheel(float64(wheel))
	}

	if rl.GetTouchPointCount() > 0 {
		y := rl.GetTouchPosition(0).Y
		if v.touching {
			v.state.TouchDrag(float64(y - v.lastTouchY))
		}
		v.touching = true
		v.lastTouchY = y
	} else {
		v.touching = false
	}
}

func (v *Viewer) camera() rl.Camera3D {
	eye := v.state.CameraPosition()
	return rl.Camera3D{
		Position:   rl.NewVector3(eye.X(), eye.Y(), eye.Z()),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       float32(v.state.FOV),
		Projection: rl.CameraPerspective,
	}
}

func (v *Viewer) draw() {
	model := v.state.Model()

	rl.BeginDrawing()
	rl.ClearBackground(v.background)

	rl.BeginMode3D(v.camera())
	for k, p := range v.positions {
		w := model.Mul4x1(p)
		rl.DrawPoint3D(rl.NewVector3(w.X(), w.Y(), w.Z()), v.colors[k])
	}
	rl.EndMode3D()

	rl.DrawFPS(10, 10)
	rl.EndDrawing()
}

func toColor(c core.RGB) rl.Color {
	return rl.NewColor(channel(c.R), channel(c.G), channel(c.B), 255)
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
