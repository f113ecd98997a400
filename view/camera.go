package view

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraPosition is where the camera sits, looking at the origin
func (s *State) CameraPosition() mgl32.Vec3 {
	return mgl32.Vec3{0, 0, float32(s.Distance)}
}

func (s *State) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(float32(s.FOV)), float32(s.Aspect()), float32(s.Near), float32(s.Far))
}

func (s *State) View() mgl32.Mat4 {
	return mgl32.LookAtV(
		s.CameraPosition(),
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
}

// Model rotates the cloud about +Y
func (s *State) Model() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(float32(s.Rotation))
}

// MVP is Projection * View * Model
func (s *State) MVP() mgl32.Mat4 {
	return s.Projection().Mul4(s.View()).Mul4(s.Model())
}

// PointScale converts a world-space point size to pixels at unit depth,
// matching size attenuation of the form size * (height/2) / depth
func (s *State) PointScale() float32 {
	return float32(s.Height) / 2
}
