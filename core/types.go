package core

import (
	"math"
)

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// RGB is a color with each channel in [0, 1]
type RGB struct {
	R, G, B float64
}

// Point is a read-only view of one entry of a PointCloud
type Point struct {
	Position Vector3
	Color    RGB
}

// PointCloud holds generated points as flat, index-aligned buffers.
// Positions and Colors both hold 3 floats per point.
type PointCloud struct {
	Params    Params
	Positions []float64
	Colors    []float64
}

// Len returns the number of points
func (c *PointCloud) Len() int {
	return len(c.Positions) / 3
}

// At returns point k
func (c *PointCloud) At(k int) Point {
	i := k * 3
	return Point{
		Position: Vector3{c.Positions[i], c.Positions[i+1], c.Positions[i+2]},
		Color:    RGB{c.Colors[i], c.Colors[i+1], c.Colors[i+2]},
	}
}

// Float32 converts the buffers for GPU upload
func (c *PointCloud) Float32() (positions, colors []float32) {
	positions = make([]float32, len(c.Positions))
	colors = make([]float32, len(c.Colors))
	for i, v := range c.Positions {
		positions[i] = float32(v)
	}
	for i, v := range c.Colors {
		colors[i] = float32(v)
	}
	return positions, colors
}
