package core

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Generate builds the Mandelbulb point cloud for p.
//
// Each (phi, theta) grid sample starts on the unit sphere and is refined up
// to Power times. A refinement step keeps only the magnitude of the current
// vertex; direction always comes from theta*Power and phi*Power. That is not a
// true escape-time iteration, but the shape of the cloud depends on it.
func Generate(p Params) (*PointCloud, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.PointCount()
	cloud := &PointCloud{
		Params:    p,
		Positions: make([]float64, 0, 3*n),
		Colors:    make([]float64, 0, 3*n),
	}

	power := float64(p.Power)

	for i := 0; i <= p.Detail; i++ {
		phi := math.Pi * 2 * float64(i) / float64(p.Detail)
		sinPhiN := math.Sin(phi * power)
		cosPhiN := math.Cos(phi * power)

		// Hue depends only on phi
		color := HSLToRGB((phi+math.Pi)/(math.Pi*2), 1.0, 0.5)

		for j := 0; j <= p.Detail; j++ {
			theta := math.Pi * float64(j) / float64(p.Detail)

			base := Vector3{
				X: math.Sin(theta) * math.Cos(phi),
				Y: math.Sin(theta) * math.Sin(phi),
				Z: math.Cos(theta),
			}
			pos := refine(base, theta, sinPhiN, cosPhiN, p).Scale(p.Scale)

			cloud.Positions = append(cloud.Positions, pos.X, pos.Y, pos.Z)
			cloud.Colors = append(cloud.Colors, color.R, color.G, color.B)
		}
	}

	return cloud, nil
}

func refine(base Vector3, theta, sinPhiN, cosPhiN float64, p Params) Vector3 {
	power := float64(p.Power)
	sinThetaN := math.Sin(theta * power)
	cosThetaN := math.Cos(theta * power)

	vertex := base
	for k := 0; k < p.Power; k++ {
		r := vertex.Length()
		if r > p.Bailout {
			break
		}

		rn := math.Pow(r, power)
		vertex = Vector3{
			X: rn * sinThetaN * cosPhiN,
			Y: rn * sinThetaN * sinPhiN,
			Z: rn * cosThetaN,
		}.Add(base)
	}
	return vertex
}

// Bounds returns the axis-aligned extent of the cloud
func (c *PointCloud) Bounds() (min, max Vector3) {
	if c.Len() == 0 {
		return Vector3{}, Vector3{}
	}
	min = c.At(0).Position
	max = min
	for k := 1; k < c.Len(); k++ {
		pos := c.At(k).Position
		min = Vector3{math.Min(min.X, pos.X), math.Min(min.Y, pos.Y), math.Min(min.Z, pos.Z)}
		max = Vector3{math.Max(max.X, pos.X), math.Max(max.Y, pos.Y), math.Max(max.Z, pos.Z)}
	}
	return min, max
}

// MaxRadius returns the largest distance of any point from the origin
func (c *PointCloud) MaxRadius() float64 {
	if c.Len() == 0 {
		return 0
	}
	return floats.Max(c.radii())
}

// Radius returns the distance from the origin within which fraction q of
// the points lie. Escaped points sit far outside the body of the bulb, so
// framing uses a quantile rather than MaxRadius.
func (c *PointCloud) Radius(q float64) float64 {
	if c.Len() == 0 {
		return 0
	}
	if !(q > 0) {
		q = 0
	} else if q > 1 {
		q = 1
	}
	radii := c.radii()
	sort.Float64s(radii)
	return stat.Quantile(q, stat.Empirical, radii, nil)
}

func (c *PointCloud) radii() []float64 {
	radii := make([]float64, c.Len())
	for k := range radii {
		radii[k] = c.At(k).Position.Length()
	}
	return radii
}

// String summarises the cloud for startup logging
func (c *PointCloud) String() string {
	min, max := c.Bounds()
	return fmt.Sprintf("%d points, bounds (%.3f, %.3f, %.3f)..(%.3f, %.3f, %.3f), max radius %.3f",
		c.Len(), min.X, min.Y, min.Z, max.X, max.Y, max.Z, c.MaxRadius())
}
