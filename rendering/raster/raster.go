// Package raster draws a point cloud into an RGBA image without a GPU.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/num/quat"

	"mandelbulb/core"
	"mandelbulb/view"
)

// Renderer keeps a depth buffer between frames
type Renderer struct {
	Background color.RGBA
	depth      []float32
}

func New(background [3]float64) *Renderer {
	return &Renderer{
		Background: color.RGBA{
			R: toByte(background[0]),
			G: toByte(background[1]),
			B: toByte(background[2]),
			A: 0xff,
		},
	}
}

// Render clears img and draws the cloud as seen from state.
// The cloud is rotated about +Y by state.Rotation.
func (r *Renderer) Render(cloud *core.PointCloud, state *view.State, img *image.RGBA) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	draw.Draw(img, bounds, &image.Uniform{C: r.Background}, image.Point{}, draw.Src)
	if w == 0 || h == 0 {
		return
	}

	if len(r.depth) != w*h {
		r.depth = make([]float32, w*h)
	}
	for i := range r.depth {
		r.depth[i] = math.MaxFloat32
	}

	viewProj := state.Projection().Mul4(state.View())
	rot := yRotation(state.Rotation)

	for k := 0; k < cloud.Len(); k++ {
		pt := cloud.At(k)
		p := rotate(pt.Position, rot)

		clip := viewProj.Mul4x1(mgl32.Vec4{float32(p.X), float32(p.Y), float32(p.Z), 1})
		if clip.W() <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
			continue
		}

		// Flip Y so up is up
		x := int((ndc.X() + 1) * 0.5 * float32(w))
		y := int((1 - ndc.Y()) * 0.5 * float32(h))
		if x >= w {
			x = w - 1
		}
		if y >= h {
			y = h - 1
		}

		i := y*w + x
		if ndc.Z() >= r.depth[i] {
			continue
		}
		r.depth[i] = ndc.Z()

		img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{
			R: toByte(pt.Color.R),
			G: toByte(pt.Color.G),
			B: toByte(pt.Color.B),
			A: 0xff,
		})
	}
}

// yRotation returns the unit quaternion for a rotation of angle about +Y
func yRotation(angle float64) quat.Number {
	return quat.Number{Real: math.Cos(angle / 2), Jmag: math.Sin(angle / 2)}
}

// rotate computes q p q*
func rotate(p core.Vector3, q quat.Number) core.Vector3 {
	pp := quat.Mul(quat.Mul(q, quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}), quat.Conj(q))
	return core.Vector3{X: pp.Imag, Y: pp.Jmag, Z: pp.Kmag}
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 255))
}
