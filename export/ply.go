// Package export writes the point cloud to files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"mandelbulb/core"
)

// WritePLY writes the cloud as an ASCII PLY file with per-vertex colors
func WritePLY(w io.Writer, cloud *core.PointCloud) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintf(bw, "comment mandelbulb detail %d power %d scale %g bailout %g\n",
		cloud.Params.Detail, cloud.Params.Power, cloud.Params.Scale, cloud.Params.Bailout)
	fmt.Fprintf(bw, "element vertex %d\n", cloud.Len())
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	fmt.Fprintln(bw, "property uchar red")
	fmt.Fprintln(bw, "property uchar green")
	fmt.Fprintln(bw, "property uchar blue")
	fmt.Fprintln(bw, "end_header")

	for k := 0; k < cloud.Len(); k++ {
		pt := cloud.At(k)
		fmt.Fprintf(bw, "%g %g %g %d %d %d\n",
			float32(pt.Position.X), float32(pt.Position.Y), float32(pt.Position.Z),
			toByte(pt.Color.R), toByte(pt.Color.G), toByte(pt.Color.B))
	}

	return bw.Flush()
}

// SavePLY writes the cloud to path
func SavePLY(path string, cloud *core.PointCloud) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePLY(f, cloud); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
