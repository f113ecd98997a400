// Package app wires settings, flags and generation for the command binaries.
package app

import (
	"flag"
	"fmt"
	"time"

	"mandelbulb/config"
	"mandelbulb/core"
	"mandelbulb/export"
	"mandelbulb/view"
)

// Options holds command line flags. Only flags given on the command line
// override settings.
type Options struct {
	ConfigPath string
	Detail     int
	Power      int
	Scale      float64
	Bailout    float64
	Width      int
	Height     int

	PLYPath string
	PNGPath string
	GIFPath string
	Serve   bool

	set map[string]bool
}

// Parse binds and parses flags
func Parse(fs *flag.FlagSet, args []string) (*Options, error) {
	o := &Options{set: make(map[string]bool)}
	fs.StringVar(&o.ConfigPath, "config", "settings.json", "Settings file")
	fs.IntVar(&o.Detail, "detail", 0, "Angular resolution (overrides settings)")
	fs.IntVar(&o.Power, "power", 0, "Iteration power (overrides settings)")
	fs.Float64Var(&o.Scale, "scale", 0, "Position scale (overrides settings)")
	fs.Float64Var(&o.Bailout, "bailout", 0, "Bailout radius (overrides settings)")
	fs.IntVar(&o.Width, "width", 0, "Window width")
	fs.IntVar(&o.Height, "height", 0, "Window height")
	fs.StringVar(&o.PLYPath, "ply", "", "Write the cloud to a PLY file")
	fs.StringVar(&o.PNGPath, "png", "", "Write a PNG snapshot")
	fs.StringVar(&o.GIFPath, "gif", "", "Write a rotating GIF")
	fs.BoolVar(&o.Serve, "serve", false, "Serve the viewer over HTTP/WebSocket")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// Exporting reports whether any file output was requested
func (o *Options) Exporting() bool {
	return o.PLYPath != "" || o.PNGPath != "" || o.GIFPath != ""
}

// apply copies every explicitly given flag into s, including values that
// Validate will reject.
func (o *Options) apply(s *config.Settings) {
	if o.set["detail"] {
		s.Fractal.Detail = o.Detail
	}
	if o.set["power"] {
		s.Fractal.Power = o.Power
	}
	if o.set["scale"] {
		s.Fractal.Scale = o.Scale
	}
	if o.set["bailout"] {
		s.Fractal.Bailout = o.Bailout
	}
	if o.set["width"] {
		s.Viewer.Width = o.Width
	}
	if o.set["height"] {
		s.Viewer.Height = o.Height
	}
}

// Prepare loads settings, applies flag overrides and generates the cloud
func Prepare(o *Options) (*config.Settings, *core.PointCloud, error) {
	settings, err := config.Read(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	o.apply(settings)
	if err := settings.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid settings: %w", err)
	}

	p := settings.Params()
	fmt.Println("=== Mandelbulb Point Cloud ===")
	fmt.Printf("Detail: %d (%d points), Power: %d, Scale: %g, Bailout: %g\n",
		p.Detail, p.PointCount(), p.Power, p.Scale, p.Bailout)

	start := time.Now()
	cloud, err := core.Generate(p)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Generated %v in %.3fs\n", cloud, time.Since(start).Seconds())

	return settings, cloud, nil
}

// Export writes every requested file
func Export(o *Options, settings *config.Settings, cloud *core.PointCloud) error {
	if o.PLYPath != "" {
		if err := export.SavePLY(o.PLYPath, cloud); err != nil {
			return fmt.Errorf("ply export: %w", err)
		}
		fmt.Printf("Wrote %s\n", o.PLYPath)
	}

	state := snapshotState(settings, cloud)

	if o.PNGPath != "" {
		if err := export.SavePNG(o.PNGPath, cloud, state, settings.Viewer.Background); err != nil {
			return fmt.Errorf("png export: %w", err)
		}
		fmt.Printf("Wrote %s\n", o.PNGPath)
	}
	if o.GIFPath != "" {
		if err := export.SaveGIF(o.GIFPath, cloud, state, settings.Viewer.Background,
			settings.Export.GIFFrames, settings.Export.GIFDelay); err != nil {
			return fmt.Errorf("gif export: %w", err)
		}
		fmt.Printf("Wrote %s\n", o.GIFPath)
	}
	return nil
}

// snapshotState is the camera used for image exports
func snapshotState(settings *config.Settings, cloud *core.PointCloud) *view.State {
	state := view.New(settings.Viewer)
	state.Resize(settings.Export.Width, settings.Export.Height)
	if q := settings.Export.FrameQuantile; q > 0 {
		state.Frame(cloud.Radius(q))
		fmt.Printf("Framed %.0f%% of points at distance %.3f\n", q*100, state.Distance)
	}
	return state
}
