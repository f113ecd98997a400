package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"math"
	"os"

	"mandelbulb/core"
	"mandelbulb/rendering/raster"
	"mandelbulb/view"
)

// SavePNG renders one frame of the cloud as seen from state
func SavePNG(path string, cloud *core.PointCloud, state *view.State, background [3]float64) error {
	img := image.NewRGBA(image.Rect(0, 0, state.Width, state.Height))
	raster.New(background).Render(cloud, state, img)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// SaveGIF renders a full turn of the cloud starting at state's rotation.
// delay is in 100ths of a second.
func SaveGIF(path string, cloud *core.PointCloud, state *view.State, background [3]float64, frames, delay int) error {
	if frames <= 0 {
		return fmt.Errorf("gif needs at least one frame, got %d", frames)
	}

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, frames),
		Delay:     make([]int, 0, frames),
		LoopCount: 0,
	}

	renderer := raster.New(background)
	frameState := state.Snapshot()
	start := frameState.Rotation
	rect := image.Rect(0, 0, state.Width, state.Height)
	rgba := image.NewRGBA(rect)

	step := max(1, frames/10)
	for i := 0; i < frames; i++ {
		if i%step == 0 {
			fmt.Printf("[GIF] frame %d/%d\n", i+1, frames)
		}

		frameState.Rotation = start + 2*math.Pi*float64(i)/float64(frames)
		renderer.Render(cloud, &frameState, rgba)

		pal := image.NewPaletted(rect, palette.Plan9)
		draw.Draw(pal, rect, rgba, image.Point{}, draw.Src)

		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
