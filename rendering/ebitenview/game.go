// Package ebitenview shows the software-rasterized point cloud in an Ebiten window.
package ebitenview

import (
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mandelbulb/config"
	"mandelbulb/core"
	"mandelbulb/rendering"
	"mandelbulb/rendering/raster"
	"mandelbulb/view"
)

// Game implements ebiten.Game
type Game struct {
	cloud    *core.PointCloud
	state    *view.State
	renderer *raster.Renderer
	fps      *rendering.FPSCounter

	img   *image.RGBA
	frame *ebiten.Image

	touchIDs []ebiten.TouchID
	touchY   map[ebiten.TouchID]int
}

func NewGame(cloud *core.PointCloud, cfg config.ViewerSettings, state *view.State) *Game {
	return &Game{
		cloud:    cloud,
		state:    state,
		renderer: raster.New(cfg.Background),
		fps:      rendering.NewFPSCounter(time.Now()),
		touchY:   make(map[ebiten.TouchID]int),
	}
}

// Run opens the window and blocks until it closes
func (g *Game) Run() error {
	ebiten.SetWindowTitle("Mandelbulb (ebiten)")
	ebiten.SetWindowSize(g.state.Width, g.state.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.state.Wheel(dy)
	}
	g.updateTouches()
	g.state.Advance()

	if f, ok := g.fps.Tick(time.Now()); ok {
		fmt.Print(rendering.Status(f, g.state.Distance, g.state.Rotation))
	}
	return nil
}

// updateTouches zooms by the vertical drag of the first active touch
func (g *Game) updateTouches() {
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		delete(g.touchY, id)
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		_, y := ebiten.TouchPosition(id)
		g.touchY[id] = y
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) == 0 {
		return
	}
	id := g.touchIDs[0]
	_, y := ebiten.TouchPosition(id)
	if last, ok := g.touchY[id]; ok {
		g.state.TouchDrag(float64(y - last))
	}
	g.touchY[id] = y
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := g.state.Width, g.state.Height
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(w, h)
	}

	g.renderer.Render(g.cloud, g.state, g.img)
	g.frame.WritePixels(g.img.Pix)
	screen.DrawImage(g.frame, nil)
}

// Layout renders at the window's size so resizes change the aspect ratio
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.state.Resize(outsideWidth, outsideHeight)
	return g.state.Width, g.state.Height
}
