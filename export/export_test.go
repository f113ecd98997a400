package export

import (
	"bufio"
	"bytes"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mandelbulb/config"
	"mandelbulb/core"
	"mandelbulb/view"
)

func testCloud(t *testing.T) *core.PointCloud {
	t.Helper()
	cloud, err := core.Generate(core.Params{Detail: 1, Power: 1, Scale: 1, Bailout: 8})
	if err != nil {
		t.Fatal(err)
	}
	return cloud
}

func testState(w, h int) *view.State {
	state := view.New(config.Default().Viewer)
	state.Resize(w, h)
	return state
}

func TestWritePLY(t *testing.T) {
	cloud := testCloud(t)

	var buf bytes.Buffer
	if err := WritePLY(&buf, cloud); err != nil {
		t.Fatal(err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if lines[0] != "ply" || lines[1] != "format ascii 1.0" {
		t.Fatalf("bad header start: %q", lines[:2])
	}

	header := -1
	for i, l := range lines {
		if l == "end_header" {
			header = i
			break
		}
	}
	if header < 0 {
		t.Fatal("missing end_header")
	}
	if !strings.Contains(strings.Join(lines[:header], "\n"), "element vertex 4") {
		t.Error("header does not declare 4 vertices")
	}

	body := lines[header+1:]
	if len(body) != cloud.Len() {
		t.Fatalf("got %d vertex lines, want %d", len(body), cloud.Len())
	}
	// First sample is (0, 0, 2), colored cyan
	if body[0] != "0 0 2 0 255 255" {
		t.Errorf("first vertex = %q", body[0])
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud.png")
	if err := SavePNG(path, testCloud(t), testState(40, 30), [3]float64{0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("size = %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestSaveGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turn.gif")
	state := testState(32, 32)
	if err := SaveGIF(path, testCloud(t), state, [3]float64{0, 0, 0}, 6, 4); err != nil {
		t.Fatal(err)
	}
	if state.Rotation != 0 {
		t.Errorf("SaveGIF changed the caller's rotation to %v", state.Rotation)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 6 {
		t.Errorf("frames = %d, want 6", len(anim.Image))
	}
	if anim.Delay[0] != 4 {
		t.Errorf("delay = %d, want 4", anim.Delay[0])
	}

	if err := SaveGIF(path, testCloud(t), state, [3]float64{}, 0, 4); err == nil {
		t.Error("expected error for zero frames")
	}
}
