package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"mandelbulb/app"
	"mandelbulb/config"
	"mandelbulb/core"
	"mandelbulb/rendering"
	"mandelbulb/rendering/opengl"
	"mandelbulb/server"
	"mandelbulb/view"
)

func init() {
	// GLFW calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	opts, err := app.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	settings, cloud, err := app.Prepare(opts)
	if err != nil {
		log.Fatalf("Failed to prepare point cloud: %v", err)
	}

	switch {
	case opts.Serve:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.New(settings, cloud).Run(ctx); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case opts.Exporting():
		if err := app.Export(opts, settings, cloud); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	default:
		if err := runViewer(settings, cloud); err != nil {
			log.Fatalf("Viewer error: %v", err)
		}
	}
}

func runViewer(settings *config.Settings, cloud *core.PointCloud) error {
	state := view.New(settings.Viewer)

	renderer, err := opengl.NewPointRenderer(settings.Viewer, state)
	if err != nil {
		return err
	}
	defer renderer.Terminate()

	renderer.CreateBuffers(cloud)

	fmt.Println("\nControls:")
	fmt.Println("  Scroll: Zoom in/out")
	fmt.Println("  ESC: Exit")

	fps := rendering.NewFPSCounter(time.Now())
	for !renderer.ShouldClose() {
		renderer.PollEvents()
		renderer.Render()

		if f, ok := fps.Tick(time.Now()); ok {
			fmt.Print(rendering.Status(f, state.Distance, state.Rotation))
			renderer.SetTitle(fmt.Sprintf("Mandelbulb - %.0f FPS", f))
		}
	}

	fmt.Println("\nShutting down...")
	return nil
}
