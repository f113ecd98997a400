package main

import (
	"flag"
	"log"
	"os"

	"mandelbulb/app"
	"mandelbulb/rendering/rlview"
	"mandelbulb/view"
)

func main() {
	opts, err := app.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	settings, cloud, err := app.Prepare(opts)
	if err != nil {
		log.Fatalf("Failed to prepare point cloud: %v", err)
	}

	if opts.Exporting() {
		if err := app.Export(opts, settings, cloud); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	state := view.New(settings.Viewer)
	if err := rlview.NewViewer(cloud, settings.Viewer, state).Run(); err != nil {
		log.Fatalf("Viewer error: %v", err)
	}
}
