// Command vireo renders an HTML file to a PNG: parse, resolve styles
// and layout, paint into the CPU rasterizer, save. It is the smallest
// complete embedding of the engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vireo/pkg/css"
	"vireo/pkg/engine"
	"vireo/pkg/net"
	"vireo/pkg/raster"
)

func main() {
	width := flag.Float64("width", 800, "viewport width in CSS pixels")
	height := flag.Float64("height", 600, "viewport height in CSS pixels")
	scale := flag.Float64("scale", 1, "device scale factor")
	fontPath := flag.String("font", "", "TTF/OTF file registered as the default family")
	verbose := flag.Bool("v", false, "log engine diagnostics to stderr")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.html> <output.png>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFile := flag.Arg(0)
	outputFile := flag.Arg(1)

	if *verbose {
		engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(inputFile, outputFile, *width, *height, *scale, *fontPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Rendered %s to %s\n", inputFile, outputFile)
}

func run(inputFile, outputFile string, width, height, scale float64, fontPath string) error {
	input, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	defer input.Close()

	base, err := filepath.Abs(filepath.Dir(inputFile))
	if err != nil {
		return fmt.Errorf("resolving input dir: %w", err)
	}

	provider := net.NewHTTPProvider(net.NewFetcher("file://" + base + "/"))
	doc := engine.New(engine.Options{
		Device:   css.Device{Width: width, Height: height, Scale: scale, RootFont: 16},
		BaseURL:  "file://" + base + "/",
		Provider: provider,
	})
	defer doc.Close()

	if fontPath != "" {
		for _, weight := range []int{400, 700} {
			if err := doc.Fonts().RegisterFile("sans-serif", weight, false, fontPath); err != nil {
				return fmt.Errorf("loading font: %w", err)
			}
		}
	}

	if err := doc.LoadHTML(input); err != nil {
		return fmt.Errorf("parsing html: %w", err)
	}

	// give outstanding stylesheet and image fetches a moment to land
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		doc.Resolve()
		if doc.PendingFetches() == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
		doc.Poll(context.Background())
	}
	doc.Resolve()

	renderer := raster.NewRenderer(int(width*scale), int(height*scale))
	stats := doc.Paint(renderer)
	if err := renderer.SavePNG(outputFile); err != nil {
		return fmt.Errorf("saving png: %w", err)
	}
	fmt.Printf("Painted %d boxes, %d glyph runs\n", stats.Boxes, stats.GlyphRuns)
	return nil
}
