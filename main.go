package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"picsort/internal/config"
	"picsort/internal/session"
	"picsort/internal/viewport"
	"picsort/internal/workflow"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: picsort [-config path] [-debug] <directory>\n\n")
	flag.PrintDefaults()
}

// viewportConfig maps the user configuration onto the viewport tuning.
func viewportConfig(c config.Config) viewport.Config {
	return viewport.Config{
		MinZoom:         c.MinZoom,
		MaxZoom:         c.MaxZoom,
		ZoomStep:        c.ZoomStep,
		Debounce:        time.Duration(c.WheelDebounceMS) * time.Millisecond,
		CacheSize:       c.CacheSize,
		MaxRenderPixels: c.MaxRenderPixels,
		Filter:          viewport.FilterByName(c.ResampleFilter),
	}
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the configuration file (.json, .yaml or .yml)")
	debug := flag.Bool("debug", false, "enable debug logging (also PICSORT_DEBUG)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	dir := flag.Arg(0)

	setDebug(*debug)

	result := config.Load(*configPath)
	for _, warning := range result.Warnings {
		log.Printf("Warning: %s", warning)
	}
	if result.Err != nil {
		log.Printf("Warning: %v", result.Err)
	}
	debugLog("Config %s: status %s, categories %v", *configPath, result.Status, result.Config.Categories)

	if err := InitGraphics(); err != nil {
		log.Fatal(err)
	}

	s := session.New(session.Options{
		Categories: result.Config.Categories,
		SortMethod: result.Config.SortMethod,
		Viewport:   viewportConfig(result.Config),
	})

	g := NewGame(s, result, *configPath)
	if err := g.LoadDirectory(dir); err != nil && errors.Is(err, workflow.ErrDirectoryInvalid) {
		log.Fatal(err)
	}
	if errors.Is(result.Err, config.ErrConfigurationMissing) {
		g.ShowOverlayMessage(errorHeadline(result.Err))
	}

	ebiten.SetWindowSize(result.Config.WindowWidth, result.Config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
