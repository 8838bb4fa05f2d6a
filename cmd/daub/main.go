package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"gioui.org/app"
	"github.com/esimov/daub"
	"github.com/esimov/daub/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌┬┐┌─┐┬ ┬┌┐
 ││├─┤│ │├┴┐
─┴┘┴ ┴└─┘└─┘

Layered raster painting program.
    Version: %s

`

// Version indicates the current build version.
var Version string

var (
	// Flags
	width    = flag.Int("width", 800, "Canvas width")
	height   = flag.Int("height", 600, "Canvas height")
	layers   = flag.Int("layers", 2, "Number of canvas layers")
	paintCol = flag.String("color", "#ffffff", "Paint color (hex)")
	radius   = flag.Float64("radius", 10, "Brush radius")
	inner    = flag.Float64("inner", 1, "Brush full-opacity core radius")
	spacing  = flag.Float64("spacing", 0.1, "Stamp spacing, as a fraction of the radius")
	strength = flag.Float64("strength", 1.0, "Brush strength")
	smudge   = flag.Float64("smudge", 0.5, "Smudge strength")
	exportTo = flag.String("dir", ".", "Directory the exported PNG files are saved into")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Skip the ANSI color sequences when the output is redirected.
	utils.SetColorOutput(term.IsTerminal(int(os.Stderr.Fd())))

	if *width <= 0 || *height <= 0 {
		log.Fatal(utils.DecorateText("The canvas width and height should be positive!", utils.ErrorMessage))
	}

	col, err := parseHexColor(*paintCol)
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid paint color: %v", utils.ErrorMessage), err)
	}

	if info, err := os.Stat(*exportTo); err != nil || !info.IsDir() {
		log.Fatalf(utils.DecorateText("%q is not an existing directory!", utils.ErrorMessage), *exportTo)
	}

	canvas := daub.NewCanvas(*width, *height, *layers)
	session := daub.NewSession(canvas)
	session.SetColor(col)

	brush := daub.NewSoftCircle().
		WithRadius(*radius).
		WithInnerRadius(*inner).
		WithSpacing(*spacing)
	session.SetBrush(daub.Paint, brush.WithStrength(*strength))
	session.SetBrush(daub.Erase, brush.WithStrength(*strength))
	session.SetBrush(daub.Smudge, brush.WithStrength(*smudge))

	log.Printf("%s %s",
		utils.DecorateText("⚡ DAUB", utils.StatusMessage),
		utils.DecorateText("Ctrl+Z undo · Ctrl+Y redo · Ctrl+S save · E eraser", utils.DefaultMessage),
	)

	// The Gio event loop runs in a separate goroutine;
	// app.Main takes over the main OS thread.
	go func() {
		gui := daub.NewGUI(session, *exportTo)
		if err := gui.Run(); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		os.Exit(0)
	}()
	app.Main()
}

// parseHexColor converts an "#rrggbb" string to a color value.
func parseHexColor(s string) (color.NRGBA, error) {
	col := color.NRGBA{A: 0xff}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return col, fmt.Errorf("%q should be of the form #rrggbb", s)
	}
	_, err := fmt.Sscanf(s, "%02x%02x%02x", &col.R, &col.G, &col.B)
	return col, err
}
