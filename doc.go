/*
Package daub is a layered raster-painting engine: it rasterizes brush strokes
into pixel layers, composites the layers for display or export and maintains
a linear, replayable action history supporting undo and redo.

The package provides a command line interface which opens an interactive
painting window. To check the supported commands type:

	$ daub --help

In case you wish to integrate the engine in a self constructed environment
here is a simple example:

	package main

	import (
		"image/color"
		"log"

		"github.com/esimov/daub"
	)

	func main() {
		canvas := daub.NewCanvas(800, 600, 2)
		session := daub.NewSession(canvas)
		session.SetColor(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

		session.PointerDown(daub.Paint)
		session.PointerMove(120, 80)
		session.Tick()
		session.PointerUp()

		if err := daub.ExportPNG(canvas, "out.png"); err != nil {
			log.Fatalf("error exporting the canvas: %v", err)
		}
	}
*/
package daub
