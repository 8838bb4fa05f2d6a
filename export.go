package daub

import (
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// exportTimeLayout generates the timestamped part of the default file name.
const exportTimeLayout = "daub_2006-01-02_15-04-05.png"

// ExportPNG flattens the visible layers into a single image and writes it
// out as a PNG file. The composite is always recomputed from scratch,
// independent of the presentation cache, to guarantee correctness at save
// time. An I/O or encoding failure is returned to the caller and leaves
// the in-memory canvas and history unaffected.
func ExportPNG(c *Canvas, path string) error {
	if err := imaging.Save(c.Flatten(), path); err != nil {
		return errors.Wrapf(err, "unable to export the canvas to %s", path)
	}
	return nil
}

// ExportFileName returns a generated, timestamped PNG file name.
func ExportFileName() string {
	return time.Now().Format(exportTimeLayout)
}
