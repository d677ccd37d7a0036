package vector

import (
	"bytes"
	"fmt"
	"image"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterize renders svg stretched onto a transparent width x height canvas.
func (t *toolkit) Rasterize(svg []byte, width, height int) (*raster.Handle, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: render size %dx%d", entity.ErrInvalidParameter, width, height)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: svg: %v", entity.ErrDecodeFailure, err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return raster.FromImage(rgba, "svg", int64(len(svg))), nil
}
