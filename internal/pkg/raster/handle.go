package raster

import (
	"bytes"
	"image"

	"github.com/ds124wfegd/imagekit/internal/entity"
)

// metadataScanLimit bounds how much of the file header is searched for metadata.
const metadataScanLimit = 1 << 16

// Markers of EXIF blocks: JPEG APP1, PNG eXIf chunk, WebP EXIF chunk.
var exifMarkers = [][]byte{[]byte("Exif\x00\x00"), []byte("eXIf"), []byte("EXIF")}

// Handle is a decoded image. It is never modified after construction; every
// engine operation returns a new Handle.
type Handle struct {
	img          image.Image
	mode         entity.ColorMode
	hasAlpha     bool
	sourceFormat string
	sourceBytes  int64
	hasMetadata  bool
	oriented     bool

	// source keeps the encoded bytes of a freshly decoded image so orientation
	// can be read back from EXIF. Derived handles drop it.
	source []byte
}

// FromImage wraps an already decoded image, e.g. a rasterized vector.
func FromImage(img image.Image, sourceFormat string, sourceBytes int64) *Handle {
	mode, alpha := describe(img)
	return &Handle{
		img:          img,
		mode:         mode,
		hasAlpha:     alpha,
		sourceFormat: sourceFormat,
		sourceBytes:  sourceBytes,
		oriented:     true,
	}
}

func (h *Handle) Image() image.Image { return h.img }
func (h *Handle) Width() int { return h.img.Bounds().Dx() }
func (h *Handle) Height() int { return h.img.Bounds().Dy() }
func (h *Handle) Mode() entity.ColorMode { return h.mode }
func (h *Handle) HasAlpha() bool { return h.hasAlpha }
func (h *Handle) SourceFormat() string { return h.sourceFormat }
func (h *Handle) SourceBytes() int64 { return h.sourceBytes }
func (h *Handle) HasMetadata() bool { return h.hasMetadata }
func (h *Handle) Oriented() bool { return h.oriented }

// derive returns a copy carrying img. Source bytes are not carried over.
func (h *Handle) derive(img image.Image) *Handle {
	d := *h
	d.img = img
	d.source = nil
	d.oriented = true
	return &d
}

// describe maps a Go image type to a color mode and reports whether any pixel is not opaque.
func describe(img image.Image) (entity.ColorMode, bool) {
	opaque := true
	if o, ok := img.(interface{ Opaque() bool }); ok {
		opaque = o.Opaque()
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return entity.ModeL, false
	case *image.YCbCr, *image.CMYK:
		return entity.ModeRGB, false
	case *image.Alpha, *image.Alpha16:
		return entity.ModeLA, !opaque
	case *image.Paletted:
		return entity.ModeP, !opaque
	}
	if opaque {
		return entity.ModeRGB, false
	}
	return entity.ModeRGBA, true
}

func hasEXIF(data []byte) bool {
	head := data[:min(len(data), metadataScanLimit)]
	for _, m := range exifMarkers {
		if bytes.Contains(head, m) {
			return true
		}
	}
	return false
}
