// Package raster is the image engine: decoding, pixel transforms and encoding.
// Handles are immutable, so an Engine is safe for concurrent use.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/png"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/codec"
	"golang.org/x/image/draw"

	// extra input formats
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Engine interface {
	Decode(data []byte) (*Handle, error)
	Encode(h *Handle, params codec.EncodeParams) ([]byte, error)
	Resize(h *Handle, width, height int) (*Handle, error)
	Crop(h *Handle, rect entity.Rect) (*Handle, error)
	ConvertColorMode(h *Handle, mode entity.ColorMode) (*Handle, error)
	CorrectOrientation(h *Handle) (*Handle, error)
	StripMetadata(h *Handle) *Handle
	// Compose centres h on a width x height canvas filled with background.
	Compose(h *Handle, width, height int, background string) (*Handle, error)
	SupportsFormat(format entity.Format) bool
}

type engine struct {
	filter imaging.ResampleFilter
}

func NewEngine() Engine {
	return &engine{filter: imaging.Lanczos}
}

func (e *engine) Decode(data []byte) (*Handle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", entity.ErrDecodeFailure)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}

	mode, alpha := describe(img)
	return &Handle{
		img:          img,
		mode:         mode,
		hasAlpha:     alpha,
		sourceFormat: format,
		sourceBytes:  int64(len(data)),
		hasMetadata:  hasEXIF(data),
		source:       data,
	}, nil
}

// CorrectOrientation applies the EXIF orientation tag once. Images without
// metadata and derived handles come back unchanged.
func (e *engine) CorrectOrientation(h *Handle) (*Handle, error) {
	if h.oriented {
		return h, nil
	}
	if !h.hasMetadata || h.source == nil {
		o := *h
		o.oriented = true
		return &o, nil
	}

	img, err := imaging.Decode(bytes.NewReader(h.source), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: orientation: %v", entity.ErrDecodeFailure, err)
	}
	o := *h
	o.img = img
	o.oriented = true
	return &o, nil
}

// StripMetadata drops EXIF/ICC data from the handle. Call CorrectOrientation first,
// the orientation tag is lost afterwards.
func (e *engine) StripMetadata(h *Handle) *Handle {
	s := *h
	s.hasMetadata = false
	s.source = nil
	s.oriented = true
	return &s
}

func (e *engine) Resize(h *Handle, width, height int) (*Handle, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: resize to %dx%d", entity.ErrInvalidParameter, width, height)
	}
	if width == h.Width() && height == h.Height() {
		return h.derive(h.img), nil
	}
	return h.derive(imaging.Resize(h.img, width, height, e.filter)), nil
}

func (e *engine) Crop(h *Handle, rect entity.Rect) (*Handle, error) {
	if rect.Side < 1 || rect.X < 0 || rect.Y < 0 || rect.X+rect.Side > h.Width() || rect.Y+rect.Side > h.Height() {
		return nil, fmt.Errorf("%w: crop %+v outside %dx%d", entity.ErrInvalidParameter, rect, h.Width(), h.Height())
	}
	origin := h.img.Bounds().Min
	r := image.Rect(rect.X, rect.Y, rect.X+rect.Side, rect.Y+rect.Side).Add(origin)
	return h.derive(imaging.Crop(h.img, r)), nil
}

func (e *engine) ConvertColorMode(h *Handle, mode entity.ColorMode) (*Handle, error) {
	var out *Handle
	switch mode {
	case entity.ModeRGB:
		out = h.derive(flatten(h.img, color.White))
		out.hasAlpha = false
	case entity.ModeRGBA:
		out = h.derive(imaging.Clone(h.img))
	case entity.ModeL:
		gray := image.NewGray(image.Rect(0, 0, h.Width(), h.Height()))
		draw.Draw(gray, gray.Bounds(), flatten(h.img, color.White), image.Point{}, draw.Src)
		out = h.derive(gray)
		out.hasAlpha = false
	case entity.ModeLA:
		out = h.derive(imaging.Grayscale(h.img))
	case entity.ModeP:
		out = h.derive(palettize(h.img))
	default:
		return nil, fmt.Errorf("%w: color mode %q", entity.ErrInvalidParameter, mode)
	}
	out.mode = mode
	return out, nil
}

func (e *engine) Compose(h *Handle, width, height int, background string) (*Handle, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: canvas %dx%d", entity.ErrInvalidParameter, width, height)
	}
	bg, err := ParseBackground(background)
	if err != nil {
		return nil, err
	}

	canvas := imaging.New(width, height, bg)
	out := h.derive(imaging.OverlayCenter(canvas, h.img, 1.0))
	out.mode, out.hasAlpha = describe(out.img)
	return out, nil
}

func (e *engine) SupportsFormat(format entity.Format) bool {
	switch format {
	case entity.FormatJPEG, entity.FormatPNG, entity.FormatWEBP:
		return true
	}
	return false
}

// Encode writes h with resolved params. The JPEG writer only produces baseline
// files, Progressive and Optimize are accepted but have no effect.
func (e *engine) Encode(h *Handle, params codec.EncodeParams) ([]byte, error) {
	if !e.SupportsFormat(params.Format) {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, params.Format)
	}

	img := h.img
	if params.FlattenAlpha || (params.Format == entity.FormatJPEG && h.hasAlpha) {
		img = flatten(img, color.White)
	}

	var buf bytes.Buffer
	var err error
	switch params.Format {
	case entity.FormatJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(codec.ClampQuality(params.Quality)))
	case entity.FormatPNG:
		if params.PaletteReduce {
			if pal, ok := exactPalette(img, codec.MaxPaletteColors); ok {
				img = toPaletted(img, pal)
			}
		}
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(pngLevel(params.CompressionLevel)))
	case entity.FormatWEBP:
		err = webp.Encode(&buf, img, &webp.Options{
			Lossless: params.Lossless,
			Quality:  float32(codec.ClampQuality(params.Quality)),
			Exact:    params.PreserveAlpha,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrEncodeFailure, params.Format, err)
	}
	return buf.Bytes(), nil
}

// ParseBackground accepts "", "transparent" or a #rrggbb hex color.
func ParseBackground(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" {
		return color.Transparent, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("%w: background %q", entity.ErrInvalidParameter, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: background %q", entity.ErrInvalidParameter, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// flatten composites img onto an opaque bg canvas.
func flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Point{}, 1.0)
}

// exactPalette collects the distinct colors of img, giving up past limit.
func exactPalette(img image.Image, limit int) (color.Palette, bool) {
	b := img.Bounds()
	seen := make(map[color.NRGBA]struct{}, limit)
	pal := make(color.Palette, 0, limit)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == limit {
				return nil, false
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal, true
}

func toPaletted(img image.Image, pal color.Palette) *image.Paletted {
	b := img.Bounds()
	index := make(map[color.NRGBA]uint8, len(pal))
	for i, c := range pal {
		index[c.(color.NRGBA)] = uint8(i)
	}
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.SetColorIndex(x, y, index[c])
		}
	}
	return out
}

// palettize keeps exact colors when they fit in a palette and dithers to Plan9 otherwise.
func palettize(img image.Image) *image.Paletted {
	if pal, ok := exactPalette(img, codec.MaxPaletteColors); ok {
		return toPaletted(img, pal)
	}
	b := img.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(out, out.Bounds(), img, b.Min)
	return out
}

func pngLevel(level int) png.CompressionLevel {
	switch {
	case level >= 9:
		return png.BestCompression
	case level <= 0:
		return png.DefaultCompression
	case level <= 3:
		return png.BestSpeed
	}
	return png.DefaultCompression
}
