package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	e := NewEngine()

	t.Run("png with alpha", func(t *testing.T) {
		img := solid(8, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
		h, err := e.Decode(encodePNG(t, img))
		require.NoError(t, err)

		assert.Equal(t, 8, h.Width())
		assert.Equal(t, 4, h.Height())
		assert.Equal(t, "png", h.SourceFormat())
		assert.Equal(t, entity.ModeRGBA, h.Mode())
		assert.True(t, h.HasAlpha())
		assert.False(t, h.HasMetadata())
	})

	t.Run("jpeg is opaque rgb", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, solid(16, 16, color.White), nil))
		h, err := e.Decode(buf.Bytes())
		require.NoError(t, err)

		assert.Equal(t, "jpeg", h.SourceFormat())
		assert.Equal(t, entity.ModeRGB, h.Mode())
		assert.False(t, h.HasAlpha())
		assert.Equal(t, int64(buf.Len()), h.SourceBytes())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := e.Decode([]byte("definitely not an image"))
		assert.ErrorIs(t, err, entity.ErrDecodeFailure)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := e.Decode(nil)
		assert.ErrorIs(t, err, entity.ErrDecodeFailure)
	})
}

func TestPNGRoundTripIsLossless(t *testing.T) {
	e := NewEngine()
	red := color.NRGBA{R: 255, A: 255}
	h := FromImage(solid(10, 10, red), "png", 0)

	params, err := codec.Resolve(entity.FormatPNG, 0, true, h.HasAlpha(), e)
	require.NoError(t, err)
	data, err := e.Encode(h, params)
	require.NoError(t, err)

	decoded, err := e.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 10, decoded.Width())
	require.Equal(t, 10, decoded.Height())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			assert.Equal(t, red, color.NRGBAModel.Convert(decoded.Image().At(x, y)))
		}
	}
}

func TestPNGPaletteReduction(t *testing.T) {
	e := NewEngine()
	img := solid(32, 32, color.NRGBA{B: 255, A: 255})
	for x := 0; x < 16; x++ {
		img.Set(x, 0, color.NRGBA{G: 255, A: 255})
	}

	params, err := codec.Resolve(entity.FormatPNG, 0, false, false, e)
	require.NoError(t, err)
	data, err := e.Encode(FromImage(img, "png", 0), params)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	paletted, ok := decoded.(*image.Paletted)
	require.True(t, ok, "expected a palette image, got %T", decoded)
	assert.Len(t, paletted.Palette, 2)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, color.NRGBAModel.Convert(decoded.At(3, 0)))
}

func TestJPEGFlattensAlpha(t *testing.T) {
	e := NewEngine()
	h := FromImage(solid(20, 20, color.NRGBA{R: 200, A: 0}), "png", 0)
	require.True(t, h.HasAlpha())

	params, err := codec.Resolve(entity.FormatJPEG, 90, false, h.HasAlpha(), e)
	require.NoError(t, err)
	assert.True(t, params.FlattenAlpha)

	data, err := e.Encode(h, params)
	require.NoError(t, err)

	decoded, err := e.Decode(data)
	require.NoError(t, err)
	assert.False(t, decoded.HasAlpha())
	assert.NotEqual(t, entity.ModeRGBA, decoded.Mode())

	// fully transparent pixels land on the white background
	r, g, b, _ := decoded.Image().At(10, 10).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestWebPEncode(t *testing.T) {
	e := NewEngine()
	h := FromImage(solid(24, 24, color.NRGBA{R: 40, G: 80, B: 120, A: 255}), "png", 0)

	for _, lossless := range []bool{false, true} {
		params, err := codec.Resolve(entity.FormatWEBP, 80, lossless, false, e)
		require.NoError(t, err)
		data, err := e.Encode(h, params)
		require.NoError(t, err)

		decoded, err := e.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "webp", decoded.SourceFormat())
		assert.Equal(t, 24, decoded.Width())
	}
}

func TestAVIFIsSubstituted(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.SupportsFormat(entity.FormatAVIF))

	params, err := codec.Resolve(entity.FormatAVIF, 70, false, false, e)
	require.NoError(t, err)
	assert.Equal(t, entity.FormatWEBP, params.Format)
	assert.True(t, params.Substituted)

	_, err = e.Encode(FromImage(solid(2, 2, color.White), "png", 0), codec.EncodeParams{Format: entity.FormatAVIF})
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestResizeAndCrop(t *testing.T) {
	e := NewEngine()
	h := FromImage(solid(400, 300, color.White), "png", 0)

	resized, err := e.Resize(h, 200, 150)
	require.NoError(t, err)
	assert.Equal(t, 200, resized.Width())
	assert.Equal(t, 150, resized.Height())
	assert.Equal(t, 400, h.Width(), "source handle must not change")

	cropped, err := e.Crop(h, entity.Rect{X: 50, Y: 0, Side: 300})
	require.NoError(t, err)
	assert.Equal(t, 300, cropped.Width())
	assert.Equal(t, 300, cropped.Height())

	_, err = e.Crop(h, entity.Rect{X: 200, Y: 0, Side: 300})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = e.Resize(h, 0, 10)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestConvertColorMode(t *testing.T) {
	e := NewEngine()
	h := FromImage(solid(4, 4, color.NRGBA{R: 255, A: 100}), "png", 0)

	tests := []struct {
		mode      entity.ColorMode
		wantAlpha bool
	}{
		{mode: entity.ModeRGB, wantAlpha: false},
		{mode: entity.ModeL, wantAlpha: false},
		{mode: entity.ModeRGBA, wantAlpha: true},
		{mode: entity.ModeP, wantAlpha: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			out, err := e.ConvertColorMode(h, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, out.Mode())
			assert.Equal(t, tt.wantAlpha, out.HasAlpha())
		})
	}

	_, err := e.ConvertColorMode(h, "CMYK")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestCompose(t *testing.T) {
	e := NewEngine()
	h := FromImage(solid(10, 5, color.NRGBA{B: 255, A: 255}), "png", 0)

	out, err := e.Compose(h, 20, 20, "transparent")
	require.NoError(t, err)
	assert.Equal(t, 20, out.Width())
	assert.True(t, out.HasAlpha())
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, color.NRGBAModel.Convert(out.Image().At(10, 10)))
	assert.Equal(t, uint8(0), color.NRGBAModel.Convert(out.Image().At(0, 0)).(color.NRGBA).A)

	out, err = e.Compose(h, 20, 20, "#ff0000")
	require.NoError(t, err)
	assert.False(t, out.HasAlpha())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, color.NRGBAModel.Convert(out.Image().At(0, 0)))

	_, err = e.Compose(h, 20, 20, "#zz")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestOrientationAndMetadata(t *testing.T) {
	e := NewEngine()
	h, err := e.Decode(encodePNG(t, solid(6, 3, color.White)))
	require.NoError(t, err)
	assert.False(t, h.Oriented())

	oriented, err := e.CorrectOrientation(h)
	require.NoError(t, err)
	assert.True(t, oriented.Oriented())
	assert.Equal(t, 6, oriented.Width())

	again, err := e.CorrectOrientation(oriented)
	require.NoError(t, err)
	assert.Same(t, oriented, again)

	stripped := e.StripMetadata(oriented)
	assert.False(t, stripped.HasMetadata())
}

func TestHasEXIF(t *testing.T) {
	assert.True(t, hasEXIF([]byte("\xff\xd8\xff\xe1\x00\x10Exif\x00\x00MM")))
	assert.False(t, hasEXIF([]byte("\x89PNG\r\n\x1a\n")))
}
