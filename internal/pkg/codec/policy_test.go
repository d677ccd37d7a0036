package codec

import (
	"testing"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaps map[entity.Format]bool

func (c fakeCaps) SupportsFormat(f entity.Format) bool { return c[f] }

var allButAVIF = fakeCaps{entity.FormatWEBP: true, entity.FormatJPEG: true, entity.FormatPNG: true}

// TestQualityBounds checks the quality range for lossy encodes
func TestQualityBounds(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		wantErr bool
	}{
		{name: "zero", quality: 0, wantErr: true},
		{name: "minimum", quality: 1},
		{name: "maximum", quality: 100},
		{name: "above maximum", quality: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := Resolve(entity.FormatJPEG, tt.quality, false, false, allButAVIF)
			if tt.wantErr {
				require.ErrorIs(t, err, entity.ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quality, params.Quality)
		})
	}
}

func TestLosslessIgnoresQuality(t *testing.T) {
	params, err := Resolve(entity.FormatWEBP, 0, true, true, allButAVIF)
	require.NoError(t, err)
	assert.True(t, params.Lossless)
	assert.Equal(t, LosslessQuality, params.Quality)

	params, err = Resolve(entity.FormatPNG, 500, false, false, allButAVIF)
	require.NoError(t, err)
	assert.True(t, params.Lossless)
}

func TestFormatRules(t *testing.T) {
	webp, err := Resolve(entity.FormatWEBP, 80, false, true, allButAVIF)
	require.NoError(t, err)
	assert.Equal(t, WebPMethod, webp.Method)
	assert.True(t, webp.PreserveAlpha)
	assert.False(t, webp.FlattenAlpha)

	jpeg, err := Resolve(entity.FormatJPEG, 80, false, true, allButAVIF)
	require.NoError(t, err)
	assert.True(t, jpeg.FlattenAlpha)
	assert.True(t, jpeg.Progressive)
	assert.True(t, jpeg.Optimize)

	png, err := Resolve(entity.FormatPNG, 80, false, false, allButAVIF)
	require.NoError(t, err)
	assert.Equal(t, PNGCompressionLevel, png.CompressionLevel)
	assert.True(t, png.PaletteReduce)
}

func TestAVIFSubstitution(t *testing.T) {
	params, err := Resolve(entity.FormatAVIF, 70, false, false, allButAVIF)
	require.NoError(t, err)
	assert.Equal(t, entity.FormatWEBP, params.Format)
	assert.Equal(t, entity.FormatAVIF, params.Requested)
	assert.True(t, params.Substituted)
	assert.Equal(t, WebPMethod, params.Method)

	withAVIF := fakeCaps{entity.FormatAVIF: true}
	params, err = Resolve(entity.FormatAVIF, 70, false, false, withAVIF)
	require.NoError(t, err)
	assert.Equal(t, entity.FormatAVIF, params.Format)
	assert.False(t, params.Substituted)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := Resolve(entity.FormatAuto, 80, false, false, allButAVIF)
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)

	_, err = Resolve(entity.FormatAVIF, 80, false, false, fakeCaps{})
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestClampQuality(t *testing.T) {
	assert.Equal(t, 1, ClampQuality(-5))
	assert.Equal(t, 1, ClampQuality(0))
	assert.Equal(t, 50, ClampQuality(50))
	assert.Equal(t, 100, ClampQuality(250))
}
