package optimizer

import (
	"image"
	"testing"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClassifier struct {
	content entity.ContentType
	calls   int
}

func (c *fixedClassifier) ContentType(*raster.Handle) entity.ContentType {
	c.calls++
	return c.content
}

func handle(w, h int, alpha bool) *raster.Handle {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	a := uint8(255)
	if alpha {
		a = 128
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = a
	}
	return raster.FromImage(img, "png", 0)
}

func intPtr(v int) *int { return &v }

func TestLookup(t *testing.T) {
	p, err := Lookup("web-basic")
	require.NoError(t, err)
	assert.Equal(t, 1920, p.MaxWidth)
	assert.Equal(t, 1080, p.MaxHeight)
	assert.Equal(t, 85, p.Quality)
	assert.Equal(t, entity.FormatAuto, p.Format)
	assert.True(t, p.StripMetadata)

	p, err = Lookup("High_Quality")
	require.NoError(t, err)
	assert.Equal(t, "high-quality", p.Name)
	assert.False(t, p.StripMetadata)

	_, err = Lookup("ultra")
	assert.ErrorIs(t, err, entity.ErrUnknownPreset)
}

func TestPresetsAreCopies(t *testing.T) {
	list := Presets()
	require.Len(t, list, 5)
	list[0].Quality = 1

	p, err := Lookup(list[0].Name)
	require.NoError(t, err)
	assert.NotEqual(t, 1, p.Quality)
}

func TestApplyOverrides(t *testing.T) {
	base, err := Lookup("social-media")
	require.NoError(t, err)

	png := entity.FormatPNG
	strip := false
	p := Apply(base, entity.Overrides{Quality: intPtr(150), MaxWidth: intPtr(640), Format: &png, StripMetadata: &strip})

	assert.Equal(t, 100, p.Quality)
	assert.Equal(t, 640, p.MaxWidth)
	assert.Equal(t, 1200, p.MaxHeight, "untouched field keeps the preset value")
	assert.Equal(t, entity.FormatPNG, p.Format)
	assert.False(t, p.StripMetadata)
	assert.Equal(t, 80, base.Quality, "preset is not modified")

	p = Apply(base, entity.Overrides{Quality: intPtr(0), MaxHeight: intPtr(-5)})
	assert.Equal(t, 1, p.Quality)
	assert.Equal(t, 1200, p.MaxHeight)
}

func TestSelectFormatTable(t *testing.T) {
	tests := []struct {
		in   AutoInput
		want entity.Format
	}{
		{in: AutoInput{HasAlpha: true, Content: entity.ContentPhoto}, want: entity.FormatWEBP},
		{in: AutoInput{HasAlpha: true, Content: entity.ContentGraphic}, want: entity.FormatWEBP},
		{in: AutoInput{Content: entity.ContentPhoto}, want: entity.FormatJPEG},
		{in: AutoInput{Content: entity.ContentGraphic}, want: entity.FormatPNG},
		{in: AutoInput{Content: entity.ContentMixed}, want: entity.FormatWEBP},
		{in: AutoInput{HasAlpha: true, JPEGForced: true, Content: entity.ContentGraphic}, want: entity.FormatPNG},
		{in: AutoInput{HasAlpha: true, JPEGForced: true, Content: entity.ContentPhoto}, want: entity.FormatWEBP},
		{in: AutoInput{JPEGForced: true, Content: entity.ContentPhoto}, want: entity.FormatJPEG},
	}

	for _, tt := range tests {
		got := SelectFormat(tt.in)
		assert.Equal(t, tt.want, got.Format, "%+v", tt.in)
		// same input, same answer
		assert.Equal(t, got.Name, SelectFormat(tt.in).Name)
	}
}

func TestBuildPlanWebBasic(t *testing.T) {
	p, err := Lookup("web-basic")
	require.NoError(t, err)
	classifier := &fixedClassifier{content: entity.ContentPhoto}

	plan := BuildPlan(handle(4000, 3000, false), p, classifier)

	assert.Equal(t, 1440, plan.Width)
	assert.Equal(t, 1080, plan.Height)
	assert.True(t, plan.Resized)
	assert.Equal(t, entity.FormatJPEG, plan.Format)
	assert.True(t, plan.AutoSelected)
	assert.Equal(t, "opaque-photo-jpeg", plan.Rule)
	assert.Equal(t, 85, plan.Quality)
	assert.True(t, plan.StripMetadata)
	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, entity.ContentPhoto, plan.ContentType)
}

func TestBuildPlanSkipsAnalysisForAlpha(t *testing.T) {
	p, err := Lookup("web-basic")
	require.NoError(t, err)
	classifier := &fixedClassifier{content: entity.ContentPhoto}

	plan := BuildPlan(handle(100, 50, true), p, classifier)

	assert.Equal(t, entity.FormatWEBP, plan.Format)
	assert.False(t, plan.Resized)
	assert.Equal(t, 100, plan.Width)
	assert.Zero(t, classifier.calls)
	assert.Empty(t, plan.ContentType, "no analysis ran")
}

func TestBuildPlanExplicitFormat(t *testing.T) {
	p, err := Lookup("email-friendly")
	require.NoError(t, err)
	png := entity.FormatPNG
	p = Apply(p, entity.Overrides{Format: &png})
	classifier := &fixedClassifier{content: entity.ContentPhoto}

	plan := BuildPlan(handle(1600, 1600, false), p, classifier)

	assert.Equal(t, entity.FormatPNG, plan.Format)
	assert.False(t, plan.AutoSelected)
	assert.Equal(t, 600, plan.Width)
	assert.Equal(t, 600, plan.Height)
	assert.Zero(t, classifier.calls)
}

func TestBuildPlanSharedPresetPerImage(t *testing.T) {
	p, err := Lookup("social-media")
	require.NoError(t, err)

	photo := BuildPlan(handle(2400, 1200, false), p, &fixedClassifier{content: entity.ContentPhoto})
	logo := BuildPlan(handle(300, 300, false), p, &fixedClassifier{content: entity.ContentGraphic})

	assert.Equal(t, entity.FormatJPEG, photo.Format)
	assert.Equal(t, 1200, photo.Width)
	assert.Equal(t, 600, photo.Height)
	assert.Equal(t, entity.FormatPNG, logo.Format)
	assert.False(t, logo.Resized)
}
