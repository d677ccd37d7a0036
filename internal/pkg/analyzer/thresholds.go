package analyzer

// Thresholds holds every tunable constant of the analyzer. The defaults are
// heuristics picked on sample sets; they are not guarantees.
type Thresholds struct {
	// ColorSampleSize caps the long edge of the color sampling grid.
	ColorSampleSize int `mapstructure:"color_sample_size"`
	// EdgeSampleSize caps the long edge of the edge detection grid.
	EdgeSampleSize int `mapstructure:"edge_sample_size"`
	// EdgeMagnitude is the Sobel gradient magnitude above which a pixel counts as an edge.
	EdgeMagnitude float64 `mapstructure:"edge_magnitude"`

	UniqueColorsLow    int     `mapstructure:"unique_colors_low"`
	UniqueColorsMedium int     `mapstructure:"unique_colors_medium"`
	EdgeDensityLow     float64 `mapstructure:"edge_density_low"`
	EdgeDensityMedium  float64 `mapstructure:"edge_density_medium"`

	ContrastHigh   float64 `mapstructure:"contrast_high"`
	ContrastMedium float64 `mapstructure:"contrast_medium"`

	// MonochromeSaturation is the mean HSV saturation under which an image is monochrome.
	MonochromeSaturation float64 `mapstructure:"monochrome_saturation"`

	TextureSmooth   float64 `mapstructure:"texture_smooth"`
	TextureDetailed float64 `mapstructure:"texture_detailed"`

	DominantColors int `mapstructure:"dominant_colors"`

	// Harmony bands, in degrees of hue distance.
	AnalogousMaxHue     float64 `mapstructure:"analogous_max_hue"`
	ComplementaryMinHue float64 `mapstructure:"complementary_min_hue"`
	TriadicTolerance    float64 `mapstructure:"triadic_tolerance"`

	LargeImagePixels      int `mapstructure:"large_image_pixels"`
	MediumImagePixels     int `mapstructure:"medium_image_pixels"`
	ResponsiveImagePixels int `mapstructure:"responsive_image_pixels"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ColorSampleSize: 100,
		EdgeSampleSize:  64,
		EdgeMagnitude:   100,

		UniqueColorsLow:    256,
		UniqueColorsMedium: 1000,
		EdgeDensityLow:     0.08,
		EdgeDensityMedium:  0.12,

		ContrastHigh:   60,
		ContrastMedium: 30,

		MonochromeSaturation: 0.10,

		TextureSmooth:   10,
		TextureDetailed: 25,

		DominantColors: 3,

		AnalogousMaxHue:     30,
		ComplementaryMinHue: 150,
		TriadicTolerance:    30,

		LargeImagePixels:      4_000_000,
		MediumImagePixels:     2_000_000,
		ResponsiveImagePixels: 1_000_000,
	}
}

// withDefaults fills zero fields, so a partially configured Thresholds stays usable.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}

	setInt(&t.ColorSampleSize, d.ColorSampleSize)
	setInt(&t.EdgeSampleSize, d.EdgeSampleSize)
	setFloat(&t.EdgeMagnitude, d.EdgeMagnitude)
	setInt(&t.UniqueColorsLow, d.UniqueColorsLow)
	setInt(&t.UniqueColorsMedium, d.UniqueColorsMedium)
	setFloat(&t.EdgeDensityLow, d.EdgeDensityLow)
	setFloat(&t.EdgeDensityMedium, d.EdgeDensityMedium)
	setFloat(&t.ContrastHigh, d.ContrastHigh)
	setFloat(&t.ContrastMedium, d.ContrastMedium)
	setFloat(&t.MonochromeSaturation, d.MonochromeSaturation)
	setFloat(&t.TextureSmooth, d.TextureSmooth)
	setFloat(&t.TextureDetailed, d.TextureDetailed)
	setInt(&t.DominantColors, d.DominantColors)
	setFloat(&t.AnalogousMaxHue, d.AnalogousMaxHue)
	setFloat(&t.ComplementaryMinHue, d.ComplementaryMinHue)
	setFloat(&t.TriadicTolerance, d.TriadicTolerance)
	setInt(&t.LargeImagePixels, d.LargeImagePixels)
	setInt(&t.MediumImagePixels, d.MediumImagePixels)
	setInt(&t.ResponsiveImagePixels, d.ResponsiveImagePixels)
	return t
}
