package entity

// Size is a named target produced by the size planner.
type Size struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Rect is a square crop rectangle anchored at (X, Y).
type Rect struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Side int `json:"side"`
}

// OutputSpec declares one desired output variant of a source image.
// Quality is only meaningful for lossy encodes; with Lossless set it is ignored.
type OutputSpec struct {
	Name     string `json:"name"`
	Format   Format `json:"format"`
	Quality  int    `json:"quality,omitempty"`
	Lossless bool   `json:"lossless,omitempty"`

	// Width and Height are optional; zero keeps the source dimension.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Anchor, when set, square-crops the source before resizing.
	Anchor Anchor `json:"anchor,omitempty"`

	// Pad fits the image inside Width x Height (upscaling allowed) and centres it on
	// a Background canvas ("transparent" or "#rrggbb").
	Pad        bool   `json:"pad,omitempty"`
	Background string `json:"background,omitempty"`

	StripMetadata bool `json:"strip_metadata,omitempty"`
}

// ConversionResult reports the outcome of one OutputSpec.
type ConversionResult struct {
	Name             string `json:"name"`
	Filename         string `json:"filename,omitempty"`
	RequestedFormat  Format `json:"requested_format"`
	Format           Format `json:"format,omitempty"`
	Substituted      bool   `json:"substituted,omitempty"`
	Width            int    `json:"width,omitempty"`
	Height           int    `json:"height,omitempty"`
	Quality          int    `json:"quality,omitempty"`
	Lossless         bool   `json:"lossless,omitempty"`
	MetadataStripped bool   `json:"metadata_stripped,omitempty"`
	Bytes            int64  `json:"bytes"`
	Success          bool   `json:"success"`
	Error            string `json:"error,omitempty"`

	Err  error  `json:"-"`
	Data []byte `json:"-"`
}

// ImageOutcome groups the results of one source image. Err is set when the
// image itself could not be decoded or planned.
type ImageOutcome struct {
	Filename    string             `json:"filename"`
	SourceBytes int64              `json:"source_bytes"`
	Results     []ConversionResult `json:"results,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// BatchResult aggregates outcomes keyed by original filename.
type BatchResult struct {
	Images map[string]*ImageOutcome `json:"images"`

	ImagesTotal      int `json:"images_total"`
	ImagesFailed     int `json:"images_failed"`
	OutputsSucceeded int `json:"outputs_succeeded"`
	OutputsFailed    int `json:"outputs_failed"`

	TotalInputBytes  int64   `json:"total_input_bytes"`
	TotalOutputBytes int64   `json:"total_output_bytes"`
	SavingsBytes     int64   `json:"savings_bytes"`
	CompressionRatio float64 `json:"compression_ratio"`

	// Cancelled is set when the batch was abandoned between images.
	Cancelled bool `json:"cancelled,omitempty"`
}
