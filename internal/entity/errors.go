package entity

import "errors"

var (
	// Engine errors
	ErrDecodeFailure     = errors.New("decode failure")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrEncodeFailure     = errors.New("encode failure")

	// Request errors
	ErrEmptyBatch    = errors.New("empty image list")
	ErrUnknownPreset = errors.New("unknown preset")

	// Job errors
	ErrJobNotFound = errors.New("job not found")
)
