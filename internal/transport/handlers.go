package transport

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/processor"
	"github.com/ds124wfegd/imagekit/internal/service"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	jobs      service.JobService
	analysis  service.AnalysisService
	maxUpload int64
}

// NewHandler wires the HTTP surface. maxUpload limits each uploaded file in bytes.
func NewHandler(jobs service.JobService, analysis service.AnalysisService, maxUpload int64) *Handler {
	return &Handler{jobs: jobs, analysis: analysis, maxUpload: maxUpload}
}

// readFile loads one multipart file into memory.
func (h *Handler) readFile(fh *multipart.FileHeader) (processor.Source, error) {
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return processor.Source{}, fmt.Errorf("%w: %s exceeds %d bytes", entity.ErrInvalidParameter, fh.Filename, h.maxUpload)
	}
	f, err := fh.Open()
	if err != nil {
		return processor.Source{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return processor.Source{}, err
	}
	return processor.Source{Filename: fh.Filename, Data: data}, nil
}

// readFiles loads every file sent under field.
func (h *Handler) readFiles(c *gin.Context, field string) ([]processor.Source, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: multipart form expected", entity.ErrInvalidParameter)
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	sources := make([]processor.Source, 0, len(files))
	for _, fh := range files {
		src, err := h.readFile(fh)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (h *Handler) readSingle(c *gin.Context, field string) (processor.Source, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return processor.Source{}, fmt.Errorf("%w: no %q file provided", entity.ErrInvalidParameter, field)
	}
	return h.readFile(fh)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrEmptyBatch),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrUnsupportedFormat),
		errors.Is(err, entity.ErrUnknownPreset),
		errors.Is(err, entity.ErrDecodeFailure):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
