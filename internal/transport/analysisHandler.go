package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Analyze(c *gin.Context) {
	src, err := h.readSingle(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.analysis.Analyze(c.Request.Context(), src)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyzeBatch always answers with a report, an empty upload gives an empty one.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	sources, err := h.readFiles(c, "images")
	if err != nil && !errors.Is(err, entity.ErrEmptyBatch) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analysis.AnalyzeBatch(c.Request.Context(), sources))
}

func (h *Handler) PreviewPlan(c *gin.Context) {
	src, err := h.readSingle(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	var overrides entity.Overrides
	if raw := c.PostForm("overrides"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			respondError(c, fmt.Errorf("%w: overrides: %v", entity.ErrInvalidParameter, err))
			return
		}
	}

	plan, err := h.analysis.PreviewPlan(src, c.DefaultPostForm("preset", "web-basic"), overrides)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.analysis.Presets()})
}

func (h *Handler) SVGReport(c *gin.Context) {
	src, err := h.readSingle(c, "svg")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analysis.SVGReport(src))
}

func (h *Handler) SVGExport(c *gin.Context) {
	src, err := h.readSingle(c, "svg")
	if err != nil {
		respondError(c, err)
		return
	}

	base, err := strconv.Atoi(c.DefaultPostForm("base", "24"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: base %q", entity.ErrInvalidParameter, c.PostForm("base")))
		return
	}
	format, err := entity.ParseFormat(c.DefaultPostForm("format", "png"))
	if err != nil {
		respondError(c, err)
		return
	}

	files, err := h.analysis.ExportSVG(c.Request.Context(), src, c.DefaultPostForm("target", "densities"), base, format)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}
