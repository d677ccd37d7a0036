package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/gin-gonic/gin"
)

var outputTypes = map[string]string{
	".webp": "image/webp",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".avif": "image/avif",
	".ico":  "image/x-icon",
}

// CreateJob accepts "images" files and a JSON "request" form field.
func (h *Handler) CreateJob(c *gin.Context) {
	var req entity.Request
	if err := json.Unmarshal([]byte(c.PostForm("request")), &req); err != nil {
		respondError(c, fmt.Errorf("%w: request: %v", entity.ErrInvalidParameter, err))
		return
	}

	uploads, err := h.readFiles(c, "images")
	if err != nil {
		respondError(c, err)
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), req, uploads)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, entity.UploadResponse{
		ID:     job.ID,
		Status: job.Status,
	})
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := entity.JobResponse{
		ID:     job.ID,
		Status: job.Status,
		Error:  job.Error,
	}
	if job.Status == entity.StatusCompleted || job.Status == entity.StatusFailed {
		response.Result = job.Result
		response.Outputs = job.Outputs
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetOutput(c *gin.Context) {
	name := c.Param("name")
	rc, err := h.jobs.OpenOutput(c.Param("id"), name)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	contentType, ok := outputTypes[path.Ext(name)]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", path.Base(name)),
	})
}

func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.jobs.DeleteJob(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
