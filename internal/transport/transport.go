package transport

import (
	"github.com/ds124wfegd/imagekit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(), middleware.CORS())

	jobs := router.Group("/jobs")
	{
		jobs.POST("", h.CreateJob)
		jobs.GET("/:id", h.GetJob)
		jobs.GET("/:id/outputs/:name", h.GetOutput)
		jobs.DELETE("/:id", h.DeleteJob)
	}

	router.POST("/analyze", h.Analyze)
	router.POST("/analyze/batch", h.AnalyzeBatch)
	router.POST("/plan", h.PreviewPlan)
	router.GET("/presets", h.Presets)

	svg := router.Group("/svg")
	{
		svg.POST("/report", h.SVGReport)
		svg.POST("/export", h.SVGExport)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "imagekit",
		})
	})
	return router
}
