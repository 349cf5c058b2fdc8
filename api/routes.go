package api

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"pdf_optimizer/batch"
	"pdf_optimizer/config"
)

// BatchProcessor runs one compression batch.
type BatchProcessor interface {
	Process(ctx context.Context, req batch.Request) (*batch.Bundle, error)
}

// Handler serves the compression API.
type Handler struct {
	processor BatchProcessor
	config    *config.Config
	logger    *slog.Logger
}

// NewHandler wires the HTTP handlers to a batch processor.
func NewHandler(processor BatchProcessor, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{processor: processor, config: cfg, logger: logger}
}

func SetupRoutes(r *gin.Engine, h *Handler) {
	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/compress", h.HandleCompress)
	}

	r.GET("/health", h.HandleHealth)
}
