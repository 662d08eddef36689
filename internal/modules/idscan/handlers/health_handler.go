package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/pipeline"
)

type HealthHandler struct {
	pipeline *pipeline.Pipeline
}

func NewHealthHandler(p *pipeline.Pipeline) *HealthHandler {
	return &HealthHandler{pipeline: p}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "ok",
		"service":    "idscan-api",
		"provider":   h.pipeline.ProviderName(),
		"references": h.pipeline.References().Len(),
	})
}
