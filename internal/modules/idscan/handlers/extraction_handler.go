package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/audit"
)

// ExtractionLister reads recent extraction logs.
type ExtractionLister interface {
	Recent(ctx context.Context, filter audit.Filter) ([]audit.ExtractionLog, error)
}

type ExtractionHandler struct {
	logs ExtractionLister
}

func NewExtractionHandler(logs ExtractionLister) *ExtractionHandler {
	return &ExtractionHandler{logs: logs}
}

// ListExtractions godoc
// @Summary List recent extractions
// @Description Newest first. Only available when the extraction log is enabled.
// @Tags Extraction
// @Produce json
// @Param status query string false "success, transport_failure, processing_failed or rejected"
// @Param provider query string false "OCR provider name"
// @Param since query string false "RFC3339 timestamp"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /extractions [get]
func (h *ExtractionHandler) ListExtractions(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	logs, err := h.logs.Recent(c.UserContext(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list extractions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "failed to retrieve extractions",
			"error_kind": KindInternal,
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(logs),
		"data":   logs,
	})
}

func parseFilter(c *fiber.Ctx) (audit.Filter, error) {
	filter := audit.Filter{
		Status:   c.Query("status"),
		Provider: c.Query("provider"),
		Limit:    c.QueryInt("limit", 50),
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return filter, errors.New("since must be an RFC3339 timestamp")
		}
		filter.Since = &t
	}
	return filter, nil
}
