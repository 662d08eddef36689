package handlers

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/report"
)

// sendReport renders table in the requested format as a download.
func sendReport(c *fiber.Ctx, format, prefix string, table *report.Table) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return badRequest(c, err.Error())
	}
	exporter, err := report.ExporterFor(f)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var buf bytes.Buffer
	if err := exporter.Export(table, &buf); err != nil {
		log.Error().Err(err).Str("format", string(f)).Msg("failed to render report")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "failed to render report",
			"error_kind": KindInternal,
		})
	}

	c.Set(fiber.HeaderContentType, exporter.ContentType())
	c.Attachment(report.Filename(prefix, exporter, table.GeneratedAt))
	return c.Send(buf.Bytes())
}

// ExportMatches godoc
// @Summary Export name matches
// @Description Same as POST /match, returned as an xlsx or pdf download
// @Tags Matching
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param format query string false "xlsx (default) or pdf"
// @Param data body MatchRequest true "Queries and limits"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Router /match/export [post]
func (h *MatchHandler) ExportMatches(c *fiber.Ctx) error {
	var req MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	queries, opts, err := req.normalize()
	if err != nil {
		return badRequest(c, err.Error())
	}

	matches := h.pipeline.Match(queries, opts)
	return sendReport(c, c.Query("format"), "matches", report.MatchTable(queries, matches, time.Now()))
}

// ExportExtractions godoc
// @Summary Export recent extractions
// @Description Same filters as GET /extractions, returned as an xlsx or pdf download
// @Tags Extraction
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param format query string false "xlsx (default) or pdf"
// @Param status query string false "Status filter"
// @Param provider query string false "Provider filter"
// @Param since query string false "RFC3339 timestamp"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /extractions/export [get]
func (h *ExtractionHandler) ExportExtractions(c *fiber.Ctx) error {
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

	return sendReport(c, c.Query("format"), "extractions", report.ExtractionTable(logs, time.Now()))
}
