package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/pipeline"
)

// MatchHandler exposes extraction and matching without OCR, so a client
// can edit the query and search again.
type MatchHandler struct {
	pipeline *pipeline.Pipeline
}

func NewMatchHandler(p *pipeline.Pipeline) *MatchHandler {
	return &MatchHandler{pipeline: p}
}

// ExtractFieldsRequest is the body of POST /fields/extract
type ExtractFieldsRequest struct {
	Text string `json:"text"`
}

// MatchRequest is the body of POST /match. Query is shorthand for a single
// entry in Queries.
type MatchRequest struct {
	Query     *string  `json:"query,omitempty"`
	Queries   []string `json:"queries,omitempty"`
	TopN      *int     `json:"top_n,omitempty"`
	Threshold *int     `json:"threshold,omitempty"`
}

// normalize merges Query into Queries and checks the limits.
func (r MatchRequest) normalize() ([]string, pipeline.MatchOptions, error) {
	queries := r.Queries
	if r.Query != nil {
		queries = append([]string{*r.Query}, queries...)
	}
	if len(queries) == 0 {
		return nil, pipeline.MatchOptions{}, errors.New("query or queries is required")
	}
	if r.TopN != nil {
		if err := validateTopN(*r.TopN); err != nil {
			return nil, pipeline.MatchOptions{}, err
		}
	}
	if r.Threshold != nil {
		if err := validateThreshold(*r.Threshold); err != nil {
			return nil, pipeline.MatchOptions{}, err
		}
	}
	return queries, pipeline.MatchOptions{TopN: r.TopN, Threshold: r.Threshold}, nil
}

// ExtractFields godoc
// @Summary Extract fields from text
// @Description Apply the name, ID number and date rules to already recognised text
// @Tags Extraction
// @Accept json
// @Produce json
// @Param data body ExtractFieldsRequest true "OCR text"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /fields/extract [post]
func (h *MatchHandler) ExtractFields(c *fiber.Ctx) error {
	var req ExtractFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   h.pipeline.Extract(req.Text),
	})
}

// MatchNames godoc
// @Summary Fuzzy match names
// @Description Rank reference names by similarity to one or more query names
// @Tags Matching
// @Accept json
// @Produce json
// @Param data body MatchRequest true "Queries and limits"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /match [post]
func (h *MatchHandler) MatchNames(c *fiber.Ctx) error {
	var req MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	queries, opts, err := req.normalize()
	if err != nil {
		return badRequest(c, err.Error())
	}

	matches := h.pipeline.Match(queries, opts)

	return c.JSON(fiber.Map{
		"status":  "success",
		"queries": queries,
		"count":   len(matches),
		"data":    matches,
	})
}

// GetReferences godoc
// @Summary List reference names
// @Description Return the reference names currently used for matching
// @Tags Matching
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /references [get]
func (h *MatchHandler) GetReferences(c *fiber.Ctx) error {
	set := h.pipeline.References()
	return c.JSON(fiber.Map{
		"status": "success",
		"count":  set.Len(),
		"data":   set.Names(),
	})
}
