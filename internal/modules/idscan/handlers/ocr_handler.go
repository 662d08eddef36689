package handlers

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/idcard-ocr-be/internal/core/pipeline"
)

// Error kinds returned to clients next to the message.
const (
	KindTransportFailure = "transport_failure"
	KindProcessingFailed = "processing_failed"
	KindInvalidRequest   = "invalid_request"
	KindInternal         = "internal"
)

// OCRHandler handles document upload and extraction
type OCRHandler struct {
	pipeline      *pipeline.Pipeline
	maxUploadSize int64
}

// NewOCRHandler creates a new OCR handler
func NewOCRHandler(p *pipeline.Pipeline, maxUploadSize int64) *OCRHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 * 1024 * 1024
	}
	return &OCRHandler{pipeline: p, maxUploadSize: maxUploadSize}
}

// ExtractDocument godoc
// @Summary Extract fields from an identity document
// @Description Upload an image (jpg, jpeg, png or pdf), run OCR, extract names, ID numbers and dates, and match a query name against the reference list. The query defaults to the first extracted name.
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document image"
// @Param query formData string false "Name to search for"
// @Param top_n formData int false "Maximum number of matches"
// @Param threshold formData int false "Minimum score (0-100)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /ocr/extract [post]
func (h *OCRHandler) ExtractDocument(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	doc := ocr.Document{Filename: file.Filename}
	if !doc.Supported() {
		return badRequest(c, "only "+strings.Join(ocr.SupportedExtensions, ", ")+" files are supported")
	}

	if file.Size > h.maxUploadSize {
		return badRequest(c, "file is too large, limit is "+strconv.FormatInt(h.maxUploadSize/1024/1024, 10)+"MB")
	}

	opts, err := parseMatchOptions(c.FormValue("top_n"), c.FormValue("threshold"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	var query *string
	if form, err := c.MultipartForm(); err == nil {
		if values, ok := form.Value["query"]; ok && len(values) > 0 {
			q := values[0]
			query = &q
		}
	}

	fileHandle, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "failed to read uploaded file",
			"error_kind": KindInternal,
		})
	}
	defer fileHandle.Close()

	doc.Data, err = io.ReadAll(fileHandle)
	if err != nil {
		log.Error().Err(err).Msg("failed to read uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "failed to read uploaded file",
			"error_kind": KindInternal,
		})
	}

	log.Info().
		Str("filename", doc.Filename).
		Float64("size_kb", float64(len(doc.Data))/1024).
		Str("provider", h.pipeline.ProviderName()).
		Msg("processing document")

	result, err := h.pipeline.Process(c.UserContext(), doc, query, opts)
	if err != nil {
		return ocrError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   result,
	})
}

// ocrError maps OCR error kinds to HTTP statuses. A transport failure is the
// upstream's fault (502); a processing failure is about this image (422).
func ocrError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ocr.ErrTransportFailure):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":      "OCR service unavailable",
			"error_kind": KindTransportFailure,
		})
	case errors.Is(err, ocr.ErrProcessingFailed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      "OCR service could not process the image",
			"error_kind": KindProcessingFailed,
		})
	case errors.Is(err, ocr.ErrUnsupportedType):
		return badRequest(c, err.Error())
	default:
		log.Error().Err(err).Msg("document processing failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "failed to process document",
			"error_kind": KindInternal,
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":      msg,
		"error_kind": KindInvalidRequest,
	})
}

func parseMatchOptions(topNRaw, thresholdRaw string) (pipeline.MatchOptions, error) {
	var opts pipeline.MatchOptions
	if topNRaw != "" {
		n, err := strconv.Atoi(topNRaw)
		if err != nil {
			return opts, errors.New("top_n must be an integer")
		}
		if err := validateTopN(n); err != nil {
			return opts, err
		}
		opts.TopN = &n
	}
	if thresholdRaw != "" {
		n, err := strconv.Atoi(thresholdRaw)
		if err != nil {
			return opts, errors.New("threshold must be an integer")
		}
		if err := validateThreshold(n); err != nil {
			return opts, err
		}
		opts.Threshold = &n
	}
	return opts, nil
}

func validateTopN(n int) error {
	if n < 0 {
		return errors.New("top_n must not be negative")
	}
	return nil
}

func validateThreshold(n int) error {
	if n < 0 || n > 100 {
		return errors.New("threshold must be between 0 and 100")
	}
	return nil
}
