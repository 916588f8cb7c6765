package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TriageHandler exposes the prediction endpoints.
type TriageHandler struct {
	triage *service.TriageService
}

// NewTriageHandler constructs handler.
func NewTriageHandler(triageService *service.TriageService) *TriageHandler {
	return &TriageHandler{triage: triageService}
}

// Predict POST /api/triage/predict. Standalone prediction, no ticket created.
func (h *TriageHandler) Predict(c *fiber.Ctx) error {
	var req dto.TriagePredictRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	prediction, err := h.triage.Predict(c.Context(), req.Title, req.Description)
	if err != nil {
		return err
	}
	if _, err := h.triage.LogPrediction(c.Context(), nil, req.Title, req.Description, prediction); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PredictionFromEngine(prediction)})
}

// ModelInfo GET /api/triage/model-info.
func (h *TriageHandler) ModelInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.triage.ModelInfo()})
}
