package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	ratings *service.RatingService
	triage  *service.TriageService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, ratings *service.RatingService, triageService *service.TriageService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, ratings: ratings, triage: triageService}
}

// Create POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// CreateWithTriage POST /api/tickets/triage. Runs a prediction, creates the
// ticket from it and records the prediction in the audit log.
func (h *TicketsHandler) CreateWithTriage(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TriageCreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	prediction, err := h.triage.Predict(c.Context(), req.Title, req.Description)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.CreateTicketWithTriage(c.Context(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
	}, prediction)
	if err != nil {
		return err
	}
	if _, err := h.triage.LogPrediction(c.Context(), &ticket.ID, req.Title, req.Description, prediction); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":       dto.TicketFromDomain(ticket),
		"prediction": dto.PredictionFromEngine(prediction),
	})
}

// List GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	tickets, err := h.tickets.ListTickets(c.Context(), actor, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Search GET /api/tickets/search.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input := service.TicketSearchInput{
		Query:    c.Query("q"),
		Page:     parseInt(c.Query("page"), 1) - 1,
		PageSize: parseInt(c.Query("page_size"), 20),
	}
	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		input.Status = &status
	}
	if priorityStr := strings.TrimSpace(c.Query("priority")); priorityStr != "" {
		priority := domain.TicketPriority(priorityStr)
		input.Priority = &priority
	}
	if assignee := strings.TrimSpace(c.Query("assignee_id")); assignee != "" {
		input.AssigneeID = &assignee
	}

	tickets, total, err := h.tickets.SearchTickets(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketPageResponse{
		Items:    ticketResponses(tickets),
		Total:    total,
		Page:     input.Page + 1,
		PageSize: input.PageSize,
	}})
}

// Get GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.GetTicket(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Assign POST /api/tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AssigneeID) == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}

	ticket, err := h.tickets.AssignTicket(c.Context(), actor, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// UpdateStatus POST /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Rate POST /api/tickets/:id/rate.
func (h *TicketsHandler) Rate(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	rating, err := h.ratings.RateTicket(c.Context(), actor, c.Params("id"), req.Score, req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RatingFromDomain(rating)})
}

// GetRating GET /api/tickets/:id/rate.
func (h *TicketsHandler) GetRating(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	rating, err := h.ratings.GetRating(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RatingFromDomain(rating)})
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return items
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
