package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/ratelimit"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	limiter *ratelimit.FixedWindowLimiter
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, limiter *ratelimit.FixedWindowLimiter, metrics *observability.Metrics, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{service: ticketService, limiter: limiter, metrics: metrics, logger: logger}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Submit(c.UserContext(), service.SubmitInput{
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTicket(ticket))
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// Stats GET /tickets/stats. Four independent counts, not a consistent
// snapshot.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// Delete DELETE /tickets/:id. A zero delete count is a 404, never a
// silent success.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(dto.DeleteResponse{DeletedCount: deleted})
}

// BulkDelete POST /tickets/bulk-delete.
func (h *TicketsHandler) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	deleted, err := h.service.RemoveMany(c.UserContext(), req.TicketIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{DeletedCount: deleted})
}

// Analyze POST /tickets/analyze. Rate limited per client address; the
// limiter runs before the body is even parsed.
func (h *TicketsHandler) Analyze(c *fiber.Ctx) error {
	decision, err := h.limiter.CheckAndIncrement(c.UserContext(), c.IP())
	if err != nil {
		// A broken counter backend fails open; the endpoint stays up.
		h.logger.Warn("rate limit check failed", zap.Error(err))
	}
	if !decision.Allowed {
		h.metrics.RecordRateLimited()
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(decision.RetryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":      "Too many requests",
			"retryAfter": decision.RetryAfter,
		})
	}

	var req dto.AnalyzeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" || req.Message == "" {
		return apperrors.NewValidationError("ticketId and message required", nil)
	}

	ticket, err := h.service.Analyze(c.UserContext(), req.TicketID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}
