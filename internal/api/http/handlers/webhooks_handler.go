package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// WebhooksHandler receives callbacks from the external automation tool.
type WebhooksHandler struct {
	service *service.TicketService
}

// NewWebhooksHandler constructs handler.
func NewWebhooksHandler(ticketService *service.TicketService) *WebhooksHandler {
	return &WebhooksHandler{service: ticketService}
}

// AnalysisComplete POST /webhooks/analysis-complete. The automation tool
// classified the ticket on its side; normalize its result and resolve.
func (h *WebhooksHandler) AnalysisComplete(c *fiber.Ctx) error {
	var req dto.AnalysisCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" || req.Analysis == nil {
		return apperrors.NewValidationError("ticketId and analysis required", nil)
	}

	ticket, err := h.service.ApplyAnalysis(c.UserContext(), req.TicketID,
		req.Analysis.Sentiment, req.Analysis.Intent, req.Analysis.Response)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}
