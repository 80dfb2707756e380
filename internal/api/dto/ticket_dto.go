package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// AnalyzeTicketRequest payload for the synchronous analysis endpoint.
// Email and Subject are accepted for compatibility with external callers;
// the reply notification uses the stored ticket fields.
type AnalyzeTicketRequest struct {
	TicketID string `json:"ticketId"`
	Message  string `json:"message"`
	Email    string `json:"email,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// BulkDeleteRequest payload.
type BulkDeleteRequest struct {
	TicketIDs []string `json:"ticketIds"`
}

// AnalysisPayload is the analysis object supplied by the external
// automation tool.
type AnalysisPayload struct {
	Sentiment string `json:"sentiment"`
	Intent    string `json:"intent"`
	Response  string `json:"response"`
}

// AnalysisCompleteRequest is the inbound callback body.
type AnalysisCompleteRequest struct {
	TicketID string           `json:"ticketId"`
	Analysis *AnalysisPayload `json:"analysis"`
	Email    string           `json:"email,omitempty"`
	Subject  string           `json:"subject,omitempty"`
}

// TicketResponse mirrors the persisted ticket. The analysis fields are
// null until the ticket resolves.
type TicketResponse struct {
	ID         string              `json:"id"`
	Email      string              `json:"email"`
	Subject    string              `json:"subject"`
	Message    string              `json:"message"`
	Status     domain.TicketStatus `json:"status"`
	Sentiment  *domain.Sentiment   `json:"sentiment"`
	Intent     *domain.Intent      `json:"intent"`
	AIResponse *string             `json:"ai_response"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// DeleteResponse reports how many tickets a delete removed.
type DeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// FromTicket maps a domain ticket onto the wire shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:         ticket.ID,
		Email:      ticket.Email,
		Subject:    ticket.Subject,
		Message:    ticket.Message,
		Status:     ticket.Status,
		Sentiment:  ticket.Sentiment,
		Intent:     ticket.Intent,
		AIResponse: ticket.AIResponse,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
	}
}

// FromTickets maps a ticket list onto the wire shape.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}
