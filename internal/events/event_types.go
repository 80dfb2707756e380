package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketAnalysisStarted EventType = "ticket_analysis_started"
	EventTicketResolved        EventType = "ticket_resolved"
	EventTicketDeleted         EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries everything the automation trigger and the
// confirmation email need.
type TicketCreatedPayload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// TicketResolvedPayload carries the analysis outcome for the reply email.
type TicketResolvedPayload struct {
	Email     string           `json:"email"`
	Subject   string           `json:"subject"`
	Sentiment domain.Sentiment `json:"sentiment"`
	Intent    domain.Intent    `json:"intent"`
	Response  string           `json:"response"`
	Fallback  bool             `json:"fallback"`
}

// TicketDeletedPayload reports how many tickets an administrative delete
// removed.
type TicketDeletedPayload struct {
	DeletedCount int64 `json:"deleted_count"`
}
