package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusProcessing TicketStatus = "processing"
	TicketStatusResolved   TicketStatus = "resolved"
)

// Sentiment enumerates the closed sentiment taxonomy.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Intent enumerates the closed intent taxonomy.
type Intent string

const (
	IntentQuestion   Intent = "question"
	IntentComplaint  Intent = "complaint"
	IntentCompliment Intent = "compliment"
	IntentOther      Intent = "other"
)

// Ticket is the aggregate for support requests. The analysis fields stay
// nil until the ticket reaches resolved, at which point all three are
// populated together.
type Ticket struct {
	ID         string
	Email      string
	Subject    string
	Message    string
	Status     TicketStatus
	Sentiment  *Sentiment
	Intent     *Intent
	AIResponse *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TicketAnalysis is the classifier result written at resolution.
type TicketAnalysis struct {
	Sentiment Sentiment
	Intent    Intent
	Response  string
}

// TicketStats aggregates per-status counts. Each count comes from its own
// query, so the fields are not guaranteed mutually consistent under
// concurrent writes.
type TicketStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Resolved   int64 `json:"resolved"`
}

// allowedTransitions encodes the forward-only lifecycle. The
// processing->pending edge is the failure-recovery override used when an
// analysis attempt dies before its result is written.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:    {TicketStatusProcessing, TicketStatusResolved},
	TicketStatusProcessing: {TicketStatusResolved, TicketStatusPending},
	TicketStatusResolved:   {},
}

// IsValidTransition reports whether current may move to next.
func IsValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
