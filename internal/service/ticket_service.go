package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/classifier"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Analyzer classifies a ticket message. The boolean reports a fallback
// result; analyzers never fail past their own boundary.
type Analyzer interface {
	Analyze(ctx context.Context, message string) (domain.TicketAnalysis, bool)
}

// TicketService owns the ticket lifecycle: pending -> processing ->
// resolved, with processing -> pending as the failure-recovery override.
type TicketService struct {
	tickets    repository.TicketRepository
	analyzer   Analyzer
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Analyzer   Analyzer
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// SubmitInput describes a ticket submission.
type SubmitInput struct {
	Email   string
	Subject string
	Message string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		analyzer:   deps.Analyzer,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Submit validates and persists a new pending ticket, then publishes the
// created event that drives the confirmation email and the automation
// trigger. Both side effects are fire-and-forget; their failure never
// reaches the caller.
func (s *TicketService) Submit(ctx context.Context, input SubmitInput) (*domain.Ticket, error) {
	missing := map[string]any{}
	email := strings.TrimSpace(input.Email)
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if email == "" {
		missing["email"] = "required"
	}
	if subject == "" {
		missing["subject"] = "required"
	}
	if message == "" {
		missing["message"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("email, subject, message required", missing)
	}

	ticket := &domain.Ticket{
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  domain.TicketStatusPending,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Email:   ticket.Email,
			Subject: ticket.Subject,
			Message: ticket.Message,
		},
	})
	return ticket, nil
}

// BeginAnalysis moves a ticket to processing. Re-entering processing is
// allowed so a stalled analysis can be retried; a resolved ticket is
// terminal and keeps its analysis triple.
func (s *TicketService) BeginAnalysis(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if current.Status != domain.TicketStatusProcessing &&
		!domain.IsValidTransition(current.Status, domain.TicketStatusProcessing) {
		return nil, apperrors.NewConflict("ticket is already resolved", map[string]any{
			"id":     ticketID,
			"status": current.Status,
		})
	}

	ticket, err := s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusProcessing)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAnalysisStarted,
		TicketID: ticket.ID,
	})
	return ticket, nil
}

// CompleteAnalysis classifies the raw message and resolves the ticket.
// Classifier failure is absorbed into the fallback triple and the ticket
// still resolves; only a store failure surfaces, after a best-effort
// revert to pending.
func (s *TicketService) CompleteAnalysis(ctx context.Context, ticketID, rawMessage string) (*domain.Ticket, error) {
	analysis, fallback := s.analyzer.Analyze(ctx, rawMessage)
	if fallback {
		s.metrics.RecordFallbackResolution()
		s.logger.Warn("resolving ticket with fallback analysis", zap.String("ticket_id", ticketID))
	}
	return s.resolve(ctx, ticketID, analysis, fallback)
}

// Analyze runs the full synchronous pipeline for the analyze endpoint:
// pending -> processing, classify, resolve.
func (s *TicketService) Analyze(ctx context.Context, ticketID, rawMessage string) (*domain.Ticket, error) {
	if _, err := s.BeginAnalysis(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.CompleteAnalysis(ctx, ticketID, rawMessage)
}

// ApplyAnalysis resolves a ticket with an analysis supplied by the
// external automation tool, normalized through the same taxonomy rules as
// the classifier output.
func (s *TicketService) ApplyAnalysis(ctx context.Context, ticketID string, sentiment, intent, response string) (*domain.Ticket, error) {
	if strings.TrimSpace(response) == "" {
		response = classifier.FallbackResponse
	}
	analysis := domain.TicketAnalysis{
		Sentiment: classifier.NormalizeSentiment(sentiment),
		Intent:    classifier.NormalizeIntent(intent),
		Response:  response,
	}
	return s.resolve(ctx, ticketID, analysis, false)
}

func (s *TicketService) resolve(ctx context.Context, ticketID string, analysis domain.TicketAnalysis, fallback bool) (*domain.Ticket, error) {
	ticket, err := s.tickets.UpdateAnalysis(ctx, ticketID, analysis)
	if err != nil {
		mapped := apperrors.ToDomainError(err)
		if mapped.HTTPStatus >= 500 {
			// Failure-recovery override: do not leave the ticket stuck in
			// processing when the resolution write dies.
			if _, revertErr := s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusPending); revertErr != nil {
				s.logger.Error("failed to revert ticket to pending",
					zap.String("ticket_id", ticketID), zap.Error(revertErr))
			}
		}
		return nil, mapped
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Payload: events.TicketResolvedPayload{
			Email:     ticket.Email,
			Subject:   ticket.Subject,
			Sentiment: analysis.Sentiment,
			Intent:    analysis.Intent,
			Response:  analysis.Response,
			Fallback:  fallback,
		},
	})
	return ticket, nil
}

// Get fetches a single ticket.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// List returns all tickets, newest first.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Remove deletes one ticket and reports how many rows went away (0 or 1).
func (s *TicketService) Remove(ctx context.Context, ticketID string) (int64, error) {
	deleted, err := s.tickets.Delete(ctx, ticketID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if deleted > 0 {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketDeleted,
			TicketID: ticketID,
			Payload:  events.TicketDeletedPayload{DeletedCount: deleted},
		})
	}
	return deleted, nil
}

// RemoveMany bulk-deletes tickets in a single store operation; ids that do
// not exist simply do not count.
func (s *TicketService) RemoveMany(ctx context.Context, ticketIDs []string) (int64, error) {
	if len(ticketIDs) == 0 {
		return 0, apperrors.NewValidationError("ticketIds must be a non-empty list", nil)
	}
	deleted, err := s.tickets.DeleteMany(ctx, ticketIDs)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if deleted > 0 {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventTicketDeleted,
			Payload: events.TicketDeletedPayload{DeletedCount: deleted},
		})
	}
	return deleted, nil
}

// Stats counts tickets per status. Each count is its own query; the
// result is not a consistent snapshot under concurrent writes.
func (s *TicketService) Stats(ctx context.Context) (*domain.TicketStats, error) {
	total, err := s.tickets.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	pending, err := s.tickets.CountByStatus(ctx, domain.TicketStatusPending)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	processing, err := s.tickets.CountByStatus(ctx, domain.TicketStatusProcessing)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	resolved, err := s.tickets.CountByStatus(ctx, domain.TicketStatusResolved)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &domain.TicketStats{
		Total:      total,
		Pending:    pending,
		Processing: processing,
		Resolved:   resolved,
	}, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
