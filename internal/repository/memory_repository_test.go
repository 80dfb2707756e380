package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func createTicket(t *testing.T, repo TicketRepository, subject string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Email:   "u@x.com",
		Subject: subject,
		Message: "hello",
		Status:  domain.TicketStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func TestMemoryRepoCreateAssignsIdentity(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ticket := createTicket(t, repo, "a")

	assert.NotEmpty(t, ticket.ID)
	assert.False(t, ticket.CreatedAt.IsZero())
	assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)
}

func TestMemoryRepoGetMissingReturnsNoRows(t *testing.T) {
	repo := NewMemoryTicketRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryTicketRepository()
	first := createTicket(t, repo, "first")
	time.Sleep(2 * time.Millisecond)
	second := createTicket(t, repo, "second")

	tickets, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, second.ID, tickets[0].ID)
	assert.Equal(t, first.ID, tickets[1].ID)
}

func TestMemoryRepoUpdateAnalysisPopulatesTriple(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ticket := createTicket(t, repo, "a")

	updated, err := repo.UpdateAnalysis(context.Background(), ticket.ID, domain.TicketAnalysis{
		Sentiment: domain.SentimentPositive,
		Intent:    domain.IntentQuestion,
		Response:  "done",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	require.NotNil(t, updated.Sentiment)
	require.NotNil(t, updated.Intent)
	require.NotNil(t, updated.AIResponse)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestMemoryRepoDeleteCounts(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ticket := createTicket(t, repo, "a")

	deleted, err := repo.Delete(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	deleted, err = repo.Delete(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}

func TestMemoryRepoDeleteManyCountsOnlyExisting(t *testing.T) {
	repo := NewMemoryTicketRepository()
	a := createTicket(t, repo, "a")
	b := createTicket(t, repo, "b")

	deleted, err := repo.DeleteMany(context.Background(), []string{a.ID, "missing", b.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}

func TestMemoryRepoCounts(t *testing.T) {
	repo := NewMemoryTicketRepository()
	createTicket(t, repo, "a")
	ticket := createTicket(t, repo, "b")
	_, err := repo.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusProcessing)
	require.NoError(t, err)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	pending, err := repo.CountByStatus(context.Background(), domain.TicketStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	processing, err := repo.CountByStatus(context.Background(), domain.TicketStatusProcessing)
	require.NoError(t, err)
	assert.EqualValues(t, 1, processing)
}
