package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	assert.True(t, IsValidTransition(TicketStatusPending, TicketStatusProcessing))
	assert.True(t, IsValidTransition(TicketStatusPending, TicketStatusResolved))
	assert.True(t, IsValidTransition(TicketStatusProcessing, TicketStatusResolved))

	// Failure-recovery override only.
	assert.True(t, IsValidTransition(TicketStatusProcessing, TicketStatusPending))

	// Resolved is terminal.
	assert.False(t, IsValidTransition(TicketStatusResolved, TicketStatusPending))
	assert.False(t, IsValidTransition(TicketStatusResolved, TicketStatusProcessing))
	assert.False(t, IsValidTransition(TicketStatusResolved, TicketStatusResolved))
}
