// internal/models/lifecycle_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuoteTransitions(t *testing.T) {
	assert.True(t, QuoteStatusPending.CanTransitionTo(QuoteStatusAnswered))
	assert.True(t, QuoteStatusPending.CanTransitionTo(QuoteStatusRejected))
	assert.False(t, QuoteStatusPending.CanTransitionTo(QuoteStatusApproved))

	assert.True(t, QuoteStatusAnswered.CanTransitionTo(QuoteStatusApproved))
	assert.False(t, QuoteStatusAnswered.CanTransitionTo(QuoteStatusRejected))

	assert.False(t, QuoteStatusRejected.CanTransitionTo(QuoteStatusAnswered))
	assert.False(t, QuoteStatusApproved.CanTransitionTo(QuoteStatusPending))

	assert.False(t, QuoteStatusPending.IsTerminal())
	assert.False(t, QuoteStatusAnswered.IsTerminal())
	assert.True(t, QuoteStatusRejected.IsTerminal())
	assert.True(t, QuoteStatusApproved.IsTerminal())
}

func TestRentalTransitions(t *testing.T) {
	assert.True(t, RentalStatusPending.CanTransitionTo(RentalStatusActive))
	assert.True(t, RentalStatusPending.CanTransitionTo(RentalStatusCancelled))
	assert.False(t, RentalStatusPending.CanTransitionTo(RentalStatusCompleted))

	assert.True(t, RentalStatusActive.CanTransitionTo(RentalStatusCompleted))
	assert.False(t, RentalStatusActive.CanTransitionTo(RentalStatusCancelled))

	assert.True(t, RentalStatusCompleted.IsTerminal())
	assert.True(t, RentalStatusCancelled.IsTerminal())
}

func TestReturnTransitions(t *testing.T) {
	assert.True(t, ReturnStatusPending.CanTransitionTo(ReturnStatusApproved))
	assert.False(t, ReturnStatusPending.CanTransitionTo(ReturnStatusCompleted))

	assert.True(t, ReturnStatusApproved.CanTransitionTo(ReturnStatusCompleted))
	assert.False(t, ReturnStatusApproved.CanTransitionTo(ReturnStatusPending))

	assert.True(t, ReturnStatusCompleted.IsTerminal())
}

func TestQuoteTimeline(t *testing.T) {
	now := time.Now()

	quote := &Quote{Status: QuoteStatusPending}
	quote.CreatedAt = now

	steps := quote.Timeline()
	assert.Len(t, steps, 3)
	assert.Equal(t, "quote.requested", steps[0].Key)
	assert.True(t, steps[0].Done)
	assert.False(t, steps[1].Done)
	assert.False(t, steps[2].Done)

	quote.Status = QuoteStatusAnswered
	quote.AnsweredAt = &now
	steps = quote.Timeline()
	assert.True(t, steps[1].Done)
	assert.False(t, steps[2].Done)

	quote.Status = QuoteStatusApproved
	quote.ApprovedAt = &now
	steps = quote.Timeline()
	assert.True(t, steps[2].Done)
}

func TestQuoteTimelineRejectedShortCircuits(t *testing.T) {
	now := time.Now()

	quote := &Quote{Status: QuoteStatusRejected, RejectedAt: &now}
	quote.CreatedAt = now

	steps := quote.Timeline()
	assert.Len(t, steps, 2)
	assert.Equal(t, "quote.rejected", steps[1].Key)
	assert.True(t, steps[1].Done)
}

func TestRentalTimeline(t *testing.T) {
	now := time.Now()

	rental := &Rental{Status: RentalStatusPending}
	rental.CreatedAt = now

	steps := rental.Timeline()
	assert.Len(t, steps, 3)
	assert.False(t, steps[1].Done)

	rental.Status = RentalStatusActive
	rental.StartDate = &now
	steps = rental.Timeline()
	assert.True(t, steps[1].Done)
	assert.False(t, steps[2].Done)

	rental.Status = RentalStatusCompleted
	rental.EndDate = &now
	steps = rental.Timeline()
	assert.True(t, steps[2].Done)
}

func TestRentalTimelineCancelledShortCircuits(t *testing.T) {
	now := time.Now()

	rental := &Rental{Status: RentalStatusCancelled, CancelledAt: &now}
	rental.CreatedAt = now

	steps := rental.Timeline()
	assert.Len(t, steps, 2)
	assert.Equal(t, "rental.cancelled", steps[1].Key)
}

func TestReturnTimeline(t *testing.T) {
	now := time.Now()

	ret := &Return{Status: ReturnStatusPending, RequestedDate: now}
	steps := ret.Timeline()
	assert.Len(t, steps, 3)
	assert.True(t, steps[0].Done)
	assert.False(t, steps[1].Done)
	assert.False(t, steps[2].Done)

	ret.Status = ReturnStatusApproved
	steps = ret.Timeline()
	assert.True(t, steps[1].Done)

	ret.Status = ReturnStatusCompleted
	ret.CompletedDate = &now
	steps = ret.Timeline()
	assert.True(t, steps[1].Done)
	assert.True(t, steps[2].Done)
}
