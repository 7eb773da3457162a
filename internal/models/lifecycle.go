// internal/models/lifecycle.go
package models

import "time"

// Single source of truth for the quote/rental/return transition graphs and
// for the timestamp-derived progress timeline shown by the dashboards.

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusPending:  {QuoteStatusAnswered, QuoteStatusRejected},
	QuoteStatusAnswered: {QuoteStatusApproved},
	QuoteStatusRejected: {},
	QuoteStatusApproved: {},
}

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:   {RentalStatusActive, RentalStatusCancelled},
	RentalStatusActive:    {RentalStatusCompleted},
	RentalStatusCompleted: {},
	RentalStatusCancelled: {},
}

var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending:   {ReturnStatusApproved},
	ReturnStatusApproved:  {ReturnStatusCompleted},
	ReturnStatusCompleted: {},
}

func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s QuoteStatus) IsTerminal() bool {
	return len(quoteTransitions[s]) == 0
}

func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RentalStatus) IsTerminal() bool {
	return len(rentalTransitions[s]) == 0
}

func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	for _, allowed := range returnTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReturnStatus) IsTerminal() bool {
	return len(returnTransitions[s]) == 0
}

// TimelineStep is one entry of an entity's progress timeline. OccurredAt is
// nil for steps that have not happened yet.
type TimelineStep struct {
	Key        string     `json:"key"`
	Done       bool       `json:"done"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

func (q *Quote) Timeline() []TimelineStep {
	created := q.CreatedAt
	steps := []TimelineStep{
		{Key: "quote.requested", Done: true, OccurredAt: &created},
	}

	if q.Status == QuoteStatusRejected {
		steps = append(steps, TimelineStep{Key: "quote.rejected", Done: true, OccurredAt: q.RejectedAt})
		return steps
	}

	steps = append(steps, TimelineStep{
		Key:        "quote.answered",
		Done:       q.AnsweredAt != nil,
		OccurredAt: q.AnsweredAt,
	})
	steps = append(steps, TimelineStep{
		Key:        "quote.approved",
		Done:       q.ApprovedAt != nil,
		OccurredAt: q.ApprovedAt,
	})
	return steps
}

func (r *Rental) Timeline() []TimelineStep {
	created := r.CreatedAt
	steps := []TimelineStep{
		{Key: "rental.requested", Done: true, OccurredAt: &created},
	}

	if r.Status == RentalStatusCancelled {
		steps = append(steps, TimelineStep{Key: "rental.cancelled", Done: true, OccurredAt: r.CancelledAt})
		return steps
	}

	steps = append(steps, TimelineStep{
		Key:        "rental.started",
		Done:       r.StartDate != nil,
		OccurredAt: r.StartDate,
	})
	steps = append(steps, TimelineStep{
		Key:        "rental.completed",
		Done:       r.EndDate != nil,
		OccurredAt: r.EndDate,
	})
	return steps
}

func (r *Return) Timeline() []TimelineStep {
	requested := r.RequestedDate
	return []TimelineStep{
		{Key: "return.requested", Done: true, OccurredAt: &requested},
		{Key: "return.approved", Done: r.Status == ReturnStatusApproved || r.Status == ReturnStatusCompleted},
		{Key: "return.completed", Done: r.CompletedDate != nil, OccurredAt: r.CompletedDate},
	}
}
