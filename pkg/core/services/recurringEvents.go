package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
)

// MaxOccurrences caps how many events one recurrence may post
const MaxOccurrences = 52

// EventCreator defines the org endpoint for posting events
type EventCreator interface {
	CreateEvent(ctx context.Context, orgID int64, input model.EventInput) (*model.Event, error)
}

// FailedEvent is an occurrence the backend refused
type FailedEvent struct {
	Input model.EventInput
	Err   error
}

// ExpandRecurrence turns one event into an event per occurrence of rule, anchored at
// base.StartsAt and keeping its duration. A rule without COUNT or UNTIL stops at limit.
func ExpandRecurrence(base model.EventInput, rule string, limit int) ([]model.EventInput, error) {
	if base.StartsAt.IsZero() {
		return nil, fmt.Errorf("event start time is required")
	}
	if !base.EndsAt.After(base.StartsAt) {
		return nil, fmt.Errorf("event must end after it starts")
	}
	if limit <= 0 || limit > MaxOccurrences {
		limit = MaxOccurrences
	}

	r, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %w", err)
	}
	r.DTStart(base.StartsAt)

	duration := base.EndsAt.Sub(base.StartsAt)
	next := r.Iterator()

	inputs := make([]model.EventInput, 0, limit)
	for len(inputs) < limit {
		occurrence, ok := next()
		if !ok {
			break
		}

		input := base
		input.StartsAt = occurrence
		input.EndsAt = occurrence.Add(duration)
		input.Positions = append([]model.Position(nil), base.Positions...)
		inputs = append(inputs, input)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("rrule produced no occurrences")
	}

	return inputs, nil
}

// CreateRecurringEvents posts one event per occurrence. Failures are collected and do not
// stop the remaining occurrences.
func CreateRecurringEvents(
	ctx context.Context,
	api EventCreator,
	logger *zap.Logger,
	orgID int64,
	base model.EventInput,
	rule string,
	limit int,
) ([]model.Event, []FailedEvent, error) {
	inputs, err := ExpandRecurrence(base, rule, limit)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Posting recurring events",
		zap.Int64("org_id", orgID),
		zap.String("rrule", rule),
		zap.Int("occurrences", len(inputs)))

	created := make([]model.Event, 0, len(inputs))
	var failed []FailedEvent

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return created, failed, err
		}

		event, err := api.CreateEvent(ctx, orgID, input)
		if err != nil {
			logger.Warn("Failed to post occurrence", zap.Time("starts_at", input.StartsAt), zap.Error(err))
			failed = append(failed, FailedEvent{Input: input, Err: err})
			continue
		}
		created = append(created, *event)
	}

	logger.Info("Recurring events posted", zap.Int("created", len(created)), zap.Int("failed", len(failed)))
	return created, failed, nil
}
