package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
)

// ApplicationDecider defines the org endpoints for deciding applications
type ApplicationDecider interface {
	AcceptApplication(ctx context.Context, orgID, applicationID int64) (*model.Application, error)
	RejectApplication(ctx context.Context, orgID, applicationID int64) (*model.Application, error)
}

// EventDeleter defines the org endpoint for deleting an event
type EventDeleter interface {
	DeleteEvent(ctx context.Context, orgID, eventID int64) error
}

// RemoveOnSuccess runs call and, only if it succeeds, drops the matching rows from the
// loaded screen. The list is only refetched when the removal emptied a page that other
// rows still back; a failed refetch is kept on the screen. screen may be nil.
func RemoveOnSuccess[T any](ctx context.Context, screen *pager.Screen[T], match func(T) bool, call func(ctx context.Context) error) error {
	if err := call(ctx); err != nil {
		return err
	}
	if screen == nil {
		return nil
	}

	screen.Remove(match)
	if screen.State() == pager.StateEmpty && screen.Pager().Total > 0 {
		_ = screen.Load(ctx)
	}
	return nil
}

// DecideApplication accepts or rejects an application and removes it from the pending list
func DecideApplication(
	ctx context.Context,
	api ApplicationDecider,
	screen *pager.Screen[model.Application],
	logger *zap.Logger,
	orgID, applicationID int64,
	accept bool,
) (*model.Application, error) {
	logger.Debug("Deciding application",
		zap.Int64("org_id", orgID),
		zap.Int64("application_id", applicationID),
		zap.Bool("accept", accept))

	var decided *model.Application
	err := RemoveOnSuccess(ctx, screen,
		func(a model.Application) bool { return a.ID == applicationID },
		func(ctx context.Context) error {
			var err error
			if accept {
				decided, err = api.AcceptApplication(ctx, orgID, applicationID)
			} else {
				decided, err = api.RejectApplication(ctx, orgID, applicationID)
			}
			return err
		})
	if err != nil {
		return nil, err
	}

	logger.Info("Application decided", zap.Int64("application_id", applicationID), zap.String("status", string(decided.Status)))
	return decided, nil
}

// DeleteEvent deletes an event and removes it from the loaded list
func DeleteEvent(ctx context.Context, api EventDeleter, screen *pager.Screen[model.Event], logger *zap.Logger, orgID, eventID int64) error {
	logger.Debug("Deleting event", zap.Int64("org_id", orgID), zap.Int64("event_id", eventID))

	err := RemoveOnSuccess(ctx, screen,
		func(e model.Event) bool { return e.ID == eventID },
		func(ctx context.Context) error { return api.DeleteEvent(ctx, orgID, eventID) })
	if err != nil {
		return err
	}

	logger.Info("Event deleted", zap.Int64("event_id", eventID))
	return nil
}
