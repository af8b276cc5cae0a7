package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jaeyoung-onebird/workproof/pkg/core/gamification"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
)

// WorkerDashboardAPI defines the worker endpoints behind the dashboard widgets
type WorkerDashboardAPI interface {
	WorkerProfile(ctx context.Context) (*model.WorkerProfile, error)
	Metrics(ctx context.Context) (*model.Metrics, error)
	Schedule(ctx context.Context) ([]model.ScheduleItem, error)
	Badges(ctx context.Context) ([]model.Badge, error)
}

// WorkerDashboard is the merged result of the dashboard widgets
type WorkerDashboard struct {
	Profile  *model.WorkerProfile
	Metrics  *model.Metrics
	Progress gamification.Progress
	Schedule []model.ScheduleItem
	Badges   []model.Badge
}

// LoadWorkerDashboard fetches every widget concurrently. The first failure cancels the rest.
func LoadWorkerDashboard(ctx context.Context, api WorkerDashboardAPI, logger *zap.Logger) (*WorkerDashboard, error) {
	logger.Debug("Loading worker dashboard")

	var dash WorkerDashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := api.WorkerProfile(gctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		dash.Profile = profile
		return nil
	})
	g.Go(func() error {
		metrics, err := api.Metrics(gctx)
		if err != nil {
			return fmt.Errorf("failed to load metrics: %w", err)
		}
		dash.Metrics = metrics
		return nil
	})
	g.Go(func() error {
		schedule, err := api.Schedule(gctx)
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		dash.Schedule = schedule
		return nil
	})
	g.Go(func() error {
		badges, err := api.Badges(gctx)
		if err != nil {
			return fmt.Errorf("failed to load badges: %w", err)
		}
		dash.Badges = badges
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	dash.Progress = gamification.ProgressFor(dash.Metrics.Experience)

	logger.Debug("Worker dashboard loaded",
		zap.Int("level", dash.Progress.Level),
		zap.Int("schedule_items", len(dash.Schedule)),
		zap.Int("badges", len(dash.Badges)))

	return &dash, nil
}

// AdminDashboardAPI defines the admin endpoints behind the dashboard
type AdminDashboardAPI interface {
	AdminStats(ctx context.Context) (*model.AdminStats, error)
}

// LoadAdminDashboard fetches the platform counters
func LoadAdminDashboard(ctx context.Context, api AdminDashboardAPI, logger *zap.Logger) (*model.AdminStats, error) {
	logger.Debug("Loading admin dashboard")

	stats, err := api.AdminStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}
	return stats, nil
}
