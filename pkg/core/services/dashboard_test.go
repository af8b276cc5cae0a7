package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
)

func TestLoadWorkerDashboard_MergesWidgets(t *testing.T) {
	api := &fakeAPI{
		profile:  &model.WorkerProfile{Nickname: "민수"},
		metrics:  &model.Metrics{Experience: 300, StreakDays: 8},
		schedule: []model.ScheduleItem{{EventID: 1}, {EventID: 2}},
		badges:   []model.Badge{{ID: 5, Name: "First shift"}},
	}

	dash, err := LoadWorkerDashboard(context.Background(), api, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "민수", dash.Profile.Nickname)
	assert.Equal(t, 3, dash.Progress.Level)
	assert.Len(t, dash.Schedule, 2)
	assert.Len(t, dash.Badges, 1)
}

func TestLoadWorkerDashboard_OneWidgetFails(t *testing.T) {
	api := &fakeAPI{
		profile:  &model.WorkerProfile{},
		metrics:  &model.Metrics{},
		badgeErr: errBackend,
	}

	_, err := LoadWorkerDashboard(context.Background(), api, zap.NewNop())
	assert.ErrorIs(t, err, errBackend)
	assert.ErrorContains(t, err, "failed to load badges")
}

func TestLoadAdminDashboard(t *testing.T) {
	api := &fakeAPI{stats: &model.AdminStats{TotalUsers: 10, PendingOrganizations: 2}}

	stats, err := LoadAdminDashboard(context.Background(), api, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PendingOrganizations)
}
