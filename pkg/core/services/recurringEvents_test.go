package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
)

func baseEvent() model.EventInput {
	seoul := time.FixedZone("KST", 9*60*60)
	return model.EventInput{
		Title:      "주말 행사 스태프",
		Location:   "서울 마포구",
		StartsAt:   time.Date(2024, 6, 1, 9, 0, 0, 0, seoul), // Saturday
		EndsAt:     time.Date(2024, 6, 1, 18, 0, 0, 0, seoul),
		HourlyWage: 12000,
		Positions:  []model.Position{{Name: "안내", Headcount: 3}},
	}
}

func TestExpandRecurrence_WeeklyCount(t *testing.T) {
	inputs, err := ExpandRecurrence(baseEvent(), "FREQ=WEEKLY;BYDAY=SA;COUNT=4", 0)
	require.NoError(t, err)
	require.Len(t, inputs, 4)

	for i, input := range inputs {
		assert.Equal(t, time.Saturday, input.StartsAt.Weekday())
		assert.Equal(t, 9*time.Hour, input.EndsAt.Sub(input.StartsAt))
		assert.Equal(t, 9, input.StartsAt.Hour())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, input.StartsAt.Sub(inputs[i-1].StartsAt))
		}
	}
	assert.Equal(t, "2024-06-22", inputs[3].StartsAt.Format("2006-01-02"))
}

func TestExpandRecurrence_AcceptsRRulePrefix(t *testing.T) {
	inputs, err := ExpandRecurrence(baseEvent(), "RRULE:FREQ=DAILY;COUNT=2", 0)
	require.NoError(t, err)
	assert.Len(t, inputs, 2)
}

func TestExpandRecurrence_UnboundedRuleStopsAtLimit(t *testing.T) {
	inputs, err := ExpandRecurrence(baseEvent(), "FREQ=DAILY", 5)
	require.NoError(t, err)
	assert.Len(t, inputs, 5)

	inputs, err = ExpandRecurrence(baseEvent(), "FREQ=DAILY", 1000)
	require.NoError(t, err)
	assert.Len(t, inputs, MaxOccurrences)
}

func TestExpandRecurrence_PositionsAreCopied(t *testing.T) {
	inputs, err := ExpandRecurrence(baseEvent(), "FREQ=WEEKLY;COUNT=2", 0)
	require.NoError(t, err)

	inputs[0].Positions[0].Headcount = 99
	assert.Equal(t, 3, inputs[1].Positions[0].Headcount)
}

func TestExpandRecurrence_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.EventInput)
		rule   string
	}{
		{name: "invalid rule", rule: "FREQ=SOMETIMES"},
		{name: "missing start", rule: "FREQ=DAILY;COUNT=1", mutate: func(e *model.EventInput) { e.StartsAt = time.Time{} }},
		{name: "ends before start", rule: "FREQ=DAILY;COUNT=1", mutate: func(e *model.EventInput) { e.EndsAt = e.StartsAt.Add(-time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := baseEvent()
			if tt.mutate != nil {
				tt.mutate(&base)
			}
			_, err := ExpandRecurrence(base, tt.rule, 0)
			assert.Error(t, err)
		})
	}
}

func TestCreateRecurringEvents_CollectsFailures(t *testing.T) {
	api := &fakeAPI{createFailAt: map[int]bool{1: true}}

	created, failed, err := CreateRecurringEvents(context.Background(), api, zap.NewNop(), 9, baseEvent(), "FREQ=WEEKLY;COUNT=3", 0)
	require.NoError(t, err)

	assert.Len(t, api.created, 3)
	assert.Len(t, created, 2)
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0].Err, errBackend)
	assert.Equal(t, "2024-06-08", failed[0].Input.StartsAt.Format("2006-01-02"))
}
