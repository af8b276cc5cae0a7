package workproof

import (
	"context"
	"fmt"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
)

// ProfileInput updates the editable parts of a worker profile
type ProfileInput struct {
	Nickname          string   `json:"nickname" validate:"required,max=30"`
	Bio               string   `json:"bio,omitempty" validate:"max=500"`
	PreferredRegions  []string `json:"preferred_regions,omitempty"`
	PreferredJobTypes []string `json:"preferred_job_types,omitempty"`
	WalletAddress     string   `json:"wallet_address,omitempty" validate:"omitempty,eth_addr"`
}

func (c *Client) WorkerProfile(ctx context.Context) (*model.WorkerProfile, error) {
	var profile model.WorkerProfile
	if err := c.api.Get(ctx, "/api/worker/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateWorkerProfile(ctx context.Context, input ProfileInput) (*model.WorkerProfile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var profile model.WorkerProfile
	if err := c.api.Put(ctx, "/api/worker/profile", input, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Schedule(ctx context.Context) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	if err := c.api.Get(ctx, "/api/worker/schedule", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) MyApplications(ctx context.Context, q pager.Query) (*apiclient.Page[model.Application], error) {
	return apiclient.GetPage[model.Application](ctx, c.api, "/api/worker/applications", q.Values())
}

func (c *Client) Apply(ctx context.Context, input model.ApplicationInput) (*model.Application, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var app model.Application
	if err := c.api.Post(ctx, "/api/worker/applications", input, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) CancelApplication(ctx context.Context, applicationID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/api/worker/applications/%d/cancel", applicationID), nil, nil)
}

// OpenEvents lists events a worker can browse and apply to
func (c *Client) OpenEvents(ctx context.Context, q pager.Query) (*apiclient.Page[model.Event], error) {
	return apiclient.GetPage[model.Event](ctx, c.api, "/api/worker/events", q.Values())
}

func (c *Client) Event(ctx context.Context, eventID int64) (*model.Event, error) {
	var event model.Event
	if err := c.api.Get(ctx, fmt.Sprintf("/api/worker/events/%d", eventID), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) MyPayroll(ctx context.Context, q pager.Query) (*apiclient.Page[model.PayrollRecord], error) {
	return apiclient.GetPage[model.PayrollRecord](ctx, c.api, "/api/worker/payroll", q.Values())
}

func (c *Client) Follow(ctx context.Context, orgID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/api/worker/follow/%d", orgID), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, orgID int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/api/worker/follow/%d", orgID), nil)
}

func (c *Client) Following(ctx context.Context, q pager.Query) (*apiclient.Page[model.Follow], error) {
	return apiclient.GetPage[model.Follow](ctx, c.api, "/api/worker/following", q.Values())
}

func (c *Client) Metrics(ctx context.Context) (*model.Metrics, error) {
	var metrics model.Metrics
	if err := c.api.Get(ctx, "/api/worker/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (c *Client) Badges(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	if err := c.api.Get(ctx, "/api/worker/badges", nil, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

func (c *Client) CheckIn(ctx context.Context, eventID int64) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := c.api.Post(ctx, fmt.Sprintf("/api/worker/attendance/%d/check-in", eventID), nil, &attendance); err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (c *Client) CheckOut(ctx context.Context, eventID int64) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := c.api.Post(ctx, fmt.Sprintf("/api/worker/attendance/%d/check-out", eventID), nil, &attendance); err != nil {
		return nil, err
	}
	return &attendance, nil
}
