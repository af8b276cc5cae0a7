package workproof

import (
	"context"
	"fmt"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
)

// InviteInput invites a worker to an event
type InviteInput struct {
	EventID  int64 `json:"event_id" validate:"required,min=1"`
	WorkerID int64 `json:"worker_id" validate:"required,min=1"`
}

func orgPath(orgID int64, format string, args ...any) string {
	return fmt.Sprintf("/api/org/%d", orgID) + fmt.Sprintf(format, args...)
}

func (c *Client) OrgEvents(ctx context.Context, orgID int64, q pager.Query) (*apiclient.Page[model.Event], error) {
	return apiclient.GetPage[model.Event](ctx, c.api, orgPath(orgID, "/events"), q.Values())
}

func (c *Client) CreateEvent(ctx context.Context, orgID int64, input model.EventInput) (*model.Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var event model.Event
	if err := c.api.Post(ctx, orgPath(orgID, "/events"), input, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, orgID, eventID int64, input model.EventInput) (*model.Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var event model.Event
	if err := c.api.Put(ctx, orgPath(orgID, "/events/%d", eventID), input, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, orgID, eventID int64) error {
	return c.api.Delete(ctx, orgPath(orgID, "/events/%d", eventID), nil)
}

func (c *Client) Followers(ctx context.Context, orgID int64, q pager.Query) (*apiclient.Page[model.Follow], error) {
	return apiclient.GetPage[model.Follow](ctx, c.api, orgPath(orgID, "/followers"), q.Values())
}

func (c *Client) Invites(ctx context.Context, orgID int64, q pager.Query) (*apiclient.Page[model.Invite], error) {
	return apiclient.GetPage[model.Invite](ctx, c.api, orgPath(orgID, "/invites"), q.Values())
}

func (c *Client) CreateInvite(ctx context.Context, orgID int64, input InviteInput) (*model.Invite, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var invite model.Invite
	if err := c.api.Post(ctx, orgPath(orgID, "/invites"), input, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// OrgApplications lists applications to an org's events; filters: status, event_id
func (c *Client) OrgApplications(ctx context.Context, orgID int64, q pager.Query) (*apiclient.Page[model.Application], error) {
	return apiclient.GetPage[model.Application](ctx, c.api, orgPath(orgID, "/applications"), q.Values())
}

func (c *Client) AcceptApplication(ctx context.Context, orgID, applicationID int64) (*model.Application, error) {
	return c.decideApplication(ctx, orgID, applicationID, "accept")
}

func (c *Client) RejectApplication(ctx context.Context, orgID, applicationID int64) (*model.Application, error) {
	return c.decideApplication(ctx, orgID, applicationID, "reject")
}

func (c *Client) decideApplication(ctx context.Context, orgID, applicationID int64, decision string) (*model.Application, error) {
	var app model.Application
	if err := c.api.Post(ctx, orgPath(orgID, "/applications/%d/%s", applicationID, decision), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) EventAttendance(ctx context.Context, orgID, eventID int64) ([]model.Attendance, error) {
	var records []model.Attendance
	if err := c.api.Get(ctx, orgPath(orgID, "/events/%d/attendance", eventID), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) OrgPayroll(ctx context.Context, orgID int64, q pager.Query) (*apiclient.Page[model.PayrollRecord], error) {
	return apiclient.GetPage[model.PayrollRecord](ctx, c.api, orgPath(orgID, "/payroll"), q.Values())
}
