package workproof

import (
	"context"
	"fmt"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
)

func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.api.Get(ctx, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Organizations lists organizations; filter: verification_status
func (c *Client) Organizations(ctx context.Context, q pager.Query) (*apiclient.Page[model.Organization], error) {
	return apiclient.GetPage[model.Organization](ctx, c.api, "/api/admin/organizations", q.Values())
}

func (c *Client) VerifyOrganization(ctx context.Context, orgID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/api/admin/organizations/%d/verify", orgID), nil, nil)
}

func (c *Client) RejectOrganization(ctx context.Context, orgID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/api/admin/organizations/%d/reject", orgID), nil, nil)
}

// Users lists accounts; filter: role, plus free-text search
func (c *Client) Users(ctx context.Context, q pager.Query) (*apiclient.Page[model.User], error) {
	return apiclient.GetPage[model.User](ctx, c.api, "/api/admin/users", q.Values())
}

func (c *Client) BlockUser(ctx context.Context, userID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/api/admin/users/%d/block", userID), nil, nil)
}

func (c *Client) UnblockUser(ctx context.Context, userID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/api/admin/users/%d/unblock", userID), nil, nil)
}

func (c *Client) SetUserRole(ctx context.Context, userID int64, role model.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}
	return c.api.Put(ctx, fmt.Sprintf("/api/admin/users/%d/role", userID), map[string]model.Role{"role": role}, nil)
}

func (c *Client) Workers(ctx context.Context, q pager.Query) (*apiclient.Page[model.WorkerSummary], error) {
	return apiclient.GetPage[model.WorkerSummary](ctx, c.api, "/api/admin/workers", q.Values())
}

func (c *Client) WorkScore(ctx context.Context, workerID int64) (*model.WorkScore, error) {
	var score model.WorkScore
	if err := c.api.Get(ctx, fmt.Sprintf("/api/admin/workers/%d/workscore", workerID), nil, &score); err != nil {
		return nil, err
	}
	return &score, nil
}
