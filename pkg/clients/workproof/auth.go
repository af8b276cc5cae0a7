package workproof

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
)

// LoginResponse is returned by the login endpoint
type LoginResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	User         model.User `json:"user"`
}

// Token returns the bearer pair from the response
func (r *LoginResponse) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
	}
}

// SignupRequest registers a new worker or organization account
type SignupRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8"`
	Name     string     `json:"name" validate:"required"`
	Phone    string     `json:"phone,omitempty" validate:"omitempty,e164|numeric"`
	Role     model.Role `json:"role" validate:"required,oneof=worker org"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.api.Post(ctx, apiclient.LoginPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var user model.User
	if err := c.api.Post(ctx, apiclient.SignupPath, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the current user
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.api.Get(ctx, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the refresh token server-side
func (c *Client) Logout(ctx context.Context) error {
	return c.api.Post(ctx, "/api/auth/logout", nil, nil)
}
