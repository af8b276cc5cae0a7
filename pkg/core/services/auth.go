package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/auth"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
)

// AuthAPI defines the auth endpoints used by the session services
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*workproof.LoginResponse, error)
	Signup(ctx context.Context, req workproof.SignupRequest) (*model.User, error)
	Me(ctx context.Context) (*model.User, error)
	Logout(ctx context.Context) error
}

// Identity describes the logged-in session for display
type Identity struct {
	User      *model.User
	Roles     []string
	ExpiresAt *time.Time
}

// Login exchanges credentials for a token pair and stores the session
func Login(ctx context.Context, api AuthAPI, store *auth.Store, logger *zap.Logger, email, password string) (*model.User, error) {
	logger.Debug("Logging in", zap.String("email", email))

	store.SetLoading(true)
	defer store.SetLoading(false)

	resp, err := api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := resp.User
	if err := store.SetAuth(ctx, &user, resp.Token()); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	logger.Info("Logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, nil
}

// Signup registers an account. The user logs in separately afterwards.
func Signup(ctx context.Context, api AuthAPI, logger *zap.Logger, req workproof.SignupRequest) (*model.User, error) {
	logger.Debug("Signing up", zap.String("email", req.Email), zap.String("role", string(req.Role)))

	user, err := api.Signup(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("Account created", zap.Int64("user_id", user.ID))
	return user, nil
}

// Logout revokes the session server-side and always clears it locally
func Logout(ctx context.Context, api AuthAPI, store *auth.Store, logger *zap.Logger) error {
	if _, err := store.RequireAuth(); err == nil {
		if err := api.Logout(ctx); err != nil {
			logger.Warn("Server logout failed, clearing local session anyway", zap.Error(err))
		}
	}

	if err := store.Logout(ctx); err != nil {
		return err
	}

	logger.Info("Logged out")
	return nil
}

// WhoAmI reloads the current user from the backend and reports the session
func WhoAmI(ctx context.Context, api AuthAPI, store *auth.Store, logger *zap.Logger) (*Identity, error) {
	if _, err := store.RequireAuth(); err != nil {
		return nil, err
	}

	user, err := api.Me(ctx)
	if err != nil {
		return nil, err
	}

	if err := store.SetUser(ctx, user); err != nil {
		return nil, err
	}

	state := store.State()
	identity := &Identity{User: state.User, Roles: state.Roles}

	pair, err := store.Tokens().Tokens(ctx)
	if err != nil {
		return nil, err
	}
	if pair != nil {
		if claims, err := auth.DecodeClaims(pair.AccessToken); err == nil {
			identity.ExpiresAt = claims.ExpiresAt
		} else {
			logger.Debug("Access token is not a readable JWT", zap.Error(err))
		}
	}

	return identity, nil
}
