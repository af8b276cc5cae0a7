package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/jaeyoung-onebird/workproof/pkg/storage"
)

// TokenStore keeps the bearer token pair under the access_token and refresh_token keys
type TokenStore struct {
	storage storage.Storage
}

func NewTokenStore(s storage.Storage) *TokenStore {
	return &TokenStore{storage: s}
}

// Tokens returns the stored pair, or nil when neither token is stored
func (t *TokenStore) Tokens(ctx context.Context) (*oauth2.Token, error) {
	access, hasAccess, err := t.storage.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	refresh, hasRefresh, err := t.storage.Get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	if !hasAccess && !hasRefresh {
		return nil, nil
	}

	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}, nil
}

// SetTokens stores both tokens; an empty refresh token removes the stored one
func (t *TokenStore) SetTokens(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("access token is required")
	}

	if err := t.storage.Set(ctx, storage.KeyAccessToken, token.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}

	if token.RefreshToken == "" {
		if err := t.storage.Remove(ctx, storage.KeyRefreshToken); err != nil {
			return fmt.Errorf("failed to remove refresh token: %w", err)
		}
		return nil
	}

	if err := t.storage.Set(ctx, storage.KeyRefreshToken, token.RefreshToken); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Clear removes both tokens
func (t *TokenStore) Clear(ctx context.Context) error {
	if err := t.storage.Remove(ctx, storage.KeyAccessToken, storage.KeyRefreshToken); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
