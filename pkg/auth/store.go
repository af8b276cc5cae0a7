package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/storage"
)

// ErrNotAuthenticated is returned by operations that need a logged-in user
var ErrNotAuthenticated = errors.New("not authenticated")

// State is the client's view of the current session
type State struct {
	User            *model.User `json:"user"`
	Roles           []string    `json:"roles"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	IsLoading       bool        `json:"-"`
}

// snapshot is the persisted shape under the auth-storage key
type snapshot struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

const snapshotVersion = 0

// Store owns the session state and persists it next to the tokens
type Store struct {
	storage storage.Storage
	tokens  *TokenStore
	logger  *zap.Logger

	mu    sync.RWMutex
	state State
}

// NewStore creates a Store with an empty, unauthenticated state. Call Rehydrate to load a saved session.
func NewStore(s storage.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		storage: s,
		tokens:  NewTokenStore(s),
		logger:  logger,
	}
}

// Tokens returns the token store backing this session
func (s *Store) Tokens() *TokenStore {
	return s.tokens
}

// SetAuth stores both tokens and records the user as logged in
func (s *Store) SetAuth(ctx context.Context, user *model.User, pair *oauth2.Token) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}

	if err := s.tokens.SetTokens(ctx, pair); err != nil {
		return err
	}

	next := State{
		User:            user,
		Roles:           deriveRoles(user, pair.AccessToken),
		IsAuthenticated: true,
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("Session stored", zap.Int64("user_id", user.ID), zap.Strings("roles", next.Roles))
	return nil
}

// SetUser replaces the user in an authenticated session, e.g. after a profile reload
func (s *Store) SetUser(ctx context.Context, user *model.User) error {
	s.mu.RLock()
	next := s.state
	s.mu.RUnlock()

	if !next.IsAuthenticated {
		return ErrNotAuthenticated
	}

	accessToken := ""
	if pair, err := s.tokens.Tokens(ctx); err == nil && pair != nil {
		accessToken = pair.AccessToken
	}

	next.User = user
	next.Roles = deriveRoles(user, accessToken)
	next.IsLoading = false

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return nil
}

// Logout clears both tokens and the persisted snapshot, then resets the state
func (s *Store) Logout(ctx context.Context) error {
	if err := s.storage.Remove(ctx, storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyAuthSnapshot); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	return nil
}

// HandleSessionExpired is the API client's hook for an unrecoverable 401
func (s *Store) HandleSessionExpired(ctx context.Context) {
	s.logger.Info("Session expired, logging out")
	if err := s.Logout(ctx); err != nil {
		s.logger.Warn("Failed to clear expired session", zap.Error(err))
	}
}

// Rehydrate loads the persisted snapshot. A missing snapshot leaves the state empty;
// an unreadable one is discarded.
func (s *Store) Rehydrate(ctx context.Context) error {
	raw, ok, err := s.storage.Get(ctx, storage.KeyAuthSnapshot)
	if err != nil {
		return fmt.Errorf("failed to read auth snapshot: %w", err)
	}
	if !ok {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logger.Warn("Discarding unreadable auth snapshot", zap.Error(err))
		if err := s.storage.Remove(ctx, storage.KeyAuthSnapshot); err != nil {
			return fmt.Errorf("failed to discard auth snapshot: %w", err)
		}
		return nil
	}

	snap.State.IsLoading = false

	s.mu.Lock()
	s.state = snap.State
	s.mu.Unlock()
	return nil
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = loading
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := s.state
	copied.Roles = slices.Clone(s.state.Roles)
	if s.state.User != nil {
		user := *s.state.User
		copied.User = &user
	}
	return copied
}

// HasRole reports whether the session holds role
func (s *Store) HasRole(role model.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated && slices.Contains(s.state.Roles, string(role))
}

// RequireAuth returns ErrNotAuthenticated unless a user is logged in
func (s *Store) RequireAuth() (*model.User, error) {
	state := s.State()
	if !state.IsAuthenticated || state.User == nil {
		return nil, ErrNotAuthenticated
	}
	return state.User, nil
}

func (s *Store) persist(ctx context.Context, state State) error {
	data, err := json.Marshal(snapshot{State: state, Version: snapshotVersion})
	if err != nil {
		return fmt.Errorf("failed to marshal auth snapshot: %w", err)
	}

	if err := s.storage.Set(ctx, storage.KeyAuthSnapshot, string(data)); err != nil {
		return fmt.Errorf("failed to store auth snapshot: %w", err)
	}
	return nil
}

// deriveRoles merges the user's primary role, its listed roles and any roles claim in the access token
func deriveRoles(user *model.User, accessToken string) []string {
	var roles []string
	add := func(role string) {
		if role != "" && !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}

	add(string(user.Role))
	for _, role := range user.Roles {
		add(role)
	}

	if accessToken != "" {
		if claims, err := DecodeClaims(accessToken); err == nil {
			for _, role := range claims.Roles {
				add(role)
			}
		}
	}

	slices.Sort(roles)
	return roles
}
