package storage

import "context"

// Fixed keys used by the client
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyAuthSnapshot = "auth-storage"

	// DefaultNamespace holds the session when no environment is selected
	DefaultNamespace = "default"
)

// Namespace returns the session namespace for env, shared by every backend
func Namespace(env string) string {
	if env == "" {
		return DefaultNamespace
	}
	return env
}

// Storage is a persisted string key/value store that survives process restarts.
// FileStorage, RedisStorage and postgres.Storage implement this interface.
type Storage interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}
