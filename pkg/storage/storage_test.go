package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStorageFromClient(client, "test"), mr
}

func backends(t *testing.T) map[string]Storage {
	fileStorage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	redisStorage, _ := newTestRedisStorage(t)

	return map[string]Storage{
		"file":  fileStorage,
		"redis": redisStorage,
	}
}

func TestStorage_SetGetRemove(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, KeyAccessToken, "access-1"))
			require.NoError(t, s.Set(ctx, KeyRefreshToken, "refresh-1"))

			value, ok, err := s.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "access-1", value)

			require.NoError(t, s.Remove(ctx, KeyAccessToken, KeyRefreshToken))

			_, ok, err = s.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.False(t, ok)
			_, ok, err = s.Get(ctx, KeyRefreshToken)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStorage_RemoveMissingKeyIsNoop(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Remove(context.Background(), "never-set"))
		})
	}
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyAuthSnapshot, `{"isAuthenticated":true}`))

	second, err := NewFileStorage(dir)
	require.NoError(t, err)
	value, ok, err := second.Get(ctx, KeyAuthSnapshot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"isAuthenticated":true}`, value)
}

func TestFileStorage_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), KeyAccessToken, "secret"))

	assert.Equal(t, filepath.Join(dir, storageFileName), s.Path())
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storageFilePerms), info.Mode().Perm())
}

func TestFileStorage_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, storageFileName), []byte("{not json"), 0600))

	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	_, _, err = s.Get(context.Background(), KeyAccessToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse storage file")
}

func TestRedisStorage_PrefixesKeys(t *testing.T) {
	s, mr := newTestRedisStorage(t)
	require.NoError(t, s.Set(context.Background(), KeyAccessToken, "abc"))

	value, err := mr.Get("workproof:test:access_token")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)
}

func TestRedisStorage_EmptyEnvUsesDefaultNamespace(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewRedisStorageFromClient(client, "")
	require.NoError(t, s.Set(context.Background(), KeyAccessToken, "abc"))

	value, err := mr.Get("workproof:default:access_token")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)
}

func TestDefaultDir_EmptyEnvUsesDefaultNamespace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := DefaultDir("")
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, filepath.Base(dir))

	dir, err = DefaultDir("staging")
	require.NoError(t, err)
	assert.Equal(t, "staging", filepath.Base(dir))
}
