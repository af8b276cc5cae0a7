package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// memTokens is an in-memory TokenStore
type memTokens struct {
	mu      sync.Mutex
	token   *oauth2.Token
	cleared int
}

func (m *memTokens) Tokens(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil, nil
	}
	copied := *m.token
	return &copied, nil
}

func (m *memTokens) SetTokens(ctx context.Context, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *token
	m.token = &copied
	return nil
}

func (m *memTokens) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	m.cleared++
	return nil
}

// testBackend serves a protected endpoint that only accepts the current access token
type testBackend struct {
	validAccess   atomic.Value // string
	refreshCalls  atomic.Int32
	refreshStatus int
	refreshDelay  time.Duration
	seenAuth      chan string
}

func newTestBackend(validAccess string) *testBackend {
	b := &testBackend{refreshStatus: http.StatusOK, seenAuth: make(chan string, 100)}
	b.validAccess.Store(validAccess)
	return b
}

func (b *testBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		time.Sleep(b.refreshDelay)

		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		if b.refreshStatus != http.StatusOK || body.RefreshToken != "refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"invalid refresh token"}`))
			return
		}

		b.validAccess.Store("access-2")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "access-2",
			"refresh_token": "refresh-2",
			"token_type":    "bearer",
		})
	})

	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		select {
		case b.seenAuth <- auth:
		default:
		}

		if auth != "Bearer "+b.validAccess.Load().(string) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"token expired"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "email": "worker@example.com"})
	})

	return mux
}

type me struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func newTestClient(t *testing.T, server *httptest.Server, tokens *memTokens, expired *atomic.Int32) (*Client, *Metrics) {
	t.Helper()

	metrics := NewMetrics(prometheus.NewRegistry())
	client := New(Options{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		Tokens:  tokens,
		Logger:  zap.NewNop(),
		Metrics: metrics,
		OnSessionExpired: func(ctx context.Context) {
			if expired != nil {
				expired.Add(1)
			}
		},
	})
	return client, metrics
}

func TestClient_AttachesBearerAndHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tokens := &memTokens{token: &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}}
	client, _ := newTestClient(t, server, tokens, nil)

	err := client.Post(context.Background(), "/api/worker/applications", map[string]any{"event_id": 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer access-1", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_NoTokenOmitsAuthorization(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, &memTokens{}, nil)
	require.NoError(t, client.Get(context.Background(), "/api/worker/events", nil, nil))

	assert.Empty(t, got.Get("Authorization"))
	assert.Empty(t, got.Get("Content-Type"))
}

func TestClient_RefreshesOnceAndRetries(t *testing.T) {
	backend := newTestBackend("access-2")
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	tokens := &memTokens{token: &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}}
	var expired atomic.Int32
	client, metrics := newTestClient(t, server, tokens, &expired)

	var out me
	require.NoError(t, client.Get(context.Background(), "/api/auth/me", nil, &out))

	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Equal(t, int32(0), expired.Load())

	assert.Equal(t, "Bearer access-1", <-backend.seenAuth)
	assert.Equal(t, "Bearer access-2", <-backend.seenAuth)

	stored, _ := tokens.Tokens(context.Background())
	assert.Equal(t, "access-2", stored.AccessToken)
	assert.Equal(t, "refresh-2", stored.RefreshToken)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.TokenRefreshes.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Requests.WithLabelValues("GET", "401")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Requests.WithLabelValues("GET", "200")))
}

func TestClient_NoRefreshTokenMakesNoRefreshCall(t *testing.T) {
	backend := newTestBackend("access-2")
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	tokens := &memTokens{token: &oauth2.Token{AccessToken: "access-1"}}
	var expired atomic.Int32
	client, _ := newTestClient(t, server, tokens, &expired)

	err := client.Get(context.Background(), "/api/auth/me", nil, nil)
	require.Error(t, err)

	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(0), backend.refreshCalls.Load())
	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, 1, tokens.cleared)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "token expired", apiErr.Detail)
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	backend := newTestBackend("access-2")
	backend.refreshStatus = http.StatusUnauthorized
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	tokens := &memTokens{token: &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}}
	var expired atomic.Int32
	client, metrics := newTestClient(t, server, tokens, &expired)

	err := client.Get(context.Background(), "/api/auth/me", nil, nil)
	require.Error(t, err)

	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Equal(t, int32(1), expired.Load())

	stored, _ := tokens.Tokens(context.Background())
	assert.Nil(t, stored)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "/api/auth/me", apiErr.Path)
	assert.Equal(t, "token expired", apiErr.Detail)
	assert.Contains(t, err.Error(), "token refresh failed")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.TokenRefreshes.WithLabelValues("failure")))
}

func TestClient_FailedLoginKeepsStoredSession(t *testing.T) {
	var refreshCalls atomic.Int32
	var loginAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RefreshPath:
			refreshCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		case LoginPath:
			loginAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"invalid credentials"}`))
		}
	}))
	defer server.Close()

	tokens := &memTokens{token: &oauth2.Token{AccessToken: "user-a-access", RefreshToken: "user-a-refresh"}}
	var expired atomic.Int32
	client, _ := newTestClient(t, server, tokens, &expired)

	body := map[string]string{"email": "b@example.com", "password": "wrong-password"}
	err := client.Post(context.Background(), LoginPath, body, nil)
	require.Error(t, err)

	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, loginAuth)
	assert.Equal(t, int32(0), refreshCalls.Load())
	assert.Equal(t, int32(0), expired.Load())
	assert.Equal(t, 0, tokens.cleared)

	stored, _ := tokens.Tokens(context.Background())
	require.NotNil(t, stored)
	assert.Equal(t, "user-a-refresh", stored.RefreshToken)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "invalid credentials", apiErr.UserMessage())
}

func TestClient_SecondUnauthorizedIsReturned(t *testing.T) {
	var refreshCalls, meCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			refreshCalls.Add(1)
			w.Write([]byte(`{"access_token":"access-2","refresh_token":"refresh-2","token_type":"bearer"}`))
			return
		}
		meCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := &memTokens{token: &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}}
	var expired atomic.Int32
	client, _ := newTestClient(t, server, tokens, &expired)

	err := client.Get(context.Background(), "/api/auth/me", nil, nil)
	require.Error(t, err)

	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, int32(2), meCalls.Load())
	assert.Equal(t, int32(0), expired.Load())
}

func TestClient_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	backend := newTestBackend("access-2")
	backend.refreshDelay = 50 * time.Millisecond
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	tokens := &memTokens{token: &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}}
	client, _ := newTestClient(t, server, tokens, nil)

	const workers = 10
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			var out me
			errs <- client.Get(context.Background(), "/api/auth/me", nil, &out)
		}()
	}

	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
}

func TestClient_ErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"이미 지원한 공고입니다."}`, "이미 지원한 공고입니다."},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"invalid email"}]}`, "field required; invalid email"},
		{"message field", http.StatusConflict, `{"message":"conflict"}`, "conflict"},
		{"no body", http.StatusInternalServerError, ``, defaultFallbackMessage},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, defaultFallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, _ := newTestClient(t, server, &memTokens{}, nil)
			err := client.Get(context.Background(), "/api/worker/events", nil, nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.expected, apiErr.UserMessage())
		})
	}
}

type fixedTranslator map[string]string

func (f fixedTranslator) T(key string, data map[string]any) string {
	return f[key]
}

func TestClient_FallbackUsesTranslator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(Options{
		BaseURL:    server.URL,
		Tokens:     &memTokens{},
		Translator: fixedTranslator{"error.generic": "The request failed."},
	})

	err := client.Get(context.Background(), "/api/admin/stats", nil, nil)
	assert.Equal(t, "The request failed.", UserMessage(err, "unused"))
	assert.Equal(t, "fallback", UserMessage(errors.New("dial tcp"), "fallback"))
}

func TestGetPage_DecodesEnvelope(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items":[{"id":1,"email":"a@example.com"},{"id":2,"email":"b@example.com"}],"total":45,"page":2,"size":20,"pages":3}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, &memTokens{}, nil)
	page, err := GetPage[me](context.Background(), client, "/api/admin/users", url.Values{"page": {"2"}, "size": {"20"}})
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.Pages)
}

func TestGetPage_NullItemsBecomeEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":null,"total":0,"page":1,"size":20,"pages":0}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, &memTokens{}, nil)
	page, err := GetPage[me](context.Background(), client, "/api/worker/events", nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, metrics := newTestClient(t, server, &memTokens{}, nil)
	err := client.Get(context.Background(), "/api/worker/events", nil, nil)
	require.Error(t, err)

	assert.Equal(t, 0, StatusCode(err))
	assert.Contains(t, err.Error(), "failed to send GET /api/worker/events")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Requests.WithLabelValues("GET", "error")))
}
