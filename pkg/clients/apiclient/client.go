package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout = 15 * time.Second
	LoginPath      = "/api/auth/login"
	SignupPath     = "/api/auth/signup"
	RefreshPath    = "/api/auth/refresh"
)

// publicPaths are sent without a bearer token, and a 401 on them is returned as is
var publicPaths = map[string]bool{
	LoginPath:   true,
	SignupPath:  true,
	RefreshPath: true,
}

var errNoRefreshToken = errors.New("no refresh token stored")

// TokenStore persists the bearer token pair between requests and process runs
type TokenStore interface {
	// Tokens returns the stored pair, or nil when nothing is stored
	Tokens(ctx context.Context) (*oauth2.Token, error)
	SetTokens(ctx context.Context, token *oauth2.Token) error
	Clear(ctx context.Context) error
}

// Translator renders localized fallback messages
type Translator interface {
	T(key string, data map[string]any) string
}

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenStore
	Logger  *zap.Logger
	Metrics *Metrics
	// OnSessionExpired runs after the stored tokens are cleared because they could not be refreshed
	OnSessionExpired func(ctx context.Context)
	HTTPClient       *http.Client
	Translator       Translator
}

// Client sends JSON requests to the backend with bearer authentication.
// A 401 triggers one token refresh and one retry; concurrent 401s share the refresh.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	tokens           TokenStore
	logger           *zap.Logger
	metrics          *Metrics
	onSessionExpired func(ctx context.Context)
	translator       Translator

	refreshGroup singleflight.Group
}

// New creates a Client
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		httpClient:       httpClient,
		tokens:           opts.Tokens,
		logger:           logger,
		metrics:          opts.Metrics,
		onSessionExpired: opts.OnSessionExpired,
		translator:       opts.Translator,
	}
}

// response is a fully read HTTP response
type response struct {
	status int
	body   []byte
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends a request and decodes a 2xx JSON response into out (which may be nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	public := publicPaths[path]

	var accessToken string
	if !public {
		accessToken, err = c.currentAccessToken(ctx)
		if err != nil {
			return err
		}
	}

	resp, err := c.send(ctx, method, path, query, payload, accessToken)
	if err != nil {
		return err
	}

	// A failed login must not spend or clear the stored session
	if resp.status == http.StatusUnauthorized && !public {
		token, refreshErr := c.refreshTokens(ctx, accessToken)
		switch {
		case errors.Is(refreshErr, errNoRefreshToken):
			return c.newAPIError(method, path, resp)
		case refreshErr != nil:
			return &APIError{
				StatusCode: http.StatusUnauthorized,
				Method:     method,
				Path:       path,
				Detail:     parseDetail(resp.body),
				Body:       resp.body,
				Err:        fmt.Errorf("token refresh failed: %w", refreshErr),
				fallback:   c.translate("error.session_expired"),
			}
		}

		// The retried request is never refreshed again; a second 401 goes back to the caller
		resp, err = c.send(ctx, method, path, query, payload, token.AccessToken)
		if err != nil {
			return err
		}
	}

	if resp.status < 200 || resp.status >= 300 {
		return c.newAPIError(method, path, resp)
	}

	return decodeBody(resp.body, out)
}

// send performs one HTTP round trip
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, accessToken string) (*response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observeRequest(method, "error", elapsed.Seconds())
		c.logger.Debug("Request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.metrics.observeRequest(method, strconv.Itoa(httpResp.StatusCode), elapsed.Seconds())
	c.logger.Debug("Request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestID))

	return &response{status: httpResp.StatusCode, body: data}, nil
}

func (c *Client) currentAccessToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}

	token, err := c.tokens.Tokens(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load tokens: %w", err)
	}
	if token == nil {
		return "", nil
	}
	return token.AccessToken, nil
}

// refreshTokens returns a fresh token pair after a 401 on a request sent with staleAccess.
// If another request already rotated the tokens, the stored pair is returned without a refresh call.
func (c *Client) refreshTokens(ctx context.Context, staleAccess string) (*oauth2.Token, error) {
	if c.tokens == nil {
		return nil, errNoRefreshToken
	}

	// Shared by every waiting caller, so detached from the initiator's cancellation
	refreshCtx := context.WithoutCancel(ctx)
	result, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		return c.doRefresh(refreshCtx, staleAccess)
	})
	if shared {
		c.logger.Debug("Joined in-flight token refresh")
	}
	if err != nil {
		return nil, err
	}

	return result.(*oauth2.Token), nil
}

// doRefresh exchanges the stored refresh token for a new pair.
// On any failure the stored tokens are cleared and the session-expired hook runs.
func (c *Client) doRefresh(ctx context.Context, staleAccess string) (*oauth2.Token, error) {
	current, err := c.tokens.Tokens(ctx)
	if err != nil {
		c.metrics.observeRefresh("failure")
		c.expireSession(ctx)
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}

	// Already rotated by an earlier refresh
	if current != nil && current.AccessToken != "" && current.AccessToken != staleAccess {
		return current, nil
	}

	if current == nil || current.RefreshToken == "" {
		c.metrics.observeRefresh("missing")
		c.expireSession(ctx)
		return nil, errNoRefreshToken
	}

	token, err := c.postRefresh(ctx, current.RefreshToken)
	if err != nil {
		c.metrics.observeRefresh("failure")
		c.logger.Info("Token refresh failed", zap.Error(err))
		c.expireSession(ctx)
		return nil, err
	}

	if err := c.tokens.SetTokens(ctx, token); err != nil {
		c.metrics.observeRefresh("failure")
		c.expireSession(ctx)
		return nil, fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	c.metrics.observeRefresh("success")
	c.logger.Info("Access token refreshed")

	return token, nil
}

// postRefresh calls the refresh endpoint directly, bypassing the 401 handling in Do
func (c *Client) postRefresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	payload, err := encodeBody(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, RefreshPath, nil, payload, "")
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, c.newAPIError(http.MethodPost, RefreshPath, resp)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}
	if err := decodeBody(resp.body, &body); err != nil {
		return nil, err
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("refresh response did not contain an access token")
	}

	token := &oauth2.Token{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		TokenType:    body.TokenType,
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}

	return token, nil
}

func (c *Client) expireSession(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Warn("Failed to clear stored tokens", zap.Error(err))
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired(ctx)
	}
}

func (c *Client) newAPIError(method, path string, resp *response) *APIError {
	return &APIError{
		StatusCode: resp.status,
		Method:     method,
		Path:       path,
		Detail:     parseDetail(resp.body),
		Body:       resp.body,
		fallback:   c.translate("error.generic"),
	}
}

func (c *Client) translate(key string) string {
	if c.translator == nil {
		return ""
	}
	return c.translator.T(key, nil)
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return payload, nil
}

func decodeBody(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
