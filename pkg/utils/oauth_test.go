package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jaeyoung-onebird/workproof/internal/config"
)

func testOAuthClient() *config.OAuthClientConfig {
	return &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client-id.apps.googleusercontent.com",
			ProjectID:               "workproof",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}
}

func TestGetOAuthConfig(t *testing.T) {
	cfg, err := GetOAuthConfig(testOAuthClient())
	require.NoError(t, err)

	assert.Equal(t, "client-id.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, "http://localhost:3000/oauth/callback", cfg.RedirectURL)
	assert.ElementsMatch(t, []string{ScopeSheets, ScopeGmailSend}, cfg.Scopes)
}

func TestMissingScopes(t *testing.T) {
	tests := []struct {
		name    string
		granted string
		want    []string
	}{
		{name: "all granted", granted: ScopeGmailSend + " " + ScopeSheets, want: nil},
		{name: "gmail missing", granted: ScopeSheets, want: []string{ScopeGmailSend}},
		{name: "nothing granted", granted: "", want: []string{ScopeSheets, ScopeGmailSend}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingScopes(tt.granted))
		})
	}
}

func TestTokenFileRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	token, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)

	saved := &oauth2.Token{AccessToken: "ya29", RefreshToken: "1//r", Expiry: time.Now().Add(time.Hour).Round(time.Second)}
	require.NoError(t, SaveTokenToFile("test", saved))

	loaded, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "ya29", loaded.AccessToken)
	assert.Equal(t, "1//r", loaded.RefreshToken)
	assert.True(t, saved.Expiry.Equal(loaded.Expiry))

	require.NoError(t, DeleteTokenFile("test"))
	require.NoError(t, DeleteTokenFile("test"))

	loaded, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCallbackHandler(t *testing.T) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)
	handler := callbackHandler(codeChan, errChan)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, callbackPath+"?code=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", <-codeChan)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, callbackPath, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Error(t, <-errChan)
}
