package utils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/staff-scheduler/internal/config"
)

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, missingScopes(ScopeSheets+" "+ScopeGmailSend+" openid"))
	assert.Equal(t, []string{ScopeGmailSend}, missingScopes(ScopeSheets))
	assert.Equal(t, RequiredScopes, missingScopes(""))
}

func TestGetOAuthConfig(t *testing.T) {
	cfg := &config.GoogleClientFile{Web: &config.GoogleApp{
		ClientID:     "client-id",
		AuthURI:      "https://accounts.google.com/o/oauth2/auth",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientSecret: "secret",
	}}

	oauthConfig, err := GetOAuthConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "client-id", oauthConfig.ClientID)
	assert.Equal(t, "http://localhost:3000/oauth/callback", oauthConfig.RedirectURL)
	assert.ElementsMatch(t, RequiredScopes, oauthConfig.Scopes)
}

func TestTokenStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tokens")
	store := NewTokenStoreAt(dir)

	missing, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, missing)

	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Save("test", token))

	info, err := os.Stat(filepath.Join(dir, "token-test.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	loaded, err := store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	other, err := store.Load("prod")
	require.NoError(t, err)
	assert.Nil(t, other, "tokens are per environment")

	require.NoError(t, store.Delete("test"))
	require.NoError(t, store.Delete("test"), "deleting twice is fine")
}

func TestTokenStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token-test.json"), []byte("{not json"), 0600))

	_, err := NewTokenStoreAt(dir).Load("test")
	assert.Error(t, err)
}

func TestCallbackHandler(t *testing.T) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)
	handler := callbackHandler(codes, errs)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, callbackPath+"?code=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", <-codes)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, callbackPath, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Error(t, <-errs)
}
