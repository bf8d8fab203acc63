package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jakechorley/staff-scheduler/internal/config"
)

const (
	AuthPort     = 3000
	authTimeout  = 5 * time.Minute
	callbackPath = "/oauth/callback"
	tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

// OAuth scopes for Google APIs
const (
	ScopeSheets    = "https://www.googleapis.com/auth/spreadsheets"
	ScopeGmailSend = "https://www.googleapis.com/auth/gmail.send"
)

// RequiredScopes covers schedule publishing and schedule notifications
var RequiredScopes = []string{ScopeSheets, ScopeGmailSend}

var (
	tokenCache   *oauth2.Token
	tokenCacheMu sync.Mutex
)

// GetOAuthConfig creates an OAuth2 config from the Google client secrets.
// Every scope is requested so one token serves the sheets and gmail clients.
func GetOAuthConfig(clientFile *config.GoogleClientFile) (*oauth2.Config, error) {
	raw, err := json.Marshal(clientFile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal google client secrets: %w", err)
	}

	googleConfig, err := google.ConfigFromJSON(raw, RequiredScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}

	googleConfig.RedirectURL = fmt.Sprintf("http://localhost:%d%s", AuthPort, callbackPath)
	return googleConfig, nil
}

// missingScopes returns the required scopes absent from a space separated grant
func missingScopes(granted string) []string {
	grantedScopes := strings.Fields(granted)
	var missing []string
	for _, required := range RequiredScopes {
		if !slices.Contains(grantedScopes, required) {
			missing = append(missing, required)
		}
	}
	return missing
}

// validateTokenScopes asks Google's tokeninfo endpoint which scopes the token carries
func validateTokenScopes(ctx context.Context, token *oauth2.Token) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenInfoURL+"?access_token="+token.AccessToken, nil)
	if err != nil {
		return fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tokeninfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if missing := missingScopes(info.Scope); len(missing) > 0 {
		return fmt.Errorf("token is missing required scopes: %v", missing)
	}
	return nil
}

// GetTokenWithFlow returns a token for env, reusing the in-memory or on-disk token when
// it is valid or refreshable and running the browser flow otherwise.
// Only one flow runs at a time.
func GetTokenWithFlow(ctx context.Context, oauthConfig *oauth2.Config, env string) (*oauth2.Token, error) {
	tokenCacheMu.Lock()
	defer tokenCacheMu.Unlock()

	if tokenCache != nil && tokenCache.Valid() {
		return tokenCache, nil
	}

	store, err := NewTokenStore()
	if err != nil {
		return nil, err
	}

	if token := reuseStoredToken(ctx, store, oauthConfig, env); token != nil {
		tokenCache = token
		return token, nil
	}

	fmt.Println("No valid token found - starting OAuth flow")
	token, err := authorize(ctx, oauthConfig)
	if err != nil {
		return nil, err
	}

	if err := store.Save(env, token); err != nil {
		fmt.Printf("Warning: failed to save token: %v\n", err)
	}

	tokenCache = token
	return token, nil
}

// reuseStoredToken returns the saved token, refreshed if needed, or nil when a new
// flow is required. Tokens lacking a scope are deleted.
func reuseStoredToken(ctx context.Context, store *TokenStore, oauthConfig *oauth2.Config, env string) *oauth2.Token {
	saved, err := store.Load(env)
	if err != nil {
		fmt.Printf("Warning: failed to load saved token: %v\n", err)
		return nil
	}
	if saved == nil {
		return nil
	}

	token := saved
	if !saved.Valid() {
		if saved.RefreshToken == "" {
			return nil
		}
		token, err = oauthConfig.TokenSource(ctx, saved).Token()
		if err != nil {
			fmt.Printf("Warning: failed to refresh token: %v\n", err)
			return nil
		}
	}

	if err := validateTokenScopes(ctx, token); err != nil {
		fmt.Printf("Saved token rejected: %v\n", err)
		_ = store.Delete(env)
		return nil
	}

	if token.AccessToken != saved.AccessToken {
		if err := store.Save(env, token); err != nil {
			fmt.Printf("Warning: failed to save refreshed token: %v\n", err)
		}
	}
	return token
}

// authorize prints the consent URL, waits for the redirect and exchanges the code
func authorize(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	authURL := oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline)
	fmt.Printf("\nVisit this URL to authorize the application:\n%s\n\n", authURL)

	code, err := listenForAuthCallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := validateTokenScopes(ctx, token); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	return token, nil
}

// callbackHandler forwards the authorization code, or an error, from the redirect
func callbackHandler(codes chan<- string, errs chan<- error) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errs <- errors.New("no authorization code received")
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Authorization Successful</title></head>
<body><h1>Authorization successful!</h1><p>You can close this window and return to the scheduler.</p></body></html>`)
		codes <- code
	})
	return mux
}

// listenForAuthCallback serves the redirect URL until a code arrives or the flow times out
func listenForAuthCallback(ctx context.Context) (string, error) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", AuthPort),
		Handler:           callbackHandler(codes, errs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("server error: %w", err)
		}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var code string
	var authErr error
	select {
	case code = <-codes:
	case authErr = <-errs:
	case <-timeoutCtx.Done():
		authErr = fmt.Errorf("authorization timeout after %v", authTimeout)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	return code, authErr
}

// ClearToken clears the token from memory cache
func ClearToken() {
	tokenCacheMu.Lock()
	defer tokenCacheMu.Unlock()
	tokenCache = nil
}
