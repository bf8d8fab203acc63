package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const desktopClientJSON = `{
  "installed": {
    "client_id": "client.apps.googleusercontent.com",
    "project_id": "staff-scheduler",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`

const webClientJSON = `{
  "web": {
    "client_id": "web.apps.googleusercontent.com",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "secret"
  }
}`

func writeClientFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadGoogleClientFromPath_Desktop(t *testing.T) {
	path := writeClientFile(t, t.TempDir(), "client.json", desktopClientJSON)

	file, err := LoadGoogleClientFromPath(path)
	require.NoError(t, err)
	require.NotNil(t, file.Installed)
	assert.Nil(t, file.Web)
	assert.Equal(t, "client.apps.googleusercontent.com", file.App().ClientID)
	assert.Equal(t, []string{"http://localhost"}, file.App().RedirectURIs)
}

func TestLoadGoogleClientFromPath_Web(t *testing.T) {
	path := writeClientFile(t, t.TempDir(), "client.json", webClientJSON)

	file, err := LoadGoogleClientFromPath(path)
	require.NoError(t, err)
	assert.Nil(t, file.Installed)
	assert.Equal(t, "web.apps.googleusercontent.com", file.App().ClientID)
}

func TestLoadGoogleClientFromPath_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"no client section", `{}`, "is invalid"},
		{"missing fields", `{"installed": {"client_id": "abc"}}`, "is invalid"},
		{"bad json", `{not json`, "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeClientFile(t, t.TempDir(), "client.json", tt.content)

			_, err := LoadGoogleClientFromPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoadGoogleClient_EnvVarOverride(t *testing.T) {
	path := writeClientFile(t, t.TempDir(), "elsewhere.json", webClientJSON)
	t.Setenv(GoogleClientEnvVar, path)

	file, err := LoadGoogleClient("test")
	require.NoError(t, err)
	assert.Equal(t, "web.apps.googleusercontent.com", file.App().ClientID)
}

func TestLoadGoogleClient_SearchesStaffSchedulerDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(GoogleClientEnvVar, "")
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, ".staff-scheduler")
	require.NoError(t, os.MkdirAll(dir, 0700))
	writeClientFile(t, dir, "staff_scheduler_google_client.test.json", desktopClientJSON)

	file, err := LoadGoogleClient("test")
	require.NoError(t, err)
	assert.Equal(t, "staff-scheduler", file.App().ProjectID)

	_, err = LoadGoogleClient("prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staff_scheduler_google_client.prod.json not found")
}
