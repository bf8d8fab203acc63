package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GoogleClientEnvVar points at the client secrets file, overriding the search path.
// It may be set in the environment's .env file.
const GoogleClientEnvVar = "STAFF_SCHEDULER_GOOGLE_CLIENT"

// GoogleClientFile is the client secrets JSON downloaded from the Google Cloud console.
// Desktop clients carry an "installed" section and web clients a "web" section.
type GoogleClientFile struct {
	Installed *GoogleApp `json:"installed,omitempty" validate:"required_without=Web"`
	Web       *GoogleApp `json:"web,omitempty" validate:"required_without=Installed"`
}

// GoogleApp holds the fields the scheduler needs from either client section
type GoogleApp struct {
	ClientID     string   `json:"client_id" validate:"required"`
	ProjectID    string   `json:"project_id,omitempty"`
	AuthURI      string   `json:"auth_uri" validate:"required,url"`
	TokenURI     string   `json:"token_uri" validate:"required,url"`
	ClientSecret string   `json:"client_secret" validate:"required"`
	RedirectURIs []string `json:"redirect_uris,omitempty" validate:"omitempty,dive,uri"`
}

// App returns whichever client section is present
func (f *GoogleClientFile) App() *GoogleApp {
	if f.Installed != nil {
		return f.Installed
	}
	return f.Web
}

func googleClientFileName(env string) string {
	if env == "" {
		return "staff_scheduler_google_client.json"
	}
	return "staff_scheduler_google_client." + env + ".json"
}

// LoadGoogleClient loads the client secrets for env, preferring the path in
// STAFF_SCHEDULER_GOOGLE_CLIENT, then staff_scheduler_google_client.<env>.json in the
// working directory, the home directory and ~/.staff-scheduler.
func LoadGoogleClient(env string) (*GoogleClientFile, error) {
	if path := os.Getenv(GoogleClientEnvVar); path != "" {
		return LoadGoogleClientFromPath(path)
	}

	path, err := locate(googleClientFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find google client file: %w", err)
	}
	return LoadGoogleClientFromPath(path)
}

// LoadGoogleClientFromPath parses and validates a client secrets file
func LoadGoogleClientFromPath(path string) (*GoogleClientFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read google client file: %w", err)
	}

	var file GoogleClientFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse google client file %s: %w", path, err)
	}

	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("google client file %s is invalid: %w", path, err)
	}
	return &file, nil
}
