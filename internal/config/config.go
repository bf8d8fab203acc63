package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig selects the shift store backend
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a postgres connection string or a sqlite file path
	URL string `yaml:"url" validate:"required"`
}

// ForecastConfig describes how to invoke the demand forecasting script
type ForecastConfig struct {
	// Command is the argv prefix, e.g. ["python3", "forecast/predict.py"]
	Command  []string `yaml:"command" validate:"required,min=1,dive,required"`
	DataPath string   `yaml:"dataPath" validate:"required"`
}

// NotificationsConfig toggles schedule emails
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Closure marks recurring dates on which the restaurant does not trade
type Closure struct {
	RRule  string `yaml:"rrule" validate:"required"`
	Reason string `yaml:"reason,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Database        DatabaseConfig      `yaml:"database"`
	Forecast        ForecastConfig      `yaml:"forecast"`
	GmailSender     string              `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	Notifications   NotificationsConfig `yaml:"notifications"`
	ScheduleSheetID string              `yaml:"scheduleSheetID,omitempty"`
	Closures        []Closure           `yaml:"closures,omitempty" validate:"dive"`
	MetricsFile     string              `yaml:"metricsFile,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from staff_scheduler_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" will look for "staff_scheduler_config.test.yaml".
// A .env file (".env.<env>" when env is set) is loaded first if present.
func LoadWithEnv(env string) (*Config, error) {
	if err := loadDotEnv(env); err != nil {
		return nil, err
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// ${VAR} references are expanded from the environment before parsing.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToRRule(closure.RRule); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}

	if cfg.Notifications.Enabled && cfg.GmailSender == "" {
		return fmt.Errorf("config validation failed: gmailSender is required when notifications are enabled")
	}

	return nil
}

// loadDotEnv loads environment variables from .env files without overriding ones already set
func loadDotEnv(env string) error {
	candidates := []string{".env"}
	if env != "" {
		candidates = append([]string{".env." + env}, candidates...)
	}

	for _, name := range candidates {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "staff_scheduler_config.yaml"
	if env != "" {
		configFileName = "staff_scheduler_config." + env + ".yaml"
	}
	return locate(configFileName)
}

// locate returns the first existing path for fileName in the working directory,
// the home directory and ~/.staff-scheduler
func locate(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{homeDir, filepath.Join(homeDir, ".staff-scheduler")} {
		path := filepath.Join(dir, fileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%s not found in current directory, home directory or ~/.staff-scheduler", fileName)
}
