package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/clients/forecastclient"
	"github.com/jakechorley/staff-scheduler/pkg/clients/gmailclient"
	"github.com/jakechorley/staff-scheduler/pkg/clients/sheetsclient"
	"github.com/jakechorley/staff-scheduler/pkg/core/services"
	"github.com/jakechorley/staff-scheduler/pkg/db"
	"github.com/jakechorley/staff-scheduler/pkg/metrics"
)

// AppContext holds the application dependencies shared across all commands.
// Google clients are created on first use because they may start an OAuth flow.
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Metrics  *metrics.RunMetrics
	Ctx      context.Context

	googleClient *config.GoogleClientFile
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// Forecaster creates the forecast client from config
func (app *AppContext) Forecaster() (*forecastclient.Client, error) {
	return forecastclient.NewClient(app.Cfg.Forecast)
}

// SheetsClient returns the sheets client, authenticating on first use
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	clientFile, err := app.googleClientFile()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing sheets client")
	app.sheetsClient, err = sheetsclient.NewClient(app.Ctx, clientFile, app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Logger.Debug("Sheets client initialized successfully")

	return app.sheetsClient, nil
}

// Notifier returns the gmail client, or nil when notifications are disabled.
// It shares the OAuth token obtained by the sheets client.
func (app *AppContext) Notifier() (services.Notifier, error) {
	if !app.Cfg.Notifications.Enabled {
		return nil, nil
	}
	if app.gmailClient != nil {
		return app.gmailClient, nil
	}

	sheets, err := app.SheetsClient()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing gmail client")
	app.gmailClient, err = gmailclient.NewClient(app.Ctx, app.googleClient, sheets.Token(), app.Cfg.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.Logger.Debug("Gmail client initialized successfully")

	return app.gmailClient, nil
}

// RecordRun stores the run outcome for the metrics textfile
func (app *AppContext) RecordRun(operation string, started time.Time, err error) {
	if app.Metrics == nil {
		return
	}
	app.Metrics.RecordRun(operation, started, err)
}

func (app *AppContext) googleClientFile() (*config.GoogleClientFile, error) {
	if app.googleClient != nil {
		return app.googleClient, nil
	}

	app.Logger.Info("Loading Google client secrets")
	clientFile, err := config.LoadGoogleClient(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load Google client secrets: %w", err)
	}
	app.googleClient = clientFile
	return clientFile, nil
}
