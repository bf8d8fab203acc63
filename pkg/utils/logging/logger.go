package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how verbosely the logger writes
type Options struct {
	// Env prefixes the log file name
	Env string

	// Dir holds the JSON log files. Defaults to "logs".
	Dir string

	// Verbose lowers the console level from Info to Debug
	Verbose bool
}

// InitLogger initializes a zap logger with console and file outputs.
// env is used to prefix the log file name.
func InitLogger(env string) (*zap.Logger, error) {
	return New(Options{Env: env})
}

// New builds a logger that tees a coloured console encoder with a JSON file encoder.
// The file always receives Debug and above.
func New(opts Options) (*zap.Logger, error) {
	logFile, err := openLogFile(opts)
	if err != nil {
		return nil, err
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(os.Stdout), consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// openLogFile creates <dir>/<env>_<timestamp>.log
func openLogFile(opts Options) (*os.File, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	env := opts.Env
	if env == "" {
		env = "default"
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	name := filepath.Join(dir, fmt.Sprintf("%s_%s.log", env, timestamp))
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logFile, nil
}
