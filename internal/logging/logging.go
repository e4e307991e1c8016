// Package logging provides JSON-lines structured logging for casts.
//
// The TUI owns the terminal, so the default sink is a size-rotated log file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output. When nil, File is used.
	Output io.Writer

	// File is the path of the rotated log file. When both Output and File
	// are empty, logs are discarded.
	File string

	// MaxSizeMB is the size at which File is rotated (default: 10)
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept (default: 3)
	MaxBackups int

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxSizeMB:  10,
		MaxBackups: 3,
		Level:      slog.LevelInfo,
	}
}

// New creates a new JSON-lines structured logger. The returned closer
// releases the log file, if one was opened.
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"casts started","version":"1.2.0"}
func New(cfg *Config) (*slog.Logger, io.Closer) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var closer io.Closer = nopCloser{}
	output := cfg.Output
	switch {
	case output != nil:
	case cfg.File != "":
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(cfg.MaxSizeMB, 1),
			MaxBackups: max(cfg.MaxBackups, 0),
			Compress:   true,
		}
		output, closer = rotator, rotator
	default:
		output = io.Discard
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts)), closer
}

// NewFromEnv creates a stderr logger configured from environment variables.
// CASTS_DEBUG=1 enables debug logging.
func NewFromEnv() *slog.Logger {
	cfg := DefaultConfig()
	cfg.Output = os.Stderr
	if b, err := strconv.ParseBool(os.Getenv("CASTS_DEBUG")); err == nil && b {
		cfg.Debug = true
	}
	logger, _ := New(cfg)
	return logger
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// StartupInfo holds information to log when the browser starts.
type StartupInfo struct {
	Version       string
	GitCommit     string
	ConfigPath    string
	DatabasePath  string
	SchemaVersion int
	PageSize      int
	PID           int
}

// LogStartup logs start-up information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("casts started",
		"version", info.Version,
		"git_commit", info.GitCommit,
		"config_path", info.ConfigPath,
		"database_path", info.DatabasePath,
		"schema_version", info.SchemaVersion,
		"page_size", info.PageSize,
		"pid", info.PID,
	)
}

// LogShutdown logs shutdown.
func LogShutdown(logger *slog.Logger, reason string) {
	logger.Info("casts shutting down", "reason", reason)
}

// LogFetchError logs a failed library query issued on behalf of a list.
func LogFetchError(logger *slog.Logger, list string, request string, err error) {
	logger.Warn("fetch failed", "list", list, "request", request, "error", err)
}

// LogStaleResponse logs a response that arrived after its list moved on.
func LogStaleResponse(logger *slog.Logger, list string, version, current uint64) {
	logger.Debug("stale response dropped", "list", list, "version", version, "current", current)
}

// LogSQLiteError logs SQLite errors.
func LogSQLiteError(logger *slog.Logger, operation string, err error) {
	logger.Error("sqlite error", "operation", operation, "error", err)
}

// LogCommandError logs a command line or rc file command that failed.
func LogCommandError(logger *slog.Logger, source string, line string, err error) {
	logger.Warn("command failed", "source", source, "line", line, "error", err)
}
