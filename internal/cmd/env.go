package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runger/casts/internal/config"
	"github.com/runger/casts/internal/library"
	"github.com/runger/casts/internal/logging"
)

// environment is everything a command needs to work on the library.
type environment struct {
	paths  *config.Paths
	cfg    *config.Config
	logger *slog.Logger
	store  *library.SQLiteStore

	logCloser io.Closer
}

// openEnvironment loads the configuration, starts logging and opens the
// library.
func openEnvironment() (*environment, error) {
	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPathFlag != "" {
		cfg.Library.DatabasePath = dbPathFlag
	}

	logger, logCloser := logging.New(&logging.Config{
		File:       cfg.LogFile(paths),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Level:      logging.ParseLevel(cfg.Logging.Level),
	})

	dbPath := cfg.DatabaseFile(paths)
	store, err := library.Open(dbPath, logger)
	if err != nil {
		logging.LogSQLiteError(logger, "open", err)
		logCloser.Close()
		return nil, fmt.Errorf("failed to open library: %w", err)
	}

	logging.LogStartup(logger, logging.StartupInfo{
		Version:       Version,
		GitCommit:     GitCommit,
		ConfigPath:    paths.ConfigFile(),
		DatabasePath:  dbPath,
		SchemaVersion: library.SchemaVersion,
		PageSize:      cfg.List.PageSize,
		PID:           os.Getpid(),
	})

	return &environment{
		paths:     paths,
		cfg:       cfg,
		logger:    logger,
		store:     store,
		logCloser: logCloser,
	}, nil
}

// Close releases the library and the log file.
func (e *environment) Close() error {
	return errors.Join(e.store.Close(), e.logCloser.Close())
}
