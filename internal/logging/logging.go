// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package logging builds the structured loggers used across iconpick.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Level returns the handler level for the verbosity flag.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// New returns a logger writing to w. jsonFormat selects slog.JSONHandler.
func New(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: Level(verbose)}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Open returns a logger appending to the file at path and a function that
// closes it. An empty path yields a discarding logger.
func Open(path string, verbose, jsonFormat bool) (*slog.Logger, func() error, error) {
	if path == "" {
		return Discard(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(file, verbose, jsonFormat), file.Close, nil
}
