// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the iconpick command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/janderssonse/iconpick/internal/config"
	"github.com/janderssonse/iconpick/internal/console"
	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/iconpack"
	"github.com/janderssonse/iconpick/internal/logging"
	"github.com/janderssonse/iconpick/internal/overrides"
	"github.com/janderssonse/iconpick/internal/tui"
	"github.com/janderssonse/iconpick/internal/tui/models"
	"github.com/urfave/cli/v3"
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess        = 0  // Operation completed successfully
	ExitGeneralError   = 1  // Generic failure (catch-all)
	ExitUsageError     = 2  // Invalid command line usage
	ExitConfigError    = 3  // Configuration file error
	ExitNotFoundError  = 5  // Icon pack, icon or override not found
	ExitSystemError    = 12 // Filesystem or decode failure
	ExitInterruptError = 14 // User interrupted (Ctrl+C)
)

// Version is set at build time.
var Version = "dev" //nolint:gochecknoglobals

// ErrInterrupted is returned when the user aborts a prompt.
var ErrInterrupted = errors.New("interrupted")

// ErrSessionActive is returned when another picker holds the session lock.
var ErrSessionActive = errors.New("another picker session is running")

// PackPrompter asks the user to choose one of the discovered packs.
type PackPrompter func(packs []iconpack.Location) (string, error)

// PickerRunner shows the picker and returns the final activation.
type PickerRunner func(ctx context.Context, picker *models.Picker) (grid.Activation, error)

// CLI holds global flag state and the collaborators commands use.
type CLI struct {
	app *cli.Command

	verbose    bool
	json       bool
	plain      bool
	configPath string
	packsDir   string
	dataDir    string
	logFile    string
	lockPath   string

	cfg      config.Config
	out      *console.Output
	logger   *slog.Logger
	closeLog func() error

	prompt      PackPrompter
	runPicker   PickerRunner
	interactive func() bool
}

// Option customises a CLI, mainly for tests.
type Option func(*CLI)

// WithOutput replaces the console output.
func WithOutput(out *console.Output) Option {
	return func(c *CLI) { c.out = out }
}

// WithPrompter replaces the pack selection prompt.
func WithPrompter(p PackPrompter) Option {
	return func(c *CLI) { c.prompt = p }
}

// WithPickerRunner replaces the TUI runner.
func WithPickerRunner(r PickerRunner) Option {
	return func(c *CLI) { c.runPicker = r }
}

// WithInteractive overrides terminal detection.
func WithInteractive(fn func() bool) Option {
	return func(c *CLI) { c.interactive = fn }
}

// WithLockPath replaces the picker session lock file.
func WithLockPath(path string) Option {
	return func(c *CLI) { c.lockPath = path }
}

// NewCLI creates the command tree.
func NewCLI(opts ...Option) *CLI {
	app := &CLI{
		out:         console.New(),
		logger:      logging.Discard(),
		closeLog:    func() error { return nil },
		prompt:      promptPack,
		interactive: console.Interactive,
		lockPath:    filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.lock", config.AppName, os.Getuid())),
		runPicker: func(ctx context.Context, picker *models.Picker) (grid.Activation, error) {
			return tui.Run(ctx, picker)
		},
	}

	for _, opt := range opts {
		opt(app)
	}

	app.app = &cli.Command{
		Name:    config.AppName,
		Usage:   "choose a custom launcher icon from an icon pack",
		Version: Version,
		Suggest: true,
		Description: `Opens a grid of the icons in an icon pack. Icons the pack maps to the
application come first, followed by every icon in the pack.

QUICK START:
  iconpick --app-package org.mozilla.firefox --app-label Firefox --icon-pack lawnicons
  iconpick list --icon-pack lawnicons --app-package org.mozilla.firefox --query fox
  iconpick packs
  iconpick overrides`,
		Flags:    append(app.globalFlags(), pickFlags(true)...),
		Before:   app.before,
		After:    app.after,
		Action:   app.runPick,
		Commands: app.commands(),
	}

	return app
}

// App returns the root command.
func App() *cli.Command {
	return NewCLI().app
}

// Run executes the CLI application. Errors are returned as *domain.ExitError.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return toExitError(app.app.Run(ctx, args), app.verbose)
}

func (app *CLI) globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "show progress messages and debug logs",
			Destination: &app.verbose,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "output structured JSON results",
			Aliases:     []string{"j"},
			Destination: &app.json,
		},
		&cli.BoolFlag{
			Name:        "plain",
			Usage:       "output key:value lines for scripts",
			Destination: &app.plain,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.toml",
			Value:       config.DefaultConfigPath(),
			Destination: &app.configPath,
		},
		&cli.StringFlag{
			Name:        "packs-dir",
			Usage:       "directory holding icon packs (overrides config)",
			Destination: &app.packsDir,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "directory for committed icons (overrides config)",
			Destination: &app.dataDir,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "append structured logs to this file",
			Destination: &app.logFile,
		},
	}
}

// pickFlags returns the picker flags. The root command's copies are local
// so that subcommands can define their own.
func pickFlags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "app-package",
			Aliases: []string{"p"},
			Usage:   "package identifier of the application",
			Local:   local,
		},
		&cli.StringFlag{
			Name:    "app-label",
			Aliases: []string{"l"},
			Usage:   "display name of the application",
			Local:   local,
		},
		&cli.StringFlag{
			Name:    "icon-pack",
			Aliases: []string{"k"},
			Usage:   "icon pack to choose from (prompted for when omitted)",
			Local:   local,
		},
		&cli.BoolFlag{
			Name:  "no-preview",
			Usage: "hide the icon preview pane",
			Local: local,
		},
	}
}

// before validates flags, loads the config and opens the log.
func (app *CLI) before(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, domain.NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	app.out.SetMode(app.verbose, app.json, app.plain)

	cfg, err := config.Load(app.configPath)
	if err != nil {
		return ctx, domain.NewExitError(ExitConfigError, "failed to load configuration", err)
	}

	if app.packsDir != "" {
		cfg.PacksDir = config.ExpandPath(app.packsDir)
	}

	if app.dataDir != "" {
		cfg.DataDir = config.ExpandPath(app.dataDir)
	}

	app.cfg = cfg

	switch {
	case app.logFile != "":
		logger, closeFn, err := logging.Open(config.ExpandPath(app.logFile), app.verbose, app.json)
		if err != nil {
			return ctx, domain.NewExitError(ExitSystemError, "failed to open log file", err)
		}

		app.logger, app.closeLog = logger, closeFn
	case app.verbose:
		app.logger = logging.New(os.Stderr, true, app.json)
	}

	app.logger.Debug("configuration loaded",
		"config", app.configPath, "packs_dir", cfg.PacksDir, "data_dir", cfg.DataDir)

	return ctx, nil
}

// lockSession takes the per-user picker lock. Read-only commands never take
// it; the override store has its own write lock.
func (app *CLI) lockSession() (func(), error) {
	lock := flock.New(app.lockPath)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, domain.NewExitError(ExitSystemError, "failed to acquire picker lock", err)
	}

	if !locked {
		return nil, domain.NewExitError(ExitGeneralError, "another iconpick picker is already running", ErrSessionActive)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			app.logger.Warn("failed to release picker lock", "error", err)
		}
	}, nil
}

func (app *CLI) after(_ context.Context, _ *cli.Command) error {
	return app.closeLog()
}

// toExitError maps domain errors to exit codes.
func toExitError(err error, verbose bool) error {
	if err == nil {
		return nil
	}

	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	code := ExitGeneralError

	switch {
	case errors.Is(err, domain.ErrInvalidSelection):
		code = ExitUsageError
	case errors.Is(err, config.ErrInvalidConfig):
		code = ExitConfigError
	case errors.Is(err, domain.ErrPackNotFound),
		errors.Is(err, domain.ErrIconNotFound),
		errors.Is(err, overrides.ErrNoOverride):
		code = ExitNotFoundError
	case errors.Is(err, domain.ErrResourceExhausted):
		code = ExitSystemError
	case errors.Is(err, ErrInterrupted), errors.Is(err, context.Canceled):
		code = ExitInterruptError
	}

	return domain.NewExitError(code, domain.FormatError(err, "", verbose), err)
}
