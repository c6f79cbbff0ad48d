// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui runs the interactive icon picker.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/tui/models"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// Run shows picker until the user commits an icon or quits.
// The returned activation is OutcomeCommitted only if an icon was committed.
func Run(ctx context.Context, picker *models.Picker, opts ...tea.ProgramOption) (grid.Activation, error) {
	program := tea.NewProgram(
		picker,
		append([]tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		}, opts...)...,
	)

	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return grid.Activation{}, fmt.Errorf("TUI application failed: %w", err)
	}

	result, ok := final.(*models.Picker)
	if !ok {
		return grid.Activation{}, nil
	}

	if result.Err() != nil {
		return grid.Activation{}, result.Err()
	}

	return result.Result(), nil
}
