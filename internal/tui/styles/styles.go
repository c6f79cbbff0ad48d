// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme names.
const (
	Dark  = "dark"
	Light = "light"
)

// Palette is a set of theme colors.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
}

// Tokyo Night.
func darkPalette() Palette {
	return Palette{
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#bb9af7"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Foreground: lipgloss.Color("#c0caf5"),
	}
}

// Tokyo Night Day.
func lightPalette() Palette {
	return Palette{
		Primary:    lipgloss.Color("#2e7de9"),
		Secondary:  lipgloss.Color("#9854f1"),
		Success:    lipgloss.Color("#587539"),
		Warning:    lipgloss.Color("#8c6c3e"),
		Error:      lipgloss.Color("#f52a65"),
		Muted:      lipgloss.Color("#848cb5"),
		Background: lipgloss.Color("#e1e2e7"),
		Foreground: lipgloss.Color("#3760bf"),
	}
}

// Styles contains all the styles used in the TUI.
type Styles struct {
	Palette

	Header        lipgloss.Style
	Footer        lipgloss.Style
	Title         lipgloss.Style
	SectionHeader lipgloss.Style
	Cell          lipgloss.Style
	SelectedCell  lipgloss.Style
	FadedCell     lipgloss.Style
	Preview       lipgloss.Style
	Filter        lipgloss.Style

	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
}

// New creates the styles for the named theme. Unknown names use Dark.
func New(theme string) *Styles {
	palette := darkPalette()
	if theme == Light {
		palette = lightPalette()
	}

	return &Styles{
		Palette: palette,

		Header: lipgloss.NewStyle().
			Background(palette.Primary).
			Foreground(palette.Background).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(palette.Muted).
			MarginTop(1),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		SectionHeader: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Underline(true),

		Cell: lipgloss.NewStyle().
			Foreground(palette.Foreground),

		SelectedCell: lipgloss.NewStyle().
			Background(palette.Primary).
			Foreground(palette.Background).
			Bold(true),

		FadedCell: lipgloss.NewStyle().
			Foreground(palette.Muted).
			Faint(true),

		Preview: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Muted).
			Padding(0, 1),

		Filter: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(palette.Muted),

		MutedText:   lipgloss.NewStyle().Foreground(palette.Muted),
		PrimaryText: lipgloss.NewStyle().Foreground(palette.Primary),
		SuccessText: lipgloss.NewStyle().Foreground(palette.Success),
		ErrorText:   lipgloss.NewStyle().Foreground(palette.Error),
		WarningText: lipgloss.NewStyle().Foreground(palette.Warning),
	}
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(s.Muted)

	return keyStyle.Render("["+key+"]") + " " + descStyle.Render(desc)
}
