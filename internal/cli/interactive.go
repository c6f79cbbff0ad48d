// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/iconpick/internal/iconpack"
)

func getTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7aa2f7")).
		Bold(true)
}

// packOptions builds the select options, marking archives.
func packOptions(packs []iconpack.Location) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(packs))

	for _, p := range packs {
		label := "▸ " + p.ID
		if p.Archive {
			label = "◈ " + p.ID + " (archive)"
		}

		options = append(options, huh.NewOption(label, p.ID))
	}

	return options
}

// promptPack asks which icon pack to open.
func promptPack(packs []iconpack.Location) (string, error) {
	var choice string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(getTitleStyle().Render("◈ Choose an icon pack")).
				Description(fmt.Sprintf("%d packs found", len(packs))).
				Options(packOptions(packs)...).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrInterrupted
		}

		return "", err
	}

	return choice, nil
}
