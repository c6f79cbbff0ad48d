// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/tui/styles"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ellipsis = "…"

// Layout holds the grid's presentation parameters in terminal cells.
type Layout struct {
	CellWidth int // width of one icon cell
	Spacing   int // gap between cells
	Margin    int // blank columns left of the grid
}

// RowWidth returns the width of a full row of columns cells.
func (l Layout) RowWidth(columns int) int {
	return columns*l.CellWidth + max(columns-1, 0)*l.Spacing
}

// gridRenderer draws view model rows as text lines.
type gridRenderer struct {
	styles *styles.Styles
	layout Layout
	title  cases.Caser
}

func newGridRenderer(st *styles.Styles, layout Layout) *gridRenderer {
	return &gridRenderer{
		styles: st,
		layout: layout,
		title:  cases.Title(language.English),
	}
}

// render returns one line per grid row. cursor is highlighted; faded dims
// every other cell.
func (r *gridRenderer) render(vm *grid.ViewModel, cursor int, faded bool) []string {
	rows := vm.Rows()
	lines := make([]string, 0, len(rows))
	margin := strings.Repeat(" ", r.layout.Margin)
	gap := strings.Repeat(" ", r.layout.Spacing)

	for _, row := range rows {
		if row.Header {
			lines = append(lines, margin+r.header(vm, row.Positions[0]))

			continue
		}

		cells := make([]string, 0, len(row.Positions))

		for _, pos := range row.Positions {
			text := fitCell(vm.NameAt(pos).String(), r.layout.CellWidth)

			switch {
			case pos == cursor:
				cells = append(cells, r.styles.SelectedCell.Render(text))
			case faded:
				cells = append(cells, r.styles.FadedCell.Render(text))
			default:
				cells = append(cells, r.styles.Cell.Render(text))
			}
		}

		lines = append(lines, margin+strings.Join(cells, gap))
	}

	return lines
}

func (r *gridRenderer) header(vm *grid.ViewModel, pos int) string {
	section := domain.SectionAll
	if vm.KindAt(pos) == grid.MatchingHeader {
		section = domain.SectionMatching
	}

	count := len(vm.List().Names(section))
	label := fmt.Sprintf("%s icons (%d)", r.title.String(section.String()), count)

	return r.styles.SectionHeader.Render(fitCell(label, r.layout.RowWidth(vm.Columns())))
}

// fitCell truncates or pads s to exactly width terminal cells.
func fitCell(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}

	return runewidth.FillRight(s, width)
}
