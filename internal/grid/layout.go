// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package grid

// Row is one visual line of the grid: either a single header position or
// up to Columns icon positions.
type Row struct {
	Header    bool
	Positions []int
}

// Rows lays the current list out using span widths.
// The result must be recomputed after SetList.
func (vm *ViewModel) Rows() []Row {
	var (
		rows    []Row
		current Row
		used    int
	)

	flush := func() {
		if len(current.Positions) > 0 {
			rows = append(rows, current)
		}

		current = Row{}
		used = 0
	}

	for pos := range vm.Len() {
		span := vm.SpanAt(pos)
		if span == 0 {
			continue
		}

		if used+span > vm.columns || vm.KindAt(pos).IsHeader() {
			flush()
		}

		current.Positions = append(current.Positions, pos)
		current.Header = vm.KindAt(pos).IsHeader()
		used += span

		if used >= vm.columns {
			flush()
		}
	}

	flush()

	return rows
}

// RowOf returns the row index and column of pos, or -1, -1 if pos is not laid out.
func (vm *ViewModel) RowOf(pos int) (int, int) {
	for r, row := range vm.Rows() {
		for c, p := range row.Positions {
			if p == pos {
				return r, c
			}
		}
	}

	return -1, -1
}

// PositionAt returns the position at row and col, or -1 if there is none.
func (vm *ViewModel) PositionAt(row, col int) int {
	rows := vm.Rows()
	if row < 0 || row >= len(rows) || col < 0 || col >= len(rows[row].Positions) {
		return -1
	}

	return rows[row].Positions[col]
}

// FirstIcon returns the first selectable position, or -1.
func (vm *ViewModel) FirstIcon() int {
	for pos := range vm.Len() {
		if vm.KindAt(pos).IsIcon() {
			return pos
		}
	}

	return -1
}

// Move returns the icon position reached from pos by moving dRow rows and
// dCol columns. Header rows are skipped; the column is clamped to the
// target row's width. Returns pos unchanged when no icon lies in that direction.
func (vm *ViewModel) Move(pos, dRow, dCol int) int {
	if !vm.KindAt(pos).IsIcon() {
		return vm.FirstIcon()
	}

	rows := vm.Rows()
	r, c := vm.RowOf(pos)

	if dCol != 0 {
		next := pos + dCol
		if vm.KindAt(next).IsIcon() {
			return next
		}

		return pos
	}

	step := 1
	if dRow < 0 {
		step = -1
	}

	for moved := 0; moved != dRow; {
		r += step
		if r < 0 || r >= len(rows) {
			return pos
		}

		if rows[r].Header {
			continue
		}

		moved += step
	}

	row := rows[r]

	return row.Positions[min(c, len(row.Positions)-1)]
}
