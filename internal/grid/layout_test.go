// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package grid_test

import (
	"testing"

	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/segmented"
	"github.com/janderssonse/iconpick/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestViewModel_Rows(t *testing.T) {
	t.Parallel()

	// Positions: 0 MH, 1-2 matching, 3 AH, 4-9 all
	list := segmented.Build(testutil.Names("a", "b", "c", "d", "e", "f"), testutil.Names("a", "b"), "")
	vm := grid.New(list, 4, &stubLoader{}, nil, selection)

	expected := []grid.Row{
		{Header: true, Positions: []int{0}},
		{Positions: []int{1, 2}},
		{Header: true, Positions: []int{3}},
		{Positions: []int{4, 5, 6, 7}},
		{Positions: []int{8, 9}},
	}

	assert.Equal(t, expected, vm.Rows())

	row, col := vm.RowOf(6)
	assert.Equal(t, 3, row)
	assert.Equal(t, 2, col)

	row, col = vm.RowOf(42)
	assert.Equal(t, -1, row)
	assert.Equal(t, -1, col)
}

func TestViewModel_Move(t *testing.T) {
	t.Parallel()

	list := segmented.Build(testutil.Names("a", "b", "c", "d", "e", "f"), testutil.Names("a", "b"), "")
	vm := grid.New(list, 4, &stubLoader{}, nil, selection)

	tests := []struct {
		name       string
		from       int
		dRow, dCol int
		expected   int
	}{
		{"right within row", 4, 0, 1, 5},
		{"right wraps to next row", 7, 0, 1, 8},
		{"left into header stays", 4, 0, -1, 4},
		{"down skips header", 2, 1, 0, 5},
		{"down clamps column", 6, 1, 0, 9},
		{"up skips header", 4, -1, 0, 1},
		{"up past top stays", 1, -1, 0, 1},
		{"down past bottom stays", 8, 1, 0, 8},
		{"from header goes to first icon", 0, 1, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, vm.Move(tc.from, tc.dRow, tc.dCol))
		})
	}
}

func TestViewModel_FirstIcon(t *testing.T) {
	t.Parallel()

	empty := grid.New(segmented.Build(nil, nil, ""), 4, &stubLoader{}, nil, selection)
	assert.Equal(t, -1, empty.FirstIcon())
	assert.Equal(t, []grid.Row{{Header: true, Positions: []int{0}}}, empty.Rows())

	vm := grid.New(segmented.Build(testutil.Names("x"), nil, ""), 4, &stubLoader{}, nil, selection)
	assert.Equal(t, 1, vm.FirstIcon())
}

func TestViewModel_PositionAt(t *testing.T) {
	t.Parallel()

	list := segmented.Build(testutil.Names("a", "b", "c", "d", "e", "f"), testutil.Names("a", "b"), "")
	vm := grid.New(list, 4, &stubLoader{}, nil, selection)

	assert.Equal(t, 0, vm.PositionAt(0, 0))
	assert.Equal(t, 6, vm.PositionAt(3, 2))
	assert.Equal(t, 9, vm.PositionAt(4, 1))
	assert.Equal(t, -1, vm.PositionAt(4, 2))
	assert.Equal(t, -1, vm.PositionAt(-1, 0))
	assert.Equal(t, -1, vm.PositionAt(9, 0))
}
