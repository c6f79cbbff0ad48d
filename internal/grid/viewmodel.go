// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package grid maps segmented list positions to fixed-column grid cells and
// handles icon activation.
package grid

import (
	"context"
	"fmt"

	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/segmented"
)

// CellKind is the rendering kind of a grid position.
type CellKind int

// Cell kinds.
const (
	Invalid CellKind = iota
	MatchingHeader
	MatchingIcon
	AllHeader
	AllIcon
)

func (k CellKind) String() string {
	switch k {
	case MatchingHeader:
		return "matching-header"
	case MatchingIcon:
		return "matching-icon"
	case AllHeader:
		return "all-header"
	case AllIcon:
		return "all-icon"
	default:
		return "invalid"
	}
}

// IsHeader reports whether the kind spans a full row.
func (k CellKind) IsHeader() bool {
	return k == MatchingHeader || k == AllHeader
}

// IsIcon reports whether the kind is selectable.
func (k CellKind) IsIcon() bool {
	return k == MatchingIcon || k == AllIcon
}

// Loader resolves an icon name to an image; nil means unavailable.
type Loader interface {
	ResolveImage(ctx context.Context, name domain.IconName) *domain.Image
}

// Outcome is the result of activating a position.
type Outcome int

// Activation outcomes.
const (
	// OutcomeIgnored: header, invalid position or already committed.
	OutcomeIgnored Outcome = iota
	// OutcomeUnavailable: the icon could not be loaded; nothing was committed.
	OutcomeUnavailable
	// OutcomeCommitted: the icon was committed and the screen should close.
	OutcomeCommitted
	// OutcomeCommitFailed: the sink rejected the icon.
	OutcomeCommitFailed
)

// Activation describes what happened on activate.
type Activation struct {
	Outcome Outcome
	Name    domain.IconName
	Err     error
}

// ShouldClose reports whether the picker should close.
func (a Activation) ShouldClose() bool {
	return a.Outcome == OutcomeCommitted
}

// ViewModel exposes the current list as grid cells.
// It is owned by the interactive goroutine and is not safe for concurrent use.
type ViewModel struct {
	list      *segmented.List
	columns   int
	loader    Loader
	sink      domain.SelectionSink
	selection domain.SelectionContext
	committed bool
}

// New creates a view model. columns below 1 is treated as 1.
func New(list *segmented.List, columns int, loader Loader, sink domain.SelectionSink, sel domain.SelectionContext) *ViewModel {
	return &ViewModel{
		list:      list,
		columns:   max(columns, 1),
		loader:    loader,
		sink:      sink,
		selection: sel,
	}
}

// SetList replaces the current list after a filter change.
func (vm *ViewModel) SetList(list *segmented.List) {
	vm.list = list
}

// List returns the current list.
func (vm *ViewModel) List() *segmented.List {
	return vm.list
}

// Columns returns the grid width in cells.
func (vm *ViewModel) Columns() int {
	return vm.columns
}

// Len returns the number of positions in the current list.
func (vm *ViewModel) Len() int {
	if vm.list == nil {
		return 0
	}

	return vm.list.Len()
}

// Selection returns the target application context.
func (vm *ViewModel) Selection() domain.SelectionContext {
	return vm.selection
}

// KindAt returns the cell kind at pos in the current list.
func (vm *ViewModel) KindAt(pos int) CellKind {
	if vm.list == nil {
		return Invalid
	}

	slot := vm.list.Slot(pos)

	switch {
	case slot.Kind == segmented.KindHeader && slot.Section == domain.SectionMatching:
		return MatchingHeader
	case slot.Kind == segmented.KindIcon && slot.Section == domain.SectionMatching:
		return MatchingIcon
	case slot.Kind == segmented.KindHeader && slot.Section == domain.SectionAll:
		return AllHeader
	case slot.Kind == segmented.KindIcon && slot.Section == domain.SectionAll:
		return AllIcon
	default:
		return Invalid
	}
}

// SpanAt returns how many columns the cell at pos occupies.
func (vm *ViewModel) SpanAt(pos int) int {
	kind := vm.KindAt(pos)

	switch {
	case kind.IsHeader():
		return vm.columns
	case kind.IsIcon():
		return 1
	default:
		return 0
	}
}

// NameAt returns the icon name at pos, or "" for headers.
func (vm *ViewModel) NameAt(pos int) domain.IconName {
	if vm.list == nil {
		return ""
	}

	return vm.list.Slot(pos).Name
}

// Activate commits the icon at pos. Headers are ignored. A failed load
// leaves all state untouched and commits nothing.
func (vm *ViewModel) Activate(ctx context.Context, pos int) Activation {
	if vm.committed || !vm.KindAt(pos).IsIcon() {
		return Activation{Outcome: OutcomeIgnored}
	}

	name := vm.NameAt(pos)

	img := vm.loader.ResolveImage(ctx, name)
	if img == nil {
		return Activation{Outcome: OutcomeUnavailable, Name: name}
	}

	if err := vm.sink.Commit(ctx, img, vm.selection); err != nil {
		return Activation{
			Outcome: OutcomeCommitFailed,
			Name:    name,
			Err:     fmt.Errorf("failed to commit %s for %s: %w", name, vm.selection.AppPackage, err),
		}
	}

	vm.committed = true

	return Activation{Outcome: OutcomeCommitted, Name: name}
}

// Committed reports whether a selection has been committed.
func (vm *ViewModel) Committed() bool {
	return vm.committed
}
