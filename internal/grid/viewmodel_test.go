// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package grid_test

import (
	"context"
	"errors"
	"testing"

	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/segmented"
	"github.com/janderssonse/iconpick/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubLoader returns the image registered for a name and counts calls.
type stubLoader struct {
	images map[domain.IconName]*domain.Image
	calls  int
}

func (s *stubLoader) ResolveImage(_ context.Context, name domain.IconName) *domain.Image {
	s.calls++

	return s.images[name]
}

var selection = domain.SelectionContext{
	AppPackage: "org.mozilla.firefox",
	AppLabel:   "Firefox",
	IconPack:   "lawnicons",
}

func newViewModel(t *testing.T, all, matching []domain.IconName, loader grid.Loader, sink domain.SelectionSink) *grid.ViewModel {
	t.Helper()

	return grid.New(segmented.Build(all, matching, ""), 4, loader, sink, selection)
}

func TestViewModel_KindAndSpan(t *testing.T) {
	t.Parallel()

	vm := newViewModel(t, testutil.Names("a", "b"), testutil.Names("a"), &stubLoader{}, nil)

	expected := []struct {
		kind grid.CellKind
		span int
	}{
		{grid.MatchingHeader, 4},
		{grid.MatchingIcon, 1},
		{grid.AllHeader, 4},
		{grid.AllIcon, 1},
		{grid.AllIcon, 1},
	}

	require.Equal(t, len(expected), vm.Len())

	for pos, want := range expected {
		assert.Equal(t, want.kind, vm.KindAt(pos), "position %d", pos)
		assert.Equal(t, want.span, vm.SpanAt(pos), "position %d", pos)
	}

	assert.Equal(t, grid.Invalid, vm.KindAt(5))
	assert.Equal(t, 0, vm.SpanAt(-1))
}

func TestViewModel_SpanFollowsColumnCount(t *testing.T) {
	t.Parallel()

	for _, columns := range []int{1, 3, 4, 6} {
		vm := grid.New(segmented.Build(testutil.Names("x", "y"), nil, ""), columns, &stubLoader{}, nil, selection)

		for pos := range vm.Len() {
			if vm.KindAt(pos).IsHeader() {
				assert.Equal(t, columns, vm.SpanAt(pos))
			} else {
				assert.Equal(t, 1, vm.SpanAt(pos))
			}
		}
	}
}

func TestViewModel_SetListInvalidatesMapping(t *testing.T) {
	t.Parallel()

	all := testutil.Names("sun", "moon")
	matching := testutil.Names("sun")
	vm := newViewModel(t, all, matching, &stubLoader{}, nil)

	assert.Equal(t, grid.MatchingHeader, vm.KindAt(0))

	vm.SetList(segmented.Build(all, matching, "moon"))

	assert.Equal(t, grid.AllHeader, vm.KindAt(0))
	assert.Equal(t, domain.IconName("moon"), vm.NameAt(1))
	assert.Equal(t, grid.Invalid, vm.KindAt(2))
}

func TestViewModel_ActivateCommitsAndCloses(t *testing.T) {
	t.Parallel()

	img := &domain.Image{Name: "firefox", Format: "png"}
	loader := &stubLoader{images: map[domain.IconName]*domain.Image{"firefox": img}}

	sink := &testutil.MockSelectionSink{}
	sink.On("Commit", mock.Anything, img, selection).Return(nil).Once()

	vm := newViewModel(t, testutil.Names("chrome", "firefox"), testutil.Names("firefox"), loader, sink)

	result := vm.Activate(context.Background(), 1)

	assert.Equal(t, grid.OutcomeCommitted, result.Outcome)
	assert.True(t, result.ShouldClose())
	assert.True(t, vm.Committed())

	// Only one commit per session
	again := vm.Activate(context.Background(), 4)
	assert.Equal(t, grid.OutcomeIgnored, again.Outcome)

	sink.AssertExpectations(t)
}

func TestViewModel_ActivateHeaderIsNoop(t *testing.T) {
	t.Parallel()

	loader := &stubLoader{}
	sink := &testutil.MockSelectionSink{}
	vm := newViewModel(t, testutil.Names("a"), testutil.Names("a"), loader, sink)

	for _, pos := range []int{0, 2, 99, -3} {
		result := vm.Activate(context.Background(), pos)
		assert.Equal(t, grid.OutcomeIgnored, result.Outcome)
	}

	assert.Equal(t, 0, loader.calls)
	sink.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestViewModel_ActivateUnavailableLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	loader := &stubLoader{}
	sink := &testutil.MockSelectionSink{}

	all := testutil.Names("a", "b")
	vm := newViewModel(t, all, nil, loader, sink)
	before := vm.List()
	beforeSlots := before.Slots()

	result := vm.Activate(context.Background(), 1)

	assert.Equal(t, grid.OutcomeUnavailable, result.Outcome)
	assert.False(t, result.ShouldClose())
	assert.False(t, vm.Committed())
	assert.Same(t, before, vm.List())
	assert.Equal(t, beforeSlots, vm.List().Slots())
	sink.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestViewModel_ActivateCommitFailure(t *testing.T) {
	t.Parallel()

	img := &domain.Image{Name: "a"}
	loader := &stubLoader{images: map[domain.IconName]*domain.Image{"a": img}}

	sink := &testutil.MockSelectionSink{}
	sink.On("Commit", mock.Anything, img, selection).Return(errors.New("disk full"))

	vm := newViewModel(t, testutil.Names("a"), nil, loader, sink)

	result := vm.Activate(context.Background(), 1)

	assert.Equal(t, grid.OutcomeCommitFailed, result.Outcome)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "org.mozilla.firefox")
	assert.False(t, vm.Committed())
}
