// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/janderssonse/iconpick/internal/catalog"
	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	resolver := testutil.StaticResolver{
		IDs: map[domain.IconName]domain.IconID{
			"sun":     1,
			"moon":    2,
			"Sunrise": 3,
			"star":    domain.NoIcon,
		},
		Errors: map[domain.IconName]error{
			"huge": domain.ErrResourceExhausted,
			"odd":  errors.New("broken entry"),
		},
	}

	tests := []struct {
		name     string
		input    []domain.IconName
		expected []domain.IconName
	}{
		{"all valid keeps order", testutil.Names("moon", "sun", "Sunrise"), testutil.Names("moon", "sun", "Sunrise")},
		{"drops absent identifiers", testutil.Names("sun", "star", "moon"), testutil.Names("sun", "moon")},
		{"drops unknown names", testutil.Names("ghost", "sun"), testutil.Names("sun")},
		{"drops resource exhaustion", testutil.Names("huge", "moon"), testutil.Names("moon")},
		{"drops other resolution errors", testutil.Names("odd", "sun"), testutil.Names("sun")},
		{"empty input", nil, testutil.Names()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := catalog.Validate(tc.input, resolver)
			assert.Equal(t, tc.expected, result)

			// Idempotent
			assert.Equal(t, result, catalog.Validate(result, resolver))
		})
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := testutil.Names("a", "b", "c")
	resolver := testutil.StaticResolver{IDs: map[domain.IconName]domain.IconID{"b": 7}}

	result := catalog.Validate(input, resolver)

	assert.Equal(t, testutil.Names("b"), result)
	assert.Equal(t, testutil.Names("a", "b", "c"), input)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	all := testutil.Names("sun", "moon", "Sunrise")

	tests := []struct {
		name     string
		query    string
		expected []domain.IconName
	}{
		{"empty query is identity", "", all},
		{"case sensitive substring", "sun", testutil.Names("sun")},
		{"matches inside names", "oo", testutil.Names("moon")},
		{"capitalised query", "Sun", testutil.Names("Sunrise")},
		{"no match", "xyz", testutil.Names()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, catalog.Filter(all, tc.query))
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pack := &testutil.MockIconPack{}
	pack.On("ID").Return("testpack")
	pack.On("AllDrawables", mock.Anything).Return(testutil.Names("firefox", "missing", "chrome"), nil)
	pack.On("MatchingDrawables", mock.Anything, "org.mozilla.firefox").Return(testutil.Names("firefox", "firefox_alt"), nil)
	pack.On("Identifier", domain.IconName("firefox")).Return(domain.IconID(1), nil)
	pack.On("Identifier", domain.IconName("chrome")).Return(domain.IconID(2), nil)
	pack.On("Identifier", domain.IconName("missing")).Return(domain.NoIcon, nil)
	pack.On("Identifier", domain.IconName("firefox_alt")).Return(domain.NoIcon, domain.ErrResourceExhausted)

	cat, err := catalog.NewScanner(nil).Scan(ctx, pack, "org.mozilla.firefox")
	require.NoError(t, err)

	assert.Equal(t, testutil.Names("firefox", "chrome"), cat.All())
	assert.Equal(t, testutil.Names("firefox"), cat.Matching())
	pack.AssertExpectations(t)
}

func TestScanner_Scan_ListError(t *testing.T) {
	t.Parallel()

	pack := &testutil.MockIconPack{}
	pack.On("ID").Return("broken")
	pack.On("AllDrawables", mock.Anything).Return(nil, domain.ErrPackNotFound)

	cat, err := catalog.NewScanner(nil).Scan(context.Background(), pack, "org.example")

	require.Error(t, err)
	assert.Nil(t, cat)
	assert.ErrorIs(t, err, domain.ErrPackNotFound)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	t.Parallel()

	cat := catalog.New(testutil.Names("a", "b"), testutil.Names("a"))

	all := cat.All()
	all[0] = "mutated"

	assert.Equal(t, testutil.Names("a", "b"), cat.All())
}
