// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"testing"

	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconID_Exists(t *testing.T) {
	t.Parallel()

	assert.False(t, domain.NoIcon.Exists())
	assert.True(t, domain.IconID(7).Exists())
}

func TestSection_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "matching", domain.SectionMatching.String())
	assert.Equal(t, "all", domain.SectionAll.String())
	assert.Equal(t, "unknown", domain.Section(9).String())
}

func TestImage_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".png", (&domain.Image{Format: "png"}).Extension())
	assert.Equal(t, ".jpg", (&domain.Image{Format: "jpeg"}).Extension())
	assert.Equal(t, ".gif", (&domain.Image{Format: "gif"}).Extension())
}

func TestSelectionContext_Validate(t *testing.T) {
	t.Parallel()

	complete := domain.SelectionContext{AppPackage: "org.mozilla.firefox", AppLabel: "Firefox", IconPack: "lawnicons"}
	require.NoError(t, complete.Validate())

	err := domain.SelectionContext{AppPackage: "org.mozilla.firefox"}.Validate()
	require.ErrorIs(t, err, domain.ErrInvalidSelection)

	var selErr *domain.SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, []string{"app label", "icon pack"}, selErr.Missing)
	assert.Equal(t, "invalid selection: missing app label, icon pack", err.Error())
}
