// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package iconpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/janderssonse/iconpick/internal/domain"
)

// Location is an icon pack found on disk.
type Location struct {
	ID      string
	Path    string
	Archive bool
}

// Discover lists the icon packs in dir: sub-directories and .apk/.zip files.
// A missing dir yields no packs.
func Discover(dir string) ([]Location, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read packs directory: %w", err)
	}

	var packs []Location

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}

		full := filepath.Join(dir, e.Name())

		switch ext := strings.ToLower(filepath.Ext(e.Name())); {
		case e.IsDir():
			packs = append(packs, Location{ID: e.Name(), Path: full})
		case ext == ".apk" || ext == ".zip":
			packs = append(packs, Location{ID: PackID(full), Path: full, Archive: true})
		}
	}

	slices.SortFunc(packs, func(a, b Location) int {
		return strings.Compare(a.ID, b.ID)
	})

	return packs, nil
}

// Find returns the pack with the given identifier from dir.
func Find(dir, id string) (Location, error) {
	packs, err := Discover(dir)
	if err != nil {
		return Location{}, err
	}

	for _, pack := range packs {
		if pack.ID == id {
			return pack, nil
		}
	}

	return Location{}, fmt.Errorf("%s in %s: %w", id, dir, domain.ErrPackNotFound)
}
