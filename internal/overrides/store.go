// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package overrides persists the custom icons chosen by the user.
//
// Layout under the data directory:
//
//	overrides.toml        one table per application package
//	icons/<package>.<ext> the encoded icon bytes
package overrides

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// ErrNoOverride is returned when a package has no stored override.
var ErrNoOverride = errors.New("no override for package")

const (
	indexFile = "overrides.toml"
	lockFile  = "overrides.lock"
	iconsDir  = "icons"

	lockRetry = 50 * time.Millisecond
)

// Override is one committed icon choice.
type Override struct {
	Package   string    `toml:"package"`
	Label     string    `toml:"label"`
	IconPack  string    `toml:"icon_pack"`
	Icon      string    `toml:"icon"`
	File      string    `toml:"file"`
	Format    string    `toml:"format"`
	UpdatedAt time.Time `toml:"updated_at"`
}

type index struct {
	Overrides map[string]Override `toml:"overrides"`
}

// Store implements domain.SelectionSink on the local filesystem.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store rooted at dir. A nil logger discards output.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{dir: dir, logger: logger, now: time.Now}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Commit writes img as the custom icon for sel.AppPackage.
func (s *Store) Commit(ctx context.Context, img *domain.Image, sel domain.SelectionContext) error {
	if img == nil || len(img.Data) == 0 {
		return fmt.Errorf("commit for %s: %w", sel.AppPackage, domain.ErrIconNotFound)
	}

	if sel.AppPackage == "" {
		return fmt.Errorf("commit without app package: %w", domain.ErrInvalidSelection)
	}

	return s.withLock(ctx, func() error {
		idx, err := s.readIndex()
		if err != nil {
			return err
		}

		rel := filepath.Join(iconsDir, fileName(sel.AppPackage)+img.Extension())
		prev := idx.Overrides[sel.AppPackage]

		if err := writeAtomic(filepath.Join(s.dir, rel), img.Data); err != nil {
			return fmt.Errorf("failed to write icon: %w", err)
		}

		idx.Overrides[sel.AppPackage] = Override{
			Package:   sel.AppPackage,
			Label:     sel.AppLabel,
			IconPack:  sel.IconPack,
			Icon:      img.Name.String(),
			File:      rel,
			Format:    img.Format,
			UpdatedAt: s.now().UTC().Truncate(time.Second),
		}

		if err := s.writeIndex(idx); err != nil {
			if prev.File != rel {
				s.removeFile(rel)
			}

			return err
		}

		// The old icon goes only once the index no longer names it.
		if prev.File != rel {
			s.removeFile(prev.File)
		}

		s.logger.Info("override committed",
			"package", sel.AppPackage, "pack", sel.IconPack, "icon", img.Name, "file", rel)

		return nil
	})
}

// List returns all overrides sorted by package.
func (s *Store) List() ([]Override, error) {
	idx, err := s.readIndex()
	if err != nil {
		return nil, err
	}

	result := make([]Override, 0, len(idx.Overrides))
	for _, o := range idx.Overrides {
		result = append(result, o)
	}

	slices.SortFunc(result, func(a, b Override) int {
		return strings.Compare(a.Package, b.Package)
	})

	return result, nil
}

// Get returns the override for pkg.
func (s *Store) Get(pkg string) (Override, error) {
	idx, err := s.readIndex()
	if err != nil {
		return Override{}, err
	}

	o, ok := idx.Overrides[pkg]
	if !ok {
		return Override{}, fmt.Errorf("%s: %w", pkg, ErrNoOverride)
	}

	return o, nil
}

// IconPath returns the absolute path of an override's icon file.
func (s *Store) IconPath(o Override) string {
	return filepath.Join(s.dir, o.File)
}

// Remove deletes the override for pkg and its icon file.
func (s *Store) Remove(ctx context.Context, pkg string) error {
	return s.withLock(ctx, func() error {
		idx, err := s.readIndex()
		if err != nil {
			return err
		}

		o, ok := idx.Overrides[pkg]
		if !ok {
			return fmt.Errorf("%s: %w", pkg, ErrNoOverride)
		}

		delete(idx.Overrides, pkg)

		if err := s.writeIndex(idx); err != nil {
			return err
		}

		s.removeFile(o.File)
		s.logger.Info("override removed", "package", pkg)

		return nil
	})
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil { // #nosec G301
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	lock := flock.New(filepath.Join(s.dir, lockFile))

	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("failed to lock override store: %w", err)
	}

	if !locked {
		return fmt.Errorf("override store is locked: %w", context.DeadlineExceeded)
	}

	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			s.logger.Warn("failed to release override lock", "error", unlockErr)
		}
	}()

	return fn()
}

func (s *Store) readIndex() (*index, error) {
	idx := &index{Overrides: make(map[string]Override)}

	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}

		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}

	if err := toml.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("failed to parse overrides: %w", err)
	}

	if idx.Overrides == nil {
		idx.Overrides = make(map[string]Override)
	}

	return idx, nil
}

func (s *Store) writeIndex(idx *index) error {
	data, err := toml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode overrides: %w", err)
	}

	if err := writeAtomic(filepath.Join(s.dir, indexFile), data); err != nil {
		return fmt.Errorf("failed to write overrides: %w", err)
	}

	return nil
}

func (s *Store) removeFile(rel string) {
	if rel == "" {
		return
	}

	if err := os.Remove(filepath.Join(s.dir, rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove icon file", "file", rel, "error", err)
	}
}

// writeAtomic writes data to a temporary file and renames it into place.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	return os.Rename(tmp.Name(), path)
}

// fileName maps a package identifier to a safe file name.
func fileName(pkg string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, pkg)
}
