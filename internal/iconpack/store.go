// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package iconpack

import (
	"cmp"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/klauspost/compress/zip"
)

// entry is one file of an icon pack.
type entry struct {
	path string // slash separated, relative to the pack root
	size int64
}

// store abstracts the pack container: a directory or a zip/APK archive.
type store interface {
	entries() ([]entry, error)
	open(path string) (io.ReadCloser, error)
	close() error
}

// dirStore reads an unpacked icon pack directory.
type dirStore struct {
	root string
	fsys fs.FS
}

func newDirStore(root string) *dirStore {
	return &dirStore{root: root, fsys: os.DirFS(root)}
}

func (d *dirStore) entries() ([]entry, error) {
	var result []entry

	err := fs.WalkDir(d.fsys, ".", func(path string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if dirEntry.IsDir() {
			return nil
		}

		info, err := dirEntry.Info()
		if err != nil {
			return err
		}

		result = append(result, entry{path: path, size: info.Size()})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", d.root, err)
	}

	slices.SortFunc(result, func(a, b entry) int {
		return cmp.Compare(a.path, b.path)
	})

	return result, nil
}

func (d *dirStore) open(path string) (io.ReadCloser, error) {
	// #nosec G304 - path comes from the pack's own file listing
	return d.fsys.Open(path)
}

func (d *dirStore) close() error {
	return nil
}

// zipStore reads an APK or zip icon pack.
type zipStore struct {
	reader *zip.ReadCloser
	files  map[string]*zip.File
}

func newZipStore(path string) (*zipStore, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}

		if _, seen := files[f.Name]; !seen {
			files[f.Name] = f
		}
	}

	return &zipStore{reader: reader, files: files}, nil
}

func (z *zipStore) entries() ([]entry, error) {
	result := make([]entry, 0, len(z.files))
	for name, f := range z.files {
		result = append(result, entry{path: name, size: int64(min(f.UncompressedSize64, 1<<62))})
	}

	slices.SortFunc(result, func(a, b entry) int {
		return cmp.Compare(a.path, b.path)
	})

	return result, nil
}

func (z *zipStore) open(path string) (io.ReadCloser, error) {
	f, ok := z.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}

	return f.Open()
}

func (z *zipStore) close() error {
	return z.reader.Close()
}

