// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package iconpack reads launcher icon packs from directories and APK/zip archives.
package iconpack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	// Registered decoders for icon images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/stringutil"
)

// Default resource limits.
const (
	DefaultMaxBytes  = 4 << 20 // 4 MiB per icon file
	DefaultMaxPixels = 1024 * 1024
)

// imageExtensions lists the icon file types a pack may ship.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"} //nolint:gochecknoglobals

// Options tunes resource limits and logging.
type Options struct {
	MaxBytes  int64
	MaxPixels int
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}

	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}

// Pack implements domain.IconPack over a directory or archive.
type Pack struct {
	id    string
	store store
	opts  Options

	indexOnce sync.Once
	indexErr  error
	files     []entry                 // image files, first occurrence per name
	ids       map[domain.IconName]int // name -> index into files
	appFilter []filterEntry
	declared  []domain.IconName // drawable.xml order
}

// Open opens the pack at path, choosing the container from the file type.
func Open(path string, opts Options) (*Pack, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrPackNotFound)
		}

		return nil, fmt.Errorf("failed to stat icon pack: %w", err)
	}

	if info.IsDir() {
		return OpenDir(path, opts), nil
	}

	return OpenArchive(path, opts)
}

// OpenDir opens an unpacked icon pack directory.
func OpenDir(dir string, opts Options) *Pack {
	return &Pack{id: PackID(dir), store: newDirStore(dir), opts: opts.withDefaults()}
}

// OpenArchive opens an APK or zip icon pack.
func OpenArchive(file string, opts Options) (*Pack, error) {
	zs, err := newZipStore(file)
	if err != nil {
		return nil, err
	}

	return &Pack{id: PackID(file), store: zs, opts: opts.withDefaults()}, nil
}

// PackID derives the pack identifier from its path.
func PackID(p string) string {
	base := filepath.Base(p)
	ext := strings.ToLower(filepath.Ext(base))

	if ext == ".apk" || ext == ".zip" {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}

	return base
}

// ID returns the pack identifier.
func (p *Pack) ID() string {
	return p.id
}

// Close releases the underlying archive.
func (p *Pack) Close() error {
	return p.store.close()
}

// index lists the pack once and parses its resource files.
func (p *Pack) index() error {
	p.indexOnce.Do(func() {
		p.indexErr = p.buildIndex()
	})

	return p.indexErr
}

func (p *Pack) buildIndex() error {
	entries, err := p.store.entries()
	if err != nil {
		return err
	}

	p.ids = make(map[domain.IconName]int)

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.path] = true

		name, ok := imageName(e.path)
		if !ok {
			continue
		}

		if _, dup := p.ids[name]; dup {
			continue
		}

		p.ids[name] = len(p.files)
		p.files = append(p.files, e)
	}

	if file, ok := firstPresent(present, appFilterPaths); ok {
		p.appFilter, err = readWith(p.store, file, parseAppFilter)
		if err != nil {
			p.opts.Logger.Warn("ignoring appfilter", "pack", p.id, "error", err)
		}
	}

	if file, ok := firstPresent(present, drawablePaths); ok {
		p.declared, err = readWith(p.store, file, parseDrawables)
		if err != nil {
			p.opts.Logger.Warn("ignoring drawable list", "pack", p.id, "error", err)
		}
	}

	p.opts.Logger.Debug("indexed icon pack",
		"pack", p.id, "images", len(p.files), "appfilter", len(p.appFilter), "declared", len(p.declared))

	return nil
}

// AllDrawables returns the declared drawables, falling back to the appfilter
// drawables and finally to the image files themselves.
func (p *Pack) AllDrawables(ctx context.Context) ([]domain.IconName, error) {
	if err := p.index(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(p.declared) > 0 {
		return append([]domain.IconName(nil), p.declared...), nil
	}

	names := newNameSet()

	if len(p.appFilter) > 0 {
		for _, fe := range p.appFilter {
			names.add(fe.Drawable)
		}

		return names.list, nil
	}

	for _, f := range p.files {
		name, _ := imageName(f.path)
		names.add(name)
	}

	return names.list, nil
}

// MatchingDrawables returns the appfilter drawables mapped to appPackage,
// then drawables whose name contains the package's last segment.
func (p *Pack) MatchingDrawables(ctx context.Context, appPackage string) ([]domain.IconName, error) {
	if err := p.index(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := newNameSet()

	for _, fe := range p.appFilter {
		if fe.Package == appPackage {
			names.add(fe.Drawable)
		}
	}

	all, err := p.AllDrawables(ctx)
	if err != nil {
		return nil, err
	}

	for _, token := range matchTokens(appPackage) {
		for _, name := range all {
			if stringutil.ContainsIgnoreCase(name.String(), token) {
				names.add(name)
			}
		}
	}

	return names.list, nil
}

// matchTokens derives search tokens from a package identifier.
// "com.foo.bar_baz" yields "bar_baz" and "com_foo_bar_baz".
func matchTokens(appPackage string) []string {
	appPackage = strings.TrimSpace(appPackage)
	if appPackage == "" {
		return nil
	}

	tokens := []string{}

	// Very short segments ("a", "tv") match far too much to be useful.
	if last := stringutil.LastSegment(appPackage, "."); len(last) >= 3 {
		tokens = append(tokens, last)
	}

	if underscored := strings.ReplaceAll(appPackage, ".", "_"); underscored != appPackage {
		tokens = append(tokens, underscored)
	}

	return tokens
}

// Identifier resolves a name to a 1-based index into the image table.
func (p *Pack) Identifier(name domain.IconName) (domain.IconID, error) {
	if err := p.index(); err != nil {
		return domain.NoIcon, err
	}

	idx, ok := p.ids[name]
	if !ok {
		return domain.NoIcon, nil
	}

	if p.files[idx].size > p.opts.MaxBytes {
		return domain.NoIcon, fmt.Errorf("%s is %d bytes: %w", name, p.files[idx].size, domain.ErrResourceExhausted)
	}

	return domain.IconID(idx + 1), nil
}

// Load decodes the named icon within the configured resource limits.
func (p *Pack) Load(ctx context.Context, name domain.IconName) (*domain.Image, error) {
	if _, err := p.Identifier(name); err != nil {
		return nil, err
	}

	idx, ok := p.ids[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrIconNotFound)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := p.read(p.files[idx].path)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", name, err)
	}

	if cfg.Width*cfg.Height > p.opts.MaxPixels {
		return nil, fmt.Errorf("%s is %dx%d: %w", name, cfg.Width, cfg.Height, domain.ErrResourceExhausted)
	}

	pixels, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	return &domain.Image{Name: name, Format: format, Data: data, Pixels: pixels}, nil
}

func (p *Pack) read(file string) ([]byte, error) {
	rc, err := p.store.open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, p.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	if int64(len(data)) > p.opts.MaxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", file, p.opts.MaxBytes, domain.ErrResourceExhausted)
	}

	return data, nil
}

// imageName returns the drawable name for an image file path.
func imageName(p string) (domain.IconName, bool) {
	ext := strings.ToLower(path.Ext(p))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return domain.IconName(strings.TrimSuffix(path.Base(p), path.Ext(p))), true
		}
	}

	return "", false
}

func firstPresent(present map[string]bool, candidates []string) (string, bool) {
	for _, c := range candidates {
		if present[c] {
			return c, true
		}
	}

	return "", false
}

func readWith[T any](s store, file string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	rc, err := s.open(file)
	if err != nil {
		return zero, err
	}
	defer rc.Close()

	return parse(rc)
}

// nameSet is an insertion-ordered set of icon names.
type nameSet struct {
	seen map[domain.IconName]bool
	list []domain.IconName
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[domain.IconName]bool), list: []domain.IconName{}}
}

func (s *nameSet) add(name domain.IconName) {
	if name == "" || s.seen[name] {
		return
	}

	s.seen[name] = true
	s.list = append(s.list, name)
}
