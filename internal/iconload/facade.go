// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package iconload resolves icon names to decoded images for display and commit.
package iconload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/janderssonse/iconpick/internal/domain"
)

// Source decodes named icons. domain.IconPack satisfies it.
type Source interface {
	Load(ctx context.Context, name domain.IconName) (*domain.Image, error)
}

// Facade resolves names to images. Failures are logged and reported as nil.
// It is safe for concurrent use.
type Facade struct {
	source Source
	logger *slog.Logger

	mu       sync.Mutex
	capacity int
	cache    map[domain.IconName]*domain.Image
	order    []domain.IconName
}

// Option configures a Facade.
type Option func(*Facade)

// WithCacheSize keeps up to n decoded images. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(f *Facade) {
		f.capacity = max(n, 0)
	}
}

// WithLogger sets the logger used for failed loads.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a facade over source.
func New(source Source, opts ...Option) *Facade {
	f := &Facade{
		source: source,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  make(map[domain.IconName]*domain.Image),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ResolveImage returns the decoded icon, or nil if it cannot be loaded.
func (f *Facade) ResolveImage(ctx context.Context, name domain.IconName) *domain.Image {
	if img := f.cached(name); img != nil {
		return img
	}

	img, err := f.load(ctx, name)

	switch {
	case errors.Is(err, domain.ErrResourceExhausted):
		f.logger.Warn("icon unavailable", "name", name, "error", err)

		return nil
	case err != nil:
		f.logger.Debug("icon not loaded", "name", name, "error", err)

		return nil
	case img == nil:
		return nil
	}

	f.store(name, img)

	return img
}

// load calls the source, turning a decoder panic into resource exhaustion.
func (f *Facade) load(ctx context.Context, name domain.IconName) (img *domain.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("decoding %s panicked: %v: %w", name, r, domain.ErrResourceExhausted)
		}
	}()

	return f.source.Load(ctx, name)
}

func (f *Facade) cached(name domain.IconName) *domain.Image {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cache[name]
}

func (f *Facade) store(name domain.IconName, img *domain.Image) {
	if f.capacity == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.cache[name]; ok {
		return
	}

	if len(f.order) >= f.capacity {
		oldest := f.order[0]
		f.order = f.order[1:]
		delete(f.cache, oldest)
	}

	f.cache[name] = img
	f.order = append(f.order, name)
}

// Len returns the number of cached images.
func (f *Facade) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.cache)
}
