// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog builds the validated icon lists shown by the picker.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/stringutil"
)

// Catalog holds the two validated lists for one picker session.
// It is immutable once returned by Scan.
type Catalog struct {
	all      []domain.IconName
	matching []domain.IconName
}

// New creates a catalog from already validated lists.
func New(all, matching []domain.IconName) *Catalog {
	return &Catalog{
		all:      slices.Clone(all),
		matching: slices.Clone(matching),
	}
}

// All returns the full pack inventory.
func (c *Catalog) All() []domain.IconName {
	return slices.Clone(c.all)
}

// Matching returns the icons associated with the target application.
func (c *Catalog) Matching() []domain.IconName {
	return slices.Clone(c.matching)
}

// Scanner lists and validates the drawables of an icon pack.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a scanner. A nil logger discards output.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Scanner{logger: logger}
}

// Scan lists both drawable groups and validates them against the pack.
// This performs bulk name resolution and must not run on the interactive path.
func (s *Scanner) Scan(ctx context.Context, pack domain.IconPack, appPackage string) (*Catalog, error) {
	all, err := pack.AllDrawables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawables of %s: %w", pack.ID(), err)
	}

	matching, err := pack.MatchingDrawables(ctx, appPackage)
	if err != nil {
		return nil, fmt.Errorf("failed to list matching drawables of %s: %w", pack.ID(), err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat := &Catalog{
		all:      s.Validate(all, pack),
		matching: s.Validate(matching, pack),
	}

	s.logger.Info("catalog scanned",
		"pack", pack.ID(),
		"app", appPackage,
		"all", len(cat.all),
		"all_dropped", len(all)-len(cat.all),
		"matching", len(cat.matching),
		"matching_dropped", len(matching)-len(cat.matching))

	return cat, nil
}

// Validate returns the names that resolve to a real asset, in their original order.
// Resolution failures count as absent; the input is not modified.
func (s *Scanner) Validate(names []domain.IconName, resolver domain.Resolver) []domain.IconName {
	valid := make([]domain.IconName, 0, len(names))

	for _, name := range names {
		id, err := resolver.Identifier(name)
		if err != nil {
			if errors.Is(err, domain.ErrResourceExhausted) {
				s.logger.Debug("skipping icon", "name", name, "error", err)
			}

			continue
		}

		if id.Exists() {
			valid = append(valid, name)
		}
	}

	return valid
}

// Validate is a convenience wrapper around a silent Scanner.
func Validate(names []domain.IconName, resolver domain.Resolver) []domain.IconName {
	return NewScanner(nil).Validate(names, resolver)
}

// Filter returns the names containing query, case-sensitively.
// An empty query returns names unchanged.
func Filter(names []domain.IconName, query string) []domain.IconName {
	if query == "" {
		return names
	}

	filtered := make([]domain.IconName, 0, len(names))

	for _, name := range names {
		if stringutil.Contains(name.String(), query) {
			filtered = append(filtered, name)
		}
	}

	return filtered
}
