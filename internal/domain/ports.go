// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
)

// IconPack defines the operations the picker needs from an icon pack.
// Implemented by adapters for directory and archive packs.
type IconPack interface {
	// ID returns the pack identifier.
	ID() string

	// AllDrawables returns every drawable the pack declares, in scan order.
	AllDrawables(ctx context.Context) ([]IconName, error)

	// MatchingDrawables returns drawables heuristically associated with an application package.
	MatchingDrawables(ctx context.Context, appPackage string) ([]IconName, error)

	// Identifier resolves a name. NoIcon means the asset does not exist.
	Identifier(name IconName) (IconID, error)

	// Load decodes the named icon.
	Load(ctx context.Context, name IconName) (*Image, error)

	// Close releases any resources held by the pack.
	Close() error
}

// Resolver resolves icon names to identifiers.
type Resolver interface {
	Identifier(name IconName) (IconID, error)
}

// SelectionSink receives the icon chosen by the user.
type SelectionSink interface {
	// Commit stores img as the custom icon for the selected application.
	Commit(ctx context.Context, img *Image, sel SelectionContext) error
}
