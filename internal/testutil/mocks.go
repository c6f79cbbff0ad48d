// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides testify mocks for the domain ports.
package testutil

import (
	"context"

	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockIconPack mocks the IconPack port for testing.
type MockIconPack struct {
	mock.Mock
}

// ID mocks the pack identifier.
func (m *MockIconPack) ID() string {
	args := m.Called()

	return args.String(0)
}

// AllDrawables mocks listing every drawable.
func (m *MockIconPack) AllDrawables(ctx context.Context) ([]domain.IconName, error) {
	args := m.Called(ctx)
	if result := args.Get(0); result != nil {
		res, ok := result.([]domain.IconName)
		if !ok {
			return nil, args.Error(1)
		}

		return res, args.Error(1)
	}

	return nil, args.Error(1)
}

// MatchingDrawables mocks listing matching drawables.
func (m *MockIconPack) MatchingDrawables(ctx context.Context, appPackage string) ([]domain.IconName, error) {
	args := m.Called(ctx, appPackage)
	if result := args.Get(0); result != nil {
		res, ok := result.([]domain.IconName)
		if !ok {
			return nil, args.Error(1)
		}

		return res, args.Error(1)
	}

	return nil, args.Error(1)
}

// Identifier mocks name resolution.
func (m *MockIconPack) Identifier(name domain.IconName) (domain.IconID, error) {
	args := m.Called(name)

	id, ok := args.Get(0).(domain.IconID)
	if !ok {
		return domain.NoIcon, args.Error(1)
	}

	return id, args.Error(1)
}

// Load mocks icon decoding.
func (m *MockIconPack) Load(ctx context.Context, name domain.IconName) (*domain.Image, error) {
	args := m.Called(ctx, name)
	if result := args.Get(0); result != nil {
		res, ok := result.(*domain.Image)
		if !ok {
			return nil, args.Error(1)
		}

		return res, args.Error(1)
	}

	return nil, args.Error(1)
}

// Close mocks releasing the pack.
func (m *MockIconPack) Close() error {
	args := m.Called()

	return args.Error(0)
}

// MockSelectionSink mocks the SelectionSink port for testing.
type MockSelectionSink struct {
	mock.Mock
}

// Commit mocks storing the chosen icon.
func (m *MockSelectionSink) Commit(ctx context.Context, img *domain.Image, sel domain.SelectionContext) error {
	args := m.Called(ctx, img, sel)

	return args.Error(0)
}

// StaticResolver resolves names from a fixed table. Missing names are NoIcon.
type StaticResolver struct {
	IDs    map[domain.IconName]domain.IconID
	Errors map[domain.IconName]error
}

// Identifier implements domain.Resolver.
func (r StaticResolver) Identifier(name domain.IconName) (domain.IconID, error) {
	if err, ok := r.Errors[name]; ok {
		return domain.NoIcon, err
	}

	return r.IDs[name], nil
}

// Names converts strings to icon names.
func Names(names ...string) []domain.IconName {
	result := make([]domain.IconName, 0, len(names))
	for _, n := range names {
		result = append(result, domain.IconName(n))
	}

	return result
}
