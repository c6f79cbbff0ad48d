// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain holds the core types and ports shared by the picker.
package domain

import (
	"image"
	"strings"
)

// IconName identifies a candidate icon asset within an icon pack.
type IconName string

// String returns the textual form used for filtering and display.
func (n IconName) String() string {
	return string(n)
}

// IconID is a resolved handle for an IconName.
type IconID int

// NoIcon is the identifier of a name that does not resolve to an asset.
const NoIcon IconID = 0

// Exists reports whether the identifier points at a real asset.
func (id IconID) Exists() bool {
	return id != NoIcon
}

// Section is one of the two groups shown in the picker grid.
type Section int

// Sections in display order.
const (
	SectionMatching Section = iota
	SectionAll
)

func (s Section) String() string {
	switch s {
	case SectionMatching:
		return "matching"
	case SectionAll:
		return "all"
	default:
		return "unknown"
	}
}

// Image is a decoded icon together with its encoded source bytes.
type Image struct {
	Name   IconName
	Format string // "png", "jpeg" or "gif"
	Data   []byte
	Pixels image.Image
}

// Extension returns the file extension for the encoded form.
func (img *Image) Extension() string {
	if img.Format == "jpeg" {
		return ".jpg"
	}

	return "." + img.Format
}

// SelectionContext describes the application whose icon is being replaced.
// It is built once by the launcher and only read afterwards.
type SelectionContext struct {
	AppPackage string
	AppLabel   string
	IconPack   string
}

// Validate checks the launch preconditions.
func (s SelectionContext) Validate() error {
	var missing []string

	if s.AppPackage == "" {
		missing = append(missing, "app package")
	}

	if s.AppLabel == "" {
		missing = append(missing, "app label")
	}

	if s.IconPack == "" {
		missing = append(missing, "icon pack")
	}

	if len(missing) > 0 {
		return &SelectionError{Missing: missing}
	}

	return nil
}

// SelectionError reports which launch parameters were absent.
type SelectionError struct {
	Missing []string
}

func (e *SelectionError) Error() string {
	return "invalid selection: missing " + strings.Join(e.Missing, ", ")
}

// Unwrap lets callers match ErrInvalidSelection.
func (e *SelectionError) Unwrap() error {
	return ErrInvalidSelection
}
