// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stringutil provides string utility functions for iconpick.
package stringutil

import "strings"

// Contains checks if text contains substr (case-sensitive).
// This is a wrapper around strings.Contains for consistency.
func Contains(text, substr string) bool {
	return strings.Contains(text, substr)
}

// ContainsIgnoreCase checks if text contains substr (case-insensitive).
func ContainsIgnoreCase(text, substr string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(substr))
}

// LastSegment returns the part of s after the final sep, or s itself.
func LastSegment(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[i+len(sep):]
	}

	return s
}
