// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package stringutil

import "testing"

func TestContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		substr   string
		expected bool
	}{
		{"sun", "sun", true},
		{"Sunrise", "sun", false},
		{"ic_sunrise", "sun", true},
		{"", "", true},
		{"moon", "", true},
		{"", "moon", false},
	}

	for _, tt := range tests {
		result := Contains(tt.text, tt.substr)
		if result != tt.expected {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.text, tt.substr, result, tt.expected)
		}
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		substr   string
		expected bool
	}{
		{"Firefox", "firefox", true},
		{"org_mozilla_firefox", "FIREFOX", true},
		{"Firefox", "chrome", false},
		{"", "", true},
	}

	for _, tt := range tests {
		result := ContainsIgnoreCase(tt.text, tt.substr)
		if result != tt.expected {
			t.Errorf("ContainsIgnoreCase(%q, %q) = %v, want %v", tt.text, tt.substr, result, tt.expected)
		}
	}
}

func TestLastSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		sep      string
		expected string
	}{
		{"org.mozilla.firefox", ".", "firefox"},
		{"firefox", ".", "firefox"},
		{"org.mozilla.", ".", ""},
		{"", ".", ""},
	}

	for _, tt := range tests {
		result := LastSegment(tt.text, tt.sep)
		if result != tt.expected {
			t.Errorf("LastSegment(%q, %q) = %q, want %q", tt.text, tt.sep, result, tt.expected)
		}
	}
}
