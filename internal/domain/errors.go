// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"strings"
)

// Common domain errors.
var (
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrIconNotFound      = errors.New("icon not found")
	ErrPackNotFound      = errors.New("icon pack not found")
	ErrInvalidSelection  = errors.New("invalid selection")
)

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

// getErrorMatchers returns sentinel errors and their corresponding info.
func getErrorMatchers() []struct {
	target  error
	getInfo func(string, bool) ErrorInfo
} {
	return []struct {
		target  error
		getInfo func(string, bool) ErrorInfo
	}{
		{
			target: ErrPackNotFound,
			getInfo: func(subject string, verbose bool) ErrorInfo {
				msg := "Icon pack not found"
				if subject != "" {
					msg = "Icon pack '" + subject + "' not found"
				}

				return ErrorInfo{
					Message:     msg,
					Suggestions: []string{"Run 'iconpick packs' to see available packs", "Check --packs-dir"},
					ShowDetails: verbose,
				}
			},
		},
		{
			target: ErrInvalidSelection,
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Missing launch parameters",
					Suggestions: []string{"Pass --app-package, --app-label and --icon-pack"},
					ShowDetails: verbose,
				}
			},
		},
		{
			target: ErrResourceExhausted,
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Icon too large to load",
					Suggestions: []string{"Raise max_icon_bytes or max_icon_pixels in config.toml"},
					ShowDetails: verbose,
				}
			},
		},
		{
			target: ErrIconNotFound,
			getInfo: func(subject string, verbose bool) ErrorInfo {
				msg := "Icon not found"
				if subject != "" {
					msg = "Icon '" + subject + "' not found"
				}

				return ErrorInfo{
					Message:     msg,
					Suggestions: []string{"The icon pack may declare drawables it does not ship"},
					ShowDetails: verbose,
				}
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, subject string, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	for _, matcher := range getErrorMatchers() {
		if errors.Is(err, matcher.target) {
			return matcher.getInfo(subject, verbose)
		}
	}

	// Generic error - show details in verbose mode
	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"Run with --verbose and --log-file for more details"},
		ShowDetails: verbose,
	}
}

// FormatError formats an error for display.
func FormatError(err error, subject string, verbose bool) string {
	info := GetErrorInfo(err, subject, verbose)

	var result strings.Builder

	result.WriteString("✗ ")
	result.WriteString(info.Message)

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	switch {
	case len(info.Suggestions) > 0 && !verbose:
		// In non-verbose mode, just show the first suggestion inline
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	case len(info.Suggestions) > 0:
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
