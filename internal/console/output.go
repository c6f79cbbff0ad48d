// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console formats non-interactive command output.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Output holds the output mode and the streams results are written to.
// Results go to Stdout, diagnostics to Stderr.
type Output struct {
	Verbose bool
	JSON    bool
	Plain   bool

	Stdout io.Writer
	Stderr io.Writer

	tty func() bool
}

// New returns an Output writing to the process streams.
func New() *Output {
	return &Output{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		tty:    func() bool { return IsTTY(os.Stdout.Fd()) },
	}
}

// NewWithWriters returns an Output writing to the given streams.
// Writers are never treated as terminals.
func NewWithWriters(stdout, stderr io.Writer) *Output {
	return &Output{Stdout: stdout, Stderr: stderr, tty: func() bool { return false }}
}

// SetMode configures output mode.
func (o *Output) SetMode(verbose, jsonMode, plain bool) {
	o.Verbose = verbose
	o.JSON = jsonMode
	o.Plain = plain
}

// IsTTY reports whether fd is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd)) // #nosec G115
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return IsTTY(os.Stdin.Fd()) && IsTTY(os.Stdout.Fd())
}

// Bold formats text with bold when in TTY, uppercase when piped.
func (o *Output) Bold(text string) string {
	if o.JSON || o.Plain {
		return text
	}

	// no-color.org
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return text
	}

	if o.tty != nil && o.tty() {
		return "\033[1m" + text + "\033[0m"
	}

	return strings.ToUpper(text)
}

// Header formats section headers consistently.
func (o *Output) Header(text string) string {
	return o.Bold(text)
}

// Progressf writes progress messages to stderr (only if verbose and not JSON/Plain).
func (o *Output) Progressf(format string, args ...any) {
	if o.Verbose && !o.JSON && !o.Plain {
		_, _ = fmt.Fprintf(o.Stderr, format+"\n", args...)
	}
}

// Successf writes success messages to stderr (only if not JSON/Plain).
func (o *Output) Successf(format string, args ...any) {
	if !o.JSON && !o.Plain {
		_, _ = fmt.Fprintf(o.Stderr, "✓ "+format+"\n", args...)
	}
}

// Warningf writes warning messages to stderr.
func (o *Output) Warningf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.Stderr, "warning: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.Stderr, "⚠ "+format+"\n", args...)
	}
}

// Errorf writes error messages to stderr.
func (o *Output) Errorf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.Stderr, "error: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.Stderr, "✗ "+format+"\n", args...)
	}
}

// JSONResult writes a structured result object to stdout.
func (o *Output) JSONResult(status string, data map[string]any) {
	result := map[string]any{"status": status}
	maps.Copy(result, data)

	encoder := json.NewEncoder(o.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(result); err != nil {
		_, _ = fmt.Fprintf(o.Stderr, "error encoding JSON: %v\n", err)
	}
}

// ErrorResult reports err on stderr and, in JSON mode, as a result object.
func (o *Output) ErrorResult(err error, code int) {
	if o.JSON {
		o.JSONResult("error", map[string]any{
			"error": err.Error(),
			"code":  code,
		})
	}

	o.Errorf("%s", err.Error())
}

// PlainList outputs a simple list of items, one per line.
func (o *Output) PlainList(items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintln(o.Stdout, item)
	}
}

// Table writes rows with columns padded to their widest cell.
// Widths are measured in terminal cells.
func (o *Output) Table(rows [][]string) {
	var widths []int

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}

			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		var line strings.Builder

		for i, cell := range row {
			if i == len(row)-1 {
				line.WriteString(cell)

				break
			}

			line.WriteString(runewidth.FillRight(cell, widths[i]))
			line.WriteString("  ")
		}

		_, _ = fmt.Fprintln(o.Stdout, line.String())
	}
}
