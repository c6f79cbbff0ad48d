// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/janderssonse/iconpick/internal/tui/styles"
)

const helpWrap = 72

// HelpOverlay shows the key bindings and a short guide as rendered markdown.
type HelpOverlay struct {
	styles   *styles.Styles
	viewport viewport.Model
	markdown string
	visible  bool
}

// NewHelpOverlay renders the help document for keys.
func NewHelpOverlay(st *styles.Styles, keys KeyMap, theme string) *HelpOverlay {
	doc := helpMarkdown(keys)

	style := glamour.WithStandardStyle(styles.Dark)
	if theme == styles.Light {
		style = glamour.WithStandardStyle(styles.Light)
	}

	rendered := doc

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(helpWrap))
	if err == nil {
		if out, renderErr := renderer.Render(doc); renderErr == nil {
			rendered = out
		}
	}

	vp := viewport.New(helpWrap+4, 20)
	vp.Style = st.Preview
	vp.SetContent(rendered)

	return &HelpOverlay{styles: st, viewport: vp, markdown: doc}
}

// Toggle shows or hides the overlay.
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
	h.viewport.GotoTop()
}

// Visible reports whether the overlay is shown.
func (h *HelpOverlay) Visible() bool {
	return h.visible
}

// Markdown returns the unrendered help document.
func (h *HelpOverlay) Markdown() string {
	return h.markdown
}

// SetSize fits the overlay into the window.
func (h *HelpOverlay) SetSize(width, height int) {
	h.viewport.Width = min(helpWrap+4, max(width-2, 10))
	h.viewport.Height = max(height-4, 3)
}

// Update scrolls the overlay.
func (h *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	h.viewport, cmd = h.viewport.Update(msg)

	return cmd
}

// View renders the overlay.
func (h *HelpOverlay) View() string {
	return h.viewport.View() + "\n" + h.styles.MutedText.Render("? or esc to close")
}

func helpMarkdown(keys KeyMap) string {
	var b strings.Builder

	b.WriteString("# Choosing an icon\n\n")
	b.WriteString("Icons the pack maps to this application are listed first under **Matching icons**. ")
	b.WriteString("Every icon in the pack follows under **All icons**.\n\n")
	b.WriteString("Filtering keeps icons whose name contains the typed text. ")
	b.WriteString("The match is case sensitive.\n\n")
	b.WriteString("## Keys\n\n")
	b.WriteString("| Key | Action |\n|-----|--------|\n")

	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			writeBinding(&b, binding)
		}
	}

	return b.String()
}

func writeBinding(b *strings.Builder, binding key.Binding) {
	h := binding.Help()
	if h.Key == "" {
		return
	}

	fmt.Fprintf(b, "| `%s` | %s |\n", h.Key, h.Desc)
}
