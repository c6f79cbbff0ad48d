// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	upperHalfBlock = "▀"
	// Pixels with lower alpha are drawn as the terminal background.
	opaqueAlpha = 0x8000
)

// RenderHalfBlocks draws img as width terminal cells per line, two pixel
// rows per line. Sampling is nearest-neighbour.
func RenderHalfBlocks(img image.Image, width int) string {
	if img == nil || width <= 0 {
		return ""
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return ""
	}

	// Each line covers two pixel rows.
	pixelRows := max(width*bounds.Dy()/bounds.Dx(), 2)
	lines := (pixelRows + 1) / 2

	sample := func(x, y int) (color.Color, bool) {
		if y >= pixelRows {
			return nil, false
		}

		px := bounds.Min.X + x*bounds.Dx()/width
		py := bounds.Min.Y + y*bounds.Dy()/pixelRows

		c := img.At(px, py)
		if _, _, _, a := c.RGBA(); a < opaqueAlpha {
			return nil, false
		}

		return c, true
	}

	var builder strings.Builder

	for line := range lines {
		if line > 0 {
			builder.WriteByte('\n')
		}

		for x := range width {
			top, topOK := sample(x, line*2)
			bottom, bottomOK := sample(x, line*2+1)

			style := lipgloss.NewStyle()

			switch {
			case topOK && bottomOK:
				style = style.Foreground(hexColor(top)).Background(hexColor(bottom))
			case topOK:
				style = style.Foreground(hexColor(top))
			case bottomOK:
				// Lower half only: swap roles with the inverse glyph.
				builder.WriteString(style.Foreground(hexColor(bottom)).Render("▄"))

				continue
			default:
				builder.WriteByte(' ')

				continue
			}

			builder.WriteString(style.Render(upperHalfBlock))
		}
	}

	return builder.String()
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()

	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
