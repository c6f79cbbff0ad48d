// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package iconpack

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/janderssonse/iconpick/internal/domain"
)

// Resource file locations, checked in order.
var (
	appFilterPaths = []string{"appfilter.xml", "assets/appfilter.xml", "res/xml/appfilter.xml"} //nolint:gochecknoglobals
	drawablePaths  = []string{"drawable.xml", "assets/drawable.xml", "res/xml/drawable.xml"}    //nolint:gochecknoglobals
)

// filterEntry maps an application component to a drawable.
type filterEntry struct {
	Package  string
	Activity string
	Drawable domain.IconName
}

// parseComponent splits "ComponentInfo{pkg/activity}" into its parts.
func parseComponent(component string) (string, string, bool) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(component), "ComponentInfo{")
	if !ok {
		return "", "", false
	}

	inner, ok = strings.CutSuffix(inner, "}")
	if !ok {
		return "", "", false
	}

	pkg, activity, _ := strings.Cut(inner, "/")
	if pkg == "" {
		return "", "", false
	}

	return pkg, activity, true
}

// parseAppFilter reads <item component="..." drawable="..."/> elements.
// Items with an unparsable component or no drawable are skipped.
func parseAppFilter(r io.Reader) ([]filterEntry, error) {
	var entries []filterEntry

	err := walkItems(r, func(attrs map[string]string) {
		drawable := strings.TrimSpace(attrs["drawable"])
		if drawable == "" {
			return
		}

		pkg, activity, ok := parseComponent(attrs["component"])
		if !ok {
			return
		}

		entries = append(entries, filterEntry{
			Package:  pkg,
			Activity: activity,
			Drawable: domain.IconName(drawable),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse appfilter: %w", err)
	}

	return entries, nil
}

// parseDrawables reads <item drawable="..."/> elements in declaration order,
// dropping duplicates. Category elements are ignored.
func parseDrawables(r io.Reader) ([]domain.IconName, error) {
	var names []domain.IconName

	seen := make(map[domain.IconName]bool)

	err := walkItems(r, func(attrs map[string]string) {
		name := domain.IconName(strings.TrimSpace(attrs["drawable"]))
		if name == "" || seen[name] {
			return
		}

		seen[name] = true
		names = append(names, name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse drawable list: %w", err)
	}

	return names, nil
}

// walkItems streams the document and calls fn with the attributes of every <item>.
func walkItems(r io.Reader, fn func(attrs map[string]string)) error {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}

		attrs := make(map[string]string, len(start.Attr))
		for _, attr := range start.Attr {
			attrs[attr.Name.Local] = attr.Value
		}

		fn(attrs)
	}
}
