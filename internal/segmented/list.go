// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package segmented builds the flattened, header-segmented icon list.
//
// A List is rebuilt from scratch on every filter change. Positions are only
// meaningful for the List that produced them.
package segmented

import (
	"slices"

	"github.com/janderssonse/iconpick/internal/catalog"
	"github.com/janderssonse/iconpick/internal/domain"
)

// SlotKind distinguishes header slots from icon slots.
type SlotKind int

// Slot kinds.
const (
	KindInvalid SlotKind = iota
	KindHeader
	KindIcon
)

// Slot is one position of a List.
type Slot struct {
	Kind    SlotKind
	Section domain.Section
	Name    domain.IconName // empty for headers
	Index   int             // index within the section's items, -1 for headers
}

// IsHeader reports whether the slot is a section header.
func (s Slot) IsHeader() bool {
	return s.Kind == KindHeader
}

// section is one contiguous run of the flattened list.
type section struct {
	id    domain.Section
	start int // position of the header
	items []domain.IconName
}

func (s section) length() int {
	return 1 + len(s.items)
}

// List is an immutable segmented view: Matching section first, then All.
type List struct {
	query    string
	sections []section
	length   int
}

// Build assembles the segmented list for query.
//
// The Matching section is omitted when it has no items. The All header is
// always present for an empty query; under a non-empty query a section whose
// filtered items are empty loses its header.
func Build(all, matching []domain.IconName, query string) *List {
	filteredAll := catalog.Filter(all, query)
	filteredMatching := catalog.Filter(matching, query)

	list := &List{query: query}

	if len(filteredMatching) > 0 {
		list.add(domain.SectionMatching, filteredMatching)
	}

	if len(filteredAll) > 0 || query == "" {
		list.add(domain.SectionAll, filteredAll)
	}

	return list
}

func (l *List) add(id domain.Section, items []domain.IconName) {
	sec := section{
		id:    id,
		start: l.length,
		items: slices.Clone(items),
	}

	l.sections = append(l.sections, sec)
	l.length += sec.length()
}

// Len returns the number of positions, headers included.
func (l *List) Len() int {
	return l.length
}

// Query returns the filter the list was built with.
func (l *List) Query() string {
	return l.query
}

// IsEmpty reports whether the list holds no icon slots.
func (l *List) IsEmpty() bool {
	for _, sec := range l.sections {
		if len(sec.items) > 0 {
			return false
		}
	}

	return true
}

// Slot maps an absolute position to its header or icon slot.
// Out-of-range positions yield a Slot with KindInvalid.
func (l *List) Slot(pos int) Slot {
	if pos < 0 || pos >= l.length {
		return Slot{Kind: KindInvalid, Index: -1}
	}

	for _, sec := range l.sections {
		end := sec.start + sec.length()
		if pos >= end {
			continue
		}

		if pos == sec.start {
			return Slot{Kind: KindHeader, Section: sec.id, Index: -1}
		}

		idx := pos - sec.start - 1

		return Slot{Kind: KindIcon, Section: sec.id, Name: sec.items[idx], Index: idx}
	}

	return Slot{Kind: KindInvalid, Index: -1}
}

// Slots returns every slot in position order.
func (l *List) Slots() []Slot {
	slots := make([]Slot, 0, l.length)
	for pos := range l.length {
		slots = append(slots, l.Slot(pos))
	}

	return slots
}

// Boundaries returns the header positions in order.
func (l *List) Boundaries() []int {
	bounds := make([]int, 0, len(l.sections))
	for _, sec := range l.sections {
		bounds = append(bounds, sec.start)
	}

	return bounds
}

// HasSection reports whether a section header is present.
func (l *List) HasSection(id domain.Section) bool {
	for _, sec := range l.sections {
		if sec.id == id {
			return true
		}
	}

	return false
}

// Names returns the visible items of a section.
func (l *List) Names(id domain.Section) []domain.IconName {
	for _, sec := range l.sections {
		if sec.id == id {
			return slices.Clone(sec.items)
		}
	}

	return nil
}

// Equal reports whether two lists are identical position for position.
func (l *List) Equal(other *List) bool {
	if l == nil || other == nil {
		return l == other
	}

	return l.length == other.length && slices.Equal(l.Slots(), other.Slots())
}
