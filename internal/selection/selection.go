// Package selection picks reference lists from a literature pool under a
// foreign-language quota.
package selection

import (
	"sort"
	"strings"

	"github.com/hekang/thesis-tools/internal/literature"
)

// MaxYear is the newest publication year accepted as plausible. Items dated
// beyond it are treated as data-entry noise and excluded.
const MaxYear = 2025

// Result holds the outcome of one selection run.
type Result struct {
	Selected     []literature.Item
	ForeignCount int
	Shortfall    int // how many short of the target, 0 when met
}

// IsValid reports whether an item is usable as a reference entry. An item
// needs a title that survives normalization and a year that is either
// unknown (0) or within the plausible window. Titles that are nothing but
// whitespace or quote characters are rejected.
func IsValid(it literature.Item) bool {
	if NormalizeTitle(it.Title) == "" {
		return false
	}
	return it.Year <= MaxYear
}

// NormalizeTitle trims whitespace and surrounding quote characters so that
// re-exported records with cosmetic title differences dedupe together.
func NormalizeTitle(title string) string {
	return strings.Trim(strings.TrimSpace(title), `"“”`)
}

// Select picks up to target references, taking every valid foreign item
// first and filling the remainder with domestic items. Titles are deduped
// across both pools, first occurrence wins. Both pools are ordered newest
// year first with descending title as the tie-break, and the combined list
// is truncated to target when all foreign items alone exceed it. Whether
// the foreign floor was met is checked afterwards via MeetsQuota.
func Select(pool []literature.Item, target int) Result {
	var foreign, domestic []literature.Item
	for _, it := range pool {
		if !IsValid(it) {
			continue
		}
		if it.Foreign {
			foreign = append(foreign, it)
		} else {
			domestic = append(domestic, it)
		}
	}

	sortNewestFirst(foreign)
	sortNewestFirst(domestic)

	seen := make(map[string]bool)
	selected := make([]literature.Item, 0, target)
	for _, it := range foreign {
		key := NormalizeTitle(it.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, it)
	}
	foreignCount := len(selected)

	for _, it := range domestic {
		if len(selected) >= target {
			break
		}
		key := NormalizeTitle(it.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, it)
	}

	if len(selected) > target {
		selected = selected[:target]
		foreignCount = target
	}

	shortfall := 0
	if len(selected) < target {
		shortfall = target - len(selected)
	}

	return Result{
		Selected:     selected,
		ForeignCount: foreignCount,
		Shortfall:    shortfall,
	}
}

// MeetsQuota reports whether a result satisfies the foreign minimum.
func (r Result) MeetsQuota(minForeign int) bool {
	return r.ForeignCount >= minForeign
}

// sortNewestFirst orders items by year descending, then title descending.
// The sort is stable so equal items keep their pool order.
func sortNewestFirst(items []literature.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Year != items[j].Year {
			return items[i].Year > items[j].Year
		}
		return items[i].Title > items[j].Title
	})
}

// IndexByTitle maps normalized titles to their 1-based position in a
// reference list, for resolving in-text citation markers.
func IndexByTitle(items []literature.Item) map[string]int {
	index := make(map[string]int, len(items))
	for i, it := range items {
		key := NormalizeTitle(it.Title)
		if _, ok := index[key]; !ok {
			index[key] = i + 1
		}
	}
	return index
}
