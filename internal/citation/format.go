// Package citation renders numbered reference entries and in-text citation
// markers in Chinese (GB/T 7714 style) and Western conventions.
package citation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hekang/thesis-tools/internal/literature"
)

// MaxNamedAuthors is the number of creators listed before the remainder is
// collapsed into an "et al." / "等" suffix.
const MaxNamedAuthors = 3

// typeMarkers maps Zotero item types to GB/T bracket codes.
var typeMarkers = map[string]string{
	"journalArticle":  "[J]",
	"thesis":          "[D]",
	"conferencePaper": "[C]",
	"book":            "[M]",
}

// TypeMarker returns the bracket code for an item type, defaulting to the
// journal-article code for anything unrecognized.
func TypeMarker(itemType string) string {
	if code, ok := typeMarkers[itemType]; ok {
		return code
	}
	return "[J]"
}

// BuildAuthorString joins creator names with locale-appropriate separators.
// At most MaxNamedAuthors names appear; extra creators collapse into a
// locale-specific suffix.
func BuildAuthorString(creators []literature.Creator, foreign bool) string {
	var names []string
	for _, c := range creators {
		if name := strings.TrimSpace(c.DisplayName()); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}

	sep, suffix := "，", " 等"
	if foreign {
		sep, suffix = ", ", " et al."
	}

	if len(names) <= MaxNamedAuthors {
		return strings.Join(names, sep)
	}
	return strings.Join(names[:MaxNamedAuthors], sep) + suffix
}

// FormatReference renders an item as a numbered reference entry. It is a
// pure function: identical (item, index) inputs always yield identical
// output. Empty trailing fields are elided without dangling punctuation.
//
// Foreign:  [3] Smith J, Lee K. Some Title [J]. Journal, 2023, 12(3): 45-67.
// Domestic: [3] 张三，李四. 某标题[J]. 某期刊, 2023, 12(3): 45-67.
func FormatReference(item literature.Item, index int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] ", index)

	if authors := BuildAuthorString(item.Creators, item.Foreign); authors != "" {
		b.WriteString(authors)
		b.WriteString(". ")
	}

	title := strings.TrimSpace(item.Title)
	code := TypeMarker(item.ItemType)
	if title != "" {
		b.WriteString(title)
		if item.Foreign {
			b.WriteString(" ")
		}
		b.WriteString(code)
		b.WriteString(". ")
	}

	var tail []string
	if pub := strings.TrimSpace(item.PublicationTitle); pub != "" {
		tail = append(tail, pub)
	}
	if item.Year != 0 {
		tail = append(tail, strconv.Itoa(item.Year))
	}
	if seg := volumeSegment(item); seg != "" {
		tail = append(tail, seg)
	}
	if len(tail) > 0 {
		b.WriteString(strings.Join(tail, ", "))
		b.WriteString(".")
	}

	return strings.TrimSpace(b.String())
}

// volumeSegment renders the volume(issue): pages portion, eliding whatever
// is missing.
func volumeSegment(item literature.Item) string {
	volume := strings.TrimSpace(item.Volume)
	issue := strings.TrimSpace(item.Issue)
	pages := strings.TrimSpace(item.Pages)

	seg := volume
	if volume != "" && issue != "" {
		seg = volume + "(" + issue + ")"
	}
	switch {
	case seg != "" && pages != "":
		return seg + ": " + pages
	case seg != "":
		return seg
	default:
		return pages
	}
}
