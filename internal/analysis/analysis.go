// Package analysis builds foreign-literature reports over a pool.
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hekang/thesis-tools/internal/literature"
)

// RecentCount is how many newest foreign items the report highlights.
const RecentCount = 5

// Entry is one reported literature record.
type Entry struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Publication string `json:"publication,omitempty"`
	Year        int    `json:"year,omitempty"`
	Language    string `json:"language,omitempty"`
	DateAdded   string `json:"date_added,omitempty"`
}

// Report summarizes the foreign portion of a literature pool.
type Report struct {
	TotalForeign int     `json:"total_foreign_literature"`
	RecentFive   []Entry `json:"recent_5_foreign"`
	AllForeign   []Entry `json:"all_foreign_literature"`
	AnalysisTime string  `json:"analysis_time"`
}

// IsForeign applies a wider net than the citation classifier: the language
// tag, then Latin-only title or publication, then a Latin first-author
// name. Records passing any probe count as foreign.
func IsForeign(it literature.Item) bool {
	if it.Foreign {
		return true
	}
	if literature.Classify(it.Title, it.PublicationTitle, it.Language) {
		return true
	}
	author := it.FirstAuthor()
	return author != "" && latinOnly(author)
}

func latinOnly(s string) bool {
	hasLatin := false
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			return false
		}
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			hasLatin = true
		}
	}
	return hasLatin
}

// Analyze builds a report over the pool, newest additions first.
func Analyze(pool []literature.Item, now time.Time) Report {
	var foreign []literature.Item
	for _, it := range pool {
		if strings.TrimSpace(it.Title) == "" {
			continue
		}
		if IsForeign(it) {
			foreign = append(foreign, it)
		}
	}

	sort.SliceStable(foreign, func(i, j int) bool {
		return foreign[i].DateAdded > foreign[j].DateAdded
	})

	entries := make([]Entry, len(foreign))
	for i, it := range foreign {
		entries[i] = Entry{
			Key:         it.Key,
			Title:       it.Title,
			Authors:     authorSummary(it),
			Publication: it.PublicationTitle,
			Year:        it.Year,
			Language:    it.Language,
			DateAdded:   it.DateAdded,
		}
	}

	recent := entries
	if len(recent) > RecentCount {
		recent = recent[:RecentCount]
	}

	return Report{
		TotalForeign: len(entries),
		RecentFive:   recent,
		AllForeign:   entries,
		AnalysisTime: now.Format("2006-01-02 15:04:05"),
	}
}

// WriteReport saves a report as indented JSON.
func WriteReport(path string, report any) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func authorSummary(it literature.Item) string {
	var names []string
	for _, c := range it.Creators {
		if name := c.DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
