package analysis

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hekang/thesis-tools/internal/literature"
)

// RecentListCount is how many newest items the recent report lists in
// full.
const RecentListCount = 10

// RecentReport summarizes the pool as a whole: newest additions and the
// year, journal and item-type distributions.
type RecentReport struct {
	TotalItems   int            `json:"total_items"`
	RecentItems  []Entry        `json:"recent_items"`
	ByYear       map[string]int `json:"year_distribution"`
	ByType       map[string]int `json:"type_distribution"`
	ByJournal    map[string]int `json:"journal_distribution"`
	ForeignCount int            `json:"foreign_count"`
	AnalysisTime string         `json:"analysis_time"`
}

// AnalyzeRecent builds the pool-wide report, newest additions first.
func AnalyzeRecent(pool []literature.Item, now time.Time) RecentReport {
	report := RecentReport{
		ByYear:       make(map[string]int),
		ByType:       make(map[string]int),
		ByJournal:    make(map[string]int),
		AnalysisTime: now.Format("2006-01-02 15:04:05"),
	}

	var items []literature.Item
	for _, it := range pool {
		if strings.TrimSpace(it.Title) == "" {
			continue
		}
		items = append(items, it)

		year := "未知"
		if it.Year != 0 {
			year = strconv.Itoa(it.Year)
		}
		report.ByYear[year]++
		itemType := it.ItemType
		if itemType == "" {
			itemType = "unknown"
		}
		report.ByType[itemType]++
		if pub := strings.TrimSpace(it.PublicationTitle); pub != "" {
			report.ByJournal[pub]++
		}
		if IsForeign(it) {
			report.ForeignCount++
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DateAdded > items[j].DateAdded
	})

	report.TotalItems = len(items)
	limit := RecentListCount
	if len(items) < limit {
		limit = len(items)
	}
	for _, it := range items[:limit] {
		report.RecentItems = append(report.RecentItems, Entry{
			Key:         it.Key,
			Title:       it.Title,
			Authors:     authorSummary(it),
			Publication: it.PublicationTitle,
			Year:        it.Year,
			Language:    it.Language,
			DateAdded:   it.DateAdded,
		})
	}
	return report
}
