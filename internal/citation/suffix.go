package citation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var trailingMarker = regexp.MustCompile(`\[\d+\]$`)

// AppendCitationSuffix attaches bracketed citation markers like [1][4][7]
// to the end of a body sentence. Existing trailing markers are stripped
// first, so re-applying the same indices is idempotent. If the sentence
// ends with an ideographic full stop the markers are inserted before it.
// Indices are deduplicated and sorted ascending; an empty set leaves the
// text unchanged.
func AppendCitationSuffix(base string, indices []int) string {
	uniq := dedupeSorted(indices)
	if len(uniq) == 0 {
		return base
	}

	text := strings.TrimRight(base, " \t\r\n")

	hasPeriod := strings.HasSuffix(text, "。")
	if hasPeriod {
		text = strings.TrimRight(strings.TrimSuffix(text, "。"), " \t\r\n")
	}

	for {
		loc := trailingMarker.FindStringIndex(text)
		if loc == nil {
			break
		}
		text = strings.TrimRight(text[:loc[0]], " \t\r\n")
	}

	var b strings.Builder
	b.WriteString(text)
	for _, i := range uniq {
		fmt.Fprintf(&b, "[%d]", i)
	}
	if hasPeriod {
		b.WriteString("。")
	}
	return b.String()
}

func dedupeSorted(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	var uniq []int
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			uniq = append(uniq, i)
		}
	}
	sort.Ints(uniq)
	return uniq
}
