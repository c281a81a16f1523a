package literature

import (
	"regexp"
	"strings"
)

var (
	yearPattern  = regexp.MustCompile(`(19|20)\d{2}`)
	latinPattern = regexp.MustCompile(`[A-Za-z]`)
	cjkPattern   = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
)

// ExtractYear parses a four-digit 19xx/20xx year from a free-text date
// string. Returns 0 if no such token is present.
func ExtractYear(date string) int {
	match := yearPattern.FindString(date)
	if match == "" {
		return 0
	}
	year := 0
	for _, r := range match {
		year = year*10 + int(r-'0')
	}
	return year
}

// Classify reports whether a record reads as foreign-language literature.
// The language tag wins when it starts with "en"; otherwise the title and
// then the publication name are checked for Latin letters with no CJK
// characters. This is a surface heuristic with no ground truth upstream.
func Classify(title, publication, language string) bool {
	lang := strings.ToLower(strings.TrimSpace(language))
	if strings.HasPrefix(lang, "en") {
		return true
	}
	if latinNoCJK(title) {
		return true
	}
	return latinNoCJK(publication)
}

// latinNoCJK reports whether s contains at least one Latin letter and no
// CJK characters.
func latinNoCJK(s string) bool {
	return latinPattern.MatchString(s) && !cjkPattern.MatchString(s)
}
