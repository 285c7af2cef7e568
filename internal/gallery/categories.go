package gallery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CategoryLatest selects the listing endpoint instead of a search.
const CategoryLatest = "latest"

// Categories is the ordered category bar.
type Categories []string

// Match returns the category best matching input: an exact (case-insensitive)
// name wins, otherwise the closest fuzzy match. ok is false when nothing matches.
func (c Categories) Match(input string) (string, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", false
	}
	for _, name := range c {
		if strings.EqualFold(name, in) {
			return name, true
		}
	}
	ranks := fuzzy.RankFindFold(in, c)
	if len(ranks) == 0 {
		return "", false
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.OriginalIndex < best.OriginalIndex) {
			best = r
		}
	}
	return best.Target, true
}

func (c Categories) Index(name string) int {
	for i, n := range c {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// SearchTerm is what gets sent to the API for a category; latest maps to the listing endpoint.
func SearchTerm(category string) string {
	if strings.EqualFold(strings.TrimSpace(category), CategoryLatest) {
		return ""
	}
	return category
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}
