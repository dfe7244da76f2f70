package matching

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Thresholds used when nothing else is configured
const (
	DefaultListThreshold      = 0.3
	DefaultBestGuessThreshold = 0.5
)

const (
	prefixBase        = 0.9
	prefixSpan        = 0.1
	reversePrefixCost = 0.8
	distanceScale     = 0.7
)

// Normalize folds case, composes to NFC, trims and collapses whitespace.
// A Caser keeps state, so each call builds its own.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// Score returns a confidence in [0,1] that search names target
func Score(search, target string) float64 {
	s, t := Normalize(search), Normalize(target)
	if s == t {
		return 1.0
	}
	if s == "" || t == "" {
		return 0
	}

	sLen, tLen := utf8.RuneCountInString(s), utf8.RuneCountInString(t)
	if strings.HasPrefix(t, s) {
		return prefixBase + float64(sLen)/float64(tLen)*prefixSpan
	}
	if strings.HasPrefix(s, t) {
		return reversePrefixCost
	}

	maxLen := max(sLen, tLen)
	return (1 - float64(Levenshtein(s, t))/float64(maxLen)) * distanceScale
}

// IsExact reports whether the names are equal after normalization
func IsExact(search, target string) bool {
	return Normalize(search) == Normalize(target)
}

// IsPrefix reports whether target starts with search after normalization
func IsPrefix(search, target string) bool {
	s := Normalize(search)
	return s != "" && strings.HasPrefix(Normalize(target), s)
}

// Scored pairs an item with its score
type Scored[T any] struct {
	Item  T
	Score float64
}

// Rank scores every item's label against search, drops those below
// threshold and orders the rest by score descending, then label ascending.
func Rank[T any](search string, items []T, label func(T) string, threshold float64) []Scored[T] {
	ranked := make([]Scored[T], 0, len(items))
	for _, item := range items {
		score := Score(search, label(item))
		if score < threshold {
			continue
		}
		ranked = append(ranked, Scored[T]{Item: item, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return Normalize(label(ranked[i].Item)) < Normalize(label(ranked[j].Item))
	})

	return ranked
}
