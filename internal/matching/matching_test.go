package matching_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/creature-import/internal/matching"
)

type MatchingTestSuite struct {
	suite.Suite
}

func TestMatchingTestSuite(t *testing.T) {
	suite.Run(t, new(MatchingTestSuite))
}

var sampleNames = []string{
	"",
	"a",
	"Iron Grip",
	"Whirlwind Strike",
	"Feuerball",
	"Ärger der Götter",
	"Schattenmantel",
}

func (s *MatchingTestSuite) TestLevenshtein() {
	testCases := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "identical", a: "grip", b: "grip", expected: 0},
		{name: "classic", a: "kitten", b: "sitting", expected: 3},
		{name: "empty left", a: "", b: "abc", expected: 3},
		{name: "empty right", a: "abc", b: "", expected: 3},
		{name: "transposition costs two", a: "frost", b: "forst", expected: 2},
		{name: "runes not bytes", a: "götter", b: "gotter", expected: 1},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, matching.Levenshtein(tc.a, tc.b))
		})
	}
}

func (s *MatchingTestSuite) TestLevenshteinSymmetry() {
	for _, a := range sampleNames {
		s.Equal(0, matching.Levenshtein(a, a), a)
		for _, b := range sampleNames {
			s.Equal(matching.Levenshtein(a, b), matching.Levenshtein(b, a), "%q/%q", a, b)
		}
	}
}

func (s *MatchingTestSuite) TestScoreSelfIsOne() {
	for _, name := range sampleNames {
		s.Equal(1.0, matching.Score(name, name), name)
	}
}

func (s *MatchingTestSuite) TestScorePrefixBand() {
	for _, target := range sampleNames {
		runes := []rune(target)
		for i := 1; i < len(runes); i++ {
			search := string(runes[:i])
			if matching.Normalize(search) == matching.Normalize(target) {
				continue
			}
			score := matching.Score(search, target)
			s.GreaterOrEqual(score, 0.9, "%q/%q", search, target)
			s.Less(score, 1.0, "%q/%q", search, target)
		}
	}
}

func (s *MatchingTestSuite) TestScorePolicy() {
	testCases := []struct {
		name     string
		search   string
		target   string
		expected float64
	}{
		{name: "exact ignoring case and spacing", search: "  iron   GRIP ", target: "Iron Grip", expected: 1.0},
		{name: "umlaut case folding", search: "ÄRGER", target: "ärger", expected: 1.0},
		{name: "prefix scales with length", search: "Whirlwind", target: "Whirlwind Strike", expected: 0.9 + 9.0/16.0*0.1},
		{name: "reverse containment", search: "Iron Grip Mastery", target: "Iron Grip", expected: 0.8},
		{name: "edit distance scaled", search: "Frost", target: "Forst", expected: (1 - 2.0/5.0) * 0.7},
		{name: "empty search never matches", search: "", target: "Iron Grip", expected: 0},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.InDelta(tc.expected, matching.Score(tc.search, tc.target), 1e-9)
		})
	}
}

func (s *MatchingTestSuite) TestPrefixHelpers() {
	s.True(matching.IsExact("iron grip", "Iron  Grip"))
	s.False(matching.IsExact("iron", "Iron Grip"))
	s.True(matching.IsPrefix("iron", "Iron Grip"))
	s.False(matching.IsPrefix("", "Iron Grip"))
	s.False(matching.IsPrefix("grip", "Iron Grip"))
}

func (s *MatchingTestSuite) TestRank() {
	items := []string{"Banana", "Iron Fist", "Iron Grip Mastery", "Iron Grip"}
	ranked := matching.Rank("Iron Grip", items, func(v string) string { return v }, matching.DefaultListThreshold)

	s.Require().Len(ranked, 3)
	s.Equal("Iron Grip", ranked[0].Item)
	s.Equal("Iron Grip Mastery", ranked[1].Item)
	s.Equal("Iron Fist", ranked[2].Item)
	s.Equal(1.0, ranked[0].Score)
}

func (s *MatchingTestSuite) TestRankTiesAreAlphabetical() {
	ranked := matching.Rank("xyz", []string{"xyb", "xya"}, func(v string) string { return v }, 0)

	s.Require().Len(ranked, 2)
	s.Equal(ranked[0].Score, ranked[1].Score)
	s.Equal("xya", ranked[0].Item)
	s.Equal("xyb", ranked[1].Item)
}
