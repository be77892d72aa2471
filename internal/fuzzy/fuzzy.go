// Package fuzzy scores string similarity on a 0..100 scale.
//
// Ratio is the normalized Indel similarity (insertions and deletions only),
// computed from the longest common subsequence. PartialRatio slides the
// shorter string across the longer one and keeps the best Ratio, including
// the partial windows hanging off either end.
package fuzzy

import (
	"github.com/hbollon/go-edlib"
)

// Scorer compares two strings and returns a similarity in [0, 100].
type Scorer func(a, b string) float64

// Ratio returns 200*LCS(a,b)/(len(a)+len(b)), measured in runes.
func Ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la+lb == 0 {
		return 100
	}
	lcs := edlib.LCS(a, b)
	return 200 * float64(lcs) / float64(la+lb)
}

// PartialRatio returns the best Ratio between the shorter string and every
// same-length window of the longer one.
func PartialRatio(a, b string) float64 {
	needle, hay := []rune(a), []rune(b)
	if len(needle) > len(hay) {
		needle, hay = hay, needle
	}
	n, m := len(needle), len(hay)
	if n == 0 {
		if m == 0 {
			return 100
		}
		return 0
	}

	s := string(needle)
	best := 0.0
	consider := func(window []rune) {
		if score := Ratio(s, string(window)); score > best {
			best = score
		}
	}

	// windows growing in from the left edge
	for i := 1; i < n; i++ {
		consider(hay[:i])
	}
	for i := 0; i+n <= m; i++ {
		consider(hay[i : i+n])
		if best == 100 {
			return best
		}
	}
	// windows shrinking off the right edge
	for i := m - n + 1; i < m; i++ {
		consider(hay[i:])
	}

	if n == m {
		// equal lengths: score both directions
		if score := partialSameLength(hay, needle); score > best {
			best = score
		}
	}
	return best
}

func partialSameLength(needle, hay []rune) float64 {
	best := 0.0
	s := string(needle)
	for i := 1; i < len(hay); i++ {
		if score := Ratio(s, string(hay[:i])); score > best {
			best = score
		}
		if score := Ratio(s, string(hay[i:])); score > best {
			best = score
		}
	}
	return best
}

// Match is the result of ExtractOne.
type Match struct {
	Index int
	Value string
	Score float64
}

// ExtractOne scores query against every choice and returns the best one.
// Ties keep the earliest choice. ok is false when choices is empty.
func ExtractOne(query string, choices []string, scorer Scorer) (Match, bool) {
	if len(choices) == 0 {
		return Match{}, false
	}
	best := Match{Index: -1, Score: -1}
	for i, c := range choices {
		if score := scorer(query, c); score > best.Score {
			best = Match{Index: i, Value: c, Score: score}
			if score == 100 {
				break
			}
		}
	}
	return best, true
}
