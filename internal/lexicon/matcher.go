package lexicon

import (
	"regexp"
	"strings"
	"sync"
)

// PhraseSet matches a table of phrases against text with word-boundary
// semantics, so "step" never fires inside "misstep".
type PhraseSet[V any] struct {
	entries []compiledEntry[V]
}

type compiledEntry[V any] struct {
	Entry[V]
	re *regexp.Regexp
}

// NewPhraseSet compiles every phrase in entries, keeping table order.
func NewPhraseSet[V any](entries []Entry[V]) *PhraseSet[V] {
	ps := &PhraseSet[V]{entries: make([]compiledEntry[V], 0, len(entries))}
	for _, e := range entries {
		ps.entries = append(ps.entries, compiledEntry[V]{Entry: e, re: boundaryRegexp(e.Phrase)})
	}
	return ps
}

// Matches returns every entry whose phrase occurs in text, in table order.
// text is expected to be lowercase.
func (ps *PhraseSet[V]) Matches(text string) []Entry[V] {
	var out []Entry[V]
	for _, e := range ps.entries {
		if e.re.MatchString(text) {
			out = append(out, e.Entry)
		}
	}
	return out
}

// Lookup returns the value for an exact phrase.
func (ps *PhraseSet[V]) Lookup(phrase string) (V, bool) {
	for _, e := range ps.entries {
		if e.Phrase == phrase {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

var (
	boundaryMu    sync.RWMutex
	boundaryCache = map[string]*regexp.Regexp{}
)

func boundaryRegexp(phrase string) *regexp.Regexp {
	boundaryMu.RLock()
	re, ok := boundaryCache[phrase]
	boundaryMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
	boundaryMu.Lock()
	boundaryCache[phrase] = re
	boundaryMu.Unlock()
	return re
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
func ContainsPhrase(text, phrase string) bool {
	return IndexPhrase(text, phrase) >= 0
}

// IndexPhrase returns the byte offset of the first word-boundary occurrence
// of phrase in text, or -1.
func IndexPhrase(text, phrase string) int {
	if phrase == "" {
		return -1
	}
	loc := boundaryRegexp(phrase).FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// Tokenize splits lowercase text on whitespace and trims surrounding
// punctuation from each token. Hyphens and apostrophes inside a token stay.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,!?;:"()[]{}`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Compiled phrase tables shared by the query packages.
var (
	ShotPhrases   = NewPhraseSet(ShotSpecifiers)
	ScorePhrases  = NewPhraseSet(ScoreSpecifiers)
	ClutchPhrases = NewPhraseSet(ClutchWindows)
	MonthPhrases  = NewPhraseSet(Months)
)

var seasonTypePatterns = []struct {
	Type SeasonType
	re   *regexp.Regexp
}{
	{Playoffs, regexp.MustCompile(`(?i)\b(play[-\s]?offs?|post[-\s]?season)\b`)},
	{RegularSeason, regexp.MustCompile(`(?i)\bregular season\b`)},
	{PreSeason, regexp.MustCompile(`(?i)\bpre[-\s]?season\b`)},
	{AllStar, regexp.MustCompile(`(?i)\ball[-\s]?star\b`)},
}

// DetectSeasonType returns the first season type whose pattern matches,
// checked in the order Playoffs, Regular Season, Pre Season, All Star.
// No match means Regular Season.
func DetectSeasonType(text string) SeasonType {
	st, _ := MatchSeasonType(text)
	return st
}

// MatchSeasonType is DetectSeasonType that also reports whether the text
// named a season type.
func MatchSeasonType(text string) (SeasonType, bool) {
	for _, p := range seasonTypePatterns {
		if p.re.MatchString(text) {
			return p.Type, true
		}
	}
	return RegularSeason, false
}

// CategoryOf returns the categories a single token selects, in table order.
func CategoryOf(token string) []Category {
	var out []Category
	for _, set := range CategoryKeywords {
		for _, k := range set.Keywords {
			if k == token {
				out = append(out, set.Category)
				break
			}
		}
	}
	return out
}
