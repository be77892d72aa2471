package query

import (
	"strings"

	"github.com/reddy-lalith/PlayDex/internal/fuzzy"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

// Correction thresholds on the 0..100 similarity scale.
const (
	PlayerPhraseThreshold = 70
	KeywordThreshold      = 85
)

// Normalizer cleans a raw query and corrects misspelled player names and
// keywords before extraction. Below-threshold matches are left untouched.
type Normalizer struct {
	names []string
	vocab []string
	// known holds name and team words that must never be respelled as
	// keywords ("steph" is not a typo for "step").
	known map[string]struct{}
}

// NewNormalizer builds a normalizer over the reference player names and the
// lexicon vocabulary.
func NewNormalizer(ref *storage.Reference) *Normalizer {
	players := ref.Players()
	names := make([]string, 0, len(players))
	known := make(map[string]struct{})
	addWords := func(phrase string) {
		for _, w := range strings.Fields(phrase) {
			known[w] = struct{}{}
		}
	}
	for _, p := range players {
		names = append(names, p.Name)
		addWords(p.Name)
		for _, nick := range p.Nicknames {
			addWords(nick)
		}
	}
	for _, t := range ref.Teams() {
		for _, phrase := range t.Phrases() {
			addWords(phrase)
		}
	}
	return &Normalizer{names: names, vocab: lexicon.Vocabulary(), known: known}
}

// Normalize folds case and diacritics, drops stopwords, then applies
// phrase-level player correction and token-level keyword correction.
func (n *Normalizer) Normalize(raw string) string {
	words := stripStopWords(lexicon.Tokenize(lexicon.Fold(raw)))
	if len(words) == 0 {
		return ""
	}

	name, rest := n.correctPlayer(words)
	rest = n.correctTokens(rest)

	if name != "" {
		rest = append([]string{name}, rest...)
	}
	return strings.Join(rest, " ")
}

func stripStopWords(words []string) []string {
	out := words[:0:0]
	for _, w := range words {
		if _, stop := lexicon.StopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// correctPlayer finds the known name closest to any part of the query. When
// a word window scores above the threshold it is cut out and the canonical
// name returned separately.
func (n *Normalizer) correctPlayer(words []string) (string, []string) {
	text := strings.Join(words, " ")
	match, ok := fuzzy.ExtractOne(text, n.names, fuzzy.PartialRatio)
	if !ok || match.Score <= PlayerPhraseThreshold {
		return "", words
	}

	nameLen := len(strings.Fields(match.Value))
	bestScore := float64(PlayerPhraseThreshold)
	bestStart, bestEnd := -1, -1
	for i := range words {
		limit := i + nameLen + 2
		if limit > len(words) {
			limit = len(words)
		}
		for j := i + 1; j <= limit; j++ {
			score := fuzzy.Ratio(strings.Join(words[i:j], " "), match.Value)
			if score > bestScore {
				bestScore, bestStart, bestEnd = score, i, j
			}
		}
	}
	if bestStart < 0 {
		return "", words
	}

	rest := make([]string, 0, len(words)-(bestEnd-bestStart))
	rest = append(rest, words[:bestStart]...)
	rest = append(rest, words[bestEnd:]...)
	return match.Value, rest
}

// correctTokens swaps each token for its closest vocabulary entry when the
// similarity clears KeywordThreshold.
func (n *Normalizer) correctTokens(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w
		if _, ok := n.known[w]; ok || isNumeric(w) {
			continue
		}
		if m, ok := fuzzy.ExtractOne(w, n.vocab, fuzzy.Ratio); ok && m.Score > KeywordThreshold {
			out[i] = m.Value
		}
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return s != ""
}
