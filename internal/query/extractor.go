package query

import (
	"strings"
	"time"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

// Extractor reads an Intent out of normalized text. It holds only immutable
// reference data, so one instance serves all requests.
type Extractor struct {
	ref   *storage.Reference
	now   func() time.Time
	first map[string][]string
	last  map[string][]string
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithClock sets the clock used to decide whether a bare year is in the past.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates an extractor over ref.
func NewExtractor(ref *storage.Reference, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ref:   ref,
		now:   time.Now,
		first: make(map[string][]string),
		last:  make(map[string][]string),
	}
	for _, p := range ref.Players() {
		e.first[p.FirstName()] = append(e.first[p.FirstName()], p.Name)
		e.last[p.LastName()] = append(e.last[p.LastName()], p.Name)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract resolves every intent field from the normalized text. original is
// the raw query, used for the season year so number formats survive.
func (e *Extractor) Extract(normalized, original string) Intent {
	text := strings.ToLower(normalized)
	tokens := lexicon.Tokenize(text)

	in := Intent{
		Month:     extractMonth(tokens),
		Score:     extractScore(text),
		Clutch:    extractClutch(text),
		LongRange: hasLongRangeWord(tokens),
	}
	in.SeasonType, in.SeasonTypeStated = lexicon.MatchSeasonType(text)

	player, matched := e.extractPlayer(text, tokens)
	if player != "" {
		in.Player = player
		if p, ok := e.ref.PlayerByName(player); ok {
			in.PlayerID = p.ID
		}
	}

	in.Team = e.extractTeam(cutPhrase(text, matched))

	in.Categories, in.Shots = extractCategories(text, tokens)
	in.Season = ResolveSeason(original, in.SeasonType, e.now())
	return in
}

// extractPlayer applies, in order: a full-name phrase, a first name followed
// by the rest of a known name, a unique last name, a preceding token plus a
// last name, and finally a nickname. It returns the canonical name and the
// text span that matched.
func (e *Extractor) extractPlayer(text string, tokens []string) (string, string) {
	bestPos := -1
	var best string
	for _, p := range e.ref.Players() {
		pos := lexicon.IndexPhrase(text, p.Name)
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos || (pos == bestPos && len(p.Name) > len(best)) {
			bestPos, best = pos, p.Name
		}
	}
	if best != "" {
		return best, best
	}

	for i, tok := range tokens {
		if _, ok := e.first[tok]; ok && i+1 < len(tokens) {
			candidate := tok + " " + tokens[i+1]
			if _, ok := e.ref.PlayerByName(candidate); ok {
				return candidate, candidate
			}
		}
		if names, ok := e.last[tok]; ok {
			if len(names) == 1 {
				return names[0], tok
			}
			if i > 0 {
				candidate := tokens[i-1] + " " + tok
				if _, ok := e.ref.PlayerByName(candidate); ok {
					return candidate, candidate
				}
			}
		}
	}

	bestPos = -1
	var nick string
	for _, p := range e.ref.Players() {
		for _, n := range p.Nicknames {
			pos := lexicon.IndexPhrase(text, n)
			if pos < 0 {
				continue
			}
			if bestPos < 0 || pos < bestPos || (pos == bestPos && len(n) > len(nick)) {
				bestPos, best, nick = pos, p.Name, n
			}
		}
	}
	return best, nick
}

// extractTeam returns the full name of the earliest team phrase in text.
func (e *Extractor) extractTeam(text string) string {
	bestPos, bestLen := -1, 0
	var team string
	for _, t := range e.ref.Teams() {
		for _, phrase := range t.Phrases() {
			pos := lexicon.IndexPhrase(text, phrase)
			if pos < 0 {
				continue
			}
			if bestPos < 0 || pos < bestPos || (pos == bestPos && len(phrase) > bestLen) {
				bestPos, bestLen, team = pos, len(phrase), t.Name
			}
		}
	}
	return team
}

// extractCategories runs the two matching passes. Shot phrases are scanned
// on the whole text first so multi-word phrases win over their tokens; a
// three-point phrase also asserts points. Tokens are then checked against
// the category and shot tables. Categories come back in table order and
// default to points.
func extractCategories(text string, tokens []string) ([]lexicon.Category, []lexicon.ShotLabel) {
	found := make(map[lexicon.Category]bool)
	var shots []lexicon.ShotLabel
	seenShot := make(map[lexicon.ShotLabel]bool)
	addShot := func(s lexicon.ShotLabel) {
		if !seenShot[s] {
			seenShot[s] = true
			shots = append(shots, s)
		}
	}

	for _, m := range lexicon.ShotPhrases.Matches(text) {
		addShot(m.Value)
		if m.Value == lexicon.ShotThree {
			found[lexicon.Points] = true
		}
	}

	for _, tok := range tokens {
		for _, c := range lexicon.CategoryOf(tok) {
			found[c] = true
		}
		if s, ok := lexicon.ShotPhrases.Lookup(tok); ok {
			addShot(s)
		}
	}

	if found[lexicon.Misses] {
		delete(found, lexicon.Points)
	}

	var cats []lexicon.Category
	for _, set := range lexicon.CategoryKeywords {
		if found[set.Category] {
			cats = append(cats, set.Category)
		}
	}
	if len(cats) == 0 {
		cats = []lexicon.Category{lexicon.Points}
	}
	return cats, shots
}

// extractScore returns the highest-priority score specifier mentioned.
func extractScore(text string) lexicon.ScoreSpecifier {
	matched := make(map[lexicon.ScoreSpecifier]bool)
	for _, m := range lexicon.ScorePhrases.Matches(text) {
		matched[m.Value] = true
	}
	for _, s := range lexicon.ScorePriority {
		if matched[s] {
			return s
		}
	}
	return ""
}

// extractClutch returns the narrowest clutch window mentioned.
func extractClutch(text string) lexicon.ClutchWindow {
	matched := make(map[lexicon.ClutchWindow]bool)
	for _, m := range lexicon.ClutchPhrases.Matches(text) {
		matched[m.Value] = true
	}
	for _, w := range lexicon.ClutchPriority {
		if matched[w] {
			return w
		}
	}
	return ""
}

func extractMonth(tokens []string) string {
	for _, tok := range tokens {
		if code, ok := lexicon.MonthPhrases.Lookup(tok); ok {
			return code
		}
	}
	return lexicon.NoMonth
}

func hasLongRangeWord(tokens []string) bool {
	for _, tok := range tokens {
		for _, w := range lexicon.LongRangeWords {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// cutPhrase blanks the first word-boundary occurrence of phrase in text.
func cutPhrase(text, phrase string) string {
	pos := lexicon.IndexPhrase(text, phrase)
	if pos < 0 {
		return text
	}
	return text[:pos] + " " + text[pos+len(phrase):]
}
