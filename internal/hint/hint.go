// Package hint asks a language model for a partial reading of a search
// query. The rule-based intent always wins: a hint only fills fields the
// extractor left empty, and a failed hint is never an error for the search.
package hint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/query"
)

var (
	// ErrNoHint means the provider had nothing usable to say.
	ErrNoHint = errors.New("no hint available")
	// ErrMissingAPIKey is returned when a remote provider has no key.
	ErrMissingAPIKey = errors.New("hint provider requires an API key")
)

const defaultTimeout = 10 * time.Second

// Hint is a model's guess at the query's slots.
type Hint struct {
	Player     string `json:"player" jsonschema:"description=Full name of the NBA player the query is about. Empty if none."`
	Team       string `json:"team" jsonschema:"description=Opposing team named in the query. Empty if none."`
	Season     string `json:"season" jsonschema:"description=Season in YYYY-YY form such as 2018-19. Empty if none."`
	SeasonType string `json:"season_type" jsonschema:"description=One of Regular Season or Playoffs or Pre Season or All Star. Empty if not stated."`
}

// Empty reports whether the hint carries nothing.
func (h Hint) Empty() bool {
	return h.Player == "" && h.Team == "" && h.Season == "" && h.SeasonType == ""
}

// Provider suggests a hint for a raw query.
type Provider interface {
	Name() string
	Suggest(ctx context.Context, query string) (Hint, error)
}

// New builds the provider named in cfg. An empty or "none" provider gives
// Disabled.
func New(ctx context.Context, cfg config.HintConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return Disabled{}, nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown hint provider %q", cfg.Provider)
	}
}

// Disabled never has a hint.
type Disabled struct{}

// Name implements Provider.
func (Disabled) Name() string { return "none" }

// Suggest implements Provider.
func (Disabled) Suggest(context.Context, string) (Hint, error) { return Hint{}, ErrNoHint }

// Apply copies hint fields into the intent where the intent is empty and
// returns the names of the fields it filled. A defaulted season type counts
// as empty. Seasons and season types that
// do not parse are ignored.
func Apply(in *query.Intent, h Hint) []string {
	var filled []string
	if in.Player == "" && strings.TrimSpace(h.Player) != "" {
		in.Player = lexicon.Fold(strings.TrimSpace(h.Player))
		filled = append(filled, "player")
	}
	if in.Team == "" && strings.TrimSpace(h.Team) != "" {
		in.Team = lexicon.Fold(strings.TrimSpace(h.Team))
		filled = append(filled, "team")
	}
	if in.Season == "" && validSeason(h.Season) {
		in.Season = h.Season
		filled = append(filled, "season")
	}
	if !in.SeasonTypeStated {
		if st, ok := seasonType(h.SeasonType); ok {
			in.SeasonType = st
			in.SeasonTypeStated = true
			filled = append(filled, "season_type")
		}
	}
	return filled
}

func validSeason(s string) bool {
	y, ok := query.SeasonStartYear(s)
	return ok && query.FormatSeason(y) == s
}

func seasonType(s string) (lexicon.SeasonType, bool) {
	for _, st := range []lexicon.SeasonType{lexicon.RegularSeason, lexicon.Playoffs, lexicon.PreSeason, lexicon.AllStar} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// decode reads a hint out of model output, tolerating prose or code
// fences around the JSON object.
func decode(text string) (Hint, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Hint{}, io.ErrUnexpectedEOF
	}

	var h Hint
	if err := json.Unmarshal([]byte(s), &h); err != nil {
		start := strings.IndexByte(s, '{')
		end := strings.LastIndexByte(s, '}')
		if start == -1 || end <= start {
			return Hint{}, fmt.Errorf("no JSON object in model output (len=%d)", len(s))
		}
		if err := json.Unmarshal([]byte(s[start:end+1]), &h); err != nil {
			return Hint{}, fmt.Errorf("decode hint: %w", err)
		}
	}
	if h.Empty() {
		return Hint{}, ErrNoHint
	}
	return h, nil
}

func timeoutOf(cfg config.HintConfig) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return defaultTimeout
}

const instructions = `You read short search queries for NBA video clips and extract who and when they are about.

Return a JSON object with these fields:
- player: the player's full name, corrected for spelling, or "" if no player is named
- team: the opposing team's name, or "" if none is named
- season: the season as YYYY-YY (for example 2018-19), or "" if no season or year is given
- season_type: "Regular Season", "Playoffs", "Pre Season" or "All Star", or "" if not stated

Do not guess fields the query does not mention.`
