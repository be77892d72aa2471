package retrieval

import (
	"context"
	"time"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

// KnownFactsStrategy answers from a small table of well-documented plays.
// It runs last and only for scoring intents.
type KnownFactsStrategy struct {
	ref *storage.Reference
}

// NewKnownFactsStrategy creates the known-fact fallback.
func NewKnownFactsStrategy(ref *storage.Reference) *KnownFactsStrategy {
	return &KnownFactsStrategy{ref: ref}
}

// Name implements Strategy.
func (k *KnownFactsStrategy) Name() string { return "known_facts" }

// Priority implements Strategy.
func (k *KnownFactsStrategy) Priority(query.Intent) int { return 100 }

// Applies implements Strategy.
func (k *KnownFactsStrategy) Applies(in query.Intent) bool {
	return in.PlayerID != 0 && (len(in.Categories) == 0 || in.HasCategory(lexicon.Points))
}

// Fetch returns the player's known plays carrying the requested score
// context.
func (k *KnownFactsStrategy) Fetch(_ context.Context, req Request) ([]Candidate, error) {
	in := req.Intent
	var out []Candidate
	for _, kp := range k.ref.KnownPlays(in.PlayerID) {
		if in.Score != "" && !kp.HasTag(string(in.Score)) {
			continue
		}
		home, visitor := splitMatchup(kp.Matchup)
		date, _ := time.Parse("2006-01-02", kp.Date)
		out = append(out, Candidate{
			GameID:      kp.GameID,
			EventNum:    kp.EventNum,
			Date:        date,
			Period:      kp.Period,
			Clock:       kp.Clock,
			Description: kp.Description,
			HomeTeam:    home,
			VisitorTeam: visitor,
			Matchup:     kp.Matchup,
			Category:    lexicon.Points,
			Source:      k.Name(),
		})
	}
	return out, nil
}
