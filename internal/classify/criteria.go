package classify

import (
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/nbastats"
)

// Criteria is the client-side filter a strategy applies to candidates.
type Criteria struct {
	Shots     []lexicon.ShotLabel
	LongRange bool
	Score     lexicon.ScoreSpecifier
	Clutch    lexicon.ClutchWindow
}

// Match reports whether the play satisfies every criterion. Shot types
// combine with AND. A buzzer-beater or game-winner request carries its own
// clock rule, so the clutch window is not applied on top of it.
func (c Criteria) Match(p Play) bool {
	for _, s := range c.Shots {
		if !MatchesShot(p, s) {
			return false
		}
	}
	if c.LongRange && !MatchesLongRange(p) {
		return false
	}
	if !MatchesScore(p, c.Score) {
		return false
	}
	if c.Clutch != "" && !c.Score.RareEvent() && !InClutchWindow(p, c.Clutch) {
		return false
	}
	return true
}

// Shooting reports whether any shot or score filter is set.
func (c Criteria) Shooting() bool {
	return len(c.Shots) > 0 || c.LongRange || c.Score != ""
}

// EventCategories returns the stat categories a play-by-play event credits
// to the player. A made shot credits PTS to the shooter and AST to the
// passer; a miss credits MISS and FGA to the shooter and BLK to the
// blocker; a turnover credits TOV to the ball handler and STL to the thief.
func EventCategories(e nbastats.PlayByPlayEvent, playerID int64) []lexicon.Category {
	var out []lexicon.Category
	switch e.MsgType {
	case nbastats.EventMade:
		if e.Player1ID == playerID {
			out = append(out, lexicon.Points, lexicon.Attempts)
		}
		if e.Player2ID == playerID {
			out = append(out, lexicon.Assists)
		}
	case nbastats.EventMissed:
		if e.Player1ID == playerID {
			out = append(out, lexicon.Misses, lexicon.Attempts)
		}
		if e.Player3ID == playerID {
			out = append(out, lexicon.Blocks)
		}
	case nbastats.EventRebound:
		if e.Player1ID == playerID {
			out = append(out, lexicon.Rebounds)
		}
	case nbastats.EventTurnover:
		if e.Player1ID == playerID {
			out = append(out, lexicon.Turnovers)
		}
		if e.Player2ID == playerID {
			out = append(out, lexicon.Steals)
		}
	}
	return out
}

// CreditsAny reports whether the event credits the player with any of cats.
func CreditsAny(e nbastats.PlayByPlayEvent, playerID int64, cats []lexicon.Category) bool {
	for _, have := range EventCategories(e, playerID) {
		for _, want := range cats {
			if have == want {
				return true
			}
		}
	}
	return false
}
