package classify

import (
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
)

// LastSecondLimit is the clock value below which a play counts as a
// buzzer-beater.
const LastSecondLimit = 2.0

// ClutchMargin is the largest pre-play score difference still considered
// clutch.
const ClutchMargin = 5

// GameTying reports whether the play scored and left the game tied.
func GameTying(p Play) bool {
	if p.Score == nil || p.Score.PointChange() <= 0 {
		return false
	}
	return p.Score.HomeAfter == p.Score.VisitorAfter
}

// LeadTaking reports whether the score differential changed sign across the
// play.
func LeadTaking(p Play) bool {
	if p.Score == nil {
		return false
	}
	before := p.Score.HomeBefore - p.Score.VisitorBefore
	after := p.Score.HomeAfter - p.Score.VisitorAfter
	return (before <= 0 && after > 0) || (before >= 0 && after < 0)
}

// BuzzerBeater reports whether the play happened in the final second of a
// period and was not a miss.
func BuzzerBeater(p Play) bool {
	if IsMiss(p.Description) {
		return false
	}
	c, ok := PlayClock(p)
	return ok && c.Minutes == 0 && c.Seconds < LastSecondLimit
}

// GameWinner reports whether the play is a buzzer-beater in the fourth
// period or overtime. When the score and the shooter's side are known, the
// shooter's team must also lead after the play and not before it.
func GameWinner(p Play) bool {
	if !BuzzerBeater(p) || p.Period < 4 {
		return false
	}
	if p.Score == nil || p.Side == SideUnknown {
		return true
	}
	before := p.Score.HomeBefore - p.Score.VisitorBefore
	after := p.Score.HomeAfter - p.Score.VisitorAfter
	if p.Side == SideVisitor {
		before, after = -before, -after
	}
	return before <= 0 && after > 0
}

// MatchesScore reports whether the play fits the score context. An empty
// specifier matches everything.
func MatchesScore(p Play, want lexicon.ScoreSpecifier) bool {
	switch want {
	case lexicon.GameTying:
		return GameTying(p)
	case lexicon.LeadTaking:
		return LeadTaking(p)
	case lexicon.BuzzerBeater:
		return BuzzerBeater(p)
	case lexicon.GameWinner:
		return GameWinner(p)
	default:
		return true
	}
}

// windowSeconds is each clutch window's length.
var windowSeconds = map[lexicon.ClutchWindow]float64{
	lexicon.Last10Seconds: 10,
	lexicon.Last1Minute:   60,
	lexicon.Last5Minutes:  300,
}

// InClutchWindow reports whether the play happened in the fourth period or
// overtime within the window, with a close score when the score is known.
func InClutchWindow(p Play, w lexicon.ClutchWindow) bool {
	limit, ok := windowSeconds[w]
	if !ok {
		return true
	}
	if p.Period < 4 {
		return false
	}
	c, ok := PlayClock(p)
	if !ok || c.Remaining() > limit {
		return false
	}
	return WithinClutchMargin(p)
}

// WithinClutchMargin reports whether the pre-play margin is at most
// ClutchMargin. Plays without a score pass.
func WithinClutchMargin(p Play) bool {
	return p.Score == nil || p.Score.MarginBefore() <= ClutchMargin
}
