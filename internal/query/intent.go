// Package query turns free-text searches into a structured Intent: spelling
// correction against known names and keywords, then rule-based extraction.
package query

import (
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
)

// Intent is the structured reading of a search query.
type Intent struct {
	Player         string                 `json:"player,omitempty"`
	PlayerID       int64                  `json:"playerId,omitempty"`
	Team           string                 `json:"team,omitempty"`
	TeamID         int64                  `json:"teamId,omitempty"`
	OpponentTeamID int64                  `json:"opponentTeamId,omitempty"`
	Season         string                 `json:"season,omitempty"`
	SeasonType     lexicon.SeasonType     `json:"seasonType"`
	Month          string                 `json:"month"`
	Categories     []lexicon.Category     `json:"categories"`
	Shots          []lexicon.ShotLabel    `json:"shots"`
	Score          lexicon.ScoreSpecifier `json:"score,omitempty"`
	Clutch         lexicon.ClutchWindow   `json:"clutch,omitempty"`
	LongRange      bool                   `json:"longRange,omitempty"`

	// SeasonTypeStated is false when SeasonType is the Regular Season default.
	SeasonTypeStated bool `json:"-"`
}

// EffectiveClutch is the clutch window sent upstream. Buzzer-beater and
// game-winner intents imply the last ten seconds.
func (in Intent) EffectiveClutch() lexicon.ClutchWindow {
	if in.Score.RareEvent() {
		return lexicon.Last10Seconds
	}
	return in.Clutch
}

// RareEvent reports whether the intent asks for last-second plays.
func (in Intent) RareEvent() bool {
	return in.Score.RareEvent()
}

// HasCategory reports whether c was requested.
func (in Intent) HasCategory(c lexicon.Category) bool {
	for _, have := range in.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// HasShot reports whether shot was requested.
func (in Intent) HasShot(shot lexicon.ShotLabel) bool {
	for _, have := range in.Shots {
		if have == shot {
			return true
		}
	}
	return false
}

// CommonAction reports whether the intent is a high-volume request, such as
// made field goals or a shot type without a score context.
func (in Intent) CommonAction() bool {
	if in.RareEvent() {
		return false
	}
	return len(in.Shots) > 0 || in.HasCategory(lexicon.Points)
}
