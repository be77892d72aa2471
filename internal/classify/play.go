// Package classify decides whether an upstream play matches the shot type,
// score context and clutch constraints of a search.
//
// Classification is pure: it never performs I/O and never trusts a single
// upstream field, falling back from structured clock fields to the
// description text.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reddy-lalith/PlayDex/internal/nbastats"
)

// Side is the team of the player who made the play, relative to the game.
type Side int

const (
	SideUnknown Side = iota
	SideHome
	SideVisitor
)

// Play is the classifier's view of a candidate play.
type Play struct {
	Description string
	Period      int
	Clock       string
	Time        string
	// Score is nil when the source carries no before/after points.
	Score    *nbastats.Score
	Side     Side
	Distance *float64
}

// FromVideo adapts a video playlist entry. teamID is the searched player's
// team and decides the side.
func FromVideo(v nbastats.VideoPlay, teamID int64) Play {
	p := Play{
		Description: v.Description,
		Period:      v.Period,
		Clock:       v.Clock,
		Time:        v.Time,
		Score:       v.Score,
		Distance:    v.Distance,
	}
	switch {
	case teamID != 0 && teamID == v.HomeTeamID:
		p.Side = SideHome
	case teamID != 0 && teamID == v.VisitorTeamID:
		p.Side = SideVisitor
	}
	return p
}

// Scoreline is a running game score while walking play-by-play events.
type Scoreline struct {
	Home    int
	Visitor int
	Known   bool
}

// Advance returns the scoreline after e. Events without a score keep it.
func (s Scoreline) Advance(e nbastats.PlayByPlayEvent) Scoreline {
	if v, h, ok := e.ParsedScore(); ok {
		return Scoreline{Home: h, Visitor: v, Known: true}
	}
	return s
}

// FromEvent adapts a play-by-play event. before is the score prior to the
// event.
func FromEvent(e nbastats.PlayByPlayEvent, before Scoreline) Play {
	p := Play{
		Description: e.Description(),
		Period:      e.Period,
		Clock:       e.Clock,
	}
	switch {
	case e.HomeDescription != "" && e.VisitorDescription == "":
		p.Side = SideHome
	case e.VisitorDescription != "" && e.HomeDescription == "":
		p.Side = SideVisitor
	}
	if after := before.Advance(e); before.Known && after.Known {
		p.Score = &nbastats.Score{
			HomeBefore:    before.Home,
			HomeAfter:     after.Home,
			VisitorBefore: before.Visitor,
			VisitorAfter:  after.Visitor,
		}
	}
	return p
}

var (
	clockPattern     = regexp.MustCompile(`^(\d{1,2}):(\d{1,2}(?:\.\d+)?)$`)
	descClockPattern = regexp.MustCompile(`\((\d{1,2}:\d{1,2}(?:\.\d+)?)\)`)
	distancePattern  = regexp.MustCompile(`\b(\d{1,2})'`)
	missPattern      = regexp.MustCompile(`(?i)\bMISS(ED)?\b`)
)

// Clock is time remaining in the period.
type Clock struct {
	Minutes int
	Seconds float64
}

// Remaining returns the clock in seconds.
func (c Clock) Remaining() float64 {
	return float64(c.Minutes)*60 + c.Seconds
}

// ParseClock reads "m:ss" with optional fractional seconds.
func ParseClock(s string) (Clock, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Clock{}, false
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return Clock{}, false
	}
	seconds, err := strconv.ParseFloat(m[2], 64)
	if err != nil || seconds >= 60 {
		return Clock{}, false
	}
	return Clock{Minutes: minutes, Seconds: seconds}, true
}

// PlayClock returns the play's clock from the Clock field, then the Time
// field, then a parenthesized time in the description.
func PlayClock(p Play) (Clock, bool) {
	for _, s := range []string{p.Clock, p.Time} {
		if c, ok := ParseClock(s); ok {
			return c, true
		}
	}
	if m := descClockPattern.FindStringSubmatch(p.Description); m != nil {
		return ParseClock(m[1])
	}
	return Clock{}, false
}

// ShotDistance returns the structured distance, or the feet marker in the
// description ("Curry 38' 3PT Jump Shot").
func ShotDistance(p Play) (float64, bool) {
	if p.Distance != nil {
		return *p.Distance, true
	}
	if m := distancePattern.FindStringSubmatch(p.Description); m != nil {
		if ft, err := strconv.Atoi(m[1]); err == nil {
			return float64(ft), true
		}
	}
	return 0, false
}

// IsMiss reports whether the description records a missed attempt.
func IsMiss(desc string) bool {
	return missPattern.MatchString(desc)
}
