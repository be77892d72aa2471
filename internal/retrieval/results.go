// Package retrieval finds plays matching a resolved intent. Independent
// strategies fetch candidates from the upstream source; the Orchestrator
// runs them in an intent-dependent order, merges, sorts and paginates the
// candidates and resolves video links for the returned page only.
package retrieval

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
)

// Candidate is a play produced by a strategy, before pagination.
type Candidate struct {
	GameID       string           `json:"gameId"`
	EventNum     int              `json:"eventNum"`
	Date         time.Time        `json:"date"`
	Period       int              `json:"period"`
	Clock        string           `json:"clock"`
	Description  string           `json:"description"`
	HomeTeam     string           `json:"homeTeam,omitempty"`
	VisitorTeam  string           `json:"visitorTeam,omitempty"`
	Matchup      string           `json:"matchup,omitempty"`
	Category     lexicon.Category `json:"category"`
	VideoURL     string           `json:"videoUrl,omitempty"`
	ThumbnailURL string           `json:"thumbnailUrl,omitempty"`
	Source       string           `json:"source"`
}

// key identifies the play across strategies and categories.
func (c Candidate) key() string {
	return c.GameID + "/" + strconv.Itoa(c.EventNum)
}

// WatchLinks are external places to watch a play.
type WatchLinks struct {
	NBAStats      string `json:"nba_stats"`
	NBAGame       string `json:"nba_game"`
	YouTubeSearch string `json:"youtube_search"`
	NBAVideo      string `json:"nba_video,omitempty"`
}

// Metadata describes the game context of a result.
type Metadata struct {
	Date          string   `json:"date,omitempty"`
	Season        string   `json:"season,omitempty"`
	HomeTeam      string   `json:"homeTeam,omitempty"`
	AwayTeam      string   `json:"awayTeam,omitempty"`
	Matchup       string   `json:"matchup,omitempty"`
	Quarter       int      `json:"quarter"`
	TimeRemaining string   `json:"timeRemaining,omitempty"`
	Players       []string `json:"players,omitempty"`
	Action        string   `json:"action"`
}

// SearchResult is one play returned to the caller.
type SearchResult struct {
	ID           string     `json:"id"`
	GameID       string     `json:"gameId"`
	EventNum     int        `json:"eventNum"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoURL     string     `json:"videoUrl,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	Links        WatchLinks `json:"links"`
	Metadata     Metadata   `json:"metadata"`
	Source       string     `json:"source"`
}

// ResultID is a name-based UUID of the game and event, stable across calls.
func ResultID(gameID string, eventNum int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(gameID+"/"+strconv.Itoa(eventNum))).String()
}

// SeasonFromGameID derives "YYYY-YY" from the two-digit year at positions
// 3-4 of a game id ("0021500824" is 2015-16).
func SeasonFromGameID(gameID string) string {
	if len(gameID) < 5 {
		return ""
	}
	yy, err := strconv.Atoi(gameID[3:5])
	if err != nil {
		return ""
	}
	start := 1900 + yy
	if yy <= 50 {
		start = 2000 + yy
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// BuildLinks constructs the watch links for a candidate. player is the
// display name used in the search link.
func BuildLinks(c Candidate, player string) WatchLinks {
	stats := url.Values{}
	stats.Set("CFID", "")
	stats.Set("CFPARAMS", "")
	stats.Set("GameEventID", strconv.Itoa(c.EventNum))
	stats.Set("GameID", c.GameID)
	stats.Set("Season", SeasonFromGameID(c.GameID))
	stats.Set("flag", "1")
	stats.Set("title", c.Description)

	terms := []string{"NBA"}
	for _, t := range []string{player, c.Category.Action(), c.Matchup} {
		if t != "" {
			terms = append(terms, t)
		}
	}

	return WatchLinks{
		NBAStats:      "https://www.nba.com/stats/events?" + stats.Encode(),
		NBAGame:       "https://www.nba.com/game/" + c.GameID,
		YouTubeSearch: "https://youtube.com/results?search_query=" + url.QueryEscape(strings.Join(terms, " ")),
		NBAVideo:      c.VideoURL,
	}
}

// NewSearchResult converts a candidate into the public result.
func NewSearchResult(c Candidate, player string) SearchResult {
	meta := Metadata{
		Season:        SeasonFromGameID(c.GameID),
		HomeTeam:      c.HomeTeam,
		AwayTeam:      c.VisitorTeam,
		Matchup:       c.Matchup,
		Quarter:       c.Period,
		TimeRemaining: c.Clock,
		Action:        c.Category.Action(),
	}
	if !c.Date.IsZero() {
		meta.Date = c.Date.Format("2006-01-02")
	}
	if player != "" {
		meta.Players = []string{player}
	}

	title := c.Description
	if c.Matchup != "" {
		title = fmt.Sprintf("%s (%s)", c.Description, c.Matchup)
	}

	return SearchResult{
		ID:           ResultID(c.GameID, c.EventNum),
		GameID:       c.GameID,
		EventNum:     c.EventNum,
		Title:        title,
		Description:  c.Description,
		VideoURL:     c.VideoURL,
		ThumbnailURL: c.ThumbnailURL,
		Links:        BuildLinks(c, player),
		Metadata:     meta,
		Source:       c.Source,
	}
}
