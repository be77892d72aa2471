package nbastats

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// VideoQuery selects plays from the video details endpoint. Category is a
// single context measure; the endpoint accepts only one per call.
type VideoQuery struct {
	PlayerID       int64
	TeamID         int64
	OpponentTeamID int64
	Season         string
	SeasonType     string
	Category       string
	Clutch         string
	Month          string
	LastNGames     int
}

func (q VideoQuery) params() url.Values {
	month := q.Month
	if month == "" {
		month = "0"
	}
	v := url.Values{}
	v.Set("AheadBehind", "")
	v.Set("ClutchTime", q.Clutch)
	v.Set("ContextFilter", "")
	v.Set("ContextMeasure", q.Category)
	v.Set("DateFrom", "")
	v.Set("DateTo", "")
	v.Set("GameID", "")
	v.Set("GameSegment", "")
	v.Set("LastNGames", strconv.Itoa(q.LastNGames))
	v.Set("LeagueID", "00")
	v.Set("Location", "")
	v.Set("Month", month)
	v.Set("OpponentTeamID", strconv.FormatInt(q.OpponentTeamID, 10))
	v.Set("Outcome", "")
	v.Set("Period", "0")
	v.Set("PlayerID", strconv.FormatInt(q.PlayerID, 10))
	v.Set("PointDiff", "")
	v.Set("Position", "")
	v.Set("RookieYear", "")
	v.Set("Season", q.Season)
	v.Set("SeasonSegment", "")
	v.Set("SeasonType", q.SeasonType)
	v.Set("TeamID", strconv.FormatInt(q.TeamID, 10))
	v.Set("VsConference", "")
	v.Set("VsDivision", "")
	return v
}

// Score holds the points of both sides around a play.
type Score struct {
	HomeBefore    int
	HomeAfter     int
	VisitorBefore int
	VisitorAfter  int
}

// PointChange is the total points the play produced.
func (s Score) PointChange() int {
	return (s.HomeAfter - s.HomeBefore) + (s.VisitorAfter - s.VisitorBefore)
}

// MarginBefore is the absolute score difference before the play.
func (s Score) MarginBefore() int {
	d := s.HomeBefore - s.VisitorBefore
	if d < 0 {
		return -d
	}
	return d
}

// VideoPlay is one playlist entry from the video details endpoint.
type VideoPlay struct {
	GameID        string
	EventNum      int
	Date          time.Time
	GameCode      string
	Period        int
	Clock         string
	Time          string
	Description   string
	HomeTeam      string
	HomeTeamID    int64
	VisitorTeam   string
	VisitorTeamID int64
	// Score is nil when the upstream omits before/after points.
	Score            *Score
	PointsThisAction int
	Distance         *float64
	VideoURL         string
	ThumbnailURL     string
}

// VideoDetails fetches the playlist for one category.
func (c *Client) VideoDetails(ctx context.Context, q VideoQuery) ([]VideoPlay, error) {
	body, err := c.get(ctx, "videodetailsasset", q.params())
	if err != nil {
		return nil, err
	}
	p, err := decodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("videodetailsasset: %w", err)
	}

	plays := make([]VideoPlay, 0, len(p.Playlist))
	for i, rec := range p.Playlist {
		play := videoPlayFromRecord(rec)
		if i < len(p.VideoURLs) {
			play.VideoURL = p.VideoURLs[i].String("lurl")
			play.ThumbnailURL = p.VideoURLs[i].String("lth")
		}
		plays = append(plays, play)
	}
	return plays, nil
}

func videoPlayFromRecord(rec Record) VideoPlay {
	play := VideoPlay{
		GameID:        rec.String("gi"),
		EventNum:      int(rec.IntOrZero("ei")),
		GameCode:      rec.String("gc"),
		Period:        int(rec.IntOrZero("p")),
		Clock:         rec.String("cl"),
		Time:          rec.String("t"),
		Description:   rec.String("dsc"),
		HomeTeam:      rec.String("ha"),
		HomeTeamID:    rec.IntOrZero("hid"),
		VisitorTeam:   rec.String("va"),
		VisitorTeamID: rec.IntOrZero("vid"),
	}

	y, yok := rec.Int("y")
	m, mok := rec.Int("m")
	d, dok := rec.Int("d")
	if yok && mok && dok {
		play.Date = time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, time.UTC)
	}

	hpb, ok1 := rec.Int("hpb")
	hpa, ok2 := rec.Int("hpa")
	vpb, ok3 := rec.Int("vpb")
	vpa, ok4 := rec.Int("vpa")
	if ok1 && ok2 && ok3 && ok4 {
		play.Score = &Score{HomeBefore: int(hpb), HomeAfter: int(hpa), VisitorBefore: int(vpb), VisitorAfter: int(vpa)}
		play.PointsThisAction = play.Score.PointChange()
	}
	if pta, ok := rec.Int("pta"); ok {
		play.PointsThisAction = int(pta)
	}
	if dist, ok := rec.Float("Distance"); ok {
		play.Distance = &dist
	}
	return play
}

// Game is one row from the league game finder.
type Game struct {
	GameID     string
	Date       time.Time
	Matchup    string
	TeamID     int64
	SeasonType string
}

// GameFinder lists the player's games in a season segment, as returned
// (newest first).
func (c *Client) GameFinder(ctx context.Context, playerID int64, season, seasonType string) ([]Game, error) {
	v := url.Values{}
	v.Set("PlayerOrTeam", "P")
	v.Set("PlayerID", strconv.FormatInt(playerID, 10))
	v.Set("Season", season)
	v.Set("SeasonType", seasonType)
	v.Set("LeagueID", "00")

	body, err := c.get(ctx, "leaguegamefinder", v)
	if err != nil {
		return nil, err
	}
	p, err := decodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("leaguegamefinder: %w", err)
	}
	if len(p.Sets) == 0 {
		return nil, fmt.Errorf("leaguegamefinder: %w: no result set", ErrUpstreamSchema)
	}

	var games []Game
	for _, rec := range p.Sets[0].Records() {
		g := Game{
			GameID:     rec.String("GAME_ID"),
			Matchup:    rec.String("MATCHUP"),
			TeamID:     rec.IntOrZero("TEAM_ID"),
			SeasonType: seasonType,
		}
		if g.GameID == "" {
			return nil, fmt.Errorf("leaguegamefinder: %w: missing GAME_ID", ErrUpstreamSchema)
		}
		if d, err := time.Parse("2006-01-02", rec.String("GAME_DATE")); err == nil {
			g.Date = d
		}
		games = append(games, g)
	}
	return games, nil
}

// Play-by-play event message types.
const (
	EventMade     = 1
	EventMissed   = 2
	EventRebound  = 4
	EventTurnover = 5
)

// PlayByPlayEvent is one row of a game's play-by-play.
type PlayByPlayEvent struct {
	EventNum           int
	MsgType            int
	Period             int
	Clock              string
	HomeDescription    string
	VisitorDescription string
	Score              string
	ScoreMargin        string
	Player1ID          int64
	Player2ID          int64
	Player3ID          int64
	Player1TeamID      int64
}

// Description returns whichever side's description is present.
func (e PlayByPlayEvent) Description() string {
	switch {
	case e.HomeDescription != "" && e.VisitorDescription != "":
		return e.HomeDescription + " " + e.VisitorDescription
	case e.HomeDescription != "":
		return e.HomeDescription
	default:
		return e.VisitorDescription
	}
}

// ParsedScore splits the "V - H" score string. ok is false when the event
// carries no score.
func (e PlayByPlayEvent) ParsedScore() (visitor, home int, ok bool) {
	parts := strings.Split(e.Score, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	v, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return v, h, true
}

// PlayByPlay fetches every event of a game.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]PlayByPlayEvent, error) {
	v := url.Values{}
	v.Set("GameID", gameID)
	v.Set("StartPeriod", "0")
	v.Set("EndPeriod", "14")

	body, err := c.get(ctx, "playbyplayv2", v)
	if err != nil {
		return nil, err
	}
	p, err := decodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("playbyplayv2: %w", err)
	}
	set, ok := p.Set("PlayByPlay")
	if !ok {
		if len(p.Sets) == 0 {
			return nil, fmt.Errorf("playbyplayv2: %w: no PlayByPlay set", ErrUpstreamSchema)
		}
		set = p.Sets[0]
	}

	events := make([]PlayByPlayEvent, 0, len(set.RowSet))
	for _, rec := range set.Records() {
		events = append(events, PlayByPlayEvent{
			EventNum:           int(rec.IntOrZero("EVENTNUM")),
			MsgType:            int(rec.IntOrZero("EVENTMSGTYPE")),
			Period:             int(rec.IntOrZero("PERIOD")),
			Clock:              rec.String("PCTIMESTRING"),
			HomeDescription:    rec.String("HOMEDESCRIPTION"),
			VisitorDescription: rec.String("VISITORDESCRIPTION"),
			Score:              rec.String("SCORE"),
			ScoreMargin:        rec.String("SCOREMARGIN"),
			Player1ID:          rec.IntOrZero("PLAYER1_ID"),
			Player2ID:          rec.IntOrZero("PLAYER2_ID"),
			Player3ID:          rec.IntOrZero("PLAYER3_ID"),
			Player1TeamID:      rec.IntOrZero("PLAYER1_TEAM_ID"),
		})
	}
	return events, nil
}

// VideoAsset is the media for one event.
type VideoAsset struct {
	URL         string
	Thumbnail   string
	Description string
}

// VideoEvent resolves the video for a single event, preferring the largest
// rendition.
func (c *Client) VideoEvent(ctx context.Context, gameID string, eventNum int) (VideoAsset, error) {
	v := url.Values{}
	v.Set("GameEventID", strconv.Itoa(eventNum))
	v.Set("GameID", gameID)

	body, err := c.get(ctx, "videoeventsasset", v)
	if err != nil {
		return VideoAsset{}, err
	}
	p, err := decodePayload(body)
	if err != nil {
		return VideoAsset{}, fmt.Errorf("videoeventsasset: %w", err)
	}
	if len(p.VideoURLs) == 0 || len(p.Playlist) == 0 {
		return VideoAsset{}, ErrNoVideo
	}

	urls := p.VideoURLs[0]
	asset := VideoAsset{
		Thumbnail:   urls.String("lth"),
		Description: p.Playlist[0].String("dsc"),
	}
	for _, key := range []string{"lurl", "murl", "surl"} {
		if u := urls.String(key); u != "" {
			asset.URL = u
			break
		}
	}
	if asset.URL == "" {
		return VideoAsset{}, ErrNoVideo
	}
	return asset, nil
}

// SeasonTeam is one season of a player's career.
type SeasonTeam struct {
	Season string
	TeamID int64
}

// PlayerCareer returns the player's regular-season team per season, in
// career order. Combined rows for traded players (team id 0) are skipped.
func (c *Client) PlayerCareer(ctx context.Context, playerID int64) ([]SeasonTeam, error) {
	v := url.Values{}
	v.Set("PlayerID", strconv.FormatInt(playerID, 10))
	v.Set("PerMode", "Totals")
	v.Set("LeagueID", "00")

	body, err := c.get(ctx, "playercareerstats", v)
	if err != nil {
		return nil, err
	}
	p, err := decodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("playercareerstats: %w", err)
	}
	set, ok := p.Set("SeasonTotalsRegularSeason")
	if !ok {
		return nil, fmt.Errorf("playercareerstats: %w: no SeasonTotalsRegularSeason", ErrUpstreamSchema)
	}

	var out []SeasonTeam
	for _, rec := range set.Records() {
		team := rec.IntOrZero("TEAM_ID")
		if team == 0 {
			continue
		}
		out = append(out, SeasonTeam{Season: rec.String("SEASON_ID"), TeamID: team})
	}
	return out, nil
}

// playerInfoTeamColumn is TEAM_ID's position in CommonPlayerInfo rows, used
// when headers are missing.
const playerInfoTeamColumn = 18

// PlayerCurrentTeam returns the player's current team id.
func (c *Client) PlayerCurrentTeam(ctx context.Context, playerID int64) (int64, error) {
	v := url.Values{}
	v.Set("PlayerID", strconv.FormatInt(playerID, 10))
	v.Set("LeagueID", "")

	body, err := c.get(ctx, "commonplayerinfo", v)
	if err != nil {
		return 0, err
	}
	p, err := decodePayload(body)
	if err != nil {
		return 0, fmt.Errorf("commonplayerinfo: %w", err)
	}
	set, ok := p.Set("CommonPlayerInfo")
	if !ok && len(p.Sets) > 0 {
		set, ok = p.Sets[0], true
	}
	if !ok || len(set.RowSet) == 0 {
		return 0, fmt.Errorf("commonplayerinfo: %w: no rows", ErrUpstreamSchema)
	}

	if recs := set.Records(); len(set.Headers) > 0 {
		if id, ok := recs[0].Int("TEAM_ID"); ok && id != 0 {
			return id, nil
		}
	}
	row := set.RowSet[0]
	if len(row) > playerInfoTeamColumn {
		if id, ok := (Record{"v": row[playerInfoTeamColumn]}).Int("v"); ok && id != 0 {
			return id, nil
		}
	}
	return 0, fmt.Errorf("commonplayerinfo: %w: no team id", ErrUpstreamSchema)
}
