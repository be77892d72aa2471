// Package storage provides the reference data PlayDex resolves queries
// against: players, teams, roster history and known plays.
package storage

import (
	"errors"
	"sort"
	"strings"
)

// Common errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrEmptyDataset  = errors.New("reference dataset is empty")
	ErrUnknownSource = errors.New("unknown reference source")
)

// Player is a known player. Name is the lowercase, ASCII-folded full name
// used as the lookup key.
type Player struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Nicknames   []string `json:"nicknames,omitempty"`
}

// FirstName returns the first word of the player's name.
func (p Player) FirstName() string {
	parts := strings.Fields(p.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns the last word of the player's name.
func (p Player) LastName() string {
	parts := strings.Fields(p.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Team is an NBA franchise.
type Team struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Nickname     string   `json:"nickname"`
	Abbreviation string   `json:"abbreviation"`
	Aliases      []string `json:"aliases,omitempty"`
}

// Phrases returns the lowercase phrases a query may use for the team.
// Abbreviations are excluded because several collide with English words.
func (t Team) Phrases() []string {
	out := []string{t.Name}
	if t.Nickname != "" {
		out = append(out, t.Nickname)
	}
	return append(out, t.Aliases...)
}

// RosterEntry records the team a player belonged to in one season.
type RosterEntry struct {
	PlayerID int64  `json:"player_id"`
	Season   string `json:"season"`
	TeamID   int64  `json:"team_id"`
}

// KnownPlay is a well-documented historic play used as a last-resort answer.
type KnownPlay struct {
	PlayerID    int64  `json:"player_id"`
	GameID      string `json:"game_id"`
	EventNum    int    `json:"event_num"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Period      int    `json:"period"`
	Clock       string `json:"clock"`
	Matchup     string `json:"matchup"`
	Action      string `json:"action"`
	// Tags are the score specifiers the play satisfies, e.g. BB or GW.
	Tags []string `json:"tags"`
}

// HasTag reports whether the play carries tag.
func (k KnownPlay) HasTag(tag string) bool {
	for _, t := range k.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Dataset is the raw reference data as stored.
type Dataset struct {
	Players    []Player      `json:"players"`
	Teams      []Team        `json:"teams"`
	Roster     []RosterEntry `json:"roster"`
	KnownPlays []KnownPlay   `json:"known_plays"`
}

// Reference is an immutable, indexed view of a Dataset. It is built once at
// startup and shared by every component.
type Reference struct {
	data Dataset

	playersByName map[string]int
	playersByID   map[int64]int
	teamsByID     map[int64]int
	roster        map[int64]map[string]int64
	knownByPlayer map[int64][]KnownPlay
}

// NewReference indexes ds. Player and team order is preserved.
func NewReference(ds Dataset) (*Reference, error) {
	if len(ds.Players) == 0 || len(ds.Teams) == 0 {
		return nil, ErrEmptyDataset
	}

	r := &Reference{
		data:          ds,
		playersByName: make(map[string]int, len(ds.Players)),
		playersByID:   make(map[int64]int, len(ds.Players)),
		teamsByID:     make(map[int64]int, len(ds.Teams)),
		roster:        make(map[int64]map[string]int64),
		knownByPlayer: make(map[int64][]KnownPlay),
	}
	for i, p := range ds.Players {
		r.playersByName[strings.ToLower(p.Name)] = i
		r.playersByID[p.ID] = i
	}
	for i, t := range ds.Teams {
		r.teamsByID[t.ID] = i
	}
	for _, e := range ds.Roster {
		seasons, ok := r.roster[e.PlayerID]
		if !ok {
			seasons = make(map[string]int64)
			r.roster[e.PlayerID] = seasons
		}
		seasons[e.Season] = e.TeamID
	}
	for _, k := range ds.KnownPlays {
		r.knownByPlayer[k.PlayerID] = append(r.knownByPlayer[k.PlayerID], k)
	}
	for id := range r.knownByPlayer {
		plays := r.knownByPlayer[id]
		sort.SliceStable(plays, func(i, j int) bool { return plays[i].Date > plays[j].Date })
	}
	return r, nil
}

// Dataset returns the underlying data.
func (r *Reference) Dataset() Dataset {
	return r.data
}

// Players returns all players in dataset order.
func (r *Reference) Players() []Player {
	return r.data.Players
}

// Teams returns all teams in dataset order.
func (r *Reference) Teams() []Team {
	return r.data.Teams
}

// PlayerByName looks up a player by full name, case-insensitively.
func (r *Reference) PlayerByName(name string) (Player, bool) {
	i, ok := r.playersByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Player{}, false
	}
	return r.data.Players[i], true
}

// PlayerByID looks up a player by id.
func (r *Reference) PlayerByID(id int64) (Player, bool) {
	i, ok := r.playersByID[id]
	if !ok {
		return Player{}, false
	}
	return r.data.Players[i], true
}

// TeamByPhrase looks up a team by any of its phrases, case-insensitively.
func (r *Reference) TeamByPhrase(phrase string) (Team, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	for _, t := range r.data.Teams {
		for _, p := range t.Phrases() {
			if p == phrase {
				return t, true
			}
		}
	}
	return Team{}, false
}

// TeamByID looks up a team by id.
func (r *Reference) TeamByID(id int64) (Team, bool) {
	i, ok := r.teamsByID[id]
	if !ok {
		return Team{}, false
	}
	return r.data.Teams[i], true
}

// RosterTeam returns the team the player was on in season, per the roster
// history.
func (r *Reference) RosterTeam(playerID int64, season string) (int64, bool) {
	id, ok := r.roster[playerID][season]
	return id, ok
}

// KnownPlays returns the player's known plays, newest first.
func (r *Reference) KnownPlays(playerID int64) []KnownPlay {
	return r.knownByPlayer[playerID]
}
