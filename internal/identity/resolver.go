// Package identity maps resolved names to upstream ids, including the team a
// player belonged to in a given season.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/reddy-lalith/PlayDex/internal/nbastats"
	"github.com/reddy-lalith/PlayDex/internal/observability"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

var (
	ErrUnresolvedPlayer = errors.New("unresolved player")
	ErrUnresolvedTeam   = errors.New("unresolved team")
)

// CareerSource answers roster questions the reference data cannot.
// *nbastats.Client implements it.
type CareerSource interface {
	PlayerCareer(ctx context.Context, playerID int64) ([]nbastats.SeasonTeam, error)
	PlayerCurrentTeam(ctx context.Context, playerID int64) (int64, error)
}

// TeamSource names how a team id was found.
type TeamSource string

const (
	TeamFromRoster    TeamSource = "roster"
	TeamFromCareer    TeamSource = "career"
	TeamFromException TeamSource = "exception"
	TeamFromCurrent   TeamSource = "current"
	TeamUnknown       TeamSource = ""
)

// Resolution is the id triple a search runs with.
type Resolution struct {
	PlayerID       int64
	PlayerName     string
	TeamID         int64
	OpponentTeamID int64
	TeamSource     TeamSource
}

// Resolver resolves players and teams against reference data, falling back
// to the upstream career feed, a table of historical exceptions and finally
// the player's current team.
type Resolver struct {
	ref    *storage.Reference
	career CareerSource
	logger *observability.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	careers map[int64]map[string]int64
}

// NewResolver creates a resolver. career may be nil, which disables the
// upstream steps.
func NewResolver(ref *storage.Reference, career CareerSource, logger *observability.Logger) *Resolver {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Resolver{
		ref:     ref,
		career:  career,
		logger:  logger.WithComponent("identity"),
		careers: make(map[int64]map[string]int64),
	}
}

// Resolve maps a player name to its id and season team, and an optional
// opponent team name to its id. An empty playerName resolves only the
// opponent.
func (r *Resolver) Resolve(ctx context.Context, playerName, season, teamName string) (Resolution, error) {
	var res Resolution

	if teamName != "" {
		team, ok := r.ref.TeamByPhrase(teamName)
		if !ok {
			return Resolution{}, fmt.Errorf("%w: %q", ErrUnresolvedTeam, teamName)
		}
		res.OpponentTeamID = team.ID
	}

	if playerName == "" {
		return res, nil
	}
	player, ok := r.ref.PlayerByName(playerName)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnresolvedPlayer, playerName)
	}
	res.PlayerID = player.ID
	res.PlayerName = player.DisplayName
	res.TeamID, res.TeamSource = r.SeasonTeam(ctx, player.ID, season)

	r.logger.Debug().
		Int64("player_id", res.PlayerID).
		Int64("team_id", res.TeamID).
		Str("season", season).
		Str("team_source", string(res.TeamSource)).
		Msg("Resolved identity")
	return res, nil
}

// SeasonTeam returns the team the player was on in season and where the
// answer came from. It never fails; an unknown team is 0.
func (r *Resolver) SeasonTeam(ctx context.Context, playerID int64, season string) (int64, TeamSource) {
	if id, ok := r.ref.RosterTeam(playerID, season); ok {
		return id, TeamFromRoster
	}

	if r.career != nil {
		if seasons, err := r.careerSeasons(ctx, playerID); err == nil {
			if id, ok := seasons[season]; ok {
				return id, TeamFromCareer
			}
		} else {
			r.logger.Warn().Int64("player_id", playerID).Err(err).Msg("Career lookup failed")
		}
	}

	if start, ok := query.SeasonStartYear(season); ok {
		if id, ok := exceptionTeam(playerID, start); ok {
			return id, TeamFromException
		}
	}

	if r.career != nil {
		id, err := r.career.PlayerCurrentTeam(ctx, playerID)
		if err == nil && id != 0 {
			return id, TeamFromCurrent
		}
		if err != nil {
			r.logger.Warn().Int64("player_id", playerID).Err(err).Msg("Current team lookup failed")
		}
	}
	return 0, TeamUnknown
}

// careerSeasons loads the player's season→team map once per process.
// Concurrent callers for the same player share one upstream call.
func (r *Resolver) careerSeasons(ctx context.Context, playerID int64) (map[string]int64, error) {
	r.mu.RLock()
	seasons, ok := r.careers[playerID]
	r.mu.RUnlock()
	if ok {
		return seasons, nil
	}

	v, err, _ := r.group.Do(strconv.FormatInt(playerID, 10), func() (any, error) {
		rows, err := r.career.PlayerCareer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		m := make(map[string]int64, len(rows))
		for _, row := range rows {
			// first row per season is the team the player started with
			if _, seen := m[row.Season]; !seen {
				m[row.Season] = row.TeamID
			}
		}
		r.mu.Lock()
		r.careers[playerID] = m
		r.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]int64), nil
}
