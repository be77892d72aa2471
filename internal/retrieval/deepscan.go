package retrieval

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reddy-lalith/PlayDex/internal/classify"
	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/nbastats"
	"github.com/reddy-lalith/PlayDex/internal/observability"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

// GameSource lists games and their play-by-play.
type GameSource interface {
	GameFinder(ctx context.Context, playerID int64, season, seasonType string) ([]nbastats.Game, error)
	PlayByPlay(ctx context.Context, gameID string) ([]nbastats.PlayByPlayEvent, error)
}

// ScanConfig tunes the deep scan.
type ScanConfig struct {
	DefaultSeason       string
	RareEventGameCap    int
	CommonActionGameCap int
	// ParallelThreshold is the game count above which rare-event scans
	// use the worker pool.
	ParallelThreshold int
	Concurrency       int
	GameDelay         time.Duration
	// EarlyStopCap stops scanning once this many candidates are found.
	EarlyStopCap int
}

// ScanConfigFrom extracts the scan settings from search configuration.
func ScanConfigFrom(cfg config.SearchConfig) ScanConfig {
	return ScanConfig{
		DefaultSeason:       cfg.DefaultSeason,
		RareEventGameCap:    cfg.RareEventGameCap,
		CommonActionGameCap: cfg.CommonActionGameCap,
		ParallelThreshold:   cfg.ParallelThreshold,
		Concurrency:         cfg.ScanConcurrency,
		GameDelay:           cfg.GameDelay,
		EarlyStopCap:        cfg.EarlyStopCap,
	}
}

// DeepScanStrategy walks the play-by-play of the player's recent games and
// classifies every event client-side. It is the only strategy with raw
// clock data, so last-second intents try it first.
type DeepScanStrategy struct {
	games  GameSource
	ref    *storage.Reference
	cfg    ScanConfig
	logger *observability.Logger
}

// NewDeepScanStrategy creates the deep scan. ref resolves opponent
// abbreviations and may be nil.
func NewDeepScanStrategy(games GameSource, ref *storage.Reference, cfg ScanConfig, logger *observability.Logger) *DeepScanStrategy {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &DeepScanStrategy{
		games:  games,
		ref:    ref,
		cfg:    cfg,
		logger: logger.WithComponent("deep_scan"),
	}
}

// Name implements Strategy.
func (s *DeepScanStrategy) Name() string { return "deep_scan" }

// Priority implements Strategy.
func (s *DeepScanStrategy) Priority(in query.Intent) int {
	if in.RareEvent() {
		return 10
	}
	return 20
}

// Applies needs a resolved player.
func (s *DeepScanStrategy) Applies(in query.Intent) bool { return in.PlayerID != 0 }

// Fetch implements Strategy. Games that fail to load are skipped. On
// cancellation the candidates found so far are returned with the context
// error.
func (s *DeepScanStrategy) Fetch(ctx context.Context, req Request) ([]Candidate, error) {
	in := req.Intent
	games, err := s.listGames(ctx, in)
	if err != nil {
		return nil, err
	}
	games = s.filterGames(in, games)
	if len(games) == 0 {
		return nil, nil
	}

	want := requestedCategories(in)
	crit := classify.Criteria{Shots: in.Shots, LongRange: in.LongRange, Score: in.Score, Clutch: in.Clutch}

	perGame := make([][]Candidate, len(games))
	var done, found atomic.Int64
	scanOne := func(ctx context.Context, i int) {
		events, err := s.games.PlayByPlay(ctx, games[i].GameID)
		if err != nil {
			s.logger.Debug().Str("game_id", games[i].GameID).Err(err).Msg("Skipping game")
		} else {
			perGame[i] = s.match(in, want, crit, games[i], events)
			found.Add(int64(len(perGame[i])))
		}
		n := done.Add(1)
		if req.Progress != nil {
			req.Progress(int(n), len(games))
		}
	}
	stop := func() bool {
		return ctx.Err() != nil || (s.cfg.EarlyStopCap > 0 && found.Load() >= int64(s.cfg.EarlyStopCap))
	}

	parallel := in.RareEvent() && len(games) > s.cfg.ParallelThreshold
	s.logger.Debug().
		Int("games", len(games)).
		Bool("parallel", parallel).
		Msg("Scanning games")

	if parallel {
		var g errgroup.Group
		g.SetLimit(s.cfg.Concurrency)
		for i := range games {
			if stop() {
				break
			}
			g.Go(func() error {
				if !stop() {
					scanOne(ctx, i)
				}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range games {
			if stop() {
				break
			}
			if i > 0 {
				if err := wait(ctx, s.cfg.GameDelay); err != nil {
					break
				}
			}
			scanOne(ctx, i)
		}
	}

	var out []Candidate
	for _, list := range perGame {
		out = append(out, list...)
	}
	return out, ctx.Err()
}

// listGames loads the season's games, regular season and playoffs merged
// for the default season type, newest first.
func (s *DeepScanStrategy) listGames(ctx context.Context, in query.Intent) ([]nbastats.Game, error) {
	season := in.Season
	if season == "" {
		season = s.cfg.DefaultSeason
	}
	types := []lexicon.SeasonType{in.SeasonType}
	if in.SeasonType == lexicon.RegularSeason || in.SeasonType == "" {
		types = []lexicon.SeasonType{lexicon.RegularSeason, lexicon.Playoffs}
	}

	var (
		games []nbastats.Game
		errs  []error
	)
	for _, t := range types {
		g, err := s.games.GameFinder(ctx, in.PlayerID, season, string(t))
		if err != nil {
			s.logger.Warn().Str("season_type", string(t)).Err(err).Msg("Game finder failed")
			errs = append(errs, err)
			continue
		}
		games = append(games, g...)
	}
	if len(games) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.SliceStable(games, func(i, j int) bool { return games[i].Date.After(games[j].Date) })
	return games, nil
}

// filterGames applies the opponent and month filters and the game cap.
func (s *DeepScanStrategy) filterGames(in query.Intent, games []nbastats.Game) []nbastats.Game {
	opponent := ""
	if in.OpponentTeamID != 0 && s.ref != nil {
		if t, ok := s.ref.TeamByID(in.OpponentTeamID); ok {
			opponent = t.Abbreviation
		}
	}

	limit := s.cfg.RareEventGameCap
	if !in.RareEvent() && in.CommonAction() {
		limit = s.cfg.CommonActionGameCap
	}

	var out []nbastats.Game
	for _, g := range games {
		if opponent != "" && !matchupHas(g.Matchup, opponent) {
			continue
		}
		if in.Month != "" && in.Month != lexicon.NoMonth && !g.Date.IsZero() && monthCode(g.Date) != in.Month {
			continue
		}
		out = append(out, g)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func matchupHas(matchup, abbr string) bool {
	home, visitor := splitMatchup(matchup)
	return strings.EqualFold(home, abbr) || strings.EqualFold(visitor, abbr)
}

// match walks a game's events and keeps those crediting the player with a
// requested category and passing the criteria.
func (s *DeepScanStrategy) match(in query.Intent, want []lexicon.Category, crit classify.Criteria, game nbastats.Game, events []nbastats.PlayByPlayEvent) []Candidate {
	home, visitor := splitMatchup(game.Matchup)
	line := classify.Scoreline{Known: true}

	var out []Candidate
	for _, e := range events {
		before := line
		line = line.Advance(e)

		cat, ok := firstRequested(classify.EventCategories(e, in.PlayerID), want)
		if !ok {
			continue
		}

		p := classify.FromEvent(e, before)
		if cat.Shooting() {
			if !crit.Match(p) {
				continue
			}
		} else if !(classify.Criteria{Clutch: crit.Clutch}).Match(p) {
			continue
		}

		out = append(out, Candidate{
			GameID:      game.GameID,
			EventNum:    e.EventNum,
			Date:        game.Date,
			Period:      e.Period,
			Clock:       e.Clock,
			Description: p.Description,
			HomeTeam:    home,
			VisitorTeam: visitor,
			Matchup:     game.Matchup,
			Category:    cat,
			Source:      s.Name(),
		})
	}
	return out
}

// firstRequested returns the first credited category the intent asked for.
func firstRequested(credited, want []lexicon.Category) (lexicon.Category, bool) {
	for _, w := range want {
		for _, c := range credited {
			if c == w {
				return w, true
			}
		}
	}
	return "", false
}
