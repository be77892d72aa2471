package retrieval

import (
	"context"
	"fmt"

	"github.com/reddy-lalith/PlayDex/internal/classify"
	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/nbastats"
	"github.com/reddy-lalith/PlayDex/internal/observability"
	"github.com/reddy-lalith/PlayDex/internal/query"
)

// VideoSource is the category-scoped video endpoint.
type VideoSource interface {
	VideoDetails(ctx context.Context, q nbastats.VideoQuery) ([]nbastats.VideoPlay, error)
}

// PrimaryStrategy queries the video endpoint once per requested category.
type PrimaryStrategy struct {
	source        VideoSource
	defaultSeason string
	lastNGames    int
	logger        *observability.Logger
}

// NewPrimaryStrategy creates the primary engine.
func NewPrimaryStrategy(source VideoSource, cfg config.SearchConfig, logger *observability.Logger) *PrimaryStrategy {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &PrimaryStrategy{
		source:        source,
		defaultSeason: cfg.DefaultSeason,
		lastNGames:    cfg.LastNGames,
		logger:        logger.WithComponent("primary"),
	}
}

// Name implements Strategy.
func (p *PrimaryStrategy) Name() string { return "primary" }

// Priority runs the primary engine first except for last-second intents,
// whose clock data it lacks.
func (p *PrimaryStrategy) Priority(in query.Intent) int {
	if in.RareEvent() {
		return 20
	}
	return 10
}

// Applies needs a resolved player.
func (p *PrimaryStrategy) Applies(in query.Intent) bool { return in.PlayerID != 0 }

// Fetch implements Strategy. A failed category is logged and skipped.
func (p *PrimaryStrategy) Fetch(ctx context.Context, req Request) ([]Candidate, error) {
	in := req.Intent
	season, lastN := in.Season, 0
	if season == "" {
		season, lastN = p.defaultSeason, p.lastNGames
	}

	var (
		out     []Candidate
		lastErr error
	)
	for _, cat := range requestedCategories(in) {
		measure := cat
		if cat == lexicon.Misses {
			measure = lexicon.Attempts
		}

		plays, err := p.source.VideoDetails(ctx, nbastats.VideoQuery{
			PlayerID:       in.PlayerID,
			TeamID:         in.TeamID,
			OpponentTeamID: in.OpponentTeamID,
			Season:         season,
			SeasonType:     string(in.SeasonType),
			Category:       string(measure),
			Clutch:         string(in.EffectiveClutch()),
			Month:          in.Month,
			LastNGames:     lastN,
		})
		if err != nil {
			lastErr = err
			p.logger.Warn().Str("category", string(cat)).Err(err).Msg("Video details failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		kept := 0
		for _, play := range plays {
			if !p.keep(in, cat, play) {
				continue
			}
			out = append(out, candidateFromVideo(play, cat, p.Name()))
			kept++
		}
		p.logger.Debug().
			Str("category", string(cat)).
			Int("returned", len(plays)).
			Int("kept", kept).
			Msg("Category fetched")
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

// keep applies the client-side filters the endpoint cannot express.
func (p *PrimaryStrategy) keep(in query.Intent, cat lexicon.Category, play nbastats.VideoPlay) bool {
	cp := classify.FromVideo(play, in.TeamID)

	if cat == lexicon.Misses {
		if play.Score != nil {
			if play.Score.PointChange() != 0 {
				return false
			}
		} else if !classify.IsMiss(play.Description) {
			return false
		}
	}

	if cat.Shooting() {
		crit := classify.Criteria{Shots: in.Shots, LongRange: in.LongRange, Score: in.Score}
		if !crit.Match(cp) {
			return false
		}
	}

	// the endpoint applies the clock window; only the margin is left
	if in.Clutch != "" && !in.RareEvent() && !classify.WithinClutchMargin(cp) {
		return false
	}
	return true
}

func candidateFromVideo(v nbastats.VideoPlay, cat lexicon.Category, source string) Candidate {
	c := Candidate{
		GameID:       v.GameID,
		EventNum:     v.EventNum,
		Date:         v.Date,
		Period:       v.Period,
		Clock:        v.Clock,
		Description:  v.Description,
		HomeTeam:     v.HomeTeam,
		VisitorTeam:  v.VisitorTeam,
		Category:     cat,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Source:       source,
	}
	if v.HomeTeam != "" && v.VisitorTeam != "" {
		c.Matchup = fmt.Sprintf("%s @ %s", v.VisitorTeam, v.HomeTeam)
	}
	return c
}
