// Package search is the request service behind the API and CLI: it parses a
// query, applies the optional model hint, resolves identities, runs the
// retrieval orchestrator and builds the response envelope.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/hint"
	"github.com/reddy-lalith/PlayDex/internal/identity"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/observability"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/retrieval"
)

// ErrInvalidRequest marks malformed input: an empty query or a bad page
// window.
var ErrInvalidRequest = errors.New("invalid search request")

const (
	noResultsInsight = "No clips found. Try broadening your search."
	manyClipsInsight = "Many clips available - showing most recent"
	manyClipsAt      = 10
)

// IdentityResolver maps names to ids.
type IdentityResolver interface {
	Resolve(ctx context.Context, playerName, season, teamName string) (identity.Resolution, error)
}

// Engine runs a resolved intent.
type Engine interface {
	Search(ctx context.Context, req retrieval.SearchRequest) (*retrieval.Page, error)
}

// Request is one search call.
type Request struct {
	Query string `json:"query"`
	// Offset and Limit select the page; a zero Limit means the default.
	Offset   int                    `json:"offset"`
	Limit    int                    `json:"limit"`
	Progress retrieval.ProgressFunc `json:"-"`
}

// Response is the search envelope.
type Response struct {
	Results        []retrieval.SearchResult `json:"results"`
	Total          int                      `json:"total"`
	HasMore        bool                     `json:"hasMore"`
	Offset         int                      `json:"offset"`
	Limit          int                      `json:"limit"`
	Interpretation string                   `json:"interpretation"`
	Intent         query.Intent             `json:"intent"`
	Insights       []string                 `json:"insights"`
	Strategy       string                   `json:"strategy,omitempty"`
	Partial        bool                     `json:"partial,omitempty"`
}

// Service answers search and parse requests.
type Service struct {
	parser   *query.Parser
	resolver IdentityResolver
	engine   Engine
	hints    hint.Provider
	cfg      config.SearchConfig
	logger   *observability.Logger
}

// NewService wires the service. hints may be nil.
func NewService(parser *query.Parser, resolver IdentityResolver, engine Engine, hints hint.Provider, cfg config.SearchConfig, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if hints == nil {
		hints = hint.Disabled{}
	}
	return &Service{
		parser:   parser,
		resolver: resolver,
		engine:   engine,
		hints:    hints,
		cfg:      cfg,
		logger:   logger.WithComponent("search"),
	}
}

// Parse runs normalization and extraction only.
func (s *Service) Parse(raw string) (query.Parsed, error) {
	if strings.TrimSpace(raw) == "" {
		return query.Parsed{}, fmt.Errorf("%w: empty query", ErrInvalidRequest)
	}
	return s.parser.Parse(raw), nil
}

// Search answers a query. Unresolvable players or teams give an empty
// response, not an error; only malformed input fails.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	limit, err := s.window(req)
	if err != nil {
		return nil, err
	}
	log := s.logger.WithContext(ctx)

	parsed := s.parser.Parse(req.Query)
	in := parsed.Intent
	if filled := s.applyHint(ctx, req.Query, &in); len(filled) > 0 {
		log.Debug().Strs("fields", filled).Str("provider", s.hints.Name()).Msg("Applied hint")
	}

	resp := &Response{
		Results:        []retrieval.SearchResult{},
		Offset:         req.Offset,
		Limit:          limit,
		Interpretation: query.Interpretation(in),
		Intent:         in,
	}

	if in.Player == "" {
		log.Info().Str("query", req.Query).Msg("No player in query")
		resp.Insights = insights(in, "", 0)
		return resp, nil
	}

	res, err := s.resolver.Resolve(ctx, in.Player, s.teamSeason(in), in.Team)
	if err != nil {
		if errors.Is(err, identity.ErrUnresolvedPlayer) || errors.Is(err, identity.ErrUnresolvedTeam) {
			log.Warn().Err(err).Str("query", req.Query).Msg("Identity resolution failed")
			resp.Insights = insights(in, "", 0)
			return resp, nil
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	in.PlayerID = res.PlayerID
	in.TeamID = res.TeamID
	in.OpponentTeamID = res.OpponentTeamID
	resp.Intent = in

	name := res.PlayerName
	if name == "" {
		name = lexicon.Title(in.Player)
	}

	page, err := s.engine.Search(ctx, retrieval.SearchRequest{
		Intent:   in,
		Offset:   req.Offset,
		Limit:    limit,
		Player:   name,
		Progress: req.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("run search: %w", err)
	}

	resp.Results = page.Results
	resp.Total = page.Total
	resp.HasMore = page.HasMore
	resp.Strategy = page.Strategy
	resp.Partial = page.Partial
	resp.Insights = insights(in, name, len(page.Results))
	return resp, nil
}

// window validates the page and returns the effective limit.
func (s *Service) window(req Request) (int, error) {
	if strings.TrimSpace(req.Query) == "" {
		return 0, fmt.Errorf("%w: empty query", ErrInvalidRequest)
	}
	if req.Offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrInvalidRequest, req.Offset)
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit < 1 || (s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit) {
		return 0, fmt.Errorf("%w: limit %d outside 1..%d", ErrInvalidRequest, limit, s.cfg.MaxLimit)
	}
	return limit, nil
}

func (s *Service) applyHint(ctx context.Context, raw string, in *query.Intent) []string {
	h, err := s.hints.Suggest(ctx, raw)
	if err != nil {
		if !errors.Is(err, hint.ErrNoHint) {
			s.logger.WithContext(ctx).Warn().Err(err).Str("provider", s.hints.Name()).Msg("Hint failed")
		}
		return nil
	}
	return hint.Apply(in, h)
}

// teamSeason is the season used to pick the player's team.
func (s *Service) teamSeason(in query.Intent) string {
	switch {
	case in.Season != "":
		return in.Season
	case in.SeasonType == lexicon.AllStar:
		return s.cfg.AllStarDefaultSeason
	default:
		return s.cfg.DefaultSeason
	}
}

func insights(in query.Intent, player string, results int) []string {
	if results == 0 {
		return []string{noResultsInsight}
	}

	var out []string
	if player != "" {
		out = append(out, "Showing clips featuring "+player)
	}

	var focus []string
	if in.Score != "" {
		focus = append(focus, in.Score.Phrase())
	}
	for _, shot := range in.Shots {
		focus = append(focus, string(shot))
	}
	var actions []string
	for _, c := range in.Categories {
		actions = append(actions, c.Action())
	}
	if len(actions) > 0 {
		focus = append(focus, strings.Join(actions, " and "))
	}
	if len(focus) > 0 {
		out = append(out, "Focused on "+strings.Join(focus, " "))
	}

	if results > manyClipsAt {
		out = append(out, manyClipsInsight)
	}
	return out
}
