package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/reddy-lalith/PlayDex/internal/cache"
	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/nbastats"
	"github.com/reddy-lalith/PlayDex/internal/observability"
	"github.com/reddy-lalith/PlayDex/internal/query"
)

// ErrInvalidPage is returned for a negative offset or non-positive limit.
var ErrInvalidPage = errors.New("invalid page window")

// LinkResolver looks up the video for one event.
type LinkResolver interface {
	VideoEvent(ctx context.Context, gameID string, eventNum int) (nbastats.VideoAsset, error)
}

// OrchestratorConfig tunes the orchestrator.
type OrchestratorConfig struct {
	// Deadline bounds a whole search; zero disables it.
	Deadline  time.Duration
	LinkDelay time.Duration
	CacheTTL  time.Duration
}

// OrchestratorConfigFrom extracts orchestrator settings from configuration.
func OrchestratorConfigFrom(cfg *config.Config) OrchestratorConfig {
	return OrchestratorConfig{
		Deadline:  cfg.Search.RequestDeadline,
		LinkDelay: cfg.Search.LinkDelay,
		CacheTTL:  cfg.Cache.TTL,
	}
}

// SearchRequest is one page request for an intent.
type SearchRequest struct {
	Intent query.Intent
	Offset int
	Limit  int
	// Player is the display name used in result metadata and links.
	Player   string
	Progress ProgressFunc
}

// Page is a window over the merged, date-sorted candidates.
type Page struct {
	Results []SearchResult
	Total   int
	HasMore bool
	Offset  int
	Limit   int
	// Strategy names the strategy that produced the candidates.
	Strategy string
	// Partial is set when the deadline cut the search short.
	Partial bool
	Cached  bool
}

// Orchestrator runs strategies in order until one yields candidates, then
// paginates globally and resolves video links for the page.
type Orchestrator struct {
	strategies []Strategy
	cache      cache.Client
	links      LinkResolver
	cfg        OrchestratorConfig
	metrics    *Metrics
	logger     *observability.Logger
}

// NewOrchestrator creates an orchestrator. cacheClient and links may be nil.
func NewOrchestrator(strategies []Strategy, cacheClient cache.Client, links LinkResolver, cfg OrchestratorConfig, logger *observability.Logger) *Orchestrator {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if cacheClient == nil {
		cacheClient = cache.NopClient{}
	}
	return &Orchestrator{
		strategies: strategies,
		cache:      cacheClient,
		links:      links,
		cfg:        cfg,
		metrics:    NewMetrics(),
		logger:     logger.WithComponent("orchestrator"),
	}
}

// Metrics returns the orchestrator's counters.
func (o *Orchestrator) Metrics() *Metrics { return o.metrics }

// Search returns one page of results. Upstream failures never fail the
// search; an expired deadline returns what was gathered with Partial set.
func (o *Orchestrator) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	if req.Offset < 0 || req.Limit <= 0 {
		return nil, fmt.Errorf("%w: offset %d limit %d", ErrInvalidPage, req.Offset, req.Limit)
	}
	o.metrics.requests.Add(1)
	start := time.Now()

	if o.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Deadline)
		defer cancel()
	}
	log := o.logger.WithContext(ctx)

	page := &Page{Offset: req.Offset, Limit: req.Limit}
	candidates := o.collect(ctx, req, page)

	page.Total = len(candidates)
	window := paginate(candidates, req.Offset, req.Limit)
	page.HasMore = req.Offset+len(window) < page.Total

	o.resolveLinks(ctx, window)
	if ctx.Err() != nil && !page.Partial {
		page.Partial = true
	}
	if page.Partial {
		o.metrics.deadlineExpiries.Add(1)
	}

	page.Results = make([]SearchResult, 0, len(window))
	for _, c := range window {
		page.Results = append(page.Results, NewSearchResult(c, req.Player))
	}

	log.Info().
		Str("strategy", page.Strategy).
		Int("total", page.Total).
		Int("returned", len(page.Results)).
		Bool("partial", page.Partial).
		Bool("cached", page.Cached).
		Dur("latency", time.Since(start)).
		Msg("Search complete")
	return page, nil
}

// collect returns the merged candidate list for the intent, from cache or
// by running the strategy plan.
func (o *Orchestrator) collect(ctx context.Context, req SearchRequest, page *Page) []Candidate {
	key := IntentKey(req.Intent)
	if cached, ok := o.cacheGet(ctx, key); ok {
		page.Cached = true
		page.Strategy = "cache"
		return cached
	}

	log := o.logger.WithContext(ctx)
	var merged []Candidate
	for _, s := range Plan(o.strategies, req.Intent) {
		if ctx.Err() != nil {
			page.Partial = true
			break
		}

		name := s.Name()
		o.metrics.strategy(name, func(st *StrategyStats) { st.Attempts++ })
		found, err := s.Fetch(ctx, Request{Intent: req.Intent, Progress: req.Progress})
		if err != nil {
			o.metrics.strategy(name, func(st *StrategyStats) { st.Failures++ })
			if ctx.Err() != nil {
				page.Partial = true
			}
			log.Warn().Str("strategy", name).Int("found", len(found)).Err(err).Msg("Strategy failed")
		}
		if len(found) == 0 {
			o.metrics.strategy(name, func(st *StrategyStats) { st.Empty++ })
			log.Debug().Str("strategy", name).Msg("Strategy returned nothing, falling back")
			continue
		}

		o.metrics.strategy(name, func(st *StrategyStats) { st.Successes++ })
		merged = Merge(found)
		page.Strategy = name
		break
	}

	if !page.Partial && len(merged) > 0 {
		o.cacheSet(ctx, key, merged)
	}
	return merged
}

func (o *Orchestrator) cacheGet(ctx context.Context, key string) ([]Candidate, bool) {
	raw, err := o.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			o.logger.Warn().Err(err).Msg("Cache read failed")
		}
		o.metrics.cacheMisses.Add(1)
		return nil, false
	}
	var out []Candidate
	if err := json.Unmarshal(raw, &out); err != nil {
		o.logger.Warn().Err(err).Msg("Discarding unreadable cache entry")
		if err := o.cache.Delete(ctx, key); err != nil {
			o.logger.Warn().Err(err).Msg("Cache delete failed")
		}
		o.metrics.cacheMisses.Add(1)
		return nil, false
	}
	o.metrics.cacheHits.Add(1)
	return out, true
}

func (o *Orchestrator) cacheSet(ctx context.Context, key string, candidates []Candidate) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Encode cache entry")
		return
	}
	if err := o.cache.Set(ctx, key, raw, o.cfg.CacheTTL); err != nil {
		o.logger.Warn().Err(err).Msg("Cache write failed")
	}
}

// resolveLinks fills missing video URLs for the page, one call at a time
// with LinkDelay between calls. Failures leave the result without video.
func (o *Orchestrator) resolveLinks(ctx context.Context, window []Candidate) {
	if o.links == nil {
		return
	}
	calls := 0
	for i := range window {
		if window[i].VideoURL != "" {
			continue
		}
		if calls > 0 {
			if err := wait(ctx, o.cfg.LinkDelay); err != nil {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		calls++

		asset, err := o.links.VideoEvent(ctx, window[i].GameID, window[i].EventNum)
		if err != nil {
			o.logger.Debug().Str("game_id", window[i].GameID).Int("event", window[i].EventNum).Err(err).Msg("No video link")
			continue
		}
		window[i].VideoURL = asset.URL
		if window[i].ThumbnailURL == "" {
			window[i].ThumbnailURL = asset.Thumbnail
		}
		o.metrics.linksResolved.Add(1)
	}
}

// paginate returns a copy of the [offset, offset+limit) window.
func paginate(all []Candidate, offset, limit int) []Candidate {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit < end-offset {
		end = offset + limit
	}
	return append([]Candidate(nil), all[offset:end]...)
}

const cacheNamespace = "search"

// IntentKey is the cache key for an intent's merged candidates.
func IntentKey(in query.Intent) string {
	raw, _ := json.Marshal(in)
	sum := sha256.Sum256(raw)
	return cache.Key(cacheNamespace, hex.EncodeToString(sum[:]))
}

// ClearCache drops every cached candidate list and returns how many were
// removed.
func (o *Orchestrator) ClearCache(ctx context.Context) (int, error) {
	n, err := o.cache.DeleteByPrefix(ctx, cacheNamespace+":")
	if err != nil {
		return n, fmt.Errorf("clear search cache: %w", err)
	}
	o.logger.Info().Int("removed", n).Msg("Search cache cleared")
	return n, nil
}
