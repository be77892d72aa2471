package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddy-lalith/PlayDex/internal/cache"
	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/nbastats"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

const dame = int64(203081)

func testReference(t *testing.T) *storage.Reference {
	t.Helper()
	ds, err := storage.EmbeddedDataset()
	require.NoError(t, err)
	ref, err := storage.NewReference(*ds)
	require.NoError(t, err)
	return ref
}

// candidates returns n plays, newest first, one day apart.
func candidates(prefix string, n int) []Candidate {
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{
			GameID:      fmt.Sprintf("00223%05d", i),
			EventNum:    i + 1,
			Date:        base.AddDate(0, 0, -i),
			Description: fmt.Sprintf("%s play %d", prefix, i),
			Category:    lexicon.Points,
			Source:      prefix,
		}
	}
	return out
}

type fakeStrategy struct {
	name     string
	priority int
	out      []Candidate
	err      error
	block    bool
	calls    atomic.Int32
}

func (f *fakeStrategy) Name() string                 { return f.name }
func (f *fakeStrategy) Priority(query.Intent) int    { return f.priority }
func (f *fakeStrategy) Applies(in query.Intent) bool { return in.PlayerID != 0 }
func (f *fakeStrategy) Fetch(ctx context.Context, _ Request) ([]Candidate, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return f.out, ctx.Err()
	}
	return f.out, f.err
}

type fakeLinks struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeLinks) VideoEvent(_ context.Context, gameID string, eventNum int) (nbastats.VideoAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, gameID)
	return nbastats.VideoAsset{URL: "https://videos.example/" + gameID + ".mp4", Thumbnail: "thumb"}, nil
}

func intent() query.Intent {
	return query.Intent{
		Player:     "damian lillard",
		PlayerID:   dame,
		SeasonType: lexicon.RegularSeason,
		Month:      lexicon.NoMonth,
		Categories: []lexicon.Category{lexicon.Points},
	}
}

func TestFallbackReturnsMinOfFoundAndLimit(t *testing.T) {
	for _, tc := range []struct {
		found, limit, want int
	}{
		{7, 5, 5},
		{7, 10, 7},
		{1, 15, 1},
	} {
		t.Run(fmt.Sprintf("%d/%d", tc.found, tc.limit), func(t *testing.T) {
			primary := &fakeStrategy{name: "primary", priority: 10}
			deep := &fakeStrategy{name: "deep_scan", priority: 20, out: candidates("deep", tc.found)}
			known := &fakeStrategy{name: "known_facts", priority: 100, out: candidates("known", 1)}

			o := NewOrchestrator([]Strategy{known, deep, primary}, nil, nil, OrchestratorConfig{}, nil)
			page, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Limit: tc.limit})
			require.NoError(t, err)

			assert.Len(t, page.Results, tc.want)
			assert.Equal(t, tc.found, page.Total)
			assert.Equal(t, tc.found > tc.limit, page.HasMore)
			assert.Equal(t, "deep_scan", page.Strategy)
			assert.Equal(t, int32(1), primary.calls.Load())
			assert.Zero(t, known.calls.Load())
		})
	}
}

func TestFallbackOnError(t *testing.T) {
	primary := &fakeStrategy{name: "primary", priority: 10, err: nbastats.ErrUpstreamTransient}
	known := &fakeStrategy{name: "known_facts", priority: 100, out: candidates("known", 2)}

	o := NewOrchestrator([]Strategy{primary, known}, nil, nil, OrchestratorConfig{}, nil)
	page, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)

	snap := o.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Strategies["primary"].Failures)
	assert.Equal(t, int64(1), snap.Strategies["known_facts"].Successes)
}

func TestPaginationNeverRepeats(t *testing.T) {
	mem := cache.NewMemoryClient(10)

	primary := &fakeStrategy{name: "primary", priority: 10, out: candidates("primary", 23)}
	o := NewOrchestrator([]Strategy{primary}, mem, nil, OrchestratorConfig{CacheTTL: time.Minute}, nil)

	seen := map[string]bool{}
	for offset := 0; offset < 30; offset += 5 {
		page, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Offset: offset, Limit: 5})
		require.NoError(t, err)
		for _, r := range page.Results {
			assert.False(t, seen[r.ID], "duplicate %s at offset %d", r.ID, offset)
			seen[r.ID] = true
		}
		assert.Equal(t, offset+5 < 23, page.HasMore)
	}
	assert.Len(t, seen, 23)
	assert.Equal(t, int32(1), primary.calls.Load(), "later pages come from cache")
	assert.Equal(t, int64(5), o.Metrics().Snapshot().CacheHits)
}

func TestPaginateClampsHugeLimit(t *testing.T) {
	all := candidates("primary", 7)

	got := paginate(all, 3, math.MaxInt)
	require.Len(t, got, 4)
	assert.Equal(t, all[3].EventNum, got[0].EventNum)

	assert.Len(t, paginate(all, 0, 5), 5)
	assert.Nil(t, paginate(all, 7, 5))

	o := NewOrchestrator([]Strategy{&fakeStrategy{name: "primary", priority: 10, out: all}}, nil, nil, OrchestratorConfig{}, nil)
	page, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Offset: 2, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, page.Results, 5)
	assert.False(t, page.HasMore)
}

func TestCorruptCacheEntryIsReplaced(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryClient(10)
	require.NoError(t, mem.Set(ctx, IntentKey(intent()), []byte("{not json"), time.Minute))

	primary := &fakeStrategy{name: "primary", priority: 10, out: candidates("primary", 4)}
	o := NewOrchestrator([]Strategy{primary}, mem, nil, OrchestratorConfig{CacheTTL: time.Minute}, nil)
	page, err := o.Search(ctx, SearchRequest{Intent: intent(), Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Results, 4)
	assert.Equal(t, int32(1), primary.calls.Load())

	_, err = o.Search(ctx, SearchRequest{Intent: intent(), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(1), primary.calls.Load())
	assert.Equal(t, int64(1), o.Metrics().Snapshot().CacheHits)
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryClient(10)
	require.NoError(t, mem.Set(ctx, "other:key", []byte("x"), time.Minute))

	primary := &fakeStrategy{name: "primary", priority: 10, out: candidates("primary", 4)}
	o := NewOrchestrator([]Strategy{primary}, mem, nil, OrchestratorConfig{CacheTTL: time.Minute}, nil)
	_, err := o.Search(ctx, SearchRequest{Intent: intent(), Limit: 10})
	require.NoError(t, err)

	n, err := o.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, mem.Len())

	_, err = o.Search(ctx, SearchRequest{Intent: intent(), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(2), primary.calls.Load())
}

func TestDeadlineReturnsPartialResults(t *testing.T) {
	slow := &fakeStrategy{name: "deep_scan", priority: 10, block: true, out: candidates("deep", 3)}
	never := &fakeStrategy{name: "primary", priority: 20, out: candidates("primary", 9)}

	o := NewOrchestrator([]Strategy{slow, never}, nil, &fakeLinks{}, OrchestratorConfig{Deadline: 30 * time.Millisecond}, nil)
	page, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Limit: 10})
	require.NoError(t, err)

	assert.True(t, page.Partial)
	assert.Len(t, page.Results, 3)
	assert.Zero(t, never.calls.Load())
	assert.Equal(t, int64(1), o.Metrics().Snapshot().DeadlineExpiries)
}

func TestLinksResolvedForPageOnly(t *testing.T) {
	found := candidates("deep", 10)
	found[1].VideoURL = "https://videos.example/existing.mp4"
	deep := &fakeStrategy{name: "deep_scan", priority: 10, out: found}
	links := &fakeLinks{}

	o := NewOrchestrator([]Strategy{deep}, nil, links, OrchestratorConfig{}, nil)
	page, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Limit: 3, Player: "Damian Lillard"})
	require.NoError(t, err)

	require.Len(t, page.Results, 3)
	assert.Len(t, links.calls, 2)
	assert.Equal(t, "https://videos.example/existing.mp4", page.Results[1].VideoURL)
	assert.Equal(t, "https://videos.example/"+found[0].GameID+".mp4", page.Results[0].VideoURL)
	assert.Equal(t, page.Results[0].VideoURL, page.Results[0].Links.NBAVideo)
	assert.Equal(t, []string{"Damian Lillard"}, page.Results[0].Metadata.Players)
}

func TestInvalidPage(t *testing.T) {
	o := NewOrchestrator(nil, nil, nil, OrchestratorConfig{}, nil)
	_, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Limit: 0})
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = o.Search(context.Background(), SearchRequest{Intent: intent(), Offset: -1, Limit: 5})
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestEmptySearch(t *testing.T) {
	o := NewOrchestrator([]Strategy{&fakeStrategy{name: "primary"}}, nil, nil, OrchestratorConfig{}, nil)
	page, err := o.Search(context.Background(), SearchRequest{Intent: intent(), Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Zero(t, page.Total)
	assert.False(t, page.HasMore)
}

func TestPlanOrderDependsOnIntent(t *testing.T) {
	cfg := config.DefaultConfig()
	ref := testReference(t)
	strategies := []Strategy{
		NewKnownFactsStrategy(ref),
		NewPrimaryStrategy(nil, cfg.Search, nil),
		NewDeepScanStrategy(nil, ref, ScanConfigFrom(cfg.Search), nil),
	}
	names := func(ss []Strategy) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.Name())
		}
		return out
	}

	in := intent()
	assert.Equal(t, []string{"primary", "deep_scan", "known_facts"}, names(Plan(strategies, in)))

	in.Score = lexicon.GameWinner
	assert.Equal(t, []string{"deep_scan", "primary", "known_facts"}, names(Plan(strategies, in)))

	in.Categories = []lexicon.Category{lexicon.Rebounds}
	assert.Equal(t, []string{"deep_scan", "primary"}, names(Plan(strategies, in)))

	assert.Empty(t, Plan(strategies, query.Intent{}))
}

func TestMergeDedupesAndSorts(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	a := []Candidate{
		{GameID: "g1", EventNum: 1, Date: d(1), Source: "a"},
		{GameID: "g2", EventNum: 1, Date: d(3), Source: "a"},
		{GameID: "g3", EventNum: 1, Date: d(2), Source: "a"},
	}
	b := []Candidate{
		{GameID: "g2", EventNum: 1, Date: d(3), Source: "b"},
		{GameID: "g4", EventNum: 7, Date: d(2), Source: "b"},
	}

	merged := Merge(a, b)
	require.Len(t, merged, 4)
	assert.Equal(t, "g2", merged[0].GameID)
	assert.Equal(t, "a", merged[0].Source)
	// equal dates keep input order
	assert.Equal(t, "g3", merged[1].GameID)
	assert.Equal(t, "g4", merged[2].GameID)
	assert.Equal(t, "g1", merged[3].GameID)
}

func TestIntentKeyIsStable(t *testing.T) {
	assert.Equal(t, IntentKey(intent()), IntentKey(intent()))
	other := intent()
	other.Season = "2018-19"
	assert.NotEqual(t, IntentKey(intent()), IntentKey(other))
	assert.True(t, strings.HasPrefix(IntentKey(intent()), "search:"))
}

type fakeVideo struct {
	mu      sync.Mutex
	queries []nbastats.VideoQuery
	plays   map[string][]nbastats.VideoPlay
	fail    map[string]error
}

func (f *fakeVideo) VideoDetails(_ context.Context, q nbastats.VideoQuery) ([]nbastats.VideoPlay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if err := f.fail[q.Category]; err != nil {
		return nil, err
	}
	return f.plays[q.Category], nil
}

func videoPlay(event int, desc string, s *nbastats.Score) nbastats.VideoPlay {
	return nbastats.VideoPlay{
		GameID:        "0022300100",
		EventNum:      event,
		Date:          time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Period:        4,
		Clock:         "02:00",
		Description:   desc,
		HomeTeam:      "POR",
		HomeTeamID:    1610612757,
		VisitorTeam:   "OKC",
		VisitorTeamID: 1610612760,
		Score:         s,
	}
}

func TestPrimaryMissesUseAttempts(t *testing.T) {
	src := &fakeVideo{plays: map[string][]nbastats.VideoPlay{
		"FGA": {
			videoPlay(1, "MISS Lillard 30' 3PT Jump Shot", &nbastats.Score{HomeBefore: 50, HomeAfter: 50, VisitorBefore: 48, VisitorAfter: 48}),
			videoPlay(2, "Lillard 25' 3PT Jump Shot", &nbastats.Score{HomeBefore: 50, HomeAfter: 53, VisitorBefore: 48, VisitorAfter: 48}),
			videoPlay(3, "MISS Lillard Driving Layup", nil),
		},
	}}
	p := NewPrimaryStrategy(src, config.DefaultConfig().Search, nil)

	in := intent()
	in.Categories = []lexicon.Category{lexicon.Misses}
	got, err := p.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	q := src.queries[0]
	assert.Equal(t, "FGA", q.Category)
	assert.Equal(t, "2024-25", q.Season)
	assert.Equal(t, 200, q.LastNGames)
	assert.Equal(t, dame, q.PlayerID)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].EventNum)
	assert.Equal(t, 3, got[1].EventNum)
	assert.Equal(t, lexicon.Misses, got[0].Category)
	assert.Equal(t, "OKC @ POR", got[0].Matchup)
}

func TestPrimaryFiltersShotsOnScoringCategoriesOnly(t *testing.T) {
	src := &fakeVideo{plays: map[string][]nbastats.VideoPlay{
		"PTS": {
			videoPlay(1, "Lillard 26' 3PT Jump Shot", nil),
			videoPlay(2, "Lillard Driving Layup", nil),
		},
		"AST": {
			videoPlay(3, "Nurkic Cutting Layup (Lillard 5 AST)", nil),
		},
	}}
	p := NewPrimaryStrategy(src, config.DefaultConfig().Search, nil)

	in := intent()
	in.Season = "2018-19"
	in.Categories = []lexicon.Category{lexicon.Points, lexicon.Assists}
	in.Shots = []lexicon.ShotLabel{lexicon.ShotThree}
	got, err := p.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)

	require.Len(t, src.queries, 2)
	assert.Equal(t, "2018-19", src.queries[0].Season)
	assert.Zero(t, src.queries[0].LastNGames)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].EventNum)
	assert.Equal(t, 3, got[1].EventNum)
	assert.Equal(t, lexicon.Assists, got[1].Category)
}

func TestPrimaryClutchMarginAndErrors(t *testing.T) {
	tight := &nbastats.Score{HomeBefore: 100, HomeAfter: 102, VisitorBefore: 101, VisitorAfter: 101}
	blowout := &nbastats.Score{HomeBefore: 120, HomeAfter: 122, VisitorBefore: 101, VisitorAfter: 101}
	src := &fakeVideo{
		plays: map[string][]nbastats.VideoPlay{
			"PTS": {videoPlay(1, "Lillard Jump Shot", tight), videoPlay(2, "Lillard Jump Shot", blowout)},
		},
		fail: map[string]error{"REB": nbastats.ErrUpstreamSchema},
	}
	p := NewPrimaryStrategy(src, config.DefaultConfig().Search, nil)

	in := intent()
	in.Clutch = lexicon.Last5Minutes
	in.Categories = []lexicon.Category{lexicon.Rebounds, lexicon.Points}
	got, err := p.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].EventNum)
	assert.Equal(t, "Last 5 Minutes", src.queries[1].Clutch)

	in.Categories = []lexicon.Category{lexicon.Rebounds}
	_, err = p.Fetch(context.Background(), Request{Intent: in})
	assert.ErrorIs(t, err, nbastats.ErrUpstreamSchema)
}

func TestPrimaryBuzzerBeaterSendsLastTenSeconds(t *testing.T) {
	src := &fakeVideo{}
	p := NewPrimaryStrategy(src, config.DefaultConfig().Search, nil)

	in := intent()
	in.Score = lexicon.BuzzerBeater
	_, err := p.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)
	assert.Equal(t, "Last 10 Seconds", src.queries[0].Clutch)
}

type fakeGames struct {
	games     map[string][]nbastats.Game
	events    map[string][]nbastats.PlayByPlayEvent
	finderErr error

	inflight, maxInflight atomic.Int32
	pbpCalls              atomic.Int32
}

func (f *fakeGames) GameFinder(_ context.Context, _ int64, _, seasonType string) ([]nbastats.Game, error) {
	if f.finderErr != nil {
		return nil, f.finderErr
	}
	return f.games[seasonType], nil
}

func (f *fakeGames) PlayByPlay(_ context.Context, gameID string) ([]nbastats.PlayByPlayEvent, error) {
	f.pbpCalls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		m := f.maxInflight.Load()
		if n <= m || f.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	return f.events[gameID], nil
}

func seasonGames(n int, matchup string) ([]nbastats.Game, []string) {
	base := time.Date(2019, 3, 30, 0, 0, 0, 0, time.UTC)
	games := make([]nbastats.Game, n)
	ids := make([]string, n)
	for i := range games {
		ids[i] = fmt.Sprintf("00218%05d", i)
		games[i] = nbastats.Game{GameID: ids[i], Date: base.AddDate(0, 0, -i), Matchup: matchup}
	}
	return games, ids
}

// lastShot is a home made three after a 100-100 tie at the given clock.
func lastShot(playerID int64, clock string) []nbastats.PlayByPlayEvent {
	return []nbastats.PlayByPlayEvent{
		{EventNum: 600, MsgType: nbastats.EventMade, Period: 4, Clock: "0:30", VisitorDescription: "George Jump Shot", Score: "100 - 100", Player1ID: 202331},
		{EventNum: 610, MsgType: nbastats.EventRebound, Period: 4, Clock: "0:20", HomeDescription: "Lillard REBOUND", Player1ID: playerID},
		{EventNum: 620, MsgType: nbastats.EventMade, Period: 4, Clock: clock, HomeDescription: "Lillard 37' 3PT Jump Shot", Score: "100 - 103", Player1ID: playerID},
	}
}

func TestDeepScanRareEventUsesBoundedPool(t *testing.T) {
	games, ids := seasonGames(12, "POR vs. OKC")
	src := &fakeGames{
		games:  map[string][]nbastats.Game{"Regular Season": games},
		events: map[string][]nbastats.PlayByPlayEvent{},
	}
	for i, id := range ids {
		clock := "5:00"
		if i%2 == 0 {
			clock = "0:00"
		}
		src.events[id] = lastShot(dame, clock)
	}

	cfg := ScanConfigFrom(config.DefaultConfig().Search)
	cfg.GameDelay = 0
	s := NewDeepScanStrategy(src, testReference(t), cfg, nil)

	var progressed atomic.Int32
	in := intent()
	in.Score = lexicon.GameWinner
	got, err := s.Fetch(context.Background(), Request{Intent: in, Progress: func(done, total int) {
		assert.Equal(t, 12, total)
		progressed.Add(1)
	}})
	require.NoError(t, err)

	require.Len(t, got, 6)
	for i, c := range got {
		assert.Equal(t, ids[2*i], c.GameID, "game order preserved")
		assert.Equal(t, 620, c.EventNum)
		assert.Equal(t, "POR", c.HomeTeam)
		assert.Equal(t, "OKC", c.VisitorTeam)
	}
	assert.Equal(t, int32(12), progressed.Load())
	assert.LessOrEqual(t, src.maxInflight.Load(), int32(2))
}

func TestDeepScanEarlyStopForCommonActions(t *testing.T) {
	games, ids := seasonGames(5, "POR @ HOU")
	src := &fakeGames{
		games:  map[string][]nbastats.Game{"Regular Season": games},
		events: map[string][]nbastats.PlayByPlayEvent{},
	}
	for _, id := range ids {
		src.events[id] = lastShot(dame, "3:00")
	}

	cfg := ScanConfigFrom(config.DefaultConfig().Search)
	cfg.GameDelay = 0
	cfg.EarlyStopCap = 2
	s := NewDeepScanStrategy(src, testReference(t), cfg, nil)

	got, err := s.Fetch(context.Background(), Request{Intent: intent()})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(2), src.pbpCalls.Load())
	assert.Equal(t, int32(1), src.maxInflight.Load())
}

func TestDeepScanFilters(t *testing.T) {
	okc, okcIDs := seasonGames(2, "POR vs. OKC")
	hou, _ := seasonGames(2, "POR @ HOU")
	for i := range hou {
		hou[i].GameID = fmt.Sprintf("00218900%02d", i)
	}
	playoffs := []nbastats.Game{{GameID: "0041800141", Date: time.Date(2019, 4, 23, 0, 0, 0, 0, time.UTC), Matchup: "POR vs. OKC"}}

	src := &fakeGames{
		games: map[string][]nbastats.Game{
			"Regular Season": append(okc, hou...),
			"Playoffs":       playoffs,
		},
		events: map[string][]nbastats.PlayByPlayEvent{},
	}
	for _, id := range append(okcIDs, "0041800141") {
		src.events[id] = lastShot(dame, "1:00")
	}

	s := NewDeepScanStrategy(src, testReference(t), ScanConfig{RareEventGameCap: 40, CommonActionGameCap: 30, ParallelThreshold: 10}, nil)

	in := intent()
	in.OpponentTeamID = 1610612760
	in.Categories = []lexicon.Category{lexicon.Rebounds}
	got, err := s.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "0041800141", got[0].GameID, "playoff game is newest")
	assert.Equal(t, 610, got[0].EventNum)
	assert.Equal(t, lexicon.Rebounds, got[0].Category)
	assert.Equal(t, int32(3), src.pbpCalls.Load())

	// April is month 07
	in.Month = "07"
	got, err = s.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0041800141", got[0].GameID)
}

func TestDeepScanGameFinderFailure(t *testing.T) {
	src := &fakeGames{finderErr: nbastats.ErrUpstreamTransient}
	s := NewDeepScanStrategy(src, nil, ScanConfig{}, nil)

	got, err := s.Fetch(context.Background(), Request{Intent: intent()})
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, nbastats.ErrUpstreamTransient))
}

func TestKnownFacts(t *testing.T) {
	k := NewKnownFactsStrategy(testReference(t))

	in := intent()
	in.Score = lexicon.BuzzerBeater
	got, err := k.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0041800141", got[0].GameID)
	assert.Equal(t, time.Date(2019, 4, 23, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, "POR", got[0].HomeTeam)
	assert.Equal(t, "OKC", got[0].VisitorTeam)

	in.Score = lexicon.GameTying
	got, err = k.Fetch(context.Background(), Request{Intent: in})
	require.NoError(t, err)
	assert.Empty(t, got)

	in.Categories = []lexicon.Category{lexicon.Rebounds}
	assert.False(t, k.Applies(in))
}

func TestSeasonFromGameID(t *testing.T) {
	assert.Equal(t, "2015-16", SeasonFromGameID("0021500824"))
	assert.Equal(t, "2018-19", SeasonFromGameID("0041800141"))
	assert.Equal(t, "1997-98", SeasonFromGameID("0029700001"))
	assert.Equal(t, "1999-00", SeasonFromGameID("0029900001"))
	assert.Equal(t, "", SeasonFromGameID("00"))
}

func TestBuildLinks(t *testing.T) {
	c := Candidate{
		GameID:      "0021500824",
		EventNum:    467,
		Description: "Curry 38' 3PT Jump Shot",
		Matchup:     "GSW @ OKC",
		Category:    lexicon.Points,
	}
	links := BuildLinks(c, "Stephen Curry")

	u, err := url.Parse(links.NBAStats)
	require.NoError(t, err)
	assert.Equal(t, "467", u.Query().Get("GameEventID"))
	assert.Equal(t, "2015-16", u.Query().Get("Season"))
	assert.Equal(t, "Curry 38' 3PT Jump Shot", u.Query().Get("title"))
	assert.Equal(t, "https://www.nba.com/game/0021500824", links.NBAGame)

	yt, err := url.Parse(links.YouTubeSearch)
	require.NoError(t, err)
	assert.Equal(t, "NBA Stephen Curry field goals made GSW @ OKC", yt.Query().Get("search_query"))
	assert.Empty(t, links.NBAVideo)
}

func TestResultIDIsStable(t *testing.T) {
	a := ResultID("0021500824", 467)
	assert.Equal(t, a, ResultID("0021500824", 467))
	assert.NotEqual(t, a, ResultID("0021500824", 468))

	r := NewSearchResult(Candidate{GameID: "0021500824", EventNum: 467, Date: time.Date(2016, 2, 27, 0, 0, 0, 0, time.UTC), Period: 5, Clock: "0:00.6"}, "")
	assert.Equal(t, a, r.ID)
	assert.Equal(t, "2016-02-27", r.Metadata.Date)
	assert.Equal(t, 5, r.Metadata.Quarter)
	assert.Nil(t, r.Metadata.Players)
}

func TestMonthCode(t *testing.T) {
	assert.Equal(t, "01", monthCode(time.Date(2019, 10, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "04", monthCode(time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "12", monthCode(time.Date(2019, 9, 5, 0, 0, 0, 0, time.UTC)))
}
