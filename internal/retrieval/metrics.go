package retrieval

import (
	"sync"
	"sync/atomic"
)

// StrategyStats counts one strategy's outcomes.
type StrategyStats struct {
	Attempts  int64 `json:"attempts"`
	Successes int64 `json:"successes"`
	Empty     int64 `json:"empty"`
	Failures  int64 `json:"failures"`
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests         int64                    `json:"requests"`
	CacheHits        int64                    `json:"cacheHits"`
	CacheMisses      int64                    `json:"cacheMisses"`
	DeadlineExpiries int64                    `json:"deadlineExpiries"`
	LinksResolved    int64                    `json:"linksResolved"`
	Strategies       map[string]StrategyStats `json:"strategies"`
}

// Metrics tracks orchestrator counters.
type Metrics struct {
	requests         atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
	deadlineExpiries atomic.Int64
	linksResolved    atomic.Int64

	mu         sync.Mutex
	strategies map[string]*StrategyStats
}

// NewMetrics creates a zeroed tracker.
func NewMetrics() *Metrics {
	return &Metrics{strategies: make(map[string]*StrategyStats)}
}

func (m *Metrics) strategy(name string, update func(*StrategyStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.strategies[name]
	if !ok {
		st = &StrategyStats{}
		m.strategies[name] = st
	}
	update(st)
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	strategies := make(map[string]StrategyStats, len(m.strategies))
	for name, st := range m.strategies {
		strategies[name] = *st
	}
	return MetricsSnapshot{
		Requests:         m.requests.Load(),
		CacheHits:        m.cacheHits.Load(),
		CacheMisses:      m.cacheMisses.Load(),
		DeadlineExpiries: m.deadlineExpiries.Load(),
		LinksResolved:    m.linksResolved.Load(),
		Strategies:       strategies,
	}
}
