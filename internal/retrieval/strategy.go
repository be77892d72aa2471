package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/query"
)

// ProgressFunc reports scan progress. It may be called from several
// goroutines.
type ProgressFunc func(done, total int)

// Request is what a strategy fetches for.
type Request struct {
	Intent   query.Intent
	Progress ProgressFunc
}

// Strategy fetches candidates for an intent. Fetch returns whatever it
// gathered even when it also returns an error; the orchestrator treats an
// error as "nothing more from this strategy", never as a failed search.
type Strategy interface {
	Name() string
	// Priority orders applicable strategies; lower runs first.
	Priority(in query.Intent) int
	Applies(in query.Intent) bool
	Fetch(ctx context.Context, req Request) ([]Candidate, error)
}

// Plan returns the strategies that apply to the intent in execution order.
func Plan(strategies []Strategy, in query.Intent) []Strategy {
	var out []Strategy
	for _, s := range strategies {
		if s.Applies(in) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority(in) < out[j].Priority(in)
	})
	return out
}

// Merge concatenates candidate lists, keeps the first occurrence of each
// play and sorts by date, newest first. Ties keep input order.
func Merge(lists ...[]Candidate) []Candidate {
	seen := make(map[string]struct{})
	var out []Candidate
	for _, list := range lists {
		for _, c := range list {
			k := c.key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// requestedCategories returns the intent's categories, defaulting to points.
func requestedCategories(in query.Intent) []lexicon.Category {
	if len(in.Categories) == 0 {
		return []lexicon.Category{lexicon.Points}
	}
	return in.Categories
}

// splitMatchup reads home and visitor abbreviations out of "GSW @ OKC"
// (visitor first) or "POR vs. OKC" (home first).
func splitMatchup(m string) (home, visitor string) {
	if left, right, ok := strings.Cut(m, " @ "); ok {
		return strings.TrimSpace(right), strings.TrimSpace(left)
	}
	if left, right, ok := strings.Cut(m, " vs. "); ok {
		return strings.TrimSpace(left), strings.TrimSpace(right)
	}
	return "", ""
}

// monthCode converts a date to the season-ordered month code used by
// lexicon.Months (October is "01").
func monthCode(t time.Time) string {
	return fmt.Sprintf("%02d", (int(t.Month())+2)%12+1)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
