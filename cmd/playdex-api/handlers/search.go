// Package handlers provides HTTP handlers for the PlayDex API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/reddy-lalith/PlayDex/internal/observability"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/retrieval"
	"github.com/reddy-lalith/PlayDex/internal/search"
)

// Searcher answers search and parse requests. *search.Service implements it.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
	Parse(raw string) (query.Parsed, error)
}

// MetricsSource exposes orchestrator counters.
type MetricsSource interface {
	Snapshot() retrieval.MetricsSnapshot
}

// SearchHandler handles search, parse and metrics requests.
type SearchHandler struct {
	logger   *observability.Logger
	searcher Searcher
	metrics  MetricsSource
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(logger *observability.Logger, searcher Searcher, metrics MetricsSource) *SearchHandler {
	return &SearchHandler{
		logger:   logger.WithComponent("http"),
		searcher: searcher,
		metrics:  metrics,
	}
}

// SearchRequestDTO is the body of POST /search.
type SearchRequestDTO struct {
	Query  string `json:"query"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

// ParseRequestDTO is the body of POST /parse.
type ParseRequestDTO struct {
	Query string `json:"query"`
}

// Search handles POST /search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var dto SearchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	h.search(w, r, dto)
}

// SearchGet handles GET /search?q=&offset=&limit=.
func (h *SearchHandler) SearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dto := SearchRequestDTO{Query: q.Get("q")}
	for name, dst := range map[string]*int{"offset": &dto.Offset, "limit": &dto.Limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, name+" must be an integer", err.Error())
			return
		}
		*dst = n
	}
	h.search(w, r, dto)
}

func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request, dto SearchRequestDTO) {
	ctx := r.Context()
	resp, err := h.searcher.Search(ctx, search.Request{
		Query:  dto.Query,
		Offset: dto.Offset,
		Limit:  dto.Limit,
	})
	if err != nil {
		if errors.Is(err, search.ErrInvalidRequest) {
			h.writeError(w, http.StatusBadRequest, "invalid search request", err.Error())
			return
		}
		h.logger.WithContext(ctx).Error().Err(err).Str("query", dto.Query).Msg("Search failed")
		h.writeError(w, http.StatusInternalServerError, "search failed", "")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Parse handles POST /parse.
func (h *SearchHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var dto ParseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	parsed, err := h.searcher.Parse(dto.Query)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid parse request", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, parsed)
}

// Metrics handles GET /metrics.
func (h *SearchHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}

func (h *SearchHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn().Err(err).Msg("Write response")
	}
}

func (h *SearchHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	h.writeJSON(w, status, resp)
}
