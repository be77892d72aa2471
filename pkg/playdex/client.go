// Package playdex provides the public Go SDK for the PlayDex HTTP API.
package playdex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the address of a locally running API server.
const DefaultBaseURL = "http://localhost:8000"

// ErrBadRequest is returned, wrapped in *APIError, for 4xx responses.
var ErrBadRequest = errors.New("bad request")

// Client is the public SDK client for PlayDex.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a new PlayDex client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
	}
}

// SearchRequest is a paged search.
type SearchRequest struct {
	Query  string `json:"query"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// SearchResponse is one page of results.
type SearchResponse struct {
	Results        []Result `json:"results"`
	Total          int      `json:"total"`
	HasMore        bool     `json:"hasMore"`
	Offset         int      `json:"offset"`
	Limit          int      `json:"limit"`
	Interpretation string   `json:"interpretation"`
	Intent         Intent   `json:"intent"`
	Insights       []string `json:"insights"`
	Strategy       string   `json:"strategy,omitempty"`
	Partial        bool     `json:"partial,omitempty"`
}

// Result is one play.
type Result struct {
	ID           string   `json:"id"`
	GameID       string   `json:"gameId"`
	EventNum     int      `json:"eventNum"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"videoUrl,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Links        Links    `json:"links"`
	Metadata     Metadata `json:"metadata"`
	Source       string   `json:"source"`
}

// Links are places to watch a play.
type Links struct {
	NBAStats      string `json:"nba_stats"`
	NBAGame       string `json:"nba_game"`
	YouTubeSearch string `json:"youtube_search"`
	NBAVideo      string `json:"nba_video,omitempty"`
}

// Metadata is the game context of a play.
type Metadata struct {
	Date          string   `json:"date,omitempty"`
	Season        string   `json:"season,omitempty"`
	HomeTeam      string   `json:"homeTeam,omitempty"`
	AwayTeam      string   `json:"awayTeam,omitempty"`
	Matchup       string   `json:"matchup,omitempty"`
	Quarter       int      `json:"quarter"`
	TimeRemaining string   `json:"timeRemaining,omitempty"`
	Players       []string `json:"players,omitempty"`
	Action        string   `json:"action"`
}

// Intent is the server's structured reading of a query.
type Intent struct {
	Player         string   `json:"player,omitempty"`
	PlayerID       int64    `json:"playerId,omitempty"`
	Team           string   `json:"team,omitempty"`
	TeamID         int64    `json:"teamId,omitempty"`
	OpponentTeamID int64    `json:"opponentTeamId,omitempty"`
	Season         string   `json:"season,omitempty"`
	SeasonType     string   `json:"seasonType"`
	Month          string   `json:"month"`
	Categories     []string `json:"categories"`
	Shots          []string `json:"shots"`
	Score          string   `json:"score,omitempty"`
	Clutch         string   `json:"clutch,omitempty"`
	LongRange      bool     `json:"longRange,omitempty"`
}

// ParseResponse is the result of parsing a query without searching.
type ParseResponse struct {
	Query          string `json:"query"`
	Normalized     string `json:"normalized"`
	Intent         Intent `json:"intent"`
	Interpretation string `json:"interpretation"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("playdex: %d %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("playdex: %d %s", e.StatusCode, e.Message)
}

// Unwrap maps 4xx responses to ErrBadRequest.
func (e *APIError) Unwrap() error {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return ErrBadRequest
	}
	return nil
}

// Search runs a query and returns one page of results.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchAll pages through a query until max results are collected or the
// server reports no more. pageSize 0 uses the server default.
func (c *Client) SearchAll(ctx context.Context, query string, pageSize, max int) ([]Result, error) {
	var out []Result
	offset := 0
	for max <= 0 || len(out) < max {
		page, err := c.Search(ctx, SearchRequest{Query: query, Offset: offset, Limit: pageSize})
		if err != nil {
			return out, err
		}
		out = append(out, page.Results...)
		if !page.HasMore || len(page.Results) == 0 {
			break
		}
		offset += len(page.Results)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}

// Parse returns the server's interpretation of a query.
func (c *Client) Parse(ctx context.Context, query string) (*ParseResponse, error) {
	var resp ParseResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/parse", map[string]string{"query": query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks the service health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
