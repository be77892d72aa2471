package hint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/lexicon"
	"github.com/reddy-lalith/PlayDex/internal/query"
)

func TestApplyFillsOnlyEmptyFields(t *testing.T) {
	in := query.Intent{Player: "damian lillard", SeasonType: lexicon.RegularSeason, SeasonTypeStated: true}
	filled := Apply(&in, Hint{
		Player:     "Stephen Curry",
		Team:       "Oklahoma City Thunder",
		Season:     "2018-19",
		SeasonType: "Playoffs",
	})

	assert.Equal(t, []string{"team", "season"}, filled)
	assert.Equal(t, "damian lillard", in.Player)
	assert.Equal(t, "oklahoma city thunder", in.Team)
	assert.Equal(t, "2018-19", in.Season)
	assert.Equal(t, lexicon.RegularSeason, in.SeasonType)
}

func TestApplyIgnoresMalformedValues(t *testing.T) {
	in := query.Intent{}
	filled := Apply(&in, Hint{Player: "  Luka Dončić ", Season: "2019", SeasonType: "summer league"})

	assert.Equal(t, []string{"player"}, filled)
	assert.Equal(t, "luka doncic", in.Player)
	assert.Empty(t, in.Season)
	assert.Empty(t, in.SeasonType)

	Apply(&in, Hint{Season: "2019-21", SeasonType: "playoffs"})
	assert.Empty(t, in.Season)
	assert.Equal(t, lexicon.Playoffs, in.SeasonType)
}

func TestApplyReplacesDefaultSeasonType(t *testing.T) {
	in := query.Intent{Player: "jayson tatum", SeasonType: lexicon.RegularSeason}
	filled := Apply(&in, Hint{SeasonType: "Playoffs"})

	assert.Equal(t, []string{"season_type"}, filled)
	assert.Equal(t, lexicon.Playoffs, in.SeasonType)
	assert.True(t, in.SeasonTypeStated)

	assert.Empty(t, Apply(&in, Hint{SeasonType: "Pre Season"}))
	assert.Equal(t, lexicon.Playoffs, in.SeasonType)
}

func TestDecode(t *testing.T) {
	h, err := decode(`{"player":"Kevin Durant","team":"","season":"2016-17","season_type":""}`)
	require.NoError(t, err)
	assert.Equal(t, Hint{Player: "Kevin Durant", Season: "2016-17"}, h)

	h, err = decode("```json\n{\"player\": \"Kobe Bryant\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Kobe Bryant", h.Player)

	_, err = decode(`{"player":"","team":"","season":"","season_type":""}`)
	assert.ErrorIs(t, err, ErrNoHint)

	_, err = decode("   ")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = decode("no idea")
	assert.Error(t, err)
}

func TestStrictSchemaRequiresEveryField(t *testing.T) {
	s := strictSchema[Hint]()
	assert.Equal(t, "object", s["type"])
	assert.Equal(t, false, s["additionalProperties"])
	assert.Equal(t, []string{"player", "season", "season_type", "team"}, s["required"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 4)
}

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(context.Background(), config.HintConfig{Provider: "none"})
	require.NoError(t, err)
	_, err = p.Suggest(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoHint)

	_, err = New(context.Background(), config.HintConfig{Provider: "openai"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(context.Background(), config.HintConfig{Provider: "gemini"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(context.Background(), config.HintConfig{Provider: "claude"})
	assert.Error(t, err)
}

func TestOpenAIProviderSuggest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "resp_1",
			"object": "response",
			"created_at": 1700000000,
			"model": "gpt-4o-mini",
			"status": "completed",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"role": "assistant",
				"status": "completed",
				"content": [{
					"type": "output_text",
					"annotations": [],
					"text": "{\"player\":\"Damian Lillard\",\"team\":\"Thunder\",\"season\":\"2018-19\",\"season_type\":\"Playoffs\"}"
				}]
			}]
		}`)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(config.HintConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	h, err := p.Suggest(context.Background(), "dame buzzer beater vs okc 2019 playoffs")
	require.NoError(t, err)
	assert.Equal(t, Hint{Player: "Damian Lillard", Team: "Thunder", Season: "2018-19", SeasonType: "Playoffs"}, h)

	assert.Equal(t, defaultOpenAIModel, got["model"])
	text, ok := got["text"].(map[string]any)
	require.True(t, ok)
	format, ok := text["format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, true, format["strict"])
}

func TestGeminiProviderSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{
				"content": {
					"role": "model",
					"parts": [{"text": "{\"player\": \"Stephen Curry\", \"team\": \"\", \"season\": \"2015-16\", \"season_type\": \"\"}"}]
				}
			}]
		}`)
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), config.HintConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	h, err := p.Suggest(context.Background(), "steph game winner okc 2016")
	require.NoError(t, err)
	assert.Equal(t, Hint{Player: "Stephen Curry", Season: "2015-16"}, h)
}

func TestProviderErrorsAreWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(config.HintConfig{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	_, err = p.Suggest(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoHint))
	assert.Contains(t, err.Error(), "openai hint")
}
