package hint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/reddy-lalith/PlayDex/internal/config"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider asks Gemini for a hint in JSON mode.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini-backed provider using an API key.
func NewGeminiProvider(ctx context.Context, cfg config.HintConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiProvider{
		client:  client,
		model:   model,
		timeout: timeoutOf(cfg),
	}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Suggest implements Provider.
func (p *GeminiProvider) Suggest(ctx context.Context, query string) (Hint, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instructions, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	content := genai.NewContentFromText(query, genai.RoleUser)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, []*genai.Content{content}, gc)
	if err != nil {
		return Hint{}, fmt.Errorf("gemini hint: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Hint{}, ErrNoHint
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return decode(text.String())
}
