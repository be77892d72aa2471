package query

import (
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

// Parsed is the outcome of understanding one query.
type Parsed struct {
	Query          string `json:"query"`
	Normalized     string `json:"normalized"`
	Intent         Intent `json:"intent"`
	Interpretation string `json:"interpretation"`
}

// Parser runs normalization then extraction.
type Parser struct {
	normalizer *Normalizer
	extractor  *Extractor
}

// NewParser builds a parser over ref.
func NewParser(ref *storage.Reference, opts ...ExtractorOption) *Parser {
	return &Parser{
		normalizer: NewNormalizer(ref),
		extractor:  NewExtractor(ref, opts...),
	}
}

// Parse understands raw.
func (p *Parser) Parse(raw string) Parsed {
	normalized := p.normalizer.Normalize(raw)
	in := p.extractor.Extract(normalized, raw)
	return Parsed{
		Query:          raw,
		Normalized:     normalized,
		Intent:         in,
		Interpretation: Interpretation(in),
	}
}

// Normalizer returns the parser's normalizer.
func (p *Parser) Normalizer() *Normalizer { return p.normalizer }

// Extractor returns the parser's extractor.
func (p *Parser) Extractor() *Extractor { return p.extractor }
