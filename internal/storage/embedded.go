package storage

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/reference.json
var embeddedReference []byte

// EmbeddedSource serves the reference dataset compiled into the binary.
type EmbeddedSource struct{}

// Load decodes the embedded dataset.
func (EmbeddedSource) Load(_ context.Context) (*Dataset, error) {
	return decodeDataset(embeddedReference)
}

// Close is a no-op.
func (EmbeddedSource) Close() error { return nil }

// EmbeddedDataset returns a fresh copy of the compiled-in dataset.
func EmbeddedDataset() (*Dataset, error) {
	return decodeDataset(embeddedReference)
}

func decodeDataset(raw []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode reference dataset: %w", err)
	}
	return &ds, nil
}
