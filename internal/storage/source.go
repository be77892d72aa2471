package storage

import (
	"context"
	"fmt"

	"github.com/reddy-lalith/PlayDex/internal/config"
)

// Source loads a reference dataset.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Close() error
}

// OpenSource returns the source selected by cfg.
func OpenSource(ctx context.Context, cfg config.ReferenceConfig) (Source, error) {
	switch cfg.Source {
	case "", "embedded":
		return EmbeddedSource{}, nil
	case "sqlite":
		return OpenSQLStore(ctx, DialectSQLite, cfg.SQLitePath)
	case "postgres":
		return OpenSQLStore(ctx, DialectPostgres, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// LoadReference opens the configured source, loads and indexes it.
func LoadReference(ctx context.Context, cfg config.ReferenceConfig) (*Reference, error) {
	src, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ds, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference data from %s: %w", cfg.Source, err)
	}
	return NewReference(*ds)
}
