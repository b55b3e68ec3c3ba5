package store

import (
	"context"
	"fmt"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// Backend types accepted by Open
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
	TypeSQLite = "sqlite"
)

// Options selects and configures a store backend
type Options struct {
	Type       string
	RedisURL   string
	SQLitePath string
}

// Open builds the configured backend. The returned close function is never nil.
func Open(ctx context.Context, opts Options) (domain.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Type {
	case "", TypeMemory:
		return NewMemoryStore(), noop, nil
	case TypeRedis:
		s, err := NewRedisStore(ctx, opts.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case TypeSQLite:
		s, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store type %q", opts.Type)
	}
}
