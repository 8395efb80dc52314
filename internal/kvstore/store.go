// Package kvstore provides the string key-value storage that diary records live in.
package kvstore

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/diabetes-diary/internal/config"
	"github.com/vladimiradmaev/diabetes-diary/internal/database"
)

// Store is a persistent text key-value store. A missing key is reported
// through found == false and is never an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open creates the backend selected in cfg, wrapped with the configured key prefix
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store = NewMemoryStore()
	case config.BackendSQLite:
		store, err = NewSQLiteStore(ctx, cfg.Storage.Path)
	case config.BackendRedis:
		store, err = NewRedisStore(ctx, cfg.Redis)
	case config.BackendPostgres:
		db, dbErr := database.NewPostgresDB(cfg.DB)
		if dbErr != nil {
			return nil, dbErr
		}
		store = NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	return WithPrefix(store, cfg.Storage.Prefix), nil
}

type prefixed struct {
	Store
	prefix string
}

// WithPrefix namespaces every key of s
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{Store: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.Store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.Store.Set(ctx, p.prefix+key, value)
}
