// Package storage holds the durable key/value stores that keep the console
// session across restarts. Every driver exposes the same string-keyed contract
// as browser local storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Faiz-1107/AMK-Project-Management/internal/config"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Storage is synchronous, string-keyed storage. Get reports a missing key with
// ok=false and a nil error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a Storage that owns a connection or file handle.
type Backend interface {
	Storage
	Close() error
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "file":
		return NewFileStore(cfg.Path)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Namespace), nil
	case "postgres":
		pool, err := NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(pool, cfg.Postgres.Table, cfg.Namespace)
		if err := store.EnsureTable(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := NewObjectStore(cfg.S3, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func namespaced(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
