package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	// Prefix namespaces every key. Open ignores it; pass it to
	// NewScopedKeyer.
	Prefix string `toml:"prefix"`
}

// Open returns the backend cfg names. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: directory is required")
		}
		return nonNil(NewFileCache(cfg.Dir))
	case BackendRedis:
		return nonNil(NewRedisCache(ctx, cfg.RedisURL))
	case BackendMongo:
		return nonNil(NewMongoCache(ctx, MongoOptions{URI: cfg.MongoURI, Database: cfg.MongoDatabase}))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// nonNil keeps a typed nil pointer out of the returned interface.
func nonNil[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
