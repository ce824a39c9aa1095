package dircache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/utils"
	"github.com/mpapenbr/racegap-go/pkg/utils/cache"
)

// dirCache keeps loaded entries as files in a directory.
// There is no locking between processes, the directory must not be shared
// by concurrent runs.

type (
	Option     func(*config)
	loaderFunc func(ctx context.Context, key string) (*[]byte, error)
	config     struct {
		expiration time.Duration
		loader     loaderFunc
		l          *log.Logger
	}
	dirCache struct {
		dir    string
		config *config
	}
)

// WithExpiration sets the age after which a cached entry is reloaded.
// A zero duration keeps entries forever.
func WithExpiration(expiration time.Duration) Option {
	return func(c *config) {
		c.expiration = expiration
	}
}

func WithLoader(lf loaderFunc) Option {
	return func(c *config) {
		c.loader = lf
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(c *config) {
		c.l = arg
	}
}

// New creates the cache in dir. The directory is created if it does not exist.
func New(dir string, opts ...Option) (cache.Cache[string, []byte], error) {
	c := &config{
		l: log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &dirCache{dir: dir, config: c}, nil
}

func (c *dirCache) Get(ctx context.Context, key string) (*[]byte, error) {
	name := c.fileName(key)
	if info, err := os.Stat(name); err == nil {
		if c.config.expiration == 0 || time.Since(info.ModTime()) < c.config.expiration {
			data, err := os.ReadFile(name)
			if err == nil {
				c.config.l.Debug("cache hit", log.String("key", key))
				return &data, nil
			}
			c.config.l.Warn("could not read cache entry", log.ErrorField(err))
		}
	}
	return c.load(ctx, key)
}

func (c *dirCache) load(ctx context.Context, key string) (*[]byte, error) {
	if c.config.loader == nil {
		return nil, cache.ErrCacheMiss
	}
	v, err := c.config.loader(ctx, key)
	c.config.l.Debug("dirCache.load", log.String("key", key))
	if err != nil {
		c.config.l.Error("error loading entry", log.ErrorField(err))
		return nil, err
	}
	if err := os.WriteFile(c.fileName(key), *v, 0o600); err != nil {
		// the value is still usable, only the cache entry is missing
		c.config.l.Warn("could not write cache entry", log.ErrorField(err))
	}
	return v, nil
}

func (c *dirCache) Invalidate(ctx context.Context, key string) {
	err := os.Remove(c.fileName(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		c.config.l.Warn("could not remove cache entry", log.ErrorField(err))
	}
	c.config.l.Debug("Invalidate", log.String("key", key))
}

func (c *dirCache) fileName(key string) string {
	return filepath.Join(c.dir, utils.HashKey(key)+".cache")
}
