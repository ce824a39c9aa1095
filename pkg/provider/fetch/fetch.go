// Package fetch provides the HTTP transport shared by the data providers.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/utils/cache"
	"github.com/mpapenbr/racegap-go/pkg/utils/cache/dircache"
	"github.com/mpapenbr/racegap-go/pkg/utils/cache/loadercache"
)

type (
	Fetcher struct {
		client   *http.Client
		limiter  *rate.Limiter
		cacheDir string
		cache    cache.Cache[string, []byte]
		l        *log.Logger
	}
	Option func(f *Fetcher)
)

// StatusError is returned if the provider responds with a status other than 200
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %s failed with status %d", e.URL, e.StatusCode)
}

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithRateLimit limits the number of requests per second sent to the provider.
// Cached responses are not counted.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCacheDir stores responses in dir. The directory is created on demand.
func WithCacheDir(dir string) Option {
	return func(f *Fetcher) {
		f.cacheDir = dir
	}
}

func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		f.l = l
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	ret := &Fetcher{
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
		l:       log.Default().Named("fetch"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.cache = ret.initCache()
	return ret
}

// falls back to an in-memory cache if the cache directory is not usable
func (f *Fetcher) initCache() cache.Cache[string, []byte] {
	if f.cacheDir != "" {
		c, err := dircache.New(f.cacheDir,
			dircache.WithLoader(f.load),
			dircache.WithLogger(f.l.Named("cache")))
		if err == nil {
			return c
		}
		f.l.Warn("could not create cache directory, responses are not persisted",
			log.String("dir", f.cacheDir), log.ErrorField(err))
	}
	return loadercache.New(
		loadercache.WithLoader(f.load),
		loadercache.WithExpiration[string, []byte](time.Hour),
		loadercache.WithLogger[string, []byte](f.l.Named("cache")))
}

// Get returns the body of the response for url.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	data, err := f.cache.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return *data, nil
}

func (f *Fetcher) load(ctx context.Context, url string) (*[]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrapf(err, "create request for %s", url)
	}
	req.Header.Set("Accept", "application/json")
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", url)
	}
	defer resp.Body.Close()
	f.l.Debug("response",
		log.String("url", url),
		log.Int("status", resp.StatusCode),
		log.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response of %s", url)
	}
	return &data, nil
}
