// Package ergast fetches lap times, drivers, results and pit stops from an
// Ergast compatible API (e.g. https://api.jolpi.ca/ergast/f1).
package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/racegap-go/log"
)

const (
	DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"
	// DefaultPageLimit is the max page size accepted by the API
	DefaultPageLimit = 100
)

// ErrRoundNotFound is returned if the provider has no race for season/round
var ErrRoundNotFound = errors.New("round not found")

var (
	pathTotal    = jp.MustParseString("$.MRData.total")
	pathDrivers  = jp.MustParseString("$.MRData.DriverTable.Drivers")
	pathRaces    = jp.MustParseString("$.MRData.RaceTable.Races")
	pathResults  = jp.MustParseString("$.MRData.RaceTable.Races[0].Results")
	pathLaps     = jp.MustParseString("$.MRData.RaceTable.Races[0].Laps")
	pathPitStops = jp.MustParseString("$.MRData.RaceTable.Races[0].PitStops")
)

type (
	Getter interface {
		Get(ctx context.Context, url string) ([]byte, error)
	}
	Client struct {
		baseURL   string
		pageLimit int
		getter    Getter
		l         *log.Logger
	}
	Option func(c *Client)
)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithPageLimit sets the number of entries requested per page.
// Values below 1 are ignored.
func WithPageLimit(limit int) Option {
	return func(c *Client) {
		if limit < 1 {
			c.l.Warn("ignoring invalid page limit", log.Int("limit", limit))
			return
		}
		c.pageLimit = limit
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

func NewClient(getter Getter, opts ...Option) *Client {
	ret := &Client{
		baseURL:   DefaultBaseURL,
		pageLimit: DefaultPageLimit,
		getter:    getter,
		l:         log.Default().Named("ergast"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// FetchRace collects all raw tables needed for the race analysis.
// ErrRoundNotFound is returned if the provider has no results for the round.
func (c *Client) FetchRace(ctx context.Context, season, round int) (*Race, error) {
	ret := &Race{Season: season, Round: round}
	var err error

	if ret.Results, err = c.fetchResults(ctx, season, round); err != nil {
		return nil, err
	}
	if ret.Drivers, err = c.fetchDrivers(ctx, season, round); err != nil {
		return nil, err
	}
	if ret.LapTimes, err = c.fetchLapTimes(ctx, season, round); err != nil {
		return nil, err
	}
	if ret.PitStops, err = c.fetchPitStops(ctx, season, round); err != nil {
		return nil, err
	}
	c.l.Info("fetched race data",
		log.Int("season", season),
		log.Int("round", round),
		log.Int("drivers", len(ret.Drivers)),
		log.Int("results", len(ret.Results)),
		log.Int("lapTimes", len(ret.LapTimes)),
		log.Int("pitStops", len(ret.PitStops)))
	return ret, nil
}

func (c *Client) fetchResults(ctx context.Context, season, round int) ([]Result, error) {
	ret := make([]Result, 0)
	found := false
	err := c.fetchPaged(ctx, c.resourceURL(season, round, "results"), func(obj any) error {
		if races := pathRaces.First(obj); races != nil {
			if list, ok := races.([]any); ok && len(list) > 0 {
				found = true
			}
		}
		items, err := decodePath[Result](obj, pathResults)
		ret = append(ret, items...)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch results")
	}
	if !found {
		return nil, fmt.Errorf("season %d round %d: %w", season, round, ErrRoundNotFound)
	}
	return ret, nil
}

func (c *Client) fetchDrivers(ctx context.Context, season, round int) ([]Driver, error) {
	ret := make([]Driver, 0)
	err := c.fetchPaged(ctx, c.resourceURL(season, round, "drivers"), func(obj any) error {
		items, err := decodePath[Driver](obj, pathDrivers)
		ret = append(ret, items...)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch drivers")
	}
	return ret, nil
}

// fetchLapTimes flattens the lap/timing hierarchy.
// A lap may be split across two pages, flattening makes this transparent.
func (c *Client) fetchLapTimes(ctx context.Context, season, round int) ([]LapTime, error) {
	ret := make([]LapTime, 0)
	err := c.fetchPaged(ctx, c.resourceURL(season, round, "laps"), func(obj any) error {
		laps, err := decodePath[Lap](obj, pathLaps)
		if err != nil {
			return err
		}
		for _, lap := range laps {
			lapNo, err := strconv.Atoi(lap.Number)
			if err != nil {
				return errors.Wrapf(err, "lap number %q", lap.Number)
			}
			for _, t := range lap.Timings {
				secs, err := ParseLapTime(t.Time)
				if err != nil {
					return err
				}
				ret = append(ret, LapTime{DriverID: t.DriverID, Lap: lapNo, Time: secs})
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch lap times")
	}
	return ret, nil
}

// fetchPitStops returns an empty list for races without pit stop data
func (c *Client) fetchPitStops(ctx context.Context, season, round int) ([]PitStop, error) {
	ret := make([]PitStop, 0)
	err := c.fetchPaged(ctx, c.resourceURL(season, round, "pitstops"), func(obj any) error {
		items, err := decodePath[PitStop](obj, pathPitStops)
		ret = append(ret, items...)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch pit stops")
	}
	return ret, nil
}

func (c *Client) resourceURL(season, round int, resource string) string {
	return fmt.Sprintf("%s/%d/%d/%s.json", c.baseURL, season, round, resource)
}

// fetchPaged requests pages of url until MRData.total entries were covered.
// visit is called with the parsed document of each page.
func (c *Client) fetchPaged(ctx context.Context, url string, visit func(obj any) error) error {
	for offset := 0; ; offset += c.pageLimit {
		pageURL := fmt.Sprintf("%s?limit=%d&offset=%d", url, c.pageLimit, offset)
		data, err := c.getter.Get(ctx, pageURL)
		if err != nil {
			return err
		}
		obj, err := oj.ParseString(string(data))
		if err != nil {
			return errors.Wrapf(err, "parse %s", pageURL)
		}
		if err := visit(obj); err != nil {
			return err
		}
		total, err := readTotal(obj)
		if err != nil {
			return errors.Wrapf(err, "read total of %s", pageURL)
		}
		c.l.Debug("page processed",
			log.String("url", url),
			log.Int("offset", offset),
			log.Int("total", total))
		if offset+c.pageLimit >= total {
			return nil
		}
	}
}

func readTotal(obj any) (int, error) {
	switch v := pathTotal.First(obj).(type) {
	case string:
		return strconv.Atoi(v)
	case int64:
		return int(v), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected total %v", v)
	}
}

// decodePath binds the list found at path to a slice of T.
// A missing path yields an empty slice.
func decodePath[T any](obj any, path jp.Expr) ([]T, error) {
	res := path.First(obj)
	if res == nil {
		return nil, nil
	}
	var ret []T
	if err := json.Unmarshal([]byte(oj.JSON(res)), &ret); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path.String())
	}
	return ret, nil
}

// ParseLapTime converts lap times like "1:38.109" or "58.2" to seconds
func ParseLapTime(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty lap time")
	}
	secs := decimal.Zero
	sixty := decimal.NewFromInt(60)
	for _, part := range strings.Split(s, ":") {
		v, err := decimal.NewFromString(part)
		if err != nil {
			return 0, errors.Wrapf(err, "lap time %q", s)
		}
		secs = secs.Mul(sixty).Add(v)
	}
	return secs.InexactFloat64(), nil
}
