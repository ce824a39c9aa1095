// Package openf1 fetches per-lap sector timing from the OpenF1 API.
package openf1

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/mpapenbr/racegap-go/log"
)

const DefaultBaseURL = "https://api.openf1.org/v1"

var ErrRoundNotFound = errors.New("round not found")

type (
	Getter interface {
		Get(ctx context.Context, url string) ([]byte, error)
	}
	Client struct {
		baseURL string
		getter  Getter
		l       *log.Logger
	}
	Option func(c *Client)
)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

func NewClient(getter Getter, opts ...Option) *Client {
	ret := &Client{
		baseURL: DefaultBaseURL,
		getter:  getter,
		l:       log.Default().Named("openf1"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// FetchSectorLaps returns one wide record per driver and lap of the race
// session for season/round. The records are ordered by driver code and lap.
func (c *Client) FetchSectorLaps(ctx context.Context, season, round int) ([]SectorLap, error) {
	session, err := c.findRaceSession(ctx, season, round)
	if err != nil {
		return nil, err
	}
	key := url.Values{"session_key": {fmt.Sprint(session.SessionKey)}}

	var drivers []Driver
	if err := c.fetch(ctx, "drivers", key, &drivers); err != nil {
		return nil, err
	}
	var laps []Lap
	if err := c.fetch(ctx, "laps", key, &laps); err != nil {
		return nil, err
	}
	var stints []Stint
	if err := c.fetch(ctx, "stints", key, &stints); err != nil {
		return nil, err
	}
	var raceControl []RaceControl
	if err := c.fetch(ctx, "race_control", key, &raceControl); err != nil {
		return nil, err
	}

	codes := lo.SliceToMap(drivers, func(d Driver) (int, string) {
		return d.DriverNumber, d.NameAcronym
	})
	maxLap := 0
	for i := range laps {
		maxLap = max(maxLap, laps[i].LapNumber)
	}
	status := TrackStatusByLap(raceControl, maxLap)
	compounds := compoundByLap(stints)

	ret := make([]SectorLap, 0, len(laps))
	unknown := make(map[int]int) // driver number -> laps
	for i := range laps {
		l := &laps[i]
		code, ok := codes[l.DriverNumber]
		if !ok {
			// these laps will not match any lap row of the race
			code = fmt.Sprint(l.DriverNumber)
			unknown[l.DriverNumber]++
		}
		ret = append(ret, SectorLap{
			DriverCode:  code,
			LapNumber:   l.LapNumber,
			LapTime:     fromPtr(l.LapDuration),
			Sector1:     fromPtr(l.DurationSector1),
			Sector2:     fromPtr(l.DurationSector2),
			Sector3:     fromPtr(l.DurationSector3),
			Compound:    compounds[stintKey{l.DriverNumber, l.LapNumber}],
			TrackStatus: status[l.LapNumber],
		})
	}
	slices.SortStableFunc(ret, func(a, b SectorLap) int {
		if r := cmp.Compare(a.DriverCode, b.DriverCode); r != 0 {
			return r
		}
		return cmp.Compare(a.LapNumber, b.LapNumber)
	})
	if len(unknown) > 0 {
		numbers := lo.Keys(unknown)
		slices.Sort(numbers)
		c.l.Warn("no acronym for drivers, their laps stay unmatched",
			log.Ints("driverNumbers", numbers),
			log.Int("laps", lo.Sum(lo.Values(unknown))))
	}
	c.l.Info("fetched sector laps",
		log.Int("season", season),
		log.Int("round", round),
		log.Int("sessionKey", session.SessionKey),
		log.Int("laps", len(ret)))
	return ret, nil
}

// findRaceSession returns the round-th race session of the season.
// OpenF1 has no round numbers, races are ordered by their start date.
func (c *Client) findRaceSession(ctx context.Context, season, round int) (*Session, error) {
	var sessions []Session
	q := url.Values{"year": {fmt.Sprint(season)}, "session_name": {"Race"}}
	if err := c.fetch(ctx, "sessions", q, &sessions); err != nil {
		return nil, err
	}
	slices.SortStableFunc(sessions, func(a, b Session) int {
		return cmp.Compare(a.DateStart, b.DateStart)
	})
	if round < 1 || round > len(sessions) {
		return nil, fmt.Errorf("season %d round %d: %w", season, round, ErrRoundNotFound)
	}
	return &sessions[round-1], nil
}

func (c *Client) fetch(ctx context.Context, resource string, q url.Values, target any) error {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, q.Encode())
	data, err := c.getter.Get(ctx, u)
	if err != nil {
		return errors.Wrapf(err, "fetch %s", resource)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.Wrapf(err, "decode %s", resource)
	}
	return nil
}

type stintKey struct {
	driverNumber int
	lap          int
}

func compoundByLap(stints []Stint) map[stintKey]string {
	ret := make(map[stintKey]string)
	for _, s := range stints {
		for lap := s.LapStart; lap <= s.LapEnd; lap++ {
			ret[stintKey{s.DriverNumber, lap}] = s.Compound
		}
	}
	return ret
}

func fromPtr(v *float64) null.Val[float64] {
	if v == nil {
		return null.Val[float64]{}
	}
	return null.From(*v)
}
