// Package processing wires the providers and the processing steps into the
// race table pipeline.
package processing

import (
	"context"
	"fmt"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/model"
	"github.com/mpapenbr/racegap-go/pkg/processing/normalize"
	"github.com/mpapenbr/racegap-go/pkg/processing/race"
	"github.com/mpapenbr/racegap-go/pkg/processing/sector"
	"github.com/mpapenbr/racegap-go/pkg/provider/ergast"
	"github.com/mpapenbr/racegap-go/pkg/provider/openf1"
)

// DefaultSectorEraStart is the first season with sector timing data
const DefaultSectorEraStart = 2023

type (
	RaceSource interface {
		FetchRace(ctx context.Context, season, round int) (*ergast.Race, error)
	}
	SectorSource interface {
		FetchSectorLaps(ctx context.Context, season, round int) ([]openf1.SectorLap, error)
	}
)

type Processor struct {
	races          RaceSource
	sectors        SectorSource
	sectorEraStart int
	logger         *log.Logger
}
type ProcessorOption func(proc *Processor)

func WithRaceSource(src RaceSource) ProcessorOption {
	return func(proc *Processor) {
		proc.races = src
	}
}

// WithSectorSource sets the source for sector timings. Without a sector
// source all seasons are processed lap by lap.
func WithSectorSource(src SectorSource) ProcessorOption {
	return func(proc *Processor) {
		proc.sectors = src
	}
}

func WithSectorEraStart(season int) ProcessorOption {
	return func(proc *Processor) {
		proc.sectorEraStart = season
	}
}

// WithLogger sets the logger. By default the logger of the context passed to
// Process is used.
func WithLogger(l *log.Logger) ProcessorOption {
	return func(proc *Processor) {
		proc.logger = l
	}
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ret := &Processor{
		sectorEraStart: DefaultSectorEraStart,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Process fetches the data of a race and returns the ranked race table.
// Seasons from the sector era on are expanded to one row per sector.
func (p *Processor) Process(ctx context.Context, season, round int) (*model.Table, error) {
	if p.races == nil {
		return nil, fmt.Errorf("no race source configured")
	}
	logger := p.logger
	if logger == nil {
		logger = log.GetFromContext(ctx).Named("processing")
	}
	raw, err := p.races.FetchRace(ctx, season, round)
	if err != nil {
		return nil, err
	}
	t := normalize.Race(raw)
	logger.Debug("normalized race data",
		log.Int("season", season),
		log.Int("round", round),
		log.Int("rows", len(t.Rows)))

	if p.sectors != nil && season >= p.sectorEraStart {
		laps, err := p.sectors.FetchSectorLaps(ctx, season, round)
		if err != nil {
			return nil, err
		}
		if t, err = sector.Expand(t, laps); err != nil {
			return nil, err
		}
		logger.Debug("expanded sectors", log.Int("rows", len(t.Rows)))
	}

	model.SortByDriverCheckpoint(t.Rows)
	race.AggregateTotalTime(t)
	race.Rank(t)
	logger.Info("processed race",
		log.Int("season", season),
		log.Int("round", round),
		log.Stringer("mode", t.Mode),
		log.Int("rows", len(t.Rows)))
	return t, nil
}
