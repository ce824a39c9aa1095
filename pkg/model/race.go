package model

import (
	"cmp"
	"slices"

	"github.com/aarondl/opt/null"
)

// Mode describes the granularity of the timing checkpoints of a table
type Mode int

const (
	ModeUnknown Mode = iota
	ModeLapOnly
	ModeSectorAware
)

func (m Mode) String() string {
	switch m {
	case ModeLapOnly:
		return "lap-only"
	case ModeSectorAware:
		return "sector-aware"
	default:
		return "unknown"
	}
}

// Checkpoint identifies a timing point within the race.
// Sector is 0 for tables in ModeLapOnly.
type Checkpoint struct {
	Lap    int
	Sector int
}

// Row is the canonical record of the race table.
// Fields which may not be available from every source are nullable.
type Row struct {
	DriverName   string // provider driver id, e.g. "max_verstappen"
	DriverNumber null.Val[int]
	DriverCode   string // three letter code, join key across providers
	LapNumber    null.Val[int]
	Grid         null.Val[int]
	Laps         null.Val[int] // laps completed in the classification
	Podium       null.Val[int] // final classification position
	LapTime      null.Val[float64]
	DidPit       bool

	// available in ModeSectorAware only
	SectorNumber null.Val[int]
	SectorTime   null.Val[float64]
	Compound     string
	TrackStatus  string
	Flap         null.Val[float64]

	// derived
	TotalTime  null.Val[float64]
	Position   null.Val[int]
	PosGained  null.Val[int]
	Comparison null.Val[float64]
	Gap        null.Val[float64]
}

// DriverKey returns the key used to partition rows by driver.
func (r *Row) DriverKey() string {
	if r.DriverCode != "" {
		return r.DriverCode
	}
	return r.DriverName
}

type Table struct {
	Mode Mode
	Rows []Row
}

func NewTable(mode Mode, rows []Row) *Table {
	return &Table{Mode: mode, Rows: rows}
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Checkpoint returns the checkpoint of the row according to the table mode.
// ok is false if the required key values are null or the mode is unknown.
func (t *Table) Checkpoint(r *Row) (cp Checkpoint, ok bool) {
	lap, ok := r.LapNumber.Get()
	if !ok {
		return Checkpoint{}, false
	}
	switch t.Mode {
	case ModeLapOnly:
		return Checkpoint{Lap: lap}, true
	case ModeSectorAware:
		sector, ok := r.SectorNumber.Get()
		if !ok {
			return Checkpoint{}, false
		}
		return Checkpoint{Lap: lap, Sector: sector}, true
	default:
		return Checkpoint{}, false
	}
}

// Delta returns the elapsed time of the row's checkpoint
func (t *Table) Delta(r *Row) null.Val[float64] {
	if t.Mode == ModeSectorAware {
		return r.SectorTime
	}
	return r.LapTime
}

// X returns the value used as x-axis when plotting the row
func (t *Table) X(r *Row) null.Val[float64] {
	if t.Mode == ModeSectorAware {
		return r.Flap
	}
	if lap, ok := r.LapNumber.Get(); ok {
		return null.From(float64(lap))
	}
	return null.Val[float64]{}
}

// DetectMode returns ModeSectorAware if any row carries a sector number,
// ModeLapOnly for other non-empty row sets.
func DetectMode(rows []Row) Mode {
	if len(rows) == 0 {
		return ModeUnknown
	}
	if slices.ContainsFunc(rows, func(r Row) bool { return r.SectorNumber.IsValue() }) {
		return ModeSectorAware
	}
	return ModeLapOnly
}

// SortByDriverCheckpoint orders rows by driver, lap and sector.
// Null lap or sector values are placed after the valued ones.
func SortByDriverCheckpoint(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(a.DriverKey(), b.DriverKey()); c != 0 {
			return c
		}
		if c := CompareNullLast(a.LapNumber, b.LapNumber); c != 0 {
			return c
		}
		return CompareNullLast(a.SectorNumber, b.SectorNumber)
	})
}

// CompareNullLast compares two nullable values, nulls sort after values
func CompareNullLast[T cmp.Ordered](a, b null.Val[T]) int {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case aok && bok:
		return cmp.Compare(av, bv)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}
