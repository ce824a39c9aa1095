// Package sector reshapes per-lap sector timing into one row per sector.
package sector

import (
	"fmt"
	"strconv"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/racegap-go/pkg/model"
	"github.com/mpapenbr/racegap-go/pkg/processing/join"
	"github.com/mpapenbr/racegap-go/pkg/processing/trackstatus"
	"github.com/mpapenbr/racegap-go/pkg/provider/openf1"
)

// Record is the long form of a sector timing
type Record struct {
	DriverCode   string
	LapNumber    int
	SectorNumber int
	SectorTime   null.Val[float64]
	Compound     string
	TrackStatus  string // decoded
}

type column struct {
	name  string
	value func(l *openf1.SectorLap) null.Val[float64]
}

// the wide sector columns, the sector number is the trailing digit of the name
var sectorColumns = []column{
	{"Sector1Time", DeriveSector1},
	{"Sector2Time", func(l *openf1.SectorLap) null.Val[float64] { return l.Sector2 }},
	{"Sector3Time", func(l *openf1.SectorLap) null.Val[float64] { return l.Sector3 }},
}

type lapKey struct {
	code string
	lap  int
}

// Expand converts the wide sector laps to long records (one per driver, lap
// and sector) and outer-joins them onto the lap rows of t by driver code and
// lap. The returned table is in ModeSectorAware.
func Expand(t *model.Table, laps []openf1.SectorLap) (*model.Table, error) {
	records, err := Melt(laps)
	if err != nil {
		return nil, err
	}
	pairs := join.Outer(t.Rows, records,
		func(r *model.Row) (lapKey, bool) {
			lap, ok := r.LapNumber.Get()
			return lapKey{r.DriverCode, lap}, ok && r.DriverCode != ""
		},
		func(r *Record) (lapKey, bool) {
			return lapKey{r.DriverCode, r.LapNumber}, true
		})

	rows := make([]model.Row, 0, len(pairs))
	for _, p := range pairs {
		var row model.Row
		if p.Left != nil {
			row = *p.Left
		}
		if s := p.Right; s != nil {
			if p.Left == nil {
				row.DriverCode = s.DriverCode
				row.LapNumber = null.From(s.LapNumber)
			}
			row.SectorNumber = null.From(s.SectorNumber)
			row.SectorTime = s.SectorTime
			row.Compound = s.Compound
			row.TrackStatus = s.TrackStatus
		}
		row.Flap = flapOf(&row)
		rows = append(rows, row)
	}
	return model.NewTable(model.ModeSectorAware, rows), nil
}

// Melt creates one record per wide sector column of each lap.
func Melt(laps []openf1.SectorLap) ([]Record, error) {
	ret := make([]Record, 0, len(laps)*len(sectorColumns))
	for _, col := range sectorColumns {
		num, err := sectorNumber(col.name)
		if err != nil {
			return nil, err
		}
		for i := range laps {
			l := &laps[i]
			ret = append(ret, Record{
				DriverCode:   l.DriverCode,
				LapNumber:    l.LapNumber,
				SectorNumber: num,
				SectorTime:   col.value(l),
				Compound:     l.Compound,
				TrackStatus:  trackstatus.Decode(l.TrackStatus),
			})
		}
	}
	return ret, nil
}

func sectorNumber(columnName string) (int, error) {
	for i := len(columnName) - 1; i >= 0; i-- {
		if c := columnName[i]; c >= '0' && c <= '9' {
			return strconv.Atoi(string(c))
		}
	}
	return 0, fmt.Errorf("no sector number in column %q", columnName)
}

// DeriveSector1 computes sector 1 as lap time minus sector 2 and 3.
// The provided sector 1 value is not used since it is unreliable for the
// first lap and after pit stops.
func DeriveSector1(l *openf1.SectorLap) null.Val[float64] {
	lap, ok1 := l.LapTime.Get()
	s2, ok2 := l.Sector2.Get()
	s3, ok3 := l.Sector3.Get()
	if !ok1 || !ok2 || !ok3 {
		return null.Val[float64]{}
	}
	v := decimal.NewFromFloat(lap).
		Sub(decimal.NewFromFloat(s2)).
		Sub(decimal.NewFromFloat(s3)).
		Round(3)
	return null.From(v.InexactFloat64())
}

// Flap returns the fractional lap progress (lap-1) + sector/3 rounded to
// 2 decimals.
func Flap(lap, sector int) float64 {
	return decimal.NewFromInt(int64(lap - 1)).
		Add(decimal.NewFromInt(int64(sector)).Div(decimal.NewFromInt(3))).
		Round(2).
		InexactFloat64()
}

func flapOf(r *model.Row) null.Val[float64] {
	lap, ok1 := r.LapNumber.Get()
	sector, ok2 := r.SectorNumber.Get()
	if !ok1 || !ok2 {
		return null.Val[float64]{}
	}
	return null.From(Flap(lap, sector))
}
