// Package normalize converts the raw provider tables into canonical rows.
package normalize

import (
	"strconv"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"

	"github.com/mpapenbr/racegap-go/pkg/model"
	"github.com/mpapenbr/racegap-go/pkg/processing/join"
	"github.com/mpapenbr/racegap-go/pkg/provider/ergast"
)

// driverInfo is the roster entry combined with the classification
type driverInfo struct {
	id     string
	number null.Val[int]
	code   string
	grid   null.Val[int]
	laps   null.Val[int]
	podium null.Val[int]
}

type pitKey struct {
	driverID string
	lap      int
}

// Race builds one row per driver and lap.
//
// All joins are outer joins:
//   - roster with classification on driver id
//   - lap times with the result of the previous join on driver id
//   - pit stops on driver id and lap
//
// Drivers without laps are kept with null lap values, pit stops without a
// matching lap are kept as rows with null lap time.
func Race(race *ergast.Race) *model.Table {
	drivers := joinDrivers(race.Drivers, race.Results)

	lapPairs := join.Outer(race.LapTimes, drivers,
		func(l *ergast.LapTime) (string, bool) { return l.DriverID, true },
		func(d *driverInfo) (string, bool) { return d.id, true })

	rows := make([]model.Row, 0, len(lapPairs))
	for _, p := range lapPairs {
		var row model.Row
		if p.Right != nil {
			row = p.Right.toRow()
		}
		if p.Left != nil {
			row.DriverName = p.Left.DriverID
			row.LapNumber = null.From(p.Left.Lap)
			row.LapTime = null.From(p.Left.Time)
		}
		rows = append(rows, row)
	}

	// a driver may have more than one pit stop entry for a lap
	pits := lo.UniqBy(race.PitStops, func(p ergast.PitStop) [2]string {
		return [2]string{p.DriverID, p.Lap}
	})
	pitPairs := join.Outer(rows, pits,
		func(r *model.Row) (pitKey, bool) {
			lap, ok := r.LapNumber.Get()
			return pitKey{r.DriverName, lap}, ok
		},
		func(p *ergast.PitStop) (pitKey, bool) {
			lap, ok := parseInt(p.Lap).Get()
			return pitKey{p.DriverID, lap}, ok
		})

	ret := make([]model.Row, 0, len(pitPairs))
	for _, p := range pitPairs {
		var row model.Row
		if p.Left != nil {
			row = *p.Left
		} else {
			row.DriverName = p.Right.DriverID
			row.LapNumber = parseInt(p.Right.Lap)
		}
		row.DidPit = p.Right != nil
		ret = append(ret, row)
	}
	return model.NewTable(model.ModeLapOnly, ret)
}

func joinDrivers(roster []ergast.Driver, results []ergast.Result) []driverInfo {
	pairs := join.Outer(roster, results,
		func(d *ergast.Driver) (string, bool) { return d.DriverID, true },
		func(r *ergast.Result) (string, bool) { return r.Driver.DriverID, true })

	return lo.Map(pairs, func(p join.Pair[ergast.Driver, ergast.Result], _ int) driverInfo {
		var di driverInfo
		driver := ergast.Driver{}
		switch {
		case p.Left != nil:
			driver = *p.Left
		case p.Right != nil:
			driver = p.Right.Driver
		}
		di.id = driver.DriverID
		di.number = parseInt(driver.PermanentNumber)
		di.code = driverCode(&driver)
		if p.Right != nil {
			if di.number.IsNull() {
				di.number = parseInt(p.Right.Number)
			}
			di.grid = parseInt(p.Right.Grid)
			di.laps = parseInt(p.Right.Laps)
			di.podium = parseInt(p.Right.Position)
		}
		return di
	})
}

func (d *driverInfo) toRow() model.Row {
	return model.Row{
		DriverName:   d.id,
		DriverNumber: d.number,
		DriverCode:   d.code,
		Grid:         d.grid,
		Laps:         d.laps,
		Podium:       d.podium,
	}
}

// driverCode returns the three letter code of the driver.
// Drivers of early seasons have no code, it is derived from the driver id.
func driverCode(d *ergast.Driver) string {
	if d.Code != "" {
		return d.Code
	}
	id := d.DriverID
	if idx := strings.LastIndex(id, "_"); idx != -1 && idx < len(id)-1 {
		id = id[idx+1:]
	}
	if len(id) > 3 {
		id = id[:3]
	}
	return strings.ToUpper(id)
}

func parseInt(s string) null.Val[int] {
	v, err := strconv.Atoi(s)
	if err != nil {
		return null.Val[int]{}
	}
	return null.From(v)
}
