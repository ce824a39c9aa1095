package storage

import (
	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/racegap-go/pkg/model"
)

const pitMarker = "P"

// record is the flat file representation of a model.Row.
// Nil pointers are written as empty cells.
type record struct {
	DriverName   string   `csv:"driver_name"`
	LapNumber    *int     `csv:"lap_number"`
	TotalTime    *float64 `csv:"total_time"`
	DriverNumber *int     `csv:"driver_number"`
	DriverCode   string   `csv:"driver_code"`
	Grid         *int     `csv:"grid"`
	Laps         *int     `csv:"laps"`
	Podium       *int     `csv:"podium"`
	DidPit       string   `csv:"did_pit"`
	LapTime      *float64 `csv:"lap_time"`
	SectorNumber *int     `csv:"sector_number"`
	SectorTime   *float64 `csv:"sector_time"`
	Compound     string   `csv:"compound"`
	TrackStatus  string   `csv:"track_status"`
	Flap         *float64 `csv:"flap"`
	Position     *int     `csv:"position"`
	PosGained    *int     `csv:"pos_gained"`
	Comparison   *float64 `csv:"comparison"`
	Gap          *float64 `csv:"gap"`
}

// columns holding text, all other columns are numeric
var textColumns = map[string]bool{
	"driver_name":  true,
	"driver_code":  true,
	"did_pit":      true,
	"compound":     true,
	"track_status": true,
}

func toRecord(r *model.Row) record {
	ret := record{
		DriverName:   r.DriverName,
		LapNumber:    ptr(r.LapNumber),
		TotalTime:    ptr(r.TotalTime),
		DriverNumber: ptr(r.DriverNumber),
		DriverCode:   r.DriverCode,
		Grid:         ptr(r.Grid),
		Laps:         ptr(r.Laps),
		Podium:       ptr(r.Podium),
		LapTime:      ptr(r.LapTime),
		SectorNumber: ptr(r.SectorNumber),
		SectorTime:   ptr(r.SectorTime),
		Compound:     r.Compound,
		TrackStatus:  r.TrackStatus,
		Flap:         ptr(r.Flap),
		Position:     ptr(r.Position),
		PosGained:    ptr(r.PosGained),
		Comparison:   ptr(r.Comparison),
		Gap:          ptr(r.Gap),
	}
	if r.DidPit {
		ret.DidPit = pitMarker
	}
	return ret
}

func (rec *record) toRow() model.Row {
	return model.Row{
		DriverName:   rec.DriverName,
		LapNumber:    val(rec.LapNumber),
		TotalTime:    val(rec.TotalTime),
		DriverNumber: val(rec.DriverNumber),
		DriverCode:   rec.DriverCode,
		Grid:         val(rec.Grid),
		Laps:         val(rec.Laps),
		Podium:       val(rec.Podium),
		DidPit:       rec.DidPit == pitMarker,
		LapTime:      val(rec.LapTime),
		SectorNumber: val(rec.SectorNumber),
		SectorTime:   val(rec.SectorTime),
		Compound:     rec.Compound,
		TrackStatus:  rec.TrackStatus,
		Flap:         val(rec.Flap),
		Position:     val(rec.Position),
		PosGained:    val(rec.PosGained),
		Comparison:   val(rec.Comparison),
		Gap:          val(rec.Gap),
	}
}

func ptr[T any](v null.Val[T]) *T {
	if x, ok := v.Get(); ok {
		return &x
	}
	return nil
}

func val[T any](p *T) null.Val[T] {
	if p == nil {
		return null.Val[T]{}
	}
	return null.From(*p)
}
