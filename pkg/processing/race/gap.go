package race

import (
	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/model"
	"github.com/mpapenbr/racegap-go/pkg/processing/join"
)

type GapOutcome int

const (
	GapComputed GapOutcome = iota
	GapSkipped
)

func (o GapOutcome) String() string {
	if o == GapSkipped {
		return "skipped"
	}
	return "computed"
}

type GapResult struct {
	Table   *model.Table
	Outcome GapOutcome
}

type reference struct {
	cp         model.Checkpoint
	comparison null.Val[float64]
}

// Gap computes the difference between each row's TotalTime and the TotalTime
// of the reference rows at the same checkpoint.
//
// The reference rows are joined on the checkpoint only, so all drivers at a
// checkpoint get the same comparison value. Previous comparison and gap
// values are replaced. Rows without reference get null comparison and gap.
// Reference checkpoints without any matching row are added as rows carrying
// only the checkpoint and the comparison value.
//
// Tables with unknown mode are returned unchanged with outcome GapSkipped.
func Gap(t *model.Table, referenceRows []model.Row) GapResult {
	if t.Mode == model.ModeUnknown {
		log.Warn("did not calculate gap, table has no checkpoint columns")
		return GapResult{Table: t, Outcome: GapSkipped}
	}

	refs := make([]reference, 0, len(referenceRows))
	for i := range referenceRows {
		cp, ok := t.Checkpoint(&referenceRows[i])
		if !ok {
			continue
		}
		refs = append(refs, reference{cp: cp, comparison: referenceRows[i].TotalTime})
	}

	pairs := join.Outer(t.Rows, refs,
		func(r *model.Row) (model.Checkpoint, bool) { return t.Checkpoint(r) },
		func(r *reference) (model.Checkpoint, bool) { return r.cp, true })

	rows := make([]model.Row, 0, len(pairs))
	for _, p := range pairs {
		var row model.Row
		if p.Left != nil {
			row = *p.Left
		} else {
			row.LapNumber = null.From(p.Right.cp.Lap)
			if t.Mode == model.ModeSectorAware {
				row.SectorNumber = null.From(p.Right.cp.Sector)
			}
		}
		row.Comparison = null.Val[float64]{}
		if p.Right != nil {
			row.Comparison = p.Right.comparison
		}
		row.Gap = subtract(row.TotalTime, row.Comparison)
		rows = append(rows, row)
	}
	return GapResult{Table: model.NewTable(t.Mode, rows), Outcome: GapComputed}
}

// LeaderRows returns the rows of the drivers leading at their checkpoint
func LeaderRows(t *model.Table) []model.Row {
	return filterRows(t, func(r *model.Row) bool {
		p, ok := r.Position.Get()
		return ok && p == 1
	})
}

// WinnerRows returns all rows of the race winner
func WinnerRows(t *model.Table) []model.Row {
	return filterRows(t, func(r *model.Row) bool {
		p, ok := r.Podium.Get()
		return ok && p == 1
	})
}

func filterRows(t *model.Table, pred func(r *model.Row) bool) []model.Row {
	ret := make([]model.Row, 0)
	for i := range t.Rows {
		if pred(&t.Rows[i]) {
			ret = append(ret, t.Rows[i])
		}
	}
	return ret
}

func subtract(a, b null.Val[float64]) null.Val[float64] {
	av, ok1 := a.Get()
	bv, ok2 := b.Get()
	if !ok1 || !ok2 {
		return null.Val[float64]{}
	}
	return null.From(av - bv)
}
