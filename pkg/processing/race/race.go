// Package race derives cumulative times, positions and gaps for a race table.
package race

import (
	"slices"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/racegap-go/pkg/model"
)

// AggregateTotalTime computes the running sum of the checkpoint deltas per
// driver and stores it in TotalTime.
//
// Rows of a driver must be in checkpoint order (see
// model.SortByDriverCheckpoint). Rows need not be grouped by driver, each
// driver has its own accumulator. A null delta leaves the row's TotalTime
// null and does not change the accumulator.
func AggregateTotalTime(t *model.Table) {
	sums := make(map[string]float64)
	for i := range t.Rows {
		r := &t.Rows[i]
		delta, ok := t.Delta(r).Get()
		if !ok {
			r.TotalTime = null.Val[float64]{}
			continue
		}
		key := r.DriverKey()
		sums[key] += delta
		r.TotalTime = null.From(sums[key])
	}
}

// Rank sorts the rows by TotalTime and assigns the position per checkpoint.
//
// Rows with equal TotalTime keep their relative order, rows with a null
// TotalTime are placed last. Rows without checkpoint get a null position.
// PosGained is grid - position.
func Rank(t *model.Table) {
	slices.SortStableFunc(t.Rows, func(a, b model.Row) int {
		return model.CompareNullLast(a.TotalTime, b.TotalTime)
	})
	counter := make(map[model.Checkpoint]int)
	for i := range t.Rows {
		r := &t.Rows[i]
		cp, ok := t.Checkpoint(r)
		if !ok {
			r.Position = null.Val[int]{}
			r.PosGained = null.Val[int]{}
			continue
		}
		counter[cp]++
		r.Position = null.From(counter[cp])
		if grid, ok := r.Grid.Get(); ok {
			r.PosGained = null.From(grid - counter[cp])
		} else {
			r.PosGained = null.Val[int]{}
		}
	}
}
