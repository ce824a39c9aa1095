//nolint:thelper,lll,funlen // ok for tests
package race

import (
	"slices"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racegap-go/pkg/model"
)

func lapRow(code string, grid, podium, lap int, lapTime float64) model.Row {
	return model.Row{
		DriverName: code, DriverCode: code,
		Grid: null.From(grid), Podium: null.From(podium),
		LapNumber: null.From(lap), LapTime: null.From(lapTime),
	}
}

// two drivers, two laps. AAA leads lap 1, BBB overtakes on lap 2 and wins.
func twoDriverRace() *model.Table {
	rows := []model.Row{
		lapRow("AAA", 2, 2, 1, 90.0),
		lapRow("AAA", 2, 2, 2, 95.0),
		lapRow("BBB", 1, 1, 1, 91.5),
		lapRow("BBB", 1, 1, 2, 90.0),
	}
	return model.NewTable(model.ModeLapOnly, rows)
}

func rowOf(t *testing.T, tbl *model.Table, code string, lap int) model.Row {
	idx := slices.IndexFunc(tbl.Rows, func(r model.Row) bool {
		l, ok := r.LapNumber.Get()
		return r.DriverCode == code && ok && l == lap
	})
	require.NotEqual(t, -1, idx, "row %s/%d", code, lap)
	return tbl.Rows[idx]
}

func TestAggregateTotalTime(t *testing.T) {
	tbl := twoDriverRace()
	AggregateTotalTime(tbl)
	assert.Equal(t, null.From(90.0), tbl.Rows[0].TotalTime)
	assert.Equal(t, null.From(185.0), tbl.Rows[1].TotalTime)
	assert.Equal(t, null.From(91.5), tbl.Rows[2].TotalTime)
	assert.Equal(t, null.From(181.5), tbl.Rows[3].TotalTime)
}

func TestAggregateTotalTimeNullDelta(t *testing.T) {
	rows := []model.Row{
		lapRow("AAA", 1, 1, 1, 90.0),
		{DriverCode: "AAA", LapNumber: null.From(2)},
		lapRow("AAA", 1, 1, 3, 80.0),
	}
	tbl := model.NewTable(model.ModeLapOnly, rows)
	AggregateTotalTime(tbl)
	assert.Equal(t, null.From(90.0), tbl.Rows[0].TotalTime)
	assert.True(t, tbl.Rows[1].TotalTime.IsNull())
	assert.Equal(t, null.From(170.0), tbl.Rows[2].TotalTime)
}

func TestAggregateTotalTimeSectors(t *testing.T) {
	rows := []model.Row{}
	for lap := 1; lap <= 2; lap++ {
		for sector := 1; sector <= 3; sector++ {
			rows = append(rows, model.Row{
				DriverCode: "AAA", LapNumber: null.From(lap), SectorNumber: null.From(sector),
				LapTime: null.From(100.0), SectorTime: null.From(float64(sector * 10)),
			})
		}
	}
	tbl := model.NewTable(model.ModeSectorAware, rows)
	AggregateTotalTime(tbl)
	got := make([]float64, 0, len(rows))
	for _, r := range tbl.Rows {
		got = append(got, r.TotalTime.MustGet())
	}
	assert.Equal(t, []float64{10, 30, 60, 70, 90, 120}, got)
}

func TestRankTwoDriverRace(t *testing.T) {
	tbl := twoDriverRace()
	AggregateTotalTime(tbl)
	Rank(tbl)

	// sorted by total time
	for i := 1; i < len(tbl.Rows); i++ {
		assert.LessOrEqual(t, tbl.Rows[i-1].TotalTime.MustGet(), tbl.Rows[i].TotalTime.MustGet())
	}
	assert.Equal(t, null.From(1), rowOf(t, tbl, "AAA", 1).Position)
	assert.Equal(t, null.From(2), rowOf(t, tbl, "BBB", 1).Position)
	assert.Equal(t, null.From(2), rowOf(t, tbl, "AAA", 2).Position)
	assert.Equal(t, null.From(1), rowOf(t, tbl, "BBB", 2).Position)

	// pos_gained = grid - position
	assert.Equal(t, null.From(1), rowOf(t, tbl, "AAA", 1).PosGained)
	assert.Equal(t, null.From(-1), rowOf(t, tbl, "BBB", 1).PosGained)
	assert.Equal(t, null.From(0), rowOf(t, tbl, "AAA", 2).PosGained)
	assert.Equal(t, null.From(0), rowOf(t, tbl, "BBB", 2).PosGained)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	rows := []model.Row{
		lapRow("BBB", 1, 1, 1, 90.0),
		lapRow("AAA", 2, 2, 1, 90.0),
		lapRow("CCC", 3, 3, 1, 89.0),
	}
	tbl := model.NewTable(model.ModeLapOnly, rows)
	AggregateTotalTime(tbl)
	Rank(tbl)
	assert.Equal(t, []string{"CCC", "BBB", "AAA"},
		[]string{tbl.Rows[0].DriverCode, tbl.Rows[1].DriverCode, tbl.Rows[2].DriverCode})
	assert.Equal(t, null.From(2), rowOf(t, tbl, "BBB", 1).Position)
	assert.Equal(t, null.From(3), rowOf(t, tbl, "AAA", 1).Position)
}

func TestRankNullValues(t *testing.T) {
	rows := []model.Row{
		{DriverCode: "AAA", LapNumber: null.From(1), Grid: null.From(1)},
		lapRow("BBB", 2, 2, 1, 90.0),
		{DriverCode: "CCC", Grid: null.From(3)},
		{DriverCode: "DDD", LapNumber: null.From(1), LapTime: null.From(95.0)},
	}
	tbl := model.NewTable(model.ModeLapOnly, rows)
	AggregateTotalTime(tbl)
	Rank(tbl)

	assert.Equal(t, null.From(1), rowOf(t, tbl, "BBB", 1).Position)
	assert.Equal(t, null.From(2), rowOf(t, tbl, "DDD", 1).Position)
	assert.True(t, rowOf(t, tbl, "DDD", 1).PosGained.IsNull())
	// null total time is ranked last
	assert.Equal(t, null.From(3), rowOf(t, tbl, "AAA", 1).Position)
	// no checkpoint, no position
	ccc := tbl.Rows[slices.IndexFunc(tbl.Rows, func(r model.Row) bool { return r.DriverCode == "CCC" })]
	assert.True(t, ccc.Position.IsNull())
	assert.True(t, ccc.PosGained.IsNull())
}

// positions at each checkpoint form 1..k and total time is non-decreasing
func TestRankProperties(t *testing.T) {
	lapTimes := map[string][]float64{
		"AAA": {91.2, 88.4, 88.9, 90.1, 87.7},
		"BBB": {90.8, 89.9, 88.1, 88.0, 88.0},
		"CCC": {92.5, 87.2, 87.3, 95.3, 86.9},
		"DDD": {93.1, 88.8},
	}
	rows := []model.Row{}
	grid := 1
	for _, code := range []string{"AAA", "BBB", "CCC", "DDD"} {
		for lap, lt := range lapTimes[code] {
			rows = append(rows, lapRow(code, grid, grid, lap+1, lt))
		}
		grid++
	}
	tbl := model.NewTable(model.ModeLapOnly, rows)
	model.SortByDriverCheckpoint(tbl.Rows)
	AggregateTotalTime(tbl)
	Rank(tbl)

	byLap := map[int][]int{}
	byDriver := map[string][]model.Row{}
	for _, r := range tbl.Rows {
		lap := r.LapNumber.MustGet()
		byLap[lap] = append(byLap[lap], r.Position.MustGet())
		byDriver[r.DriverCode] = append(byDriver[r.DriverCode], r)
		assert.Equal(t, r.Grid.MustGet()-r.Position.MustGet(), r.PosGained.MustGet())
	}
	for lap, positions := range byLap {
		slices.Sort(positions)
		want := make([]int, len(positions))
		for i := range want {
			want[i] = i + 1
		}
		assert.Equal(t, want, positions, "lap %d", lap)
	}
	for code, driverRows := range byDriver {
		model.SortByDriverCheckpoint(driverRows)
		for i := 1; i < len(driverRows); i++ {
			assert.GreaterOrEqual(t, driverRows[i].TotalTime.MustGet(), driverRows[i-1].TotalTime.MustGet(), code)
		}
	}
}

func TestRankSectorCheckpoints(t *testing.T) {
	rows := []model.Row{
		{DriverCode: "AAA", Grid: null.From(1), LapNumber: null.From(1), SectorNumber: null.From(1), SectorTime: null.From(30.0)},
		{DriverCode: "AAA", Grid: null.From(1), LapNumber: null.From(1), SectorNumber: null.From(2), SectorTime: null.From(30.0)},
		{DriverCode: "BBB", Grid: null.From(2), LapNumber: null.From(1), SectorNumber: null.From(1), SectorTime: null.From(29.0)},
		{DriverCode: "BBB", Grid: null.From(2), LapNumber: null.From(1), SectorNumber: null.From(2), SectorTime: null.From(32.0)},
	}
	tbl := model.NewTable(model.ModeSectorAware, rows)
	AggregateTotalTime(tbl)
	Rank(tbl)

	pos := map[[2]any]int{}
	for _, r := range tbl.Rows {
		pos[[2]any{r.DriverCode, r.SectorNumber.MustGet()}] = r.Position.MustGet()
	}
	assert.Equal(t, map[[2]any]int{
		{"BBB", 1}: 1, {"AAA", 1}: 2,
		{"AAA", 2}: 1, {"BBB", 2}: 2,
	}, pos)
}
