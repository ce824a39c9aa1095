//nolint:lll // readability
package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racegap-go/pkg/model"
)

var nullCmp = cmp.AllowUnexported(null.Val[int]{}, null.Val[float64]{})

func lapTable() *model.Table {
	return model.NewTable(model.ModeLapOnly, []model.Row{
		{
			DriverName: "max_verstappen", DriverNumber: null.From(1), DriverCode: "VER",
			LapNumber: null.From(1), Grid: null.From(2), Laps: null.From(70), Podium: null.From(1),
			LapTime: null.From(90.123), TotalTime: null.From(90.123), Position: null.From(1), PosGained: null.From(1),
			Comparison: null.From(90.123), Gap: null.From(0.0),
		},
		{
			DriverName: "max_verstappen", DriverNumber: null.From(1), DriverCode: "VER",
			LapNumber: null.From(2), Grid: null.From(2), Laps: null.From(70), Podium: null.From(1),
			LapTime: null.From(95.5), DidPit: true, TotalTime: null.From(185.623), Position: null.From(2), PosGained: null.From(0),
		},
		// driver without laps
		{DriverName: "de_vries", DriverCode: "DEV", Grid: null.From(20)},
	})
}

func sectorTable() *model.Table {
	return model.NewTable(model.ModeSectorAware, []model.Row{
		{
			DriverName: "lewis_hamilton", DriverCode: "HAM", LapNumber: null.From(3),
			SectorNumber: null.From(2), SectorTime: null.From(31.25), Flap: null.From(2.67),
			Compound: "MEDIUM", TrackStatus: "RF VSC", TotalTime: null.From(240.5),
		},
	})
}

func TestSaveLoad(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			for _, tbl := range []*model.Table{lapTable(), sectorTable()} {
				name := filepath.Join(t.TempDir(), "2023_05")
				require.NoError(t, Save(tbl, name, format))
				_, err := os.Stat(name + "." + string(format))
				require.NoError(t, err)

				got := Load(name, format)
				assert.Equal(t, tbl.Mode, got.Mode)
				if diff := cmp.Diff(tbl.Rows, got.Rows, nullCmp); diff != "" {
					t.Errorf("Load() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestSaveLoadEmpty(t *testing.T) {
	name := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, Save(model.NewTable(model.ModeUnknown, nil), name, FormatCSV))
	got := Load(name, FormatCSV)
	assert.Equal(t, model.ModeUnknown, got.Mode)
	assert.Empty(t, got.Rows)
}

func TestCSVColumns(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cols")
	require.NoError(t, Save(lapTable(), name, FormatCSV))
	data, err := os.ReadFile(name + ".csv")
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Equal(t,
		"driver_name,lap_number,total_time,driver_number,driver_code,grid,laps,podium,did_pit,lap_time,sector_number,sector_time,compound,track_status,flap,position,pos_gained,comparison,gap",
		lines[0])
	assert.Equal(t, "max_verstappen,2,185.623,1,VER,2,70,1,P,95.5,,,,,,2,0,,", lines[2])
	assert.Equal(t, "de_vries,,,,DEV,20,,,,,,,,,,,,,", lines[3])
}

func TestLoadMissingFile(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "missing"), FormatXLSX)
	assert.Equal(t, model.ModeUnknown, got.Mode)
	assert.True(t, got.Empty())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	assert.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}
