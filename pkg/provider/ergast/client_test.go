//nolint:lll,funlen // readability
package ergast

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	pages     map[string]string
	requested []string
}

func (f *fakeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	f.requested = append(f.requested, url)
	if body, ok := f.pages[url]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("unexpected url %s", url)
}

const base = "http://ergast.test/f1"

func racePages() map[string]string {
	return map[string]string{
		base + "/2018/11/results.json?limit=2&offset=0": `{"MRData":{"limit":"2","offset":"0","total":"2","RaceTable":{"season":"2018","round":"11","Races":[{"Results":[
			{"number":"5","position":"1","grid":"1","laps":"67","status":"Finished","Driver":{"driverId":"vettel","permanentNumber":"5","code":"VET"}},
			{"number":"44","position":"2","grid":"14","laps":"67","status":"Finished","Driver":{"driverId":"hamilton","permanentNumber":"44","code":"HAM"}}]}]}}}`,
		base + "/2018/11/drivers.json?limit=2&offset=0": `{"MRData":{"limit":"2","offset":"0","total":"3","DriverTable":{"Drivers":[
			{"driverId":"vettel","permanentNumber":"5","code":"VET","givenName":"Sebastian","familyName":"Vettel"},
			{"driverId":"hamilton","permanentNumber":"44","code":"HAM","givenName":"Lewis","familyName":"Hamilton"}]}}}`,
		base + "/2018/11/drivers.json?limit=2&offset=2": `{"MRData":{"limit":"2","offset":"2","total":"3","DriverTable":{"Drivers":[
			{"driverId":"hartley","permanentNumber":"28","code":"HAR","givenName":"Brendon","familyName":"Hartley"}]}}}`,
		base + "/2018/11/laps.json?limit=2&offset=0": `{"MRData":{"limit":"2","offset":"0","total":"3","RaceTable":{"Races":[{"Laps":[
			{"number":"1","Timings":[{"driverId":"vettel","position":"1","time":"1:38.109"},{"driverId":"hamilton","position":"2","time":"1:39.500"}]}]}]}}}`,
		base + "/2018/11/laps.json?limit=2&offset=2": `{"MRData":{"limit":"2","offset":"2","total":"3","RaceTable":{"Races":[{"Laps":[
			{"number":"2","Timings":[{"driverId":"vettel","position":"1","time":"1:17.015"}]}]}]}}}`,
		base + "/2018/11/pitstops.json?limit=2&offset=0": `{"MRData":{"limit":"2","offset":"0","total":"1","RaceTable":{"Races":[{"PitStops":[
			{"driverId":"hamilton","lap":"2","stop":"1","time":"14:26:43","duration":"22.383"}]}]}}}`,
	}
}

func TestFetchRace(t *testing.T) {
	g := &fakeGetter{pages: racePages()}
	c := NewClient(g, WithBaseURL(base+"/"), WithPageLimit(2))

	race, err := c.FetchRace(context.Background(), 2018, 11)
	require.NoError(t, err)

	assert.Equal(t, 2018, race.Season)
	assert.Equal(t, 11, race.Round)
	assert.Len(t, race.Results, 2)
	assert.Equal(t, "hamilton", race.Results[1].Driver.DriverID)
	assert.Equal(t, "14", race.Results[1].Grid)

	assert.Equal(t, []string{"VET", "HAM", "HAR"},
		[]string{race.Drivers[0].Code, race.Drivers[1].Code, race.Drivers[2].Code})

	assert.Equal(t, []LapTime{
		{DriverID: "vettel", Lap: 1, Time: 98.109},
		{DriverID: "hamilton", Lap: 1, Time: 99.5},
		{DriverID: "vettel", Lap: 2, Time: 77.015},
	}, race.LapTimes)

	assert.Equal(t, []PitStop{{DriverID: "hamilton", Lap: "2", Stop: "1", Duration: "22.383"}}, race.PitStops)
}

func TestFetchRaceRoundNotFound(t *testing.T) {
	g := &fakeGetter{pages: map[string]string{
		base + "/2018/30/results.json?limit=100&offset=0": `{"MRData":{"limit":"100","offset":"0","total":"0","RaceTable":{"season":"2018","round":"30","Races":[]}}}`,
	}}
	c := NewClient(g, WithBaseURL(base))
	_, err := c.FetchRace(context.Background(), 2018, 30)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestFetchRaceInvalidPageLimit(t *testing.T) {
	for _, limit := range []int{0, -5} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			g := &fakeGetter{pages: map[string]string{
				base + "/2018/11/results.json?limit=100&offset=0":  `{"MRData":{"total":"1","RaceTable":{"Races":[{"Results":[{"number":"5","position":"1","grid":"1","laps":"2","Driver":{"driverId":"vettel","code":"VET"}}]}]}}}`,
				base + "/2018/11/drivers.json?limit=100&offset=0":  `{"MRData":{"total":"1","DriverTable":{"Drivers":[{"driverId":"vettel","code":"VET"}]}}}`,
				base + "/2018/11/laps.json?limit=100&offset=0":     `{"MRData":{"total":"250","RaceTable":{"Races":[{"Laps":[{"number":"1","Timings":[{"driverId":"vettel","time":"1:38.109"}]}]}]}}}`,
				base + "/2018/11/laps.json?limit=100&offset=100":   `{"MRData":{"total":"250","RaceTable":{"Races":[{"Laps":[]}]}}}`,
				base + "/2018/11/laps.json?limit=100&offset=200":   `{"MRData":{"total":"250","RaceTable":{"Races":[{"Laps":[]}]}}}`,
				base + "/2018/11/pitstops.json?limit=100&offset=0": `{"MRData":{"total":"0","RaceTable":{"Races":[]}}}`,
			}}
			c := NewClient(g, WithBaseURL(base), WithPageLimit(limit))
			race, err := c.FetchRace(context.Background(), 2018, 11)
			require.NoError(t, err)
			assert.Len(t, race.LapTimes, 1)
			assert.Len(t, g.requested, 6)
		})
	}
}

func TestFetchRacePropagatesErrors(t *testing.T) {
	g := &fakeGetter{pages: map[string]string{}}
	c := NewClient(g, WithBaseURL(base))
	_, err := c.FetchRace(context.Background(), 2018, 11)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrRoundNotFound))
}

func TestParseLapTime(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "1:38.109", want: 98.109},
		{in: "58.2", want: 58.2},
		{in: "1:02:03.5", want: 3723.5},
		{in: "", wantErr: true},
		{in: "1:xx", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLapTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
