package ergast

// Types mirror the JSON documents of the Ergast compatible API.
// All values are delivered as strings by the API.

type (
	Driver struct {
		DriverID        string `json:"driverId"`
		PermanentNumber string `json:"permanentNumber"`
		Code            string `json:"code"`
		GivenName       string `json:"givenName"`
		FamilyName      string `json:"familyName"`
	}

	Result struct {
		Number   string `json:"number"`
		Position string `json:"position"`
		Grid     string `json:"grid"`
		Laps     string `json:"laps"`
		Status   string `json:"status"`
		Driver   Driver `json:"Driver"`
	}

	Timing struct {
		DriverID string `json:"driverId"`
		Position string `json:"position"`
		Time     string `json:"time"`
	}

	Lap struct {
		Number  string   `json:"number"`
		Timings []Timing `json:"Timings"`
	}

	PitStop struct {
		DriverID string `json:"driverId"`
		Lap      string `json:"lap"`
		Stop     string `json:"stop"`
		Duration string `json:"duration"`
	}
)

// LapTime is a single timing entry of a driver on a lap
type LapTime struct {
	DriverID string
	Lap      int
	Time     float64 // seconds
}

// Race collects the raw tables of one race as delivered by the provider
type Race struct {
	Season   int
	Round    int
	Drivers  []Driver
	Results  []Result
	LapTimes []LapTime
	PitStops []PitStop
}
