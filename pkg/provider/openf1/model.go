package openf1

import "github.com/aarondl/opt/null"

// JSON documents of the OpenF1 API (only the attributes used here)
type (
	Session struct {
		SessionKey  int    `json:"session_key"`
		MeetingKey  int    `json:"meeting_key"`
		SessionName string `json:"session_name"`
		SessionType string `json:"session_type"`
		DateStart   string `json:"date_start"`
		Year        int    `json:"year"`
	}

	Driver struct {
		DriverNumber int    `json:"driver_number"`
		NameAcronym  string `json:"name_acronym"`
		FullName     string `json:"full_name"`
	}

	Lap struct {
		DriverNumber    int      `json:"driver_number"`
		LapNumber       int      `json:"lap_number"`
		LapDuration     *float64 `json:"lap_duration"`
		DurationSector1 *float64 `json:"duration_sector_1"`
		DurationSector2 *float64 `json:"duration_sector_2"`
		DurationSector3 *float64 `json:"duration_sector_3"`
	}

	Stint struct {
		DriverNumber int    `json:"driver_number"`
		LapStart     int    `json:"lap_start"`
		LapEnd       int    `json:"lap_end"`
		Compound     string `json:"compound"`
	}

	RaceControl struct {
		Date      string `json:"date"`
		Category  string `json:"category"`
		Flag      string `json:"flag"`
		Scope     string `json:"scope"`
		Sector    *int   `json:"sector"`
		Message   string `json:"message"`
		LapNumber *int   `json:"lap_number"`
	}
)

// SectorLap is the wide per-lap sector record of one driver.
// TrackStatus holds the concatenated numeric status codes seen on that lap.
type SectorLap struct {
	DriverCode  string
	LapNumber   int
	LapTime     null.Val[float64]
	Sector1     null.Val[float64]
	Sector2     null.Val[float64]
	Sector3     null.Val[float64]
	Compound    string
	TrackStatus string
}
