package openf1

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// numeric track status codes as used by the official timing feed
const (
	statusClear     = '1'
	statusYellow    = '2'
	statusSC        = '4'
	statusRed       = '5'
	statusVSC       = '6'
	statusVSCEnding = '7'
)

// key of a yellow flag raised for the whole track
const trackYellow = -1

// trackState follows the race control messages.
// Yellow flags are tracked per sector, each sector is released by its own
// CLEAR. A track scope GREEN or CLEAR resets everything.
type trackState struct {
	neutralized byte // red, SC, VSC or VSC ending; 0 if racing
	yellows     map[int]bool
}

func newTrackState() *trackState {
	return &trackState{yellows: make(map[int]bool)}
}

// code returns the status code currently in effect
func (s *trackState) code() byte {
	switch {
	case s.neutralized != 0:
		return s.neutralized
	case len(s.yellows) > 0:
		return statusYellow
	default:
		return statusClear
	}
}

// apply updates the state, the result is false for messages which do not
// affect the track status.
func (s *trackState) apply(m *RaceControl) bool {
	msg := strings.ToUpper(m.Message)
	switch m.Category {
	case "SafetyCar":
		switch {
		case strings.Contains(msg, "VIRTUAL SAFETY CAR ENDING"):
			s.neutralized = statusVSCEnding
		case strings.Contains(msg, "VIRTUAL SAFETY CAR DEPLOYED"):
			s.neutralized = statusVSC
		case strings.Contains(msg, "SAFETY CAR DEPLOYED"):
			s.neutralized = statusSC
		default:
			return false
		}
		return true
	case "Flag":
		switch m.Flag {
		case "RED":
			s.neutralized = statusRed
		case "YELLOW", "DOUBLE YELLOW":
			s.yellows[yellowKey(m)] = true
		case "GREEN", "CLEAR":
			if m.Scope == "Track" {
				s.neutralized = 0
				clear(s.yellows)
			} else {
				delete(s.yellows, yellowKey(m))
			}
		default:
			return false
		}
		return true
	}
	return false
}

func yellowKey(m *RaceControl) int {
	if m.Scope == "Sector" && m.Sector != nil {
		return *m.Sector
	}
	return trackYellow
}

// TrackStatusByLap computes the status code string for laps 1..maxLap.
// A lap carries the status in effect at its start followed by each status
// that comes into effect during the lap. Codes are not repeated within a lap.
func TrackStatusByLap(msgs []RaceControl, maxLap int) map[int]string {
	sorted := slices.Clone(msgs)
	slices.SortStableFunc(sorted, func(a, b RaceControl) int {
		return cmp.Compare(a.Date, b.Date)
	})
	byLap := lo.GroupBy(
		lo.Filter(sorted, func(m RaceControl, _ int) bool { return m.LapNumber != nil }),
		func(m RaceControl) int { return *m.LapNumber })

	ret := make(map[int]string, maxLap)
	state := newTrackState()
	for lap := 1; lap <= maxLap; lap++ {
		codes := []byte{state.code()}
		for i := range byLap[lap] {
			if !state.apply(&byLap[lap][i]) {
				continue
			}
			if code := state.code(); !slices.Contains(codes, code) {
				codes = append(codes, code)
			}
		}
		ret[lap] = string(codes)
	}
	return ret
}
