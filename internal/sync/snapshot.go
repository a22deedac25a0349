package sync

import (
	"time"

	"opsdesk/internal/models"
)

// Resource names index per-section errors inside a snapshot.
const (
	ResArrivals     = "arrivals"
	ResDepartures   = "departures"
	ResInHouse      = "in_house"
	ResAvailability = "availability"
	ResTasks        = "tasks"
	ResRooms        = "rooms"
)

// Scope names for the two polled view sets.
const (
	ScopeFrontDesk    = "frontdesk"
	ScopeHousekeeping = "housekeeping"
)

// Snapshot is one point-in-time read of a scope's resource collections.
// Sections are fetched in parallel and fail independently: a section that
// failed this cycle has an entry in Errors and keeps its last-known-good data
// after the scheduler merges it. Snapshots are never mutated after being
// applied; each cycle produces a fresh one.
type Snapshot struct {
	Scope      string                           `json:"scope"`
	Generation uint64                           `json:"generation"`
	FetchedAt  time.Time                        `json:"fetched_at"`
	Arrivals   []models.Booking                 `json:"arrivals,omitempty"`
	Departures []models.Booking                 `json:"departures,omitempty"`
	InHouse    []models.Booking                 `json:"in_house,omitempty"`
	Summary    []models.RoomAvailabilitySummary `json:"summary,omitempty"`
	Tasks      []models.HousekeepingTask        `json:"tasks,omitempty"`
	Rooms      []models.Room                    `json:"rooms,omitempty"`
	Errors     map[string]string                `json:"errors,omitempty"`
}

func (s *Snapshot) setError(resource string, err error) {
	if s.Errors == nil {
		s.Errors = make(map[string]string)
	}
	s.Errors[resource] = err.Error()
}

// Failed reports whether the named resource failed to fetch this cycle.
func (s *Snapshot) Failed(resource string) bool {
	_, ok := s.Errors[resource]
	return ok
}

// mergeLastKnown carries forward the previous snapshot's data for every
// section that failed this cycle, so one bad call never blanks a board.
func (s *Snapshot) mergeLastKnown(prev *Snapshot) {
	if prev == nil {
		return
	}
	if s.Failed(ResArrivals) {
		s.Arrivals = prev.Arrivals
	}
	if s.Failed(ResDepartures) {
		s.Departures = prev.Departures
	}
	if s.Failed(ResInHouse) {
		s.InHouse = prev.InHouse
	}
	if s.Failed(ResAvailability) {
		s.Summary = prev.Summary
	}
	if s.Failed(ResTasks) {
		s.Tasks = prev.Tasks
	}
	if s.Failed(ResRooms) {
		s.Rooms = prev.Rooms
	}
}
