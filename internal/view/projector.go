// Package view derives UI-ready groupings from raw snapshots. Every function
// here is pure: the snapshot is read-only input and each call builds a fresh
// view model, so re-projecting an identical snapshot yields an identical view.
package view

import (
	"sort"

	"opsdesk/internal/models"
	"opsdesk/internal/sync"
)

// Tab selects which front-desk collection is active.
type Tab string

const (
	TabArrivals   Tab = "arrivals"
	TabInHouse    Tab = "in_house"
	TabDepartures Tab = "departures"
)

// BookingRow is one booking prepared for display. Balance and room list fall
// back to defined defaults when the server has not linked a folio or rooms
// yet; a sparse booking is never an error.
type BookingRow struct {
	ID              int64
	GuestName       string
	Status          models.BookingStatus
	RoomNumbers     []string
	ExpectedArrival string
	Guests          int
	SpecialRequests string
	Balance         float64
	Action          models.Action // "" when no transition is offered
}

// FrontDeskView is the projection of one front-desk tab plus the availability
// board shown alongside every tab.
type FrontDeskView struct {
	Tab          Tab
	Rows         []BookingRow
	Summary      []models.RoomAvailabilitySummary
	SectionError string // non-empty when the active tab's fetch failed this cycle
	FetchedAt    string
}

// ProjectFrontDesk builds the view for the selected tab. Rows are ordered by
// expected arrival, then id, so re-renders are stable.
func ProjectFrontDesk(snap *sync.Snapshot, tab Tab) FrontDeskView {
	v := FrontDeskView{Tab: tab, FetchedAt: snap.FetchedAt.Format("15:04:05")}

	var bookings []models.Booking
	var resource string
	switch tab {
	case TabArrivals:
		bookings, resource = snap.Arrivals, sync.ResArrivals
	case TabInHouse:
		bookings, resource = snap.InHouse, sync.ResInHouse
	case TabDepartures:
		bookings, resource = snap.Departures, sync.ResDepartures
	}
	v.SectionError = snap.Errors[resource]

	rows := make([]BookingRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, bookingRow(b))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ExpectedArrival != rows[j].ExpectedArrival {
			return rows[i].ExpectedArrival < rows[j].ExpectedArrival
		}
		return rows[i].ID < rows[j].ID
	})
	v.Rows = rows

	summary := make([]models.RoomAvailabilitySummary, len(snap.Summary))
	copy(summary, snap.Summary)
	sort.SliceStable(summary, func(i, j int) bool { return summary[i].RoomType < summary[j].RoomType })
	v.Summary = summary

	return v
}

func bookingRow(b models.Booking) BookingRow {
	row := BookingRow{
		ID:              b.ID,
		GuestName:       b.GuestName,
		Status:          b.Status,
		RoomNumbers:     []string{},
		ExpectedArrival: b.ExpectedArrival.Format("2006-01-02 15:04"),
		Guests:          b.Adults + b.Children,
		SpecialRequests: b.SpecialRequests,
		Action:          models.AllowedBookingAction(b.Status),
	}
	for _, r := range b.Rooms {
		row.RoomNumbers = append(row.RoomNumbers, r.Number)
	}
	if b.Folio != nil {
		row.Balance = b.Folio.Balance
	}
	return row
}

// TaskRow is one housekeeping task with the action the viewer may take on it.
type TaskRow struct {
	Task   models.HousekeepingTask
	Mine   bool
	Action models.Action // "" when none is offered to this viewer
}

// TaskGroup holds one status bucket, priority-ordered within.
type TaskGroup struct {
	Status models.TaskStatus
	Tasks  []TaskRow
}

// TaskBoard splits the task list into the viewer's own work and the full
// board, each bucketed by status in lifecycle order.
type TaskBoard struct {
	Mine  []TaskGroup
	All   []TaskGroup
	Error string
}

var taskStatusOrder = []models.TaskStatus{
	models.TaskPending,
	models.TaskInProgress,
	models.TaskCompleted,
	models.TaskVerified,
}

// ProjectTasks builds the housekeeping board for one viewer. Start and
// complete are offered on the viewer's own tasks (supervisors may act on
// any); verify is only offered to viewers allowed to verify. The offered
// action always matches the transition table — a verify control never
// appears on anything but a completed task.
func ProjectTasks(snap *sync.Snapshot, viewer models.Viewer) TaskBoard {
	board := TaskBoard{Error: snap.Errors[sync.ResTasks]}

	rows := make([]TaskRow, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		rows = append(rows, TaskRow{
			Task:   t,
			Mine:   t.AssigneeID != 0 && t.AssigneeID == viewer.StaffID,
			Action: offeredTaskAction(t, viewer),
		})
	}

	board.All = groupTasks(rows, false)
	board.Mine = groupTasks(rows, true)
	return board
}

func offeredTaskAction(t models.HousekeepingTask, viewer models.Viewer) models.Action {
	action := models.AllowedTaskAction(t.Status)
	switch action {
	case models.ActionVerifyTask:
		if !viewer.CanVerifyTasks() {
			return ""
		}
	case models.ActionStartTask, models.ActionCompleteTask:
		mine := t.AssigneeID != 0 && t.AssigneeID == viewer.StaffID
		if !mine && !viewer.IsAdmin() && viewer.Role != models.RoleManager {
			return ""
		}
	}
	return action
}

func groupTasks(rows []TaskRow, mineOnly bool) []TaskGroup {
	groups := make([]TaskGroup, 0, len(taskStatusOrder))
	for _, status := range taskStatusOrder {
		var bucket []TaskRow
		for _, r := range rows {
			if r.Task.Status != status {
				continue
			}
			if mineOnly && !r.Mine {
				continue
			}
			bucket = append(bucket, r)
		}
		if len(bucket) == 0 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			a, b := bucket[i].Task, bucket[j].Task
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() < b.Priority.Rank()
			}
			return a.ID < b.ID
		})
		groups = append(groups, TaskGroup{Status: status, Tasks: bucket})
	}
	return groups
}

// FloorGroup is one floor's rooms for the status board.
type FloorGroup struct {
	Floor int
	Name  string
	Rooms []models.Room
}

// ProjectRooms groups rooms by floor. The directory fixes floor order and
// names and keeps empty floors visible; rooms on floors missing from the
// directory are appended in floor order rather than dropped.
func ProjectRooms(snap *sync.Snapshot, directory []models.Floor) []FloorGroup {
	byFloor := make(map[int][]models.Room)
	for _, r := range snap.Rooms {
		byFloor[r.Floor] = append(byFloor[r.Floor], r)
	}

	groups := make([]FloorGroup, 0, len(directory))
	seen := make(map[int]bool)
	for _, f := range directory {
		groups = append(groups, floorGroup(f.Number, f.Name, byFloor[f.Number]))
		seen[f.Number] = true
	}

	var extra []int
	for floor := range byFloor {
		if !seen[floor] {
			extra = append(extra, floor)
		}
	}
	sort.Ints(extra)
	for _, floor := range extra {
		groups = append(groups, floorGroup(floor, "", byFloor[floor]))
	}
	return groups
}

func floorGroup(number int, name string, rooms []models.Room) FloorGroup {
	sorted := make([]models.Room, len(rooms))
	copy(sorted, rooms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })
	return FloorGroup{Floor: number, Name: name, Rooms: sorted}
}
