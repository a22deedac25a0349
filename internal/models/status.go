package models

import "fmt"

// BookingStatus is the server-reported lifecycle state of a booking.
type BookingStatus string

const (
	BookingPendingArrival BookingStatus = "pending_arrival"
	BookingInHouse        BookingStatus = "in_house"
	BookingDeparted       BookingStatus = "departed"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPendingArrival, BookingInHouse, BookingDeparted:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// TaskStatus is the server-reported state of a housekeeping task. The state
// machine is strict and forward-only: pending → in_progress → completed → verified.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskVerified   TaskStatus = "verified"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskCompleted, TaskVerified:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("unknown task status: %s", s)
	}
}

// RoomStatus is a read-only projection the server computes from booking and
// housekeeping state. There is no direct client write path to it.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomReserved    RoomStatus = "reserved"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

// Action names a single state-changing request against one entity. Each action
// maps 1:1 onto a write endpoint; the client never infers multi-step transitions.
type Action string

const (
	ActionCheckIn      Action = "checkIn"
	ActionCheckOut     Action = "checkOut"
	ActionStartTask    Action = "startTask"
	ActionCompleteTask Action = "completeTask"
	ActionVerifyTask   Action = "verifyTask"
)

// bookingTransitions and taskTransitions map each action to the statuses it is
// allowed from. The server enforces these; the client uses the same table to
// decide which controls to offer at all.
var bookingTransitions = map[Action][]BookingStatus{
	ActionCheckIn:  {BookingPendingArrival},
	ActionCheckOut: {BookingInHouse},
}

var taskTransitions = map[Action][]TaskStatus{
	ActionStartTask:    {TaskPending},
	ActionCompleteTask: {TaskInProgress},
	ActionVerifyTask:   {TaskCompleted},
}

// ValidBookingTransition reports whether action may be requested for a booking
// in the given status.
func ValidBookingTransition(action Action, from BookingStatus) bool {
	for _, s := range bookingTransitions[action] {
		if s == from {
			return true
		}
	}
	return false
}

// ValidTaskTransition reports whether action may be requested for a task in
// the given status.
func ValidTaskTransition(action Action, from TaskStatus) bool {
	for _, s := range taskTransitions[action] {
		if s == from {
			return true
		}
	}
	return false
}

// AllowedBookingAction returns the single action offered for a booking in the
// given status, or "" when the booking is terminal.
func AllowedBookingAction(status BookingStatus) Action {
	switch status {
	case BookingPendingArrival:
		return ActionCheckIn
	case BookingInHouse:
		return ActionCheckOut
	case BookingDeparted:
		return ""
	}
	return ""
}

// AllowedTaskAction returns the single action offered for a task in the given
// status, or "" when the task is terminal.
func AllowedTaskAction(status TaskStatus) Action {
	switch status {
	case TaskPending:
		return ActionStartTask
	case TaskInProgress:
		return ActionCompleteTask
	case TaskCompleted:
		return ActionVerifyTask
	case TaskVerified:
		return ""
	}
	return ""
}
