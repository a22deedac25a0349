package models

import "testing"

func TestTaskTransitionTable(t *testing.T) {
	cases := []struct {
		action Action
		from   TaskStatus
		ok     bool
	}{
		{ActionStartTask, TaskPending, true},
		{ActionStartTask, TaskInProgress, false},
		{ActionStartTask, TaskVerified, false},
		{ActionCompleteTask, TaskInProgress, true},
		{ActionCompleteTask, TaskPending, false},
		{ActionVerifyTask, TaskCompleted, true},
		{ActionVerifyTask, TaskPending, false},
		{ActionVerifyTask, TaskInProgress, false},
		{ActionVerifyTask, TaskVerified, false},
	}
	for _, c := range cases {
		if got := ValidTaskTransition(c.action, c.from); got != c.ok {
			t.Errorf("ValidTaskTransition(%s, %s) = %v, want %v", c.action, c.from, got, c.ok)
		}
	}
}

func TestBookingTransitionTable(t *testing.T) {
	cases := []struct {
		action Action
		from   BookingStatus
		ok     bool
	}{
		{ActionCheckIn, BookingPendingArrival, true},
		{ActionCheckIn, BookingInHouse, false},
		{ActionCheckIn, BookingDeparted, false},
		{ActionCheckOut, BookingInHouse, true},
		{ActionCheckOut, BookingPendingArrival, false},
		{ActionCheckOut, BookingDeparted, false},
	}
	for _, c := range cases {
		if got := ValidBookingTransition(c.action, c.from); got != c.ok {
			t.Errorf("ValidBookingTransition(%s, %s) = %v, want %v", c.action, c.from, got, c.ok)
		}
	}
}

func TestAllowedActionsMatchTransitionTable(t *testing.T) {
	for _, status := range []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskVerified} {
		action := AllowedTaskAction(status)
		if action == "" {
			if status != TaskVerified {
				t.Errorf("expected an action offered for %s", status)
			}
			continue
		}
		if !ValidTaskTransition(action, status) {
			t.Errorf("offered action %s is not valid from %s", action, status)
		}
	}

	for _, status := range []BookingStatus{BookingPendingArrival, BookingInHouse, BookingDeparted} {
		action := AllowedBookingAction(status)
		if action == "" {
			if status != BookingDeparted {
				t.Errorf("expected an action offered for %s", status)
			}
			continue
		}
		if !ValidBookingTransition(action, status) {
			t.Errorf("offered action %s is not valid from %s", action, status)
		}
	}
}

func TestParseRejectsUnknownStatuses(t *testing.T) {
	if _, err := ParseTaskStatus("paused"); err == nil {
		t.Error("expected error for unknown task status")
	}
	if _, err := ParseBookingStatus("no_show"); err == nil {
		t.Error("expected error for unknown booking status")
	}
	if s, err := ParseTaskStatus("in_progress"); err != nil || s != TaskInProgress {
		t.Errorf("ParseTaskStatus(in_progress) = %v, %v", s, err)
	}
}

func TestPriorityRankTotalOrder(t *testing.T) {
	order := []TaskPriority{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s must rank before %s", order[i-1], order[i])
		}
	}
	if TaskPriority("mystery").Rank() <= PriorityLow.Rank() {
		t.Error("unknown priority must sort after low")
	}
}

func TestViewerAuthority(t *testing.T) {
	cases := []struct {
		viewer  Viewer
		isAdmin bool
	}{
		{Viewer{Role: RoleAdmin}, true},
		{Viewer{Role: RoleOwner}, true},
		{Viewer{Role: RoleFrontDesk, IsSuperAdmin: true}, true},
		{Viewer{Role: RoleManager}, false},
		{Viewer{Role: RoleHousekeeper}, false},
	}
	for _, c := range cases {
		if got := c.viewer.IsAdmin(); got != c.isAdmin {
			t.Errorf("IsAdmin(%+v) = %v, want %v", c.viewer, got, c.isAdmin)
		}
	}

	if !(Viewer{Role: RoleManager}).CanVerifyTasks() {
		t.Error("manager must be able to verify tasks")
	}
	if (Viewer{Role: RoleHousekeeper}).CanVerifyTasks() {
		t.Error("housekeeper must not verify tasks")
	}
}

func TestPrimaryRoom(t *testing.T) {
	b := Booking{}
	if got := b.PrimaryRoom(); got != "" {
		t.Errorf("roomless booking: expected empty primary room, got %q", got)
	}
	b.Rooms = []RoomRef{{Number: "101"}, {Number: "102"}}
	if got := b.PrimaryRoom(); got != "101" {
		t.Errorf("expected first room primary, got %q", got)
	}
}
