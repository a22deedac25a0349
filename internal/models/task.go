package models

// TaskType classifies a housekeeping task.
type TaskType string

const (
	TaskCleaning    TaskType = "cleaning"
	TaskMaintenance TaskType = "maintenance"
	TaskInspection  TaskType = "inspection"
)

// TaskPriority orders tasks for display emphasis only. The backend does no
// priority scheduling; urgent simply sorts first.
type TaskPriority string

const (
	PriorityUrgent TaskPriority = "urgent"
	PriorityHigh   TaskPriority = "high"
	PriorityNormal TaskPriority = "normal"
	PriorityLow    TaskPriority = "low"
)

var priorityRank = map[TaskPriority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityNormal: 2,
	PriorityLow:    3,
}

// Rank returns the display order of p, lower sorting first. Unknown priorities
// sort after low rather than failing.
func (p TaskPriority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// HousekeepingTask is one unit of cleaning, maintenance or inspection work.
type HousekeepingTask struct {
	ID         int64        `json:"id"`
	RoomID     int64        `json:"room_id"`
	RoomNumber string       `json:"room_number"`
	Type       TaskType     `json:"type"`
	Priority   TaskPriority `json:"priority"`
	Status     TaskStatus   `json:"status"`
	AssigneeID int64        `json:"assignee_id,omitempty"`
	Notes      string       `json:"notes,omitempty"`
}
