package meeting

import "time"

// TaskStatus tracks an action item after creation.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// Task is an action item extracted from the meeting by analysis. AssignedTo
// is nil when the assignee could not be resolved to a participant. Deadline
// is the free-form string the model produced ("Friday", "EOD", "N/A").
type Task struct {
	ID         string
	MeetingID  string
	Title      string
	AssignedTo *string
	Status     TaskStatus
	Deadline   string
	CreatedAt  time.Time
}
