package domain

// Event names on the realtime channel.
const (
	EventNotification = "notification"
	EventTaskUpdated  = "taskUpdated"
	EventTaskAdded    = "taskAdded"
)

// ChangeEvent describes one task mutation pushed to connected clients.
// Task is set for creates and updates, TaskID for deletes. Events are
// transient and never persisted.
type ChangeEvent struct {
	Message string `json:"message"`
	Task    *Task  `json:"task,omitempty"`
	TaskID  int    `json:"taskId,omitempty"`
}
