package domain

// Status values double as board column ids in the client.
const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

// ValidStatus reports whether s is one of the three board columns.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Task is a single board item.
type Task struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Responsible string `json:"responsible"`
	Status      string `json:"status"`
}

// TaskUpdate carries the fields of a task edit. An empty field leaves the
// stored value untouched.
type TaskUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Responsible string `json:"responsible"`
	Status      string `json:"status"`
}

// Apply merges the non-empty fields of u into t.
func (t *Task) Apply(u TaskUpdate) {
	if u.Name != "" {
		t.Name = u.Name
	}
	if u.Description != "" {
		t.Description = u.Description
	}
	if u.Responsible != "" {
		t.Responsible = u.Responsible
	}
	if u.Status != "" {
		t.Status = u.Status
	}
}
