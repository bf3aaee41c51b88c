package domain

// User is referenced from Task.Responsible by name, not by id.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
