package domain

import "testing"

func TestApplyMergesNonEmptyFields(t *testing.T) {
	task := Task{ID: 3, Name: "old", Description: "desc", Responsible: "Alice", Status: StatusTodo}
	task.Apply(TaskUpdate{Name: "new", Status: StatusDoing})

	if task.Name != "new" {
		t.Fatalf("expected name to be replaced, got %q", task.Name)
	}
	if task.Description != "desc" {
		t.Fatalf("expected description to be preserved, got %q", task.Description)
	}
	if task.Responsible != "Alice" {
		t.Fatalf("expected responsible to be preserved, got %q", task.Responsible)
	}
	if task.Status != StatusDoing {
		t.Fatalf("expected status to be replaced, got %q", task.Status)
	}
}

func TestApplyEmptyUpdateChangesNothing(t *testing.T) {
	task := Task{ID: 1, Name: "n", Description: "d", Responsible: "r", Status: StatusDone}
	before := task
	task.Apply(TaskUpdate{})
	if task != before {
		t.Fatalf("expected task unchanged, got %+v", task)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusTodo, StatusDoing, StatusDone} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "archived", "TODO"} {
		if ValidStatus(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
