package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"taskboard/domain"
)

// TaskStore is a file-backed task collection. It is the sole source of
// truth for task state.
type TaskStore struct {
	mu   sync.Mutex
	path string
}

// NewTaskStore creates a store over the JSON document at path. The file
// must already exist; a missing file surfaces as ErrUnavailable on first
// use.
func NewTaskStore(path string) *TaskStore {
	return &TaskStore{path: path}
}

func (s *TaskStore) load() ([]domain.Task, error) {
	data, err := readDocument(s.path)
	if err != nil {
		return nil, err
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, s.path, err)
	}
	return tasks, nil
}

// List returns the full current task collection.
func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Create assigns the next id, appends the task and persists the
// collection. Ids grow monotonically and are never reused, even after
// deletions of the current maximum's predecessors.
func (s *TaskStore) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load()
	if err != nil {
		return domain.Task{}, err
	}
	t.ID = nextID(tasks)
	tasks = append(tasks, t)
	if err := writeDocument(s.path, tasks); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// Update merges the non-empty fields of u into the task with the given id
// and persists. It returns ErrNotFound, leaving the document untouched,
// when no such task exists.
func (s *TaskStore) Update(ctx context.Context, id int, u domain.TaskUpdate) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load()
	if err != nil {
		return domain.Task{}, err
	}
	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Task{}, fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	tasks[idx].Apply(u)
	if err := writeDocument(s.path, tasks); err != nil {
		return domain.Task{}, err
	}
	return tasks[idx], nil
}

// Delete removes the task with the given id and persists the remainder.
// Removal is filter-based: deleting an unknown id succeeds and rewrites
// the document unchanged.
func (s *TaskStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load()
	if err != nil {
		return err
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return writeDocument(s.path, kept)
}

func nextID(tasks []domain.Task) int {
	next := 1
	for _, t := range tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}
