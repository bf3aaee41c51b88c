package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"taskboard/domain"
)

// UserStore is a file-backed user collection, same shape as TaskStore.
// Users are referenced from tasks by name only; deleting a user does not
// cascade to tasks.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore creates a store over the JSON document at path.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

func (s *UserStore) load() ([]domain.User, error) {
	data, err := readDocument(s.path)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, s.path, err)
	}
	return users, nil
}

// List returns the full current user collection.
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the user with the given id or ErrNotFound.
func (s *UserStore) Get(ctx context.Context, id int) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
}

// Create assigns the next id, appends the user and persists.
func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return domain.User{}, err
	}
	u.ID = nextUserID(users)
	users = append(users, u)
	if err := writeDocument(s.path, users); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Update replaces the user's name when the incoming name is non-empty and
// persists. It returns ErrNotFound when no such user exists.
func (s *UserStore) Update(ctx context.Context, id int, name string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return domain.User{}, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	if name != "" {
		users[idx].Name = name
	}
	if err := writeDocument(s.path, users); err != nil {
		return domain.User{}, err
	}
	return users[idx], nil
}

// Delete removes the user with the given id and persists the remainder.
// Deleting an unknown id succeeds.
func (s *UserStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return writeDocument(s.path, kept)
}

func nextUserID(users []domain.User) int {
	next := 1
	for _, u := range users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}
