package api

import (
	"context"

	"taskboard/domain"
)

// TaskService is the gateway's view of task persistence. It is satisfied
// by the local file store as well as by the client forwarding to a remote
// tasks service, so handlers are written once for both deployment modes.
type TaskService interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, id int, u domain.TaskUpdate) (domain.Task, error)
	Delete(ctx context.Context, id int) error
}

// UserService is the gateway's view of user persistence.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, id int, name string) (domain.User, error)
	Delete(ctx context.Context, id int) error
}

// Notifier pushes change events to connected client sessions.
type Notifier interface {
	Broadcast(ev domain.ChangeEvent)
}

// Deduper prevents reprocessing of duplicate submissions.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, key string) (bool, error)
}
