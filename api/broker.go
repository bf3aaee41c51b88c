package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard/domain"
)

// WelcomeMessage is sent once to every session when its stream opens.
const WelcomeMessage = "Welcome to the Kanban board"

// sessionBuffer bounds how many undelivered events a slow session may
// queue before further broadcasts to it are dropped.
const sessionBuffer = 8

type envelope struct {
	event string
	data  []byte
}

// Broker owns the set of connected client sessions and fans task change
// events out to them over SSE. Delivery is at-most-once and best-effort: a
// session that closed or backed up is skipped, never retried. The broker
// holds no task state itself.
type Broker struct {
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]chan envelope
}

// NewBroker creates an empty session registry.
func NewBroker(logger *log.Logger) *Broker {
	return &Broker{logger: logger, sessions: make(map[string]chan envelope)}
}

func (b *Broker) subscribe() (string, chan envelope) {
	id := uuid.NewString()
	ch := make(chan envelope, sessionBuffer)
	b.mu.Lock()
	b.sessions[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *Broker) unsubscribe(id string) {
	b.mu.Lock()
	delete(b.sessions, id)
	b.mu.Unlock()
}

// SessionCount returns the number of currently open sessions.
func (b *Broker) SessionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// Broadcast delivers ev to every open session, the originator of the
// mutation included; clients reconcile duplicates by id.
func (b *Broker) Broadcast(ev domain.ChangeEvent) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		b.logger.Errorf("marshal change event: %v", err)
		return
	}
	b.mu.Lock()
	for id, ch := range b.sessions {
		select {
		case ch <- envelope{event: domain.EventTaskUpdated, data: data}:
		default:
			b.logger.Debugf("session %s lagging, event dropped", id)
		}
	}
	b.mu.Unlock()
}

// Stream is the GET /api/stream handler. It registers a session, greets
// it, then forwards broadcast events until the client goes away.
func (b *Broker) Stream(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}

	id, ch := b.subscribe()
	defer b.unsubscribe(id)
	b.logger.Infof("client connected: %s", id)
	defer b.logger.Infof("client disconnected: %s", id)

	greeting, err := sonic.Marshal(messageResponse{Message: WelcomeMessage})
	if err != nil {
		return err
	}
	if err := writeSSE(c.Response(), flusher, domain.EventNotification, greeting); err != nil {
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-ch:
			if err := writeSSE(c.Response(), flusher, env.event, env.data); err != nil {
				return nil
			}
		}
	}
}

func writeSSE(w *echo.Response, flusher http.Flusher, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// HandleTaskAdded accepts the client's optimistic pre-announcement of a
// new task. The authoritative taskUpdated broadcast comes from the HTTP
// write path once the store accepted the mutation; re-emitting the
// announcement here would deliver the same change twice, so it is
// acknowledged and dropped.
func (b *Broker) HandleTaskAdded(c echo.Context) error {
	var t domain.Task
	if err := c.Bind(&t); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	b.logger.Debugf("client announced task %q", t.Name)
	return c.NoContent(http.StatusAccepted)
}
