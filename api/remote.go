package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"taskboard/domain"
)

// UpstreamError reports a failed call to a downstream service. Status is
// the downstream HTTP status, or zero when the service was unreachable.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream unreachable: %s", e.Message)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

type remote struct {
	base string
	hc   *http.Client
}

func newRemote(base string, timeout time.Duration) remote {
	return remote{base: strings.TrimRight(base, "/"), hc: &http.Client{Timeout: timeout}}
}

// do forwards one call to the downstream service, method, path and body
// 1:1. Non-2xx responses and transport failures come back as
// *UpstreamError; a 2xx body is decoded into out when out is non-nil.
func (r remote) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	resp, err := r.hc.Do(req)
	if err != nil {
		return &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m messageResponse
		_ = sonic.ConfigStd.NewDecoder(io.LimitReader(resp.Body, postBodyMaxSize)).Decode(&m)
		if m.Message == "" {
			m.Message = http.StatusText(resp.StatusCode)
		}
		return &UpstreamError{Status: resp.StatusCode, Message: m.Message}
	}
	if out != nil {
		if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
			return &UpstreamError{Status: resp.StatusCode, Message: "invalid response body: " + err.Error()}
		}
	}
	return nil
}

// TaskClient implements TaskService against a remote tasks service.
type TaskClient struct {
	remote
}

// NewTaskClient creates a client for the tasks service at base.
func NewTaskClient(base string, timeout time.Duration) *TaskClient {
	return &TaskClient{remote: newRemote(base, timeout)}
}

func (t *TaskClient) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := t.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *TaskClient) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	var created domain.Task
	if err := t.do(ctx, http.MethodPost, "/api/tasks", task, &created); err != nil {
		return domain.Task{}, err
	}
	return created, nil
}

func (t *TaskClient) Update(ctx context.Context, id int, u domain.TaskUpdate) (domain.Task, error) {
	var updated domain.Task
	if err := t.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), u, &updated); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

func (t *TaskClient) Delete(ctx context.Context, id int) error {
	return t.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

// UserClient implements UserService against a remote users service.
type UserClient struct {
	remote
}

// NewUserClient creates a client for the users service at base.
func NewUserClient(base string, timeout time.Duration) *UserClient {
	return &UserClient{remote: newRemote(base, timeout)}
}

func (u *UserClient) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := u.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserClient) Get(ctx context.Context, id int) (domain.User, error) {
	var user domain.User
	if err := u.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserClient) Create(ctx context.Context, user domain.User) (domain.User, error) {
	var created domain.User
	if err := u.do(ctx, http.MethodPost, "/api/users", user, &created); err != nil {
		return domain.User{}, err
	}
	return created, nil
}

func (u *UserClient) Update(ctx context.Context, id int, name string) (domain.User, error) {
	payload := struct {
		Name string `json:"name"`
	}{Name: name}
	var updated domain.User
	if err := u.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), payload, &updated); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

func (u *UserClient) Delete(ctx context.Context, id int) error {
	return u.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}
