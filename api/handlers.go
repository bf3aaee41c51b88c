package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard/domain"
	"taskboard/storage"
)

// postBodyMaxSize bounds how much of a request body handlers will decode.
const postBodyMaxSize = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

// RegisterGateway wires the full REST surface, the realtime stream and the
// static client onto the provided Echo instance.
func RegisterGateway(e *echo.Echo, tasks TaskService, users UserService, broker *Broker, dedupe Deduper, logger *log.Logger) {
	e.GET("/api/tasks", getTasks(tasks))
	e.POST("/api/tasks", postTask(tasks, broker, dedupe, logger))
	e.PUT("/api/tasks/:id", putTask(tasks, broker))
	e.DELETE("/api/tasks/:id", deleteTask(tasks, broker))

	e.GET("/api/users", getUsers(users))
	e.GET("/api/users/:id", getUser(users))
	e.POST("/api/users", postUser(users))
	e.PUT("/api/users/:id", putUser(users))
	e.DELETE("/api/users/:id", deleteUser(users))

	e.GET("/api/stream", broker.Stream)
	e.POST("/api/events", broker.HandleTaskAdded)
}

// RegisterTasksService wires the task CRUD endpoints for the standalone
// tasks microservice. The service never broadcasts; that stays with the
// gateway.
func RegisterTasksService(e *echo.Echo, tasks TaskService, logger *log.Logger) {
	e.GET("/api/tasks", getTasks(tasks))
	e.POST("/api/tasks", postTask(tasks, nil, nil, logger))
	e.PUT("/api/tasks/:id", putTask(tasks, nil))
	e.DELETE("/api/tasks/:id", deleteTask(tasks, nil))
}

// RegisterUsersService wires the user CRUD endpoints for the standalone
// users microservice.
func RegisterUsersService(e *echo.Echo, users UserService) {
	e.GET("/api/users", getUsers(users))
	e.GET("/api/users/:id", getUser(users))
	e.POST("/api/users", postUser(users))
	e.PUT("/api/users/:id", putUser(users))
	e.DELETE("/api/users/:id", deleteUser(users))
}

// serviceError translates store and downstream failures into the fixed
// per-operation response. NotFound keeps its own message; everything else
// collapses to a 500 so a downstream outage looks the same as a local
// storage failure.
func serviceError(c echo.Context, err error, notFoundMsg, failMsg string) error {
	var ue *UpstreamError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusNotFound, messageResponse{Message: notFoundMsg})
	case errors.As(err, &ue) && ue.Status == http.StatusNotFound:
		return c.JSON(http.StatusNotFound, messageResponse{Message: notFoundMsg})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: failMsg})
	}
}

func idParam(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

func decodeBody(c echo.Context, out any) error {
	lr := io.LimitReader(c.Request().Body, postBodyMaxSize)
	return sonic.ConfigStd.NewDecoder(lr).Decode(out)
}

func getTasks(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := tasks.List(c.Request().Context())
		if err != nil {
			return serviceError(c, err, "", "Failed to load tasks.")
		}
		return c.JSON(http.StatusOK, list)
	}
}

func postTask(tasks TaskService, notify Notifier, dedupe Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		var t domain.Task
		if err := decodeBody(c, &t); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid task payload."})
		}
		if !domain.ValidStatus(t.Status) {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid task status."})
		}
		if key := c.Request().Header.Get("Idempotency-Key"); key != "" && dedupe != nil {
			added, err := dedupe.Add(ctx, key)
			if err != nil {
				// A dedupe outage must not block writes.
				logger.Warnf("dedupe unavailable, accepting submission: %v", err)
			} else if !added {
				return c.JSON(http.StatusConflict, messageResponse{Message: "Duplicate submission."})
			}
		}
		t.ID = 0
		created, err := tasks.Create(ctx, t)
		if err != nil {
			return serviceError(c, err, "", "Failed to save the task.")
		}
		if notify != nil {
			notify.Broadcast(domain.ChangeEvent{Message: "New task added", Task: &created})
		}
		return c.JSON(http.StatusCreated, created)
	}
}

func putTask(tasks TaskService, notify Notifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid task id."})
		}
		var u domain.TaskUpdate
		if err := decodeBody(c, &u); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid task payload."})
		}
		if u.Status != "" && !domain.ValidStatus(u.Status) {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid task status."})
		}
		updated, err := tasks.Update(c.Request().Context(), id, u)
		if err != nil {
			return serviceError(c, err, "Task not found.", "Failed to update the task.")
		}
		if notify != nil {
			notify.Broadcast(domain.ChangeEvent{Message: "Task updated", Task: &updated})
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func deleteTask(tasks TaskService, notify Notifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid task id."})
		}
		if err := tasks.Delete(c.Request().Context(), id); err != nil {
			return serviceError(c, err, "", "Failed to delete the task.")
		}
		if notify != nil {
			notify.Broadcast(domain.ChangeEvent{Message: "Task deleted", TaskID: id})
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted successfully."})
	}
}

func getUsers(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := users.List(c.Request().Context())
		if err != nil {
			return serviceError(c, err, "", "Failed to load users.")
		}
		return c.JSON(http.StatusOK, list)
	}
}

func getUser(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid user id."})
		}
		u, err := users.Get(c.Request().Context(), id)
		if err != nil {
			return serviceError(c, err, "User not found.", "Failed to load users.")
		}
		return c.JSON(http.StatusOK, u)
	}
}

func postUser(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var u domain.User
		if err := decodeBody(c, &u); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid user payload."})
		}
		u.ID = 0
		created, err := users.Create(c.Request().Context(), u)
		if err != nil {
			return serviceError(c, err, "", "Failed to save the user.")
		}
		return c.JSON(http.StatusCreated, created)
	}
}

func putUser(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid user id."})
		}
		var u domain.User
		if err := decodeBody(c, &u); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid user payload."})
		}
		updated, err := users.Update(c.Request().Context(), id, u.Name)
		if err != nil {
			return serviceError(c, err, "User not found.", "Failed to update the user.")
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func deleteUser(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid user id."})
		}
		if err := users.Delete(c.Request().Context(), id); err != nil {
			return serviceError(c, err, "", "Failed to delete the user.")
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully."})
	}
}
