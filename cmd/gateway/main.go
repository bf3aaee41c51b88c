package main

import (
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskboard/api"
	"taskboard/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	var (
		tasks api.TaskService
		users api.UserService
	)
	tasksURL := os.Getenv("TASKS_SERVICE_URL")
	usersURL := os.Getenv("USERS_SERVICE_URL")
	switch {
	case tasksURL != "" && usersURL != "":
		timeout := envDur("UPSTREAM_TIMEOUT", 10*time.Second)
		tasks = api.NewTaskClient(tasksURL, timeout)
		users = api.NewUserClient(usersURL, timeout)
		log.Infof("gateway in proxy mode: tasks=%s users=%s", tasksURL, usersURL)
	case tasksURL == "" && usersURL == "":
		tasks = storage.NewTaskStore(envStr("TASKS_FILE", "data/tasks.json"))
		users = storage.NewUserStore(envStr("USERS_FILE", "data/users.json"))
		log.Info("gateway in direct mode")
	default:
		log.Fatal("TASKS_SERVICE_URL and USERS_SERVICE_URL must be set together")
	}

	var dedupe api.Deduper
	if redisConn := os.Getenv("REDIS_CONNECTION_STRING"); redisConn != "" {
		redisOpts, err := redis.ParseURL(redisConn)
		if err != nil {
			log.Fatalf("invalid REDIS_CONNECTION_STRING: %v", err)
		}
		rc := redis.NewClient(redisOpts)
		dedupe = api.NewRedisDeduper(rc, envDur("DEDUPER_TTL", 24*time.Hour))
		if store, ok := tasks.(*storage.TaskStore); ok {
			tasks = storage.NewTaskCache(store, rc, envDur("TASKS_CACHE_TTL", time.Minute))
		}
	}

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Static("/", envStr("STATIC_DIR", "public"))

	logger := log.New()
	broker := api.NewBroker(logger)
	api.RegisterGateway(e, tasks, users, broker, dedupe, logger)

	listenAddr := ":3000"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}
	e.Logger.Fatal(e.Start(listenAddr))
}

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envDur(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return d
}
