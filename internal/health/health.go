// Package health reports whether the API and its backing services respond.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"

	"symptom-checker/internal/platform/respond"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type ServiceState string

const (
	Operational ServiceState = "operational"
	Degraded    ServiceState = "degraded"
	Down        ServiceState = "down"
)

const pingTimeout = 2 * time.Second

// Pinger checks one dependency.
type Pinger func(ctx context.Context) error

// RedisPinger adapts a go-redis client. A nil client yields nil.
func RedisPinger(rdb *redis.Client) Pinger {
	if rdb == nil {
		return nil
	}
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}

type Services struct {
	API      ServiceState `json:"api"`
	Database ServiceState `json:"database,omitempty"`
	Cache    ServiceState `json:"cache,omitempty"`
}

type Report struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
	Uptime    float64   `json:"uptime"`
}

type Checker struct {
	version   string
	database  Pinger
	cache     Pinger
	startedAt time.Time
}

// NewChecker builds a checker. The in-memory store always serves requests,
// so a failing database only degrades the report. A nil pinger leaves its
// service out of the report.
func NewChecker(version string, database, cache Pinger) *Checker {
	return &Checker{
		version:   version,
		database:  database,
		cache:     cache,
		startedAt: time.Now(),
	}
}

func (c *Checker) Check(ctx context.Context) Report {
	services := Services{API: Operational}
	status := StatusHealthy

	if c.database != nil {
		services.Database = Operational
		if ping(ctx, c.database) != nil {
			services.Database = Degraded
			status = StatusDegraded
		}
	}
	if c.cache != nil {
		services.Cache = Operational
		if ping(ctx, c.cache) != nil {
			services.Cache = Down
			status = StatusDegraded
		}
	}

	return Report{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   c.version,
		Services:  services,
		Uptime:    time.Since(c.startedAt).Seconds(),
	}
}

func ping(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p(ctx)
}

func (c *Checker) Handle(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, c.Check(r.Context()))
}

func RegisterRoutes(r chi.Router, c *Checker) {
	r.Get("/health", c.Handle)
}
