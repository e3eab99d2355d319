// Package http serves liveness, build and uptime info under /meta
package http

import (
	"net/http"
	"time"

	"factlens/internal/core/version"
	"factlens/internal/modkit/httpkit"
)

// Deps are what the meta routes report on
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Workers     func() int // registry size; nil reports zero
}

// Status is the /meta/health and /meta/service payload
// health leaves Uptime and Workers out
type Status struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
	Uptime  int64  `json:"uptime_seconds,omitempty"`
	Workers int    `json:"workers,omitempty"`
}

// Register mounts /health, /version and /service on r
func Register(r httpkit.Router, d Deps) {
	registerAt(r, d, time.Now)
}

func registerAt(r httpkit.Router, d Deps, now func() time.Time) {
	status := func() Status {
		t := now()
		return Status{
			OK:      true,
			Service: d.ServiceName,
			Started: d.StartedAt.UTC().Format(time.RFC3339),
			Now:     t.UTC().Format(time.RFC3339),
			Uptime:  int64(t.Sub(d.StartedAt) / time.Second),
		}
	}

	httpkit.Get(r, "/health", func(*http.Request) (any, error) {
		s := status()
		s.Uptime = 0
		return s, nil
	})
	httpkit.Get(r, "/version", func(*http.Request) (any, error) {
		return version.Info(), nil
	})
	httpkit.Get(r, "/service", func(*http.Request) (any, error) {
		s := status()
		if d.Workers != nil {
			s.Workers = d.Workers()
		}
		return s, nil
	})
}
