// Package api provides the HTTP API for the application
package api

import (
	"net/http"
	"time"

	"factlens/internal/platform/config"
	"factlens/internal/platform/logger"
	phttp "factlens/internal/platform/net/http"

	"factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	"factlens/internal/modkit/module"
	"factlens/internal/modkit/swaggerkit"

	metamod "factlens/internal/services/api/meta/module"
	verifymod "factlens/internal/services/api/verify/module"
	pipemod "factlens/internal/services/pipeline/module"
	wdom "factlens/internal/services/workers/domain"
)

// Options are the API options
type Options struct {
	Deps           modkit.Deps
	Evidence       wdom.EvidencePort
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	RequestTimeout time.Duration
	CORSOrigins    []string
	MaxInFlight    int
}

// FromConfig reads API_* keys; Deps, Evidence and Logger are left for the caller
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("API_")
	return Options{
		EnableSwagger:  c.MayBool("ENABLE_SWAGGER", false),
		EnableProfiler: c.MayBool("ENABLE_PROFILER", false),
		RequestTimeout: c.MayDuration("REQUEST_TIMEOUT", 5*time.Minute),
		CORSOrigins:    c.MayCSV("CORS_ORIGINS", nil),
		MaxInFlight:    c.MayInt("MAX_INFLIGHT", 0),
	}
}

// Mount assembles the pipeline and mounts every module onto r
func Mount(r phttp.Router, opt Options) error {
	deps := opt.Deps
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}

	// pipeline modules first, their ports feed the HTTP modules
	stack, err := pipemod.Assemble(deps, opt.Evidence)
	if err != nil {
		return err
	}
	verify, err := verifymod.New(deps, modkit.WithPorts(verifymod.Ports{
		Controller: stack.Controller(),
		Registry:   stack.Registry(),
	}))
	if err != nil {
		return err
	}

	mods := append(stack.Modules(),
		metamod.New(deps),
		verify,
	)

	r.Handle("/metrics", deps.Metrics.Handler())

	stackOpts := httpkit.StackOptions{
		Timeout:     opt.RequestTimeout,
		CORSOrigins: opt.CORSOrigins,
		SlowRequest: time.Minute,
		MaxInFlight: opt.MaxInFlight,
	}
	httpkit.MountAPIV1(r, httpkit.CommonStack(stackOpts), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		phttp.JSON(w, http.StatusOK, map[string]any{"ok": true, "service": metamod.ServiceName})
	})

	log.Info().Strs("workers", stack.Registry().AllNames()).Bool("swagger", opt.EnableSwagger).Msg("api mounted")
	return nil
}
