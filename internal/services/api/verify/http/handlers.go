// Package http provides the verify endpoints
package http

import (
	stdhttp "net/http"

	"factlens/internal/modkit/httpkit"
	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/net/http/bind"
	"factlens/internal/services/api/verify/domain"
	pdom "factlens/internal/services/pipeline/domain"
	wdom "factlens/internal/services/workers/domain"

	"github.com/go-chi/chi/v5"
)

// Deps are the handler dependencies
type Deps struct {
	Controller pdom.ControllerPort
	Registry   wdom.RegistryPort
}

type handlers struct {
	deps Deps
}

// Register mounts the verify routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.Get(r, "/workers", h.workers)
	httpkit.Get(r, "/workers/{name}", h.worker)
	httpkit.PostJSON[domain.VerifyInput](r, "/", h.verify)
	r.Post("/stream", h.stream)
}

// swagger:route GET /verify/workers Verify verifyWorkers
// @Summary List investigation workers
// @Tags Verify
// @Produce json
// @Success 200 {object} domain.WorkersOutput "ok"
// @Router /verify/workers [get]
func (h *handlers) workers(_ *stdhttp.Request) (any, error) {
	infos := h.deps.Registry.Describe()
	return domain.WorkersOutput{Workers: infos, Count: len(infos)}, nil
}

// swagger:route GET /verify/workers/{name} Verify verifyWorker
// @Summary Describe one worker
// @Tags Verify
// @Produce json
// @Param name path string true "Worker name"
// @Success 200 {object} wdom.Info "ok"
// @Failure 404 {object} httpkit.Envelope "unknown worker"
// @Router /verify/workers/{name} [get]
func (h *handlers) worker(r *stdhttp.Request) (any, error) {
	name := chi.URLParam(r, "name")
	if err := bind.Var(name, "worker_name", "name"); err != nil {
		return nil, err
	}
	d, ok := h.deps.Registry.Get(name)
	if !ok {
		return nil, perr.UnknownWorkerf("no worker named %q", name)
	}
	return wdom.Info{Name: d.Name, Category: d.Category, Description: d.Description}, nil
}

// swagger:route POST /verify Verify verifyRun
// @Summary Verify content and return the verdict
// @Tags Verify
// @Accept json
// @Produce json
// @Param payload body domain.VerifyInput true "Content"
// @Success 200 {object} domain.VerifyOutput "ok"
// @Failure 400 {object} httpkit.Envelope "invalid content"
// @Router /verify [post]
func (h *handlers) verify(r *stdhttp.Request, in domain.VerifyInput) (any, error) {
	res, err := h.deps.Controller.Analyze(r.Context(), in.Content, in.RunOptions()...)
	if err != nil {
		return nil, err
	}
	if in.Trace {
		return res, nil
	}
	return domain.Summarize(res), nil
}

// swagger:route POST /verify/stream Verify verifyStream
// @Summary Verify content and stream stage events
// @Tags Verify
// @Accept json
// @Produce text/event-stream
// @Param payload body domain.VerifyInput true "Content"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} httpkit.Envelope "invalid content"
// @Router /verify/stream [post]
func (h *handlers) stream(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[domain.VerifyInput](r)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	events, err := h.deps.Controller.RunStreaming(r.Context(), in.Content, in.RunOptions()...)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	sse := httpkit.StartSSE(w)
	if sse == nil {
		httpkit.RespondError(w, r, perr.Internalf("streaming unsupported"))
		return
	}

	log := logger.C(r.Context())
	for e := range events {
		if !in.Trace {
			e.Result = nil
		}
		name := string(e.Stage)
		if e.Terminal() {
			name = "verdict"
		}
		if err := sse.WriteEvent(name, e); err != nil {
			log.Debug().Err(err).Msg("stream write failed, draining")
			for range events {
				// the producer exits once the request context ends
			}
			return
		}
	}
}
