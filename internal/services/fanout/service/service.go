// Package service implements the bounded fan-out over registered workers
package service

import (
	"context"
	stderrs "errors"
	"fmt"
	"sync"
	"time"

	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"
	dom "factlens/internal/services/fanout/domain"
	wdom "factlens/internal/services/workers/domain"

	"golang.org/x/sync/semaphore"
)

// Config controls admission and deadlines
type Config struct {
	MaxConcurrent int
	WorkerTimeout time.Duration
}

// Dispatcher implements dom.DispatcherPort
type Dispatcher struct {
	registry wdom.RegistryPort
	cfg      Config
	metrics  *metrics.Metrics
}

var _ dom.DispatcherPort = (*Dispatcher)(nil)

// New validates cfg
func New(registry wdom.RegistryPort, cfg Config, m *metrics.Metrics) (*Dispatcher, error) {
	if registry == nil {
		return nil, fmt.Errorf("fanout: nil registry")
	}
	if cfg.MaxConcurrent < 1 {
		return nil, fmt.Errorf("fanout: max concurrent must be at least 1, got %d", cfg.MaxConcurrent)
	}
	if cfg.WorkerTimeout <= 0 {
		return nil, fmt.Errorf("fanout: worker timeout must be positive, got %s", cfg.WorkerTimeout)
	}
	return &Dispatcher{registry: registry, cfg: cfg, metrics: m}, nil
}

// Dispatch runs every known name and returns the reports of those that completed in time
func (d *Dispatcher) Dispatch(ctx context.Context, content string, names []string) []wdom.Report {
	return d.DispatchEach(ctx, content, names, nil)
}

// DispatchEach is Dispatch with a callback per outcome as it arrives
// onOutcome is never called concurrently and every name yields exactly one outcome
func (d *Dispatcher) DispatchEach(ctx context.Context, content string, names []string, onOutcome func(dom.Outcome)) []wdom.Report {
	var (
		mu      sync.Mutex
		reports = make([]wdom.Report, 0, len(names))
		wg      sync.WaitGroup
	)
	emit := func(o dom.Outcome) {
		if o.Err != nil {
			o.Error = o.Err.Error()
		}
		d.metrics.ObserveWorker(o.Worker, string(o.Status), o.Elapsed)

		mu.Lock()
		defer mu.Unlock()
		if o.Status == dom.StatusCompleted {
			reports = append(reports, *o.Report)
		}
		if onOutcome != nil {
			onOutcome(o)
		}
	}

	// the gate is scoped to this call, never shared across requests
	gate := semaphore.NewWeighted(int64(d.cfg.MaxConcurrent))
	for _, name := range names {
		desc, ok := d.registry.Get(name)
		if !ok {
			logger.C(ctx).Warn().Str("worker", name).Msg("unknown worker skipped")
			emit(dom.Outcome{Worker: name, Status: dom.StatusSkipped, Err: perr.UnknownWorkerf("unknown worker %q", name)})
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			emit(d.run(ctx, gate, desc, content))
		}()
	}
	wg.Wait()
	return reports
}

type result struct {
	report wdom.Report
	err    error
}

// run admits one worker through the gate and bounds it with its own deadline
// the deadline clock starts at admission, not at launch
func (d *Dispatcher) run(ctx context.Context, gate *semaphore.Weighted, desc wdom.Descriptor, content string) dom.Outcome {
	ctx = logger.WithWorker(ctx, desc.Name)
	log := logger.C(ctx)
	out := dom.Outcome{Worker: desc.Name}

	if err := gate.Acquire(ctx, 1); err != nil {
		out.Status, out.Err = dom.StatusFailed, perr.Wrap(err, perr.ErrorCodeUnavailable, "not admitted before cancellation")
		log.Warn().Err(err).Msg("worker never admitted")
		return out
	}
	defer gate.Release(1)

	start := time.Now()
	wctx, cancel := context.WithTimeout(ctx, d.cfg.WorkerTimeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: perr.PanicErrf("worker %s panicked: %v", desc.Name, r)}
			}
		}()
		rep, err := desc.Investigator.Investigate(wctx, content)
		done <- result{report: rep, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-wctx.Done():
		res.err = wctx.Err()
	}
	out.Elapsed = time.Since(start)

	switch {
	case res.err == nil:
		rep := normalizeReport(desc.Name, res.report)
		out.Status, out.Report = dom.StatusCompleted, &rep
		log.Debug().Dur("elapsed", out.Elapsed).Float64("confidence", rep.Confidence).Msg("worker completed")
	case ctx.Err() == nil && stderrs.Is(wctx.Err(), context.DeadlineExceeded):
		out.Status = dom.StatusTimedOut
		out.Err = perr.Timeoutf("worker %s exceeded %s", desc.Name, d.cfg.WorkerTimeout)
		log.Warn().Dur("timeout", d.cfg.WorkerTimeout).Msg("worker timed out")
	default:
		out.Status, out.Err = dom.StatusFailed, res.err
		log.Warn().Err(res.err).Str("reason", perr.Reason(res.err)).Dur("elapsed", out.Elapsed).Msg("worker failed")
	}
	return out
}

// normalizeReport pins the report to the descriptor that produced it
func normalizeReport(name string, r wdom.Report) wdom.Report {
	r.Worker = name
	switch {
	case r.Confidence < 0:
		r.Confidence = 0
	case r.Confidence > 1:
		r.Confidence = 1
	}
	if r.Sources == nil {
		r.Sources = []wdom.CitedSource{}
	}
	return r
}
