// Package service implements the pipeline controller: classify, dispatch, aggregate
package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"factlens/internal/core/langhint"
	"factlens/internal/core/normalize"
	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"
	adom "factlens/internal/services/aggregate/domain"
	fdom "factlens/internal/services/fanout/domain"
	dom "factlens/internal/services/pipeline/domain"
	rdom "factlens/internal/services/router/domain"
	wdom "factlens/internal/services/workers/domain"

	"github.com/google/uuid"
)

// streamBuffer is enough for the fixed stage events plus a handful of worker outcomes
const streamBuffer = 8

// Config bounds a run
type Config struct {
	MaxContentChars int
	// RequestTimeout of zero leaves the run bounded only by the per-worker deadlines
	RequestTimeout time.Duration
}

// Controller implements dom.ControllerPort
type Controller struct {
	classifier  rdom.ClassifierPort
	dispatcher  fdom.DispatcherPort
	synthesizer adom.SynthesizerPort
	cfg         Config
	metrics     *metrics.Metrics
	now         func() time.Time
}

var _ dom.ControllerPort = (*Controller)(nil)

// New wires the three stages
func New(c rdom.ClassifierPort, d fdom.DispatcherPort, s adom.SynthesizerPort, cfg Config, m *metrics.Metrics) (*Controller, error) {
	if c == nil || d == nil || s == nil {
		return nil, fmt.Errorf("pipeline: classifier, dispatcher and synthesizer are required")
	}
	if cfg.MaxContentChars < 1 {
		return nil, fmt.Errorf("pipeline: max content chars must be >= 1, got %d", cfg.MaxContentChars)
	}
	return &Controller{classifier: c, dispatcher: d, synthesizer: s, cfg: cfg, metrics: m, now: time.Now}, nil
}

// Run returns only the verdict; invalid content is the only error
func (c *Controller) Run(ctx context.Context, content string, opts ...dom.RunOption) (adom.Verdict, error) {
	res, err := c.Analyze(ctx, content, opts...)
	if err != nil {
		return adom.Verdict{}, err
	}
	return res.Verdict, nil
}

// Analyze runs every stage and returns the whole trace
func (c *Controller) Analyze(ctx context.Context, content string, opts ...dom.RunOption) (dom.Result, error) {
	req, err := c.accept(content)
	if err != nil {
		return dom.Result{}, err
	}
	return c.execute(ctx, req, dom.ResolveRun(opts...), func(dom.Event) {}), nil
}

// RunStreaming validates synchronously then runs in the background
// the channel carries stage events, ends with the completed event and is then closed
// if ctx ends early, events the caller is no longer reading are dropped
func (c *Controller) RunStreaming(ctx context.Context, content string, opts ...dom.RunOption) (<-chan dom.Event, error) {
	req, err := c.accept(content)
	if err != nil {
		return nil, err
	}
	rc := dom.ResolveRun(opts...)
	out := make(chan dom.Event, streamBuffer)
	go func() {
		defer close(out)
		c.execute(ctx, req, rc, func(e dom.Event) {
			select {
			case out <- e:
			case <-ctx.Done():
			}
		})
	}()
	return out, nil
}

// accept cleans content and fails fast before any stage runs
func (c *Controller) accept(content string) (dom.Request, error) {
	cleaned := normalize.Content(content)
	if cleaned == "" {
		return dom.Request{}, perr.WithField(perr.InvalidArgf("content is empty"), "content")
	}
	if n := utf8.RuneCountInString(cleaned); n > c.cfg.MaxContentChars {
		return dom.Request{}, perr.WithField(perr.InvalidArgf("content has %d characters, limit is %d", n, c.cfg.MaxContentChars), "content")
	}
	return dom.Request{
		ID:         uuid.New(),
		Content:    cleaned,
		Hint:       langhint.Detect(cleaned),
		ReceivedAt: c.now().UTC(),
	}, nil
}

// execute drives Classifying, Dispatching and Aggregating in order
// every stage is total so the run always reaches Completed
func (c *Controller) execute(ctx context.Context, req dom.Request, rc dom.RunConfig, emit func(dom.Event)) dom.Result {
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}
	id := req.ID.String()
	ctx = logger.WithRequest(ctx, id)
	start := c.now()
	ev := func(stage dom.Stage, status dom.EventStatus) dom.Event {
		return dom.Event{RequestID: id, Stage: stage, Status: status}
	}

	// classifying
	cctx := logger.WithStage(ctx, string(dom.StageClassifying))
	logger.C(cctx).Debug().Str("script", req.Hint.Script).Str("lang", req.Hint.Lang).Msg("stage started")
	emit(ev(dom.StageClassifying, dom.EventStarted))
	cls := c.classifier.Classify(cctx, req.Content)
	done := ev(dom.StageClassifying, dom.EventCompleted)
	clsCopy := cls.Clone()
	done.Classification = &clsCopy
	emit(done)

	selected := capSelection(cls.Selected, rc.MaxWorkers)

	// dispatching
	dctx := logger.WithStage(ctx, string(dom.StageDispatching))
	logger.C(dctx).Debug().Strs("selected", selected).Msg("stage started")
	started := ev(dom.StageDispatching, dom.EventStarted)
	started.Selected = selected
	emit(started)
	var outcomes []fdom.Outcome
	reports := c.dispatcher.DispatchEach(dctx, req.Content, selected, func(o fdom.Outcome) {
		outcomes = append(outcomes, o)
		e := ev(dom.StageDispatching, dom.EventProgress)
		e.Outcome = &o
		emit(e)
	})
	emit(ev(dom.StageDispatching, dom.EventCompleted))

	// aggregating
	actx := logger.WithStage(ctx, string(dom.StageAggregating))
	logger.C(actx).Debug().Int("reports", len(reports)).Msg("stage started")
	emit(ev(dom.StageAggregating, dom.EventStarted))
	verdict := c.synthesizer.Synthesize(actx, req.Content, reports)
	emit(ev(dom.StageAggregating, dom.EventCompleted))

	res := dom.Result{
		Request:        req,
		Classification: cls,
		Dispatched:     selected,
		Reports:        nonNil(reports),
		Outcomes:       outcomes,
		Verdict:        verdict,
		Elapsed:        c.now().Sub(start),
	}
	c.metrics.ObservePipeline(string(verdict.Conclusion), res.Elapsed)
	logger.C(ctx).Info().
		Str("category", cls.Category).
		Int("selected", len(selected)).
		Int("reports", len(reports)).
		Str("conclusion", string(verdict.Conclusion)).
		Float64("confidence", verdict.Confidence).
		Bool("fallback", verdict.Fallback).
		Dur("elapsed", res.Elapsed).
		Msg("analysis completed")

	final := ev(dom.StageCompleted, dom.EventCompleted)
	final.Verdict = &verdict
	final.Result = &res
	emit(final)
	return res
}

func capSelection(selected []string, limit int) []string {
	out := append([]string(nil), selected...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func nonNil(r []wdom.Report) []wdom.Report {
	if r == nil {
		return []wdom.Report{}
	}
	return r
}
