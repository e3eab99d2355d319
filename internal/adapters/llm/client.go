package llm

import (
	"context"
	"strings"
	"time"

	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"

	"github.com/sethvargo/go-retry"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// Client is a Provider over a langchaingo model with retry, pacing and metrics
type Client struct {
	model   llms.Model
	opts    Options
	temp    float64
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New builds the backend named by o.Backend
func New(o Options, m *metrics.Metrics) (*Client, error) {
	o = o.withDefaults()
	if err := o.Validate(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "llm options")
	}
	model, err := newModel(o)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm %s init", o.Backend)
	}
	return NewWithModel(model, o, m), nil
}

// NewWithModel wraps an existing model, which is how tests inject fakes
func NewWithModel(model llms.Model, o Options, m *metrics.Metrics) *Client {
	o = o.withDefaults()
	c := &Client{
		model:   model,
		opts:    o,
		temp:    o.Temperature,
		metrics: m,
		log:     logger.Named("llm"),
	}
	if o.RequestsPerMinute > 0 {
		perSecond := o.RequestsPerMinute / 60.0
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return c
}

func newModel(o Options) (llms.Model, error) {
	switch o.Backend {
	case BackendAnthropic:
		opts := []anthropic.Option{anthropic.WithModel(o.Model)}
		if o.APIKey != "" {
			opts = append(opts, anthropic.WithToken(o.APIKey))
		}
		if o.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(o.BaseURL))
		}
		return anthropic.New(opts...)
	case BackendOllama:
		opts := []ollama.Option{ollama.WithModel(o.Model)}
		if o.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(o.BaseURL))
		}
		return ollama.New(opts...)
	default:
		opts := []openai.Option{openai.WithModel(o.Model)}
		if o.APIKey != "" {
			opts = append(opts, openai.WithToken(o.APIKey))
		}
		if o.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(o.BaseURL))
		}
		return openai.New(opts...)
	}
}

// WithTemperature returns a copy sharing the model, limiter and metrics
func (c *Client) WithTemperature(t float64) *Client {
	cp := *c
	cp.temp = t
	return &cp
}

// ForVerdict is the copy the aggregator uses
func (c *Client) ForVerdict() *Client { return c.WithTemperature(c.opts.VerdictTemperature) }

// Backend names the configured backend
func (c *Client) Backend() string { return c.opts.Backend }

// Complete sends one system+user exchange and returns the first choice text
// retryable failures back off exponentially; everything else surfaces as ErrorCodeProvider
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	msgs := make([]llms.MessageContent, 0, 2)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, user))

	callOpts := []llms.CallOption{llms.WithTemperature(c.temp)}
	if c.opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(c.opts.MaxTokens))
	}

	backoff := retry.NewExponential(c.opts.RetryBase)
	backoff = retry.WithCappedDuration(maxRetryWindow, backoff)
	backoff = retry.WithMaxRetries(uint64(c.opts.RetryAttempts), retry.WithJitter(retryJitter, backoff))

	var out string
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		text, err := c.once(ctx, msgs, callOpts)
		if err == nil {
			out = text
			c.metrics.ProviderCall(c.opts.Backend, "ok")
			return nil
		}
		if perr.Retryable(err) {
			c.metrics.ProviderCall(c.opts.Backend, "retry")
			logger.C(ctx).Warn().Err(err).Int("attempt", attempt).Str("backend", c.opts.Backend).Msg("provider call failed, retrying")
			return retry.RetryableError(err)
		}
		c.metrics.ProviderCall(c.opts.Backend, "error")
		return err
	})
	if err != nil {
		if !perr.IsProvider(err) {
			err = perr.Wrapf(err, perr.ErrorCodeProvider, "%s call failed", c.opts.Backend)
		}
		return "", err
	}
	return out, nil
}

func (c *Client) once(ctx context.Context, msgs []llms.MessageContent, callOpts []llms.CallOption) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", perr.Wrap(err, perr.ErrorCodeProvider, "provider pacing wait aborted")
		}
	}
	if c.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, msgs, callOpts...)
	lat := time.Since(start)
	if err != nil {
		return "", classify(c.opts.Backend, err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", perr.Providerf("%s returned an empty completion", c.opts.Backend)
	}
	c.log.Debug().Dur("latency", lat).Int("chars", len(resp.Choices[0].Content)).Msg("provider completion")
	return resp.Choices[0].Content, nil
}
