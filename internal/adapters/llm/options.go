package llm

import (
	"time"

	"factlens/internal/platform/config"
	"factlens/internal/platform/net/http/bind"
)

// Backend names accepted by LLM_PROVIDER
const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendOllama    = "ollama"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.3
	defaultVerdictTemp = 0.1
	defaultMaxTokens   = 4000
	defaultRetries     = 2
	defaultRetryBase   = 500 * time.Millisecond
	maxRetryWindow     = 30 * time.Second
	retryJitter        = 50 * time.Millisecond
)

// Options configures the provider client
type Options struct {
	Backend            string        `json:"backend" validate:"oneof=openai anthropic ollama"`
	Model              string        `json:"model" validate:"required"`
	APIKey             string        `json:"-"`
	BaseURL            string        `json:"base_url" validate:"omitempty,url"`
	Temperature        float64       `json:"temperature" validate:"gte=0,lte=2"`
	VerdictTemperature float64       `json:"verdict_temperature" validate:"gte=0,lte=2"`
	MaxTokens          int           `json:"max_tokens" validate:"gte=0"`
	RetryAttempts      int           `json:"retry_attempts" validate:"gte=0,lte=10"`
	RetryBase          time.Duration `json:"retry_base"`
	CallTimeout        time.Duration `json:"call_timeout" validate:"gte=0"`
	RequestsPerMinute  float64       `json:"requests_per_minute" validate:"gte=0"`
}

// FromConfig reads LLM_* keys
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LLM_")
	return Options{
		Backend:            c.MayEnum("PROVIDER", BackendOpenAI, BackendOpenAI, BackendAnthropic, BackendOllama),
		Model:              c.MayString("MODEL", defaultModel),
		APIKey:             c.MayString("API_KEY", ""),
		BaseURL:            c.MayString("BASE_URL", ""),
		Temperature:        c.MayFloat64("TEMPERATURE", defaultTemperature),
		VerdictTemperature: c.MayFloat64("VERDICT_TEMPERATURE", defaultVerdictTemp),
		MaxTokens:          c.MayInt("MAX_TOKENS", defaultMaxTokens),
		RetryAttempts:      c.MayInt("RETRY_ATTEMPTS", defaultRetries),
		RetryBase:          c.MayDuration("RETRY_BASE", defaultRetryBase),
		CallTimeout:        c.MayDuration("CALL_TIMEOUT", 0),
		RequestsPerMinute:  c.MayFloat64("REQUESTS_PER_MINUTE", 0),
	}
}

// withDefaults fills the zero values FromConfig would have defaulted
func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendOpenAI
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.RetryAttempts < 0 {
		o.RetryAttempts = 0
	}
	return o
}

// Validate checks the options with the shared validator
func (o Options) Validate() error { return bind.Validate(o) }
