// Package service implements the router: one provider call that labels content and picks workers
package service

import (
	"context"
	"crypto/sha256"
	"fmt"

	"factlens/internal/adapters/llm"
	"factlens/internal/core/interpret"
	"factlens/internal/core/promptpack"
	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"
	dom "factlens/internal/services/router/domain"
	wdom "factlens/internal/services/workers/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Config controls the classifier
type Config struct {
	MaxSelected int
	CacheSize   int // 0 disables the cache
}

// Classifier implements dom.ClassifierPort
type Classifier struct {
	llm      llm.Provider
	registry wdom.RegistryPort
	stage    promptpack.Stage
	defaults []string
	max      int
	cache    *lru.Cache[[sha256.Size]byte, dom.Classification]
	metrics  *metrics.Metrics
}

var _ dom.ClassifierPort = (*Classifier)(nil)

// New builds a classifier over the catalog's router prompt and default subset
func New(provider llm.Provider, registry wdom.RegistryPort, pack *promptpack.Pack, cfg Config, m *metrics.Metrics) (*Classifier, error) {
	if provider == nil || registry == nil || pack == nil {
		return nil, fmt.Errorf("router: provider, registry and catalog are required")
	}
	if cfg.MaxSelected < 1 {
		return nil, fmt.Errorf("router: max selected must be at least 1, got %d", cfg.MaxSelected)
	}
	c := &Classifier{
		llm:      provider,
		registry: registry,
		stage:    pack.Router,
		max:      cfg.MaxSelected,
		metrics:  m,
	}
	for _, d := range pack.Defaults {
		if registry.Exists(d) && len(c.defaults) < c.max {
			c.defaults = append(c.defaults, d)
		}
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[[sha256.Size]byte, dom.Classification](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("router: cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Classify never fails: provider and parse errors yield the fixed fallback result
func (c *Classifier) Classify(ctx context.Context, content string) dom.Classification {
	log := logger.C(ctx)
	key := sha256.Sum256([]byte(content))
	if c.cache != nil {
		if hit, ok := c.cache.Get(key); ok {
			log.Debug().Strs("selected", hit.Selected).Msg("classification cache hit")
			return hit.Clone()
		}
	}

	resp, err := c.llm.Complete(ctx, c.stage.Instructions, c.stage.Task+"\n\n"+content)
	if err != nil {
		log.Warn().Err(err).Str("reason", perr.Reason(err)).Msg("classification provider call failed, using default workers")
		return c.fallback(perr.Reason(err), err)
	}
	payload, err := interpret.Structured(resp)
	if err != nil {
		log.Warn().Err(err).Msg("classification payload unreadable, using default workers")
		return c.fallback(perr.Reason(err), err)
	}

	out := dom.Classification{
		Category:  payload.String("event_type", "category", "type"),
		Rationale: payload.String("rationale", "exploration_strategy", "reason"),
		CoreClaim: payload.String("core_claim", "claim"),
		Keywords:  payload.Strings("keywords"),
	}
	if out.Category == "" {
		out.Category = dom.UnknownCategory
	}
	out.Confidence = interpret.DefaultConfidence
	if v, ok := payload.Float("event_type_confidence", "category_confidence", "confidence"); ok {
		out.Confidence = clamp01(v)
	}

	out.Selected = c.validate(ctx, candidates(payload))
	cacheable := true
	if len(out.Selected) == 0 {
		log.Warn().Str("category", out.Category).Msg("classification selected no known workers, using default workers")
		c.metrics.Fallback("router", "empty_selection")
		out.Selected = append([]string(nil), c.defaults...)
		cacheable = false
	}

	if c.cache != nil && cacheable {
		c.cache.Add(key, out.Clone())
	}
	log.Debug().Str("category", out.Category).Strs("selected", out.Selected).Msg("content classified")
	return out
}

// validate dedupes, drops names the registry does not know, then truncates
// unknown names never consume a slot
func (c *Classifier) validate(ctx context.Context, cands []candidate) []string {
	seen := make(map[string]struct{}, len(cands))
	var out []string
	for _, cand := range cands {
		if _, dup := seen[cand.name]; dup {
			continue
		}
		seen[cand.name] = struct{}{}
		if !c.registry.Exists(cand.name) {
			logger.C(ctx).Warn().Str("worker", cand.name).Msg("router selected an unknown worker, dropping it")
			continue
		}
		if len(out) == c.max {
			logger.C(ctx).Debug().Str("worker", cand.name).Int("max", c.max).Msg("selection truncated")
			continue
		}
		out = append(out, cand.name)
	}
	return out
}

func (c *Classifier) fallback(reason string, err error) dom.Classification {
	c.metrics.Fallback("router", reason)
	return dom.Classification{
		Category:   dom.UnknownCategory,
		Confidence: 0,
		Selected:   append([]string(nil), c.defaults...),
		Rationale:  "classification unavailable (" + reason + "): " + err.Error(),
		Fallback:   true,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
