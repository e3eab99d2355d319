// Package config reads typed settings from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"factlens/internal/platform/logger"
)

// Conf is a namespaced view over the environment, e.g. New().Prefix("LLM_")
type Conf struct{ prefix string }

// New is the unprefixed root
func New() Conf { return Conf{} }

// Prefix nests another namespace under c
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// may parses the value at k, falling back to def when unset or unparsable
// a bad value is logged so a typo in a deployment does not go unnoticed
func may[T any](c Conf, k string, def T, kind string, parse func(string) (T, error)) T {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(k)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

func (c Conf) MayString(k, def string) string {
	return may(c, k, def, "string", func(s string) (string, error) { return s, nil })
}

func (c Conf) MayInt(k string, def int) int { return may(c, k, def, "int", strconv.Atoi) }

func (c Conf) MayBool(k string, def bool) bool { return may(c, k, def, "bool", strconv.ParseBool) }

func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	return may(c, k, def, "duration", time.ParseDuration)
}

func (c Conf) MayFloat64(k string, def float64) float64 {
	return may(c, k, def, "float64", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayCSV splits a comma separated list, dropping blank items
// an empty result is treated as unset
func (c Conf) MayCSV(k string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value matched case-insensitively against allowed, normalized to the allowed spelling
// Anything else is a deployment error and panics
func (c Conf) MayEnum(k, def string, allowed ...string) string {
	v := c.MayString(k, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	logger.Get().Panic().Str("key", c.key(k)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// MayIntAtLeast is MayInt with a floor; values below min log and fall back to def
// pool sizes and caps use it where zero would stall the pipeline
func (c Conf) MayIntAtLeast(k string, def, min int) int {
	v := c.MayInt(k, def)
	if v < min {
		logger.Get().Warn().Str("key", c.key(k)).Int("value", v).Int("min", min).Int("default", def).
			Msg("int below minimum; using default")
		return def
	}
	return v
}

// MaySeconds reads a whole number of seconds, e.g. WORKER_TIMEOUT_SECONDS=120
func (c Conf) MaySeconds(k string, def time.Duration) time.Duration {
	n := c.MayInt(k, int(def/time.Second))
	if n <= 0 {
		logger.Get().Warn().Str("key", c.key(k)).Int("value", n).Dur("default", def).
			Msg("non-positive seconds; using default")
		return def
	}
	return time.Duration(n) * time.Second
}
