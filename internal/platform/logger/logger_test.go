package logger

import (
	"bytes"
	"context"
	"testing"

	kit "factlens/internal/platform/testkit"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]zerolog.Level{
		"trace":        zerolog.TraceLevel,
		" INFO ":       zerolog.InfoLevel,
		"warning":      zerolog.WarnLevel,
		"error":        zerolog.ErrorLevel,
		"":             zerolog.DebugLevel,
		"   nonsense ": zerolog.DebugLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuild_JSONFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := build(Options{
		Level:        "info",
		Format:       "json",
		Service:      "factlens",
		Component:    "router",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})
	l.Debug().Msg("dropped")
	l.Info().Str("worker", "timeline").Msg("dispatched")

	line := bytes.TrimSpace(buf.Bytes())
	if bytes.Count(line, []byte("\n")) != 0 {
		t.Fatalf("debug line should be filtered at info level:\n%s", line)
	}
	for path, want := range map[string]string{
		"message":   "dispatched",
		"level":     "info",
		"service":   "factlens",
		"component": "router",
		"build":     "test",
		"worker":    "timeline",
	} {
		if got := gjson.GetBytes(line, path).String(); got != want {
			t.Fatalf("%s = %q, want %q in %s", path, got, want, line)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_COMPONENT", "cli")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "factlens" || opt.Component != "cli" {
		t.Fatalf("FromEnv = %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("caller/sample = %+v", opt)
	}

	t.Setenv("LOG_SAMPLE_EVERY", "often")
	if FromEnv().SampleEvery != 0 {
		t.Fatalf("junk sample rate should be ignored")
	}
}

func TestContextScopedChildren(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "console", Service: "svc-a", Writer: &buf})

	ctx := WithWorker(WithStage(WithRequest(context.Background(), "req-123"), "dispatching"), "timeline")
	C(ctx).Info().Msg("ctx-msg")
	Named("api").Info().Msg("named-msg")

	out := buf.String()
	for _, want := range []string{"ctx-msg", "req-123", "dispatching", "timeline", "named-msg", "api", "svc-a"} {
		kit.MustContain(t, out, want)
	}

	empty := WithWorker(WithRequest(context.Background(), ""), "")
	if empty != context.Background() {
		t.Fatalf("empty values should not wrap the context")
	}
}
