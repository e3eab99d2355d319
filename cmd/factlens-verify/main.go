package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"factlens/internal/adapters/evidence"
	"factlens/internal/adapters/llm"
	"factlens/internal/modkit"
	"factlens/internal/platform/config"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"
	str "factlens/internal/platform/strings"

	vdom "factlens/internal/services/api/verify/domain"
	pdom "factlens/internal/services/pipeline/domain"
	pipemod "factlens/internal/services/pipeline/module"
	wdom "factlens/internal/services/workers/domain"
)

func main() {
	var (
		content    = flag.String("content", "", "content to verify (stdin when empty)")
		file       = flag.String("file", "", "read content from this file")
		stream     = flag.Bool("stream", false, "print every stage event as a JSON line")
		trace      = flag.Bool("trace", false, "print the full run trace instead of the summary")
		maxWorkers = flag.Int("max-workers", 0, "lower the worker cap for this run (0 keeps the default)")
		timeout    = flag.Duration("timeout", 10*time.Minute, "overall deadline")
		evFile     = flag.String("evidence", "", "JSON evidence file handed to the workers")
	)
	flag.Parse()

	text, err := readContent(*content, *file)
	if err != nil {
		log.Fatalf("read content: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		log.Fatal("no content: pass -content, -file or pipe it on stdin")
	}

	root := config.New()
	l := logger.Get()

	client, err := llm.New(llm.FromConfig(root), nil)
	if err != nil {
		l.Fatal().Err(err).Msg("llm client init failed")
	}

	var ev wdom.EvidencePort
	if path := str.FirstNonBlank(*evFile, root.MayString("EVIDENCE_FILE", "")); path != "" {
		st, err := evidence.LoadFile(path)
		if err != nil {
			l.Fatal().Err(err).Msg("evidence load failed")
		}
		ev = st
	}

	stack, err := pipemod.Assemble(modkit.Deps{
		Log:        *l,
		Cfg:        root,
		LLM:        client,
		VerdictLLM: client.ForVerdict(),
		Metrics:    metrics.New(false),
	}, ev)
	if err != nil {
		l.Fatal().Err(err).Msg("pipeline assemble failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var opts []pdom.RunOption
	if *maxWorkers > 0 {
		opts = append(opts, pdom.WithMaxWorkers(*maxWorkers))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *stream {
		events, err := stack.Controller().RunStreaming(ctx, text, opts...)
		if err != nil {
			l.Fatal().Err(err).Msg("verify rejected")
		}
		line := json.NewEncoder(os.Stdout)
		for e := range events {
			if e.Terminal() && !*trace {
				e.Result = nil
			}
			if err := line.Encode(e); err != nil {
				l.Fatal().Err(err).Msg("write event")
			}
		}
		if ctx.Err() != nil {
			l.Fatal().Err(ctx.Err()).Msg("verify interrupted")
		}
		return
	}

	res, err := stack.Controller().Analyze(ctx, text, opts...)
	if err != nil {
		l.Fatal().Err(err).Msg("verify failed")
	}
	var out any = vdom.Summarize(res)
	if *trace {
		out = res
	}
	if err := enc.Encode(out); err != nil {
		l.Fatal().Err(err).Msg("write result")
	}
}

func readContent(content, file string) (string, error) {
	switch {
	case content != "":
		return content, nil
	case file != "":
		b, err := os.ReadFile(file)
		return string(b), err
	default:
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
}

