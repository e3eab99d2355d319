// @title         factlens API
// @version       0.1.0
// @description   Multi worker content verification over a chat completion backend

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"factlens/internal/adapters/evidence"
	"factlens/internal/adapters/llm"
	"factlens/internal/modkit"
	"factlens/internal/platform/config"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"
	phttp "factlens/internal/platform/net/http"

	"factlens/internal/services/api"
	wdom "factlens/internal/services/workers/domain"
)

func main() {
	root := config.New()
	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(true)
	client, err := llm.New(llm.FromConfig(root), m)
	if err != nil {
		l.Fatal().Err(err).Msg("llm client init failed")
	}

	// optional canned evidence (EVIDENCE_FILE), workers run without it otherwise
	var ev wdom.EvidencePort
	if path := root.MayString("EVIDENCE_FILE", ""); path != "" {
		st, err := evidence.LoadFile(path)
		if err != nil {
			l.Fatal().Err(err).Msg("evidence load failed")
		}
		ev = st
	}

	// http server (reads API_PORT / API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(root)

	opts := api.FromConfig(root)
	opts.Deps = modkit.Deps{
		Log:        *l,
		Cfg:        root,
		LLM:        client,
		VerdictLLM: client.ForVerdict(),
		Metrics:    m,
	}
	opts.Evidence = ev
	opts.Logger = l
	if err := api.Mount(srv.Router(), opts); err != nil {
		l.Fatal().Err(err).Msg("api mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
