package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/huddleapp/huddle/internal/adapters/http"
	wsignal "github.com/huddleapp/huddle/internal/adapters/signal"
	"github.com/huddleapp/huddle/internal/app"
	"github.com/huddleapp/huddle/internal/assist"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/metrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	} else {
		zerolog.SetGlobalLevel(lvl)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())

	relay := &app.Relay{
		Registry: app.NewRegistry(),
		Rooms:    app.NewStore(),
		Metrics:  metrics.New(promReg),
	}

	handlers := &router.Handlers{
		Relay:      relay,
		ICEServers: cfg.ICEServers,
	}

	if cfg.Assist.Enabled {
		apiKey := cfg.Assist.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		ai := assist.NewOpenAIClient(apiKey, cfg.Assist.Model, cfg.Assist.Voice, cfg.AudioDir)
		relay.Responder = ai
		relay.Speech = ai
		relay.Memory = assist.NewEmbeddingMemory(apiKey)
		handlers.Transcriber = ai
		log.Info().Str("model", cfg.Assist.Model).Msg("assistant enabled")
	}

	ws := wsignal.NewController(relay, cfg)

	r := router.SetupRouter(ctx, cfg, handlers, ws, promReg)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Huddle relay started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
