package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloudy-assistant/backend/internal/config"
	"github.com/cloudy-assistant/backend/internal/handler"
	"github.com/cloudy-assistant/backend/internal/service/ai"
	"github.com/cloudy-assistant/backend/internal/service/room"
	"github.com/cloudy-assistant/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	processor, err := ai.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		log.Fatalf("failed to initialize Gemini processor: %v", err)
	}
	log.Printf("Gemini processor initialized with model %s", cfg.AI.Model)

	registry := session.NewRegistry()
	orchestrator := session.NewOrchestrator(registry, processor, session.AudioDefaults{
		Format:     cfg.Audio.Format,
		SampleRate: cfg.Audio.SampleRate,
		Channels:   cfg.Audio.Channels,
	})
	tokens := room.NewTokenIssuer(cfg.Room.APIKey, cfg.Room.APISecret, cfg.Room.TokenTTL)

	router := handler.NewRouter(cfg, orchestrator, registry, tokens)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("assistant gateway listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
