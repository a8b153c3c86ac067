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

	"golang.org/x/sync/errgroup"

	"github.com/avashisht/ttsbox/internal/api"
	"github.com/avashisht/ttsbox/internal/api/handlers"
	"github.com/avashisht/ttsbox/internal/config"
	"github.com/avashisht/ttsbox/internal/repositories"
	"github.com/avashisht/ttsbox/internal/tts"
)

func main() {
	cfg := config.Envs

	if err := os.MkdirAll(cfg.ConfigsDir, 0o750); err != nil {
		log.Fatalf("Could not create upload directories: %v", err)
	}

	if err := repositories.InitMetadata(cfg.MetadataFile); err != nil {
		log.Fatalf("Could not load metadata store: %v", err)
	}

	handlers.Synth = tts.NewGTTSEngine(cfg.GTTSBin)
	handlers.Converter = tts.NewFFmpegConverter(cfg.FFmpegBin)

	if cfg.VoicesFile != "" {
		if err := tts.LoadVoicesFile(cfg.VoicesFile); err != nil {
			log.Fatalf("Could not load voices file: %v", err)
		}
		log.Printf("Loaded voice table from %s", cfg.VoicesFile)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.SetupRouter(),
		// Header-only read timeout: uploads may legitimately stream for a
		// long time, so no blanket read/write deadline.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting audio storage server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
	log.Println("Server stopped")
}
