package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intelligent-username/Tachion/internal/client"
	"github.com/intelligent-username/Tachion/internal/config"
	"github.com/intelligent-username/Tachion/internal/logger"
	"github.com/intelligent-username/Tachion/internal/server"
	"github.com/intelligent-username/Tachion/internal/storage"
	"github.com/intelligent-username/Tachion/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	log := logger.GetGlobalLogger()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))

	log.Info("Starting Tachion forecast service", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"backend":     cfg.APIBaseURL,
	})

	snapshots, err := storage.NewSnapshotStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize snapshot storage", err)
	}

	st := store.New(client.New(cfg.APIBaseURL))
	srv := server.NewServer(cfg, st, snapshots)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("HTTP server error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped")
}
