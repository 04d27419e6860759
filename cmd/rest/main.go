package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/bootstrap"
	"github.com/likhit-sai/CogniFlow/internal/config"
	"github.com/likhit-sai/CogniFlow/internal/server"
	"github.com/likhit-sai/CogniFlow/internal/tracer"
)

func main() {
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	go container.WebSocketHub.Run(ctx)
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Unable to start event consumer: %v", err)
	}

	// Nothing can be served from a workspace that never loaded.
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Scheduler.SaveTimeout)
	err = container.WorkspaceService.Load(loadCtx)
	cancelLoad()
	if err != nil {
		log.Fatalf("Unable to load workspace: %v", err)
	}

	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	flushCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(flushCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
