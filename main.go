package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/media-namer/backend/internal/api"
	"github.com/media-namer/backend/internal/auth"
	"github.com/media-namer/backend/internal/config"
	"github.com/media-namer/backend/internal/db"
	"github.com/media-namer/backend/internal/digest"
	"github.com/media-namer/backend/internal/job"
	"github.com/media-namer/backend/internal/naming"
	"github.com/media-namer/backend/internal/renamer"
	"github.com/media-namer/backend/internal/transcript"
	"github.com/media-namer/backend/internal/vision"
	"github.com/media-namer/backend/internal/watch"
)

func main() {
	cfg := config.Load()

	// Ensure data and output directories exist
	os.MkdirAll(cfg.DataPath, 0755)
	os.MkdirAll(cfg.OutputPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Content digest pipeline
	describer := vision.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	recognizer := transcript.NewOpenAIWhisperClient(cfg.OpenAIKey)
	pipeline := digest.NewPipeline(describer, recognizer).WithMaxFrames(cfg.MaxFrames)
	namer := naming.NewClient(cfg.NamingAPIKey, cfg.NamingBaseURL, cfg.NamingModel)

	// Job queue and rename service
	jobQueue := job.NewJobQueue(database.SQL())
	svc := renamer.NewService(pipeline, namer, database, cfg.MediaPath, cfg.OutputPath)
	jobQueue.RegisterHandler(job.JobRename, svc.HandleJob)

	// Optional directory watcher
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.WatchEnabled {
		watcher, err := watch.New(cfg.MediaPath, jobQueue)
		if err != nil {
			log.Fatalf("Failed to start watcher: %v", err)
		}
		defer watcher.Stop()
		go func() {
			if err := watcher.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Create router
	router := api.NewRouter(database, jwtService, cfg, jobQueue, svc)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Media path: %s", cfg.MediaPath)
	log.Printf("Output path: %s", cfg.OutputPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		jobQueue.Stop()
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
