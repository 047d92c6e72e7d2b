package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/handlers"
	"alfredoptarigan/placement-copilot/internal/repositories"
	"alfredoptarigan/placement-copilot/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize repositories
	var (
		userRepo repositories.UserRepository
		prefRepo repositories.PreferenceRepository
	)
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		userRepo = repositories.NewUserRepository(db)
		prefRepo = repositories.NewPreferenceRepository(db)
	} else {
		log.Println("⚠️  DB_ENABLED=false, accounts and preferences are kept in memory")
		userRepo = repositories.NewMemoryUserRepository()
		prefRepo = repositories.NewMemoryPreferenceRepository()
	}
	log.Println("✅ Repositories initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize auth
	authService := services.NewAuthService(
		userRepo,
		services.NewTokenService(cfg.Auth.JWTSecret),
		services.NewLogMailer(),
		cfg.Auth,
	)
	log.Println("✅ Auth service initialized")

	// Initialize worker
	worker := services.NewWorker(cfg.Worker.Concurrency, cfg.Worker.QueueSize)
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	registry := services.NewWorkspaceRegistry(services.WorkspaceDeps{
		Auth:       authService,
		Prefs:      prefRepo,
		Gemini:     geminiService,
		Extractor:  services.NewTextExtractor(),
		Dispatcher: worker,
		Analysis: services.AnalysisOptions{
			MaxFileSize: cfg.Storage.MaxFileSize,
			Timeout:     cfg.Gemini.Timeout,
			Progress:    cfg.Progress,
		},
		Config: cfg.Workspace,
	})
	registry.Start(ctx)
	log.Println("✅ Workspace registry started")

	app := handlers.NewApp(handlers.Dependencies{
		Config:   cfg,
		Registry: registry,
		Auth:     authService,
		Intake:   services.NewFileIntake(cfg.Storage.MaxFileSize),
	})
	log.Println("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		registry.Stop()
		worker.Stop()
		cancel()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
