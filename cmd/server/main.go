package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rizzline-backend/internal/config"
	"rizzline-backend/internal/database"
	"rizzline-backend/internal/handlers"
	"rizzline-backend/internal/repository"
	"rizzline-backend/internal/router"
	"rizzline-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting RizzLine Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Cache ────
	cache, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer cache.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	phraseRepo := repository.NewPhraseRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	llm, err := services.NewLLMClient(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer llm.Close()
	if llm.Enabled() {
		log.Println("✓ Gemini client initialized")
	} else {
		log.Println("⚠ GEMINI_API_KEY not set: phrase generation and chat suggestions disabled")
	}

	// ──── Initialize Services ────
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	trending := services.NewTrendingService(cache)
	generator := services.NewGeneratorService(llm, phraseRepo, trending, rnd)
	scraper := services.NewScraperService(phraseRepo, rnd)
	chatService := services.NewChatService(llm)

	// ──── Step 6: Start Job Scheduler ────
	scheduler, err := services.NewJobScheduler(cfg.SchedulerTZ)
	if err != nil {
		log.Fatalf("✗ Scheduler initialization failed: %v", err)
	}
	if cfg.AgentsEnabled {
		scheduler.Add("generator", cfg.GeneratorHour, cfg.GeneratorMinute, generator.GeneratePhrases)
		scheduler.Add("scraper", cfg.ScraperHour, cfg.ScraperMinute, scraper.ScrapePhrases)
		scheduler.Start()
		log.Println("✓ Job scheduler started")
	} else {
		log.Println("⚠ Agent jobs disabled via AGENTS_ENABLED")
	}

	// ──── Initialize Handlers ────
	phraseHandler := handlers.NewPhraseHandler(phraseRepo, cache)
	chatHandler := handlers.NewChatHandler(chatService)
	jobsHandler := handlers.NewJobsHandler()
	jobsHandler.Register("generate", generator.GeneratePhrases)
	jobsHandler.Register("scrape", scraper.ScrapePhrases)

	// ──── Step 7: Start HTTP Server ────
	r := router.New(phraseHandler, chatHandler, jobsHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No write timeout: the chat endpoint holds a streaming response open.
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ RizzLine Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
