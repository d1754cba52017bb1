package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/todamoon/terminal/docs"
	"github.com/todamoon/terminal/internal/audit"
	"github.com/todamoon/terminal/internal/config"
	"github.com/todamoon/terminal/internal/database"
	"github.com/todamoon/terminal/internal/device"
	"github.com/todamoon/terminal/internal/handlers"
	"github.com/todamoon/terminal/internal/services"
	"github.com/todamoon/terminal/internal/token"
)

// @title Queue Terminal API
// @version 1.0
// @description Operator API for the entry/exit queue terminals
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	docs.SwaggerInfo.Title = "Queue Terminal API"
	docs.SwaggerInfo.Description = "Operator API for the " + cfg.Terminal.Role + " terminal " + cfg.Terminal.ID
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	redisClient := database.InitRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cipher, err := token.NewCipher([]byte(cfg.Token.SecretKey))
	if err != nil {
		log.Fatalf("Failed to initialize token cipher: %v", err)
	}

	retry := services.NewRetryPolicy(cfg.Store)
	accounts := services.NewAccountResolver(db, retry)
	queue := services.NewQueueService(db, retry)
	status := services.NewStatusRecorder(cfg.Terminal.ID, cfg.Terminal.Role)

	actuator := device.NewActuator(cfg.Actuator.BaseURL, cfg.Actuator.Timeout)
	pipeline := services.NewScanPipeline(cfg.Terminal.Role, services.PipelineDeps{
		Decoder:   cipher,
		Accounts:  accounts,
		Queue:     queue,
		Notifier:  services.NewFeedbackDispatcher(actuator, cfg.Actuator.DisplayEnabled),
		Publisher: services.NewEventPublisher(redisClient, cfg.Redis.EventsKey, cfg.Terminal.ID),
		Audit:     audit.NewLogger(cfg.Terminal.ID),
		Status:    status,
	})

	camera := device.NewCamera(cfg.Camera.BaseURL, cfg.Camera.Timeout)
	scanner := services.NewScanner(camera, device.NewQRDetector(), pipeline, cfg.Camera)

	if cfg.JWT.SecretKey == "" {
		log.Println("[MAIN] JWT_SECRET_KEY not set, token issuing disabled")
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		JWTSecret: cfg.JWT.SecretKey,
		Status:    handlers.NewStatusHandler(db, status),
		Tokens:    handlers.NewTokenHandler(services.NewTokenService(accounts, cipher)),
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[MAIN] HTTP server starting on :%s", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[MAIN] HTTP server failed: %v", err)
		}
	}()

	log.Printf("[MAIN] Terminal %s running as %s", cfg.Terminal.ID, cfg.Terminal.Role)
	if err := scanner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[MAIN] Scanner stopped: %v", err)
	}

	log.Println("[MAIN] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MAIN] Server forced to shutdown: %v", err)
	}

	log.Println("[MAIN] Stopped")
}
