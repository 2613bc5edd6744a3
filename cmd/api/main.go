package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/internal/favorites"
	"github.com/geargillie/safetrade-mvp-sub000/internal/fraud"
	"github.com/geargillie/safetrade-mvp-sub000/internal/listings"
	"github.com/geargillie/safetrade-mvp-sub000/internal/meetings"
	"github.com/geargillie/safetrade-mvp-sub000/internal/messaging"
	"github.com/geargillie/safetrade-mvp-sub000/internal/verification"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/config"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/database"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/events"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/middleware"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/ratelimit"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/redis"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/websocket"
)

const (
	serviceName = "api"
	version     = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting service",
		zap.String("service", serviceName),
		zap.String("environment", cfg.Server.Environment),
		zap.String("fraud_mode", cfg.Fraud.Mode),
	)

	// Connect to PostgreSQL
	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	// Apply pending migrations
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.RunMigrations(cfg.Database.URL(), migrationsDir); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Connect to NATS (optional; nil publisher is a no-op)
	publisher, err := events.NewPublisher(&cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	// Create WebSocket hub for real-time delivery
	hub := websocket.NewHub()
	go hub.Run()

	// Rate limiter for the message send path
	limiter := ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)

	// Wire services
	fraudEngine := fraud.NewEngine(cfg.Fraud)
	fraudService := fraud.NewService(fraudEngine, fraud.NewRepository(pool), publisher)

	listingsService := listings.NewService(listings.NewRepository(pool), redisClient, publisher)

	messagingService := messaging.NewService(
		messaging.NewRepository(pool),
		messaging.EngineChecker{Service: fraudService},
		limiter,
		hub,
		listingsService,
		publisher,
	)

	meetingsService := meetings.NewService(meetings.NewRepository(pool), messagingService, hub)
	verificationService := verification.NewService(verification.NewRepository(pool), hub, publisher)
	favoritesService := favorites.NewService(favorites.NewRepository(pool), listingsService)

	// Set up Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check and metrics (no auth required)
	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, version, map[string]func() error{
		"postgres": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(ctx)
		},
		"redis": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	fraud.NewHandler(fraudService).RegisterRoutes(api, cfg.JWT.Secret)
	listings.NewHandler(listingsService).RegisterRoutes(api, cfg.JWT.Secret)
	messaging.NewHandler(messagingService, hub).RegisterRoutes(api, cfg.JWT.Secret)
	meetings.NewHandler(meetingsService).RegisterRoutes(api, cfg.JWT.Secret)
	verification.NewHandler(verificationService).RegisterRoutes(api, cfg.JWT.Secret)
	favorites.NewHandler(favoritesService).RegisterRoutes(api, cfg.JWT.Secret)

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
