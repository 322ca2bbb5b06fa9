// @title Exam Byte API
// @version 1.0
// @description Timed exam sessions over stored past papers.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "exam-byte/cmd/api/docs"
	"exam-byte/internal/adapter"
	"exam-byte/internal/cache"
	"exam-byte/internal/config"
	"exam-byte/internal/database"
	"exam-byte/internal/domain"
	"exam-byte/internal/handler"
	"exam-byte/internal/logger"
	"exam-byte/internal/middleware"
	"exam-byte/internal/paper"
	"exam-byte/internal/repository"
	"exam-byte/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// Paper providers are consulted in order; the demo paper backs them all.
	var providers []paper.NamedProvider
	var results service.ResultCacheService
	var attempts domain.AttemptRepository

	if cfg.DB.Enabled {
		db, err := database.NewSQLXOracleDB(startupCtx, cfg)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		txManager := repository.NewTransactionManager(db)
		attempts = repository.NewSQLXExamAttemptRepository(db, txManager)
		providers = append(providers, paper.NamedProvider{
			Name:     "oracle",
			Provider: repository.NewPaperDatabaseAdapter(db),
		})
		appLogger.Info("Attempt history and paper storage enabled", zap.String("driver", cfg.DB.Driver))
	}

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis")

		cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
		providers = append(providers, paper.NamedProvider{
			Name:     "redis",
			Provider: paper.NewRedisStore(cacheAdapter, cfg.Redis.PapersKey),
		})
		results = service.NewResultCacheService(cacheAdapter, cfg.Exam.ResultTTL)
		appLogger.Info("RedisCacheAdapter initialized", zap.String("papers_key", cfg.Redis.PapersKey))
	}

	loader := paper.NewLoader(providers...)

	// Initialize services
	examService := service.NewExamService(loader, attempts, results, cfg.Exam)
	examService.StartJanitor()
	tokenService := service.NewTokenService(cfg.JWT)
	appLogger.Info("ExamService initialized", zap.Int("paper_providers", len(providers)))

	// Initialize handlers
	examHandler := handler.NewExamHandler(examService, tokenService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// API group
	apiGroup := app.Group("/api")
	examHandler.RegisterRoutes(apiGroup, middleware.NewValidationMiddleware())

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	examService.Shutdown()
	appLogger.Info("Server exited gracefully")
}
