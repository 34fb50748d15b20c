package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/vindepemarte/Kiro-App-1-sub000/pkg/validator"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/facade"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/handler"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/cache"
	httpmw "github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/storage"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/meeting"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/notification"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/task"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/team"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/user"
	pkgai "github.com/vindepemarte/Kiro-App-1-sub000/pkg/ai"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/jwt"
)

// overdueScanInterval is how often assigned tasks are checked for missed
// deadlines. Dedup keys make a shorter interval harmless, a longer one
// just delays the reminder.
const overdueScanInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Resolve the storage backend
	log.Println("📦 Resolving storage backend...")
	store, err := facade.NewSelector(cfg, logger).Resolve(rootCtx)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()
	log.Printf("✅ Storage backend ready: %s", store.Backend())

	// Notification ledger: Redis when configured, in-process otherwise
	var ledger cache.Ledger
	if cfg.GetRedisAddr() != "" {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		ledger = cache.NewRedisLedger(redisClient, "notify")
	} else {
		log.Println("⚠️  Redis not configured, notification dedup is per-process only")
		ledger = cache.NewMemoryStore()
	}

	// Transcript archive (optional)
	var archiver meeting.Archiver
	if cfg.Storage.Enabled {
		log.Println("🪣 Initializing transcript archive...")
		archive, err := storage.NewTranscriptArchive(rootCtx, cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize transcript archive: %v", err)
		}
		archiver = archive
	}

	// LLM extraction client (optional)
	var extractor pkgai.Extractor
	if cfg.AI.APIKey != "" {
		log.Println("🤖 Initializing extraction client...")
		extractor = pkgai.NewGroqClient(cfg.AI)
	} else {
		log.Println("⚠️  AI_API_KEY not set, transcripts will be stored unanalyzed")
	}

	// Initialize services
	log.Println("⚙️  Initializing services...")
	notificationService := notification.NewService(store, ledger, cfg.Notify, logger)
	userService := user.NewService(store, logger)
	teamService := team.NewService(store, notificationService, logger)
	taskService := task.NewService(store, notificationService, logger)
	meetingService := meeting.NewService(store, extractor, archiver, notificationService, cfg.Storage.ArchiveThreshold, logger)

	// Initialize JWT manager and auth middleware
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authMW := httpmw.NewAuthMiddleware(jwtManager)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		store,
		handler.NewMeeting(meetingService, logger),
		handler.NewTeam(teamService, userService, logger),
		handler.NewTask(taskService, logger),
		handler.NewNotification(notificationService, logger),
		handler.NewProfile(userService, logger),
		authMW,
	)
	router.Setup(e)

	// Background overdue task scanner
	go runOverdueScanner(rootCtx, taskService, logger)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	<-rootCtx.Done()

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func runOverdueScanner(ctx context.Context, tasks task.Service, logger *zap.Logger) {
	ticker := time.NewTicker(overdueScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scanCtx, cancel := context.WithTimeout(ctx, time.Minute)
			if err := tasks.ScanOverdueTasks(scanCtx); err != nil {
				logger.Warn("overdue scan failed", zap.Error(err))
			}
			cancel()
		}
	}
}
