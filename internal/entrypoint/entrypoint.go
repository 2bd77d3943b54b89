// Package entrypoint assembles the application: database, auth, task queue,
// scheduler and router, plus the serving loop with graceful shutdown.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/config"
	"github.com/neuroplay/neuroplay/internal/database"
	"github.com/neuroplay/neuroplay/internal/database/catalog"
	"github.com/neuroplay/neuroplay/internal/database/profiles"
	"github.com/neuroplay/neuroplay/internal/database/sessions"
	"github.com/neuroplay/neuroplay/internal/database/users"
	http_controllers "github.com/neuroplay/neuroplay/internal/http"
	"github.com/neuroplay/neuroplay/internal/progress"
	"github.com/neuroplay/neuroplay/internal/reports"
	"github.com/neuroplay/neuroplay/internal/scheduler"
	"github.com/neuroplay/neuroplay/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains with the
// configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the listener so in-flight tasks finish
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires all components and serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting NeuroPlay backend v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path, database.BootstrapAdmin{
		Username: cfg.Auth.AdminUsername,
		Password: cfg.Auth.AdminPassword,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Domain repositories
	usersRepo := users.NewRepository(db.DB)
	profilesRepo := profiles.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	sessionsRepo := sessions.NewRepository(db.DB)
	progressRepo := progress.NewRepository(sessionsRepo)
	reportGenerator := reports.NewGenerator(db.DB, progressRepo)

	// Authentication
	authService := auth.NewService(db.DB)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	// Task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewGenerateReportQueue(reportGenerator),
			tasks.NewCleanupReportsQueue(reportGenerator),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Scheduled report retention cleanup
	cleanupScheduler := scheduler.NewReportCleanupScheduler(
		taskClient,
		reportGenerator,
		cfg.Reports.CleanupSchedule,
		cfg.Reports.RetentionDays,
	)
	if err := cleanupScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start report cleanup scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Version:        version,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Users:          usersRepo,
		Profiles:       profilesRepo,
		Catalog:        catalogRepo,
		Progress:       progressRepo,
		Reports:        reportGenerator,
		TaskClient:     taskClient,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
