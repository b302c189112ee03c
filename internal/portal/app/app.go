package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/blob"
	"github.com/sohailc94/agmaportal/internal/portal/crm"
	httpapi "github.com/sohailc94/agmaportal/internal/portal/http"
	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/internal/portal/store"
	"github.com/sohailc94/agmaportal/internal/portal/store/drivers/sqlite"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the portal service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db    store.Store
	blobs blob.ObjectStore

	// Services
	inviteService       *service.InviteService
	profileService      *service.ProfileService
	franchiseService    *service.FranchiseService
	studentService      *service.StudentService
	classService        *service.ClassService
	avatarService       *service.AvatarService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initBlobStore(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start the invite expiry sweep
	app.housekeepingService.Start()

	app.logger.Info("portal starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping sweep
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initBlobStore connects to the S3-compatible store for avatars. With no
// endpoint configured the avatar endpoints stay up but answer with errors.
func (app *Application) initBlobStore() error {
	if app.cfg.MinioEndpoint == "" {
		app.logger.Warn("no object storage configured, avatar uploads disabled")
		app.blobs = blob.DisabledStore{}
		return nil
	}

	store, err := blob.NewMinioStore(blob.MinioConfig{
		Endpoint:  app.cfg.MinioEndpoint,
		AccessKey: app.cfg.MinioAccessKey,
		SecretKey: app.cfg.MinioSecretKey,
		Bucket:    app.cfg.MinioBucket,
		UseTLS:    app.cfg.MinioUseTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	app.blobs = store
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	var notifier crm.Notifier
	if app.cfg.GHLWebhookURL != "" {
		notifier = crm.NewGHLNotifier(app.cfg.GHLWebhookURL, app.cfg.AppBaseURL, app.cfg.NotifierTimeout)
	} else {
		app.logger.Warn("no CRM webhook configured, invite notifications disabled")
		notifier = crm.NopNotifier{}
	}

	app.inviteService = &service.InviteService{
		Store:    app.db,
		Notifier: notifier,
	}
	app.profileService = &service.ProfileService{Store: app.db}
	app.franchiseService = &service.FranchiseService{Store: app.db}
	app.studentService = &service.StudentService{Store: app.db}
	app.classService = &service.ClassService{
		Store:   app.db,
		Invites: app.inviteService,
	}
	app.avatarService = &service.AvatarService{
		Store: app.db,
		Blobs: app.blobs,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.inviteService,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InviteTTL,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		[]byte(app.cfg.IdentitySecret),
		app.cfg.WebhookSecret,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.InviteService = app.inviteService
	router.ProfileService = app.profileService
	router.FranchiseService = app.franchiseService
	router.StudentService = app.studentService
	router.ClassService = app.classService
	router.AvatarService = app.avatarService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
