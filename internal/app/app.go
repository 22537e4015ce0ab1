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

	httpapi "github.com/carbonpath/csrd/internal/http"
	"github.com/carbonpath/csrd/internal/mailer"
	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/internal/store/drivers/sqlite"
	"github.com/carbonpath/csrd/pkg/cryptox"
	"github.com/carbonpath/csrd/pkg/jwtx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the CSRD service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager
	mail       mailer.Mailer

	sessionService      *service.SessionService
	onboardingService   *service.OnboardingService
	organizationService *service.OrganizationService
	inviteService       *service.InviteService
	assessmentService   *service.AssessmentService
	reportService       *service.ReportService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "csrd-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager

	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("csrd service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down csrd service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("csrd service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
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

// initMailer picks the delivery mechanism based on configuration.
func (app *Application) initMailer() {
	if app.cfg.MailerAPIKey == "" {
		app.mail = mailer.NewLogMailer()
		app.logger.Warn("no mailer API key configured, email will be logged only")
		return
	}
	app.mail = mailer.NewHTTPMailer(app.cfg.MailerAPIKey, app.cfg.MailerFrom)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:      app.db,
		KeyManager: app.keyManager,
		Issuer:     app.cfg.Issuer,
		TokenTTL:   jwtx.DefaultAccessTokenTTL,
	}

	app.onboardingService = &service.OnboardingService{Store: app.db}
	app.organizationService = &service.OrganizationService{Store: app.db}

	app.inviteService = &service.InviteService{
		Store:  app.db,
		Mailer: app.mail,
		Config: service.InviteConfig{
			SiteBaseURL:     app.cfg.SiteBaseURL,
			FallbackAllowed: app.cfg.InviteFallbackAllowed(),
		},
	}

	app.assessmentService = &service.AssessmentService{Store: app.db}
	app.reportService = &service.ReportService{
		Store:   app.db,
		Suggest: &service.SuggestService{},
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.OnboardingService = app.onboardingService
	router.OrganizationService = app.organizationService
	router.InviteService = app.inviteService
	router.AssessmentService = app.assessmentService
	router.ReportService = app.reportService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
