package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/campusworks/registrar/internal/registrar/http"
	"github.com/campusworks/registrar/internal/registrar/provider"
	"github.com/campusworks/registrar/internal/registrar/service"
	"github.com/campusworks/registrar/internal/registrar/store"
	redisdriver "github.com/campusworks/registrar/internal/registrar/store/drivers/redis"
	"github.com/campusworks/registrar/internal/registrar/store/drivers/sqlite"
	"github.com/campusworks/registrar/pkg/jwtx"
	"github.com/campusworks/registrar/pkg/slogx"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the registrar auth service with all its
// dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          *sqlite.Store
	ledger      store.Ledger
	redisClient *goredis.Client

	credentialService   *service.CredentialService
	sessionService      *service.SessionService
	federationService   *service.FederationService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "registrar",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("REGISTRAR_JWT_SECRET must be set")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initLedger(); err != nil {
		return nil, err
	}
	if err := app.seedAccounts(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("registrar service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down registrar service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("registrar service stopped")
	return nil
}

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

func (app *Application) initLedger() error {
	switch app.cfg.LedgerBackend {
	case "", "sqlite":
		app.ledger = app.db.Ledger()
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: app.cfg.RedisAddr})
		ledger := redisdriver.NewLedger(client)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ledger.Ping(ctx); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", app.cfg.RedisAddr, err)
		}

		app.redisClient = client
		app.ledger = ledger
		app.logger.Info("using redis revocation ledger", "addr", app.cfg.RedisAddr)
	default:
		return fmt.Errorf("unknown ledger backend %q", app.cfg.LedgerBackend)
	}
	return nil
}

func (app *Application) initServices() error {
	codec, err := jwtx.NewCodec(app.cfg.JWTSecret, app.cfg.Issuer)
	if err != nil {
		return err
	}

	app.credentialService = &service.CredentialService{Accounts: app.db.Accounts()}

	app.sessionService = &service.SessionService{
		Codec:          codec,
		Ledger:         app.ledger,
		AccessTTL:      app.cfg.AccessTTL,
		RefreshTTL:     app.cfg.RefreshTTL,
		LongRefreshTTL: app.cfg.LongRefreshTTL,
	}

	app.federationService = &service.FederationService{
		Accounts: app.db.Accounts(),
		Sessions: app.sessionService,
		Google: &provider.Google{
			TokenInfoURL: app.cfg.GoogleTokenInfoURL,
			ClientID:     app.cfg.GoogleClientID,
		},
		GitHub: &provider.GitHub{
			ClientID:     app.cfg.GitHubClientID,
			ClientSecret: app.cfg.GitHubClientSecret,
			TokenURL:     app.cfg.GitHubTokenURL,
			APIURL:       app.cfg.GitHubAPIURL,
		},
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.ledger,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

func (app *Application) initHTTP() {
	cookies := httpapi.DefaultCookieConfig()
	cookies.Secure = app.cfg.CookieSecure

	router := httpapi.NewRouter(BuildVersion, app.db, cookies, app.logger)

	router.CredentialService = app.credentialService
	router.SessionService = app.sessionService
	router.FederationService = app.federationService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
