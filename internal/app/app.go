package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/auth"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/config"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/importer"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/redis"
	redisremote "github.com/AlexandrosLiaskos/Web-Launcher/internal/remote/redis"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/scheduler"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/sources/seed"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sessions    *store.Manager
	gc          *scheduler.TombstoneGC
	seeder      *seed.Loader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Persistence and per-user sessions
	remoteStore := redisremote.NewStore(redisClient, loggerClient)
	sessions := store.NewManager(remoteStore, loggerClient)

	// Tombstone garbage collector
	gc := scheduler.NewTombstoneGC(
		remoteStore,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	// Seed loader (if a seed file is configured)
	var seeder *seed.Loader
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured",
			logger.String("file", cfg.SeedFile),
			logger.String("user_id", cfg.SeedUser))
		seeder = seed.NewLoader(cfg.SeedFile, cfg.SeedUser, remoteStore, loggerClient)
	}

	// Auth service
	authService := auth.New(auth.Config{
		ClientID:      cfg.GoogleClientID,
		ClientSecret:  cfg.GoogleClientSecret,
		RedirectURL:   cfg.OAuthRedirectURL,
		JWTSecret:     cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		AllowedEmails: cfg.AllowedEmails,
		SecureCookies: cfg.SecureCookies,
	})

	// Browser-history importer. Candidates arrive with the request, so
	// no server-side source is configured.
	imp := importer.New(nil, cfg.ImportTimeout, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		FrontendURL:  cfg.FrontendURL,
		RedisClient:  redisClient,
		Sessions:     sessions,
		Auth:         authService,
		Importer:     imp,
		SearchLimit:  50,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sessions:    sessions,
		gc:          gc,
		seeder:      seeder,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Web-Launcher v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Web-Launcher %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Apply seed entries before serving traffic
	if a.seeder != nil {
		if err := a.seeder.Apply(ctx); err != nil {
			a.logger.Warn("failed to apply seed file", logger.Error(err))
		}
	}

	// Start garbage collector
	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("threshold", a.cfg.GCThreshold))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop garbage collector
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Tear down every open session so the change subscriptions close
	a.sessions.CloseAll()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Web-Launcher stopped cleanly")
	return nil
}
