package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mhalligan/clinicbook/internal/admin"
	"github.com/mhalligan/clinicbook/internal/api/router"
	"github.com/mhalligan/clinicbook/internal/appointments"
	"github.com/mhalligan/clinicbook/internal/auth"
	appconfig "github.com/mhalligan/clinicbook/internal/config"
	"github.com/mhalligan/clinicbook/internal/contact"
	"github.com/mhalligan/clinicbook/internal/doctors"
	"github.com/mhalligan/clinicbook/internal/notify"
	"github.com/mhalligan/clinicbook/internal/observability/metrics"
	"github.com/mhalligan/clinicbook/internal/seed"
	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/internal/web"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

func main() {
	ctx := context.Background()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinicbook server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Repositories: Postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		userRepo    users.Repository
		docRepo     doctors.Repository
		apptRepo    appointments.Repository
		contactRepo contact.Repository
		statsRepo   *admin.StatsRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		userRepo = users.NewPostgresRepository(pool)
		docRepo = doctors.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		contactRepo = contact.NewPostgresRepository(pool)

		statsDB, err := admin.OpenStatsDB(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open stats connection", "error", err)
			os.Exit(1)
		}
		defer statsDB.Close()
		statsRepo = admin.NewStatsRepository(statsDB)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		memUsers := users.NewInMemoryRepository()
		userRepo = memUsers
		docRepo = doctors.NewInMemoryRepository(func(ctx context.Context, userID string) (string, string) {
			u, err := memUsers.GetByID(ctx, userID)
			if err != nil {
				return "", ""
			}
			return u.FullName, u.Username
		})
		apptRepo = appointments.NewInMemoryRepository()
		contactRepo = contact.NewInMemoryRepository()
	}

	// Sessions live in Redis.
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed", "error", err, "addr", cfg.RedisAddr)
		os.Exit(1)
	}
	sessions := auth.NewSessionStore(redisClient, cfg.SessionTTL)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	sender, err := notify.BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		os.Exit(1)
	}
	notifier := notify.NewBookingNotifier(sender, logger)

	authSvc := auth.NewService(userRepo, docRepo, sessions, bookingMetrics, logger)
	apptSvc := appointments.NewService(apptRepo, docRepo, userRepo, notifier, bookingMetrics, logger)

	if cfg.SeedSampleData {
		if err := seed.Run(ctx, userRepo, docRepo, logger); err != nil {
			logger.Error("seeding sample data failed", "error", err)
			os.Exit(1)
		}
	}

	pages := web.NewHandlers(
		web.NewRenderer(logger),
		authSvc,
		apptSvc,
		docRepo,
		userRepo,
		contactRepo,
		cfg.SessionCookieName,
		logger,
	)

	routerCfg := &router.Config{
		Logger:              logger,
		Pages:               pages,
		Sessions:            auth.NewMiddleware(sessions, userRepo, cfg.SessionCookieName, logger),
		AppointmentsHandler: appointments.NewHandler(apptSvc, logger),
		ContactHandler:      contact.NewHandler(contactRepo, logger),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		LoginRateLimit:      cfg.LoginRateLimit,
		LoginBurst:          cfg.LoginBurst,
	}
	if statsRepo != nil {
		routerCfg.AdminStatsHandler = admin.NewStatsHandler(statsRepo, logger)
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
