package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raditmaulana/bengkelhub-backend/api/routes"
	"github.com/raditmaulana/bengkelhub-backend/internal/assistant"
	"github.com/raditmaulana/bengkelhub-backend/internal/inventory"
	"github.com/raditmaulana/bengkelhub-backend/internal/lifecycle"
	"github.com/raditmaulana/bengkelhub-backend/internal/mechanics"
	"github.com/raditmaulana/bengkelhub-backend/internal/notifications"
	"github.com/raditmaulana/bengkelhub-backend/internal/pos"
	"github.com/raditmaulana/bengkelhub-backend/internal/records"
	"github.com/raditmaulana/bengkelhub-backend/internal/reports"
	"github.com/raditmaulana/bengkelhub-backend/internal/session"
	"github.com/raditmaulana/bengkelhub-backend/internal/tracking"
	"github.com/raditmaulana/bengkelhub-backend/pkg/config"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db"
	"github.com/raditmaulana/bengkelhub-backend/pkg/env"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
	"github.com/raditmaulana/bengkelhub-backend/pkg/metrics"
	"github.com/raditmaulana/bengkelhub-backend/pkg/migrate"
	"github.com/raditmaulana/bengkelhub-backend/pkg/redis"
	"github.com/raditmaulana/bengkelhub-backend/pkg/seed"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(env.Get("BENGKELHUB_ENV_FILE", ".env")); err != nil {
		logg.Warn(context.Background(), "env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}
	if err := seed.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to seed dev fixtures", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	mechRepo := mechanics.NewRepository(dbClient.DB())
	invRepo := inventory.NewRepository(dbClient.DB())
	recordRepo := records.NewRepository(dbClient.DB())
	assignRepo := lifecycle.NewAssignmentRepository(dbClient.DB())
	notifRepo := notifications.NewRepository(dbClient.DB())

	notifService, err := notifications.NewService(notifRepo, cfg.Notifications.TTL, logg)
	exitOnError(logg, "notifications service", err)

	mechService, err := mechanics.NewService(mechRepo, notifService, logg)
	exitOnError(logg, "mechanics service", err)

	invService, err := inventory.NewService(invRepo, notifService, logg)
	exitOnError(logg, "inventory service", err)

	lifecycleService, err := lifecycle.NewService(mechRepo, recordRepo, assignRepo, dbClient, notifService, logg)
	exitOnError(logg, "lifecycle service", err)

	recordService, err := records.NewService(recordRepo, dbClient, lifecycleService, notifService, logg)
	exitOnError(logg, "records service", err)

	sessionStore, err := pos.NewSessionStore(redisClient, cfg.POS.SessionTTL)
	exitOnError(logg, "register session store", err)

	posService, err := pos.NewService(sessionStore, recordRepo, invRepo, invService, dbClient, notifService, logg)
	exitOnError(logg, "pos service", err)

	trackingService, err := tracking.NewService(recordService, logg)
	exitOnError(logg, "tracking service", err)

	assistantService, err := assistant.NewService(cfg.Assistant, logg)
	exitOnError(logg, "assistant service", err)

	sessionService, err := session.NewService(redisClient, 0, logg)
	exitOnError(logg, "session service", err)

	reportService, err := reports.NewService(recordRepo, mechRepo, logg)
	exitOnError(logg, "reports service", err)

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			HTTPMetrics:  httpMetrics,
			MetricsPage:  promhttp.Handler(),
			Sessions:     sessionService,
			Tracking:     trackingService,
			Assistant:    assistantService,
			Records:      recordService,
			Lifecycle:    lifecycleService,
			Mechanics:    mechService,
			Inventory:    invService,
			POS:          posService,
			Reports:      reportService,
			Notification: notifService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
