package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pushverify/internal/core/version"
	"pushverify/internal/modkit"
	"pushverify/internal/modkit/module"
	"pushverify/internal/platform/config"
	perr "pushverify/internal/platform/errors"
	"pushverify/internal/platform/logger"
	phttp "pushverify/internal/platform/net/http"
	"pushverify/internal/platform/net/middleware"
	"pushverify/internal/platform/store"

	gitqueue "pushverify/internal/services/gitqueue/module"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()
	l.Info().Interface("build", version.Info("pushverify")).Msg("starting")

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")          // http surface lives under CORE_API_*
	pgCfg := root.Prefix("SERVICE_PGSQL_")      // deployment request table
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // optional outcome history

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(ctx, store.Config{
		AppName: "pushverify",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "pushverify",
			ClientTag:  "gitqueue",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.FromStore(st, root)
	mod := gitqueue.New(deps, gitqueue.FromConfig(root), gitqueue.Overrides{})
	ports := module.MustPortsOf[gitqueue.Ports](mod)

	srv := phttp.NewServer(apiCfg)
	r := srv.Router()
	r.Use(middleware.Stack(middleware.StackOptions{
		CORS: middleware.CORSOptions{AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil)},
		Slow: apiCfg.MayDuration("SLOW", 2*time.Second),
	})...)
	r.Get("/healthz", phttp.JSONHandlerNoBody(func(req *http.Request) (any, error) {
		if err := st.Guard(req.Context()); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "store unhealthy")
		}
		return version.Info("pushverify"), nil
	}))
	r.Route("/v1", func(v1 phttp.Router) { mod.MountRoutes(v1) })

	// the worker outlives the http server so queued jobs can drain
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	ports.Worker.Start(workerCtx)

	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	drain, cancel := context.WithTimeout(context.Background(), root.MayDuration("GIT_DRAIN_TIMEOUT", 30*time.Second))
	defer cancel()
	if err := ports.Worker.Idle(drain); err != nil {
		l.Warn().Int("pending", ports.Enqueuer.Pending()).Msg("shutdown with jobs still queued")
	}
}
