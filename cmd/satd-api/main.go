// Command satd-api serves SATD classification over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"satd/internal/adapters/artifacts"
	"satd/internal/platform/config"
	"satd/internal/platform/logger"
	phttp "satd/internal/platform/net/http"
	"satd/internal/platform/net/middleware"

	"satd/internal/services/api"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Get().Fatal().Err(err).Msg("load .env")
	}

	// service-scoped config for HTTP (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// manifest, vectors and model; fatal on any artifact or shape problem
	b, err := artifacts.Open(ctx, artifacts.FromConfig(root))
	if err != nil {
		l.Fatal().Err(err).Msg("load detector")
	}
	defer b.Close()

	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Defaults()...)
	})

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Detector:       b.Detector,
			PG:             b.PG,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
