// Command satd-vectors imports a word vector file into a Postgres pgvector table
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"satd/internal/adapters/vectors/pgvec"
	"satd/internal/adapters/vectors/vecfile"
	"satd/internal/platform/config"
	"satd/internal/platform/logger"
	"satd/internal/platform/store/pg"
)

func main() {
	var (
		file    = flag.String("file", "", "vector file (.vec or .vec.gz)")
		table   = flag.String("table", pgvec.DefaultTable, "destination table")
		dim     = flag.Int("dim", 0, "expected dimension; 0 accepts the file header")
		skip    = flag.String("skip", "", "token to leave out so it embeds as a zero vector")
		envFile = flag.String("env", ".env", "dotenv file loaded before reading config")
	)
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Get().Fatal().Err(err).Str("file", *envFile).Msg("load env file")
	}
	l := logger.Named("satd-vectors")
	if *file == "" {
		l.Fatal().Msg("-file is required")
	}

	pgCfg := config.New().Prefix("SERVICE_PGSQL_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	tb, err := vecfile.Open(*file, vecfile.Options{Dim: *dim, Skip: *skip})
	if err != nil {
		l.Fatal().Err(err).Msg("read vectors")
	}

	var tracer pg.QueryTracer
	if pgCfg.MayBool("LOG_SQL", false) {
		tracer = pg.Tracer(*logger.Get())
	}
	db, err := pg.Open(ctx, pg.Config{
		URL:      pgCfg.MustString("DBURL"),
		MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4)),
		SlowMs:   pgCfg.MayInt("SLOW_MS", 500),
		AppName:  "satd-vectors",
	}, tracer, pgvec.RegisterTypes)
	if err != nil {
		l.Fatal().Err(err).Msg("open postgres")
	}
	code := load(ctx, db, tb.Dim(), *table, pgvec.Rows(tb), l)
	db.Close()
	l.Info().Dur("took", time.Since(start)).Msg("finished")
	os.Exit(code)
}

func load(ctx context.Context, db *pg.PG, dim int, table string, rows []pgvec.Row, l *logger.Logger) int {
	if err := db.Ready(ctx, 10); err != nil {
		l.Error().Err(err).Msg("postgres not ready")
		return 1
	}
	if err := pgvec.EnsureTable(ctx, db, table, dim); err != nil {
		l.Error().Err(err).Str("table", table).Msg("ensure table")
		return 1
	}
	n, err := pgvec.Store(ctx, db, table, rows)
	if err != nil {
		l.Error().Err(err).Str("table", table).Msg("store vectors")
		return 1
	}
	l.Info().Str("table", table).Int64("rows", n).Int("dim", dim).Msg("vectors imported")
	return 0
}
