// Package pg opens a pgxpool-backed Postgres client with optional query tracing
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	perr "satd/internal/platform/errors"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// SlowMs marks queries at or above this duration as slow; 0 disables the mark
	SlowMs int
	// AppName is reported to the server as application_name when set
	AppName string
}

// PG is a postgres client with pool and optional tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
	sleep    = time.Sleep
)

// Readiness guardrails for Ready
const (
	pingTimeout    = 3 * time.Second
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// Open parses cfg, installs the tracer on every connection, applies the optional pool
// config mutator and creates the pool. Connections are established lazily
func Open(ctx context.Context, cfg Config, tracer QueryTracer, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse postgres url")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		if pcfg.ConnConfig.RuntimeParams == nil {
			pcfg.ConnConfig.RuntimeParams = map[string]string{}
		}
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if tracer != nil {
		pcfg.ConnConfig.Tracer = &pgxBridge{qt: tracer, slowMs: cfg.SlowMs}
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open postgres pool")
	}
	return &PG{
		Pool:   pool,
		Tracer: tracer,
		SlowMs: cfg.SlowMs,
	}, nil
}

// Ping checks that one connection can be acquired and answers
func (p *PG) Ping(ctx context.Context) error {
	if err := pingPool(ctx, p.Pool); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "ping postgres")
	}
	return nil
}

// Ready pings with exponential backoff until the server answers, attempts run out
// or ctx ends. Containers and fresh databases often need a few seconds
func (p *PG) Ready(ctx context.Context, attempts int) error {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = pingPool(toCtx, p.Pool)
		cancel()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "postgres not ready")
		}
		if i == attempts-1 {
			break
		}
		sleep(backoff)
		backoff = min(backoff*2, backoffCeiling)
	}
	return perr.Wrapf(lastErr, perr.ErrorCodeUnavailable, "postgres not ready after %d attempts", attempts)
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
