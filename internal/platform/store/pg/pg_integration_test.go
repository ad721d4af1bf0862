//go:build integration_pg

package pg

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"satd/internal/platform/testkit"
)

func TestOpen_TracesQueries_Integration(t *testing.T) {
	dsn := testkit.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	var buf bytes.Buffer
	appName := "satd-pg-integration"
	p, err := Open(ctx, Config{URL: dsn, AppName: appName}, Tracer(zerolog.New(&buf)), func(pc *pgxpool.Config) {
		pc.MinConns = 1
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(p.Close)

	if err := p.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var got string
	if err := p.Pool.QueryRow(ctx, `select current_setting('application_name')`).Scan(&got); err != nil {
		t.Fatalf("query: %v", err)
	}
	if got != appName {
		t.Fatalf("application_name = %q, want %q", got, appName)
	}
	testkit.MustContain(t, buf.String(), "current_setting")
	testkit.MustContain(t, buf.String(), `"component":"pg"`)
}
