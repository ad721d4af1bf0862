package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"satd/internal/platform/logger"
)

// QueryEvent is one finished query
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives finished queries
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a QueryTracer that always prints SQL, independent of the
// process-wide root level. Wire it only when SERVICE_PGSQL_LOG_SQL is on
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

type traceKey struct{}

type traceStart struct {
	sql  string
	args []any
	at   time.Time
}

// pgxBridge adapts pgx's start/end hooks into one QueryEvent per query
type pgxBridge struct {
	qt     QueryTracer
	slowMs int
	now    func() time.Time
}

func (b *pgxBridge) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

// TraceQueryStart implements pgx.QueryTracer
func (b *pgxBridge) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, args: data.Args, at: b.clock()})
}

// TraceQueryEnd implements pgx.QueryTracer
func (b *pgxBridge) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	el := b.clock().Sub(st.at)
	b.qt.OnQuery(ctx, QueryEvent{
		SQL:       st.sql,
		Args:      st.args,
		ElapsedUS: el.Microseconds(),
		Err:       data.Err,
		Slow:      b.slowMs > 0 && el >= time.Duration(b.slowMs)*time.Millisecond,
	})
}

// compact folds whitespace runs in SQL to single spaces
func compact(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || r == ' ' {
			if !space {
				out = append(out, ' ')
				space = true
			}
			continue
		}
		space = false
		out = append(out, r)
	}
	return string(out)
}
