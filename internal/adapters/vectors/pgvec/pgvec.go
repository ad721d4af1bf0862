// Package pgvec reads and writes word vectors kept in a Postgres table with the
// pgvector extension:
//
//	CREATE TABLE word_vectors (token text PRIMARY KEY, embedding vector(300))
package pgvec

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"satd/internal/core/embedding"
	perr "satd/internal/platform/errors"
	"satd/internal/platform/logger"
	"satd/internal/platform/store/pg"
)

// DefaultTable is used when Options.Table is empty
const DefaultTable = "word_vectors"

// Options tune loading
type Options struct {
	Table string
	// Dim, when positive, must equal the stored vector dimension
	Dim int
	// Skip drops the row for this token
	Skip string
}

func (o Options) table() string {
	if o.Table == "" {
		return DefaultTable
	}
	return o.Table
}

// RegisterTypes installs the pgvector codecs on every new connection. Pass it as the
// pool config mutator to pg.Open
func RegisterTypes(pc *pgxpool.Config) {
	prev := pc.AfterConnect
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if prev != nil {
			if err := prev(ctx, conn); err != nil {
				return err
			}
		}
		return pgxvec.RegisterTypes(ctx, conn)
	}
}

// Load reads the whole table into memory
func Load(ctx context.Context, db *pg.PG, opt Options) (*embedding.Table, error) {
	q := fmt.Sprintf("SELECT token, embedding FROM %s", pgx.Identifier{opt.table()}.Sanitize())
	rows, err := db.Pool.Query(ctx, q)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "query %s", opt.table())
	}
	defer rows.Close()

	var t *embedding.Table
	for rows.Next() {
		var (
			tok string
			vec pgvector.Vector
		)
		if err := rows.Scan(&tok, &vec); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "scan %s", opt.table())
		}
		s := vec.Slice()
		if t == nil {
			if opt.Dim > 0 && len(s) != opt.Dim {
				return nil, perr.ConfigMismatchf("stored vectors have dimension %d, expected %d", len(s), opt.Dim)
			}
			if t, err = embedding.NewTable(len(s)); err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "row %q", tok)
			}
		}
		if opt.Skip != "" && tok == opt.Skip {
			continue
		}
		if err := t.Set(tok, s); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "inconsistent vector dimension")
		}
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "read %s", opt.table())
	}
	if t == nil {
		return nil, perr.ArtifactLoadf("table %s holds no vectors", opt.table())
	}

	logger.Named("pgvec").Info().
		Str("table", opt.table()).
		Int("tokens", t.Len()).
		Int("dim", t.Dim()).
		Msg("vectors loaded")
	return t, nil
}

// EnsureTable creates the vector extension and table when missing
func EnsureTable(ctx context.Context, db *pg.PG, table string, dim int) error {
	if table == "" {
		table = DefaultTable
	}
	if dim <= 0 {
		return perr.InvalidArgf("dimension must be positive, got %d", dim)
	}
	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (token text PRIMARY KEY, embedding vector(%d) NOT NULL)",
			pgx.Identifier{table}.Sanitize(), dim),
	}
	for _, s := range stmts {
		if _, err := db.Pool.Exec(ctx, s); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "ensure vector table")
		}
	}
	return nil
}

// Row is one token and its vector
type Row struct {
	Token  string
	Vector embedding.Vector
}

// Store bulk-copies rows into table. The table must be empty of these tokens
func Store(ctx context.Context, db *pg.PG, table string, rows []Row) (int64, error) {
	if table == "" {
		table = DefaultTable
	}
	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		return []any{rows[i].Token, pgvector.NewVector(rows[i].Vector)}, nil
	})
	n, err := db.Pool.CopyFrom(ctx, pgx.Identifier{table}, []string{"token", "embedding"}, src)
	if err != nil {
		return n, perr.Wrapf(err, perr.ErrorCodeUnavailable, "copy into %s", table)
	}
	return n, nil
}

// Rows flattens a table for Store, in no particular order
func Rows(t *embedding.Table) []Row {
	out := make([]Row, 0, t.Len())
	t.Each(func(tok string, v embedding.Vector) {
		out = append(out, Row{Token: tok, Vector: v})
	})
	return out
}
