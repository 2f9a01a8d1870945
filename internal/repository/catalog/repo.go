// Package catalog is the relational record store: movies, people, genres and
// collections in PostgreSQL. Every committed save of a record is reported to a
// RecordSink so derived views such as the search index can follow.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/starlet/starlet/internal/domain"
	domcat "github.com/starlet/starlet/internal/domain/catalog"
)

// DefaultPageSize is the keyset page size used by the Stream* iterators.
const DefaultPageSize = 500

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is the consumer interface over the connection pool (ISP).
type DB interface {
	queryer
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RecordSink receives committed changes. Implementations must not fail the save:
// they return nothing and handle their own errors.
type RecordSink interface {
	OnSaved(ctx context.Context, rec domcat.Record)
	OnDeleted(ctx context.Context, kind domain.Kind, id int64)
}

type noopSink struct{}

func (noopSink) OnSaved(context.Context, domcat.Record)       {}
func (noopSink) OnDeleted(context.Context, domain.Kind, int64) {}

// Repo implements the record store over PostgreSQL.
type Repo struct {
	db       DB
	sink     RecordSink
	pageSize int
}

// New creates a record store.
func New(db DB) *Repo {
	return &Repo{db: db, sink: noopSink{}, pageSize: DefaultPageSize}
}

// WithSink registers the change receiver called after each committed save or delete.
func (r *Repo) WithSink(s RecordSink) *Repo {
	if s != nil {
		r.sink = s
	}
	return r
}

// WithPageSize sets the keyset page size of the Stream* iterators.
func (r *Repo) WithPageSize(n int) *Repo {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction; the sink is notified by callers only after it returns nil.
func (r *Repo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, r.db, fn)
}

// mapErr translates driver errors into domain sentinels, keeping the cause for diagnostics.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w: %s", op, domain.ErrAlreadyExists, pgErr.ConstraintName)
		case "23502", "23514", "22001": // not_null, check, string too long
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidRecord, pgErr.Message)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// likePattern builds a case-insensitive substring pattern with LIKE metacharacters escaped.
func likePattern(text string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(text)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// limitClause returns "" for limit <= 0 (unbounded).
func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
