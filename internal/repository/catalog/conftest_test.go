package catalog

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/starlet/starlet/internal/domain"
	domcat "github.com/starlet/starlet/internal/domain/catalog"
)

// fakeDB implements DB with function fields; unset functions fail loudly.
type fakeDB struct {
	execFn     func(sql string, args []any) (pgconn.CommandTag, error)
	queryFn    func(sql string, args []any) (pgx.Rows, error)
	queryRowFn func(sql string, args []any) pgx.Row

	tx *fakeTx
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execFn == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected Exec: %s", sql)
	}
	return f.execFn(sql, args)
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.queryFn == nil {
		return nil, fmt.Errorf("unexpected Query: %s", sql)
	}
	return f.queryFn(sql, args)
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if f.queryRowFn == nil {
		return &fakeRow{err: fmt.Errorf("unexpected QueryRow: %s", sql)}
	}
	return f.queryRowFn(sql, args)
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{db: f}
	return f.tx, nil
}

// fakeTx routes statements to its fakeDB and records the outcome.
type fakeTx struct {
	pgx.Tx
	db         *fakeDB
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.vals, dest)
}

// fakeRows serves a fixed result set.
type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return scanInto(r.rows[r.pos-1], dest) }

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.pos-1], nil }

func scanInto(vals, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(vals), len(dest))
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i]).Elem()
		if vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		sv := reflect.ValueOf(vals[i])
		switch {
		case sv.Type().AssignableTo(dv.Type()):
			dv.Set(sv)
		case dv.Kind() == reflect.Pointer && sv.Type().AssignableTo(dv.Type().Elem()):
			p := reflect.New(dv.Type().Elem())
			p.Elem().Set(sv)
			dv.Set(p)
		default:
			return fmt.Errorf("scan: cannot assign %T to %T", vals[i], dest[i])
		}
	}
	return nil
}

// movieRow builds a row in movieColumns order.
func movieRow(id int64, ruTitle string) []any {
	return []any{
		id, nil, ruTitle, fmt.Sprintf("%d-slug", id), "", "",
		"0+", "", 7.5, nil, nil, 0,
		"", fixedTime,
	}
}

// personRow builds a row in personColumns order.
func personRow(id int64, name string) []any {
	return []any{
		id, name, []string{}, fmt.Sprintf("%d-slug", id), "", "",
		"", "", nil, "", fixedTime,
	}
}

type recordingSink struct {
	saved   []domcat.Record
	deleted []int64
}

func (s *recordingSink) OnSaved(_ context.Context, rec domcat.Record) {
	s.saved = append(s.saved, rec)
}

func (s *recordingSink) OnDeleted(_ context.Context, _ domain.Kind, id int64) {
	s.deleted = append(s.deleted, id)
}

func newTestRepo() (*Repo, *fakeDB, *recordingSink) {
	fdb := &fakeDB{}
	sink := &recordingSink{}
	return New(fdb).WithSink(sink), fdb, sink
}

func has(sql, fragment string) bool { return strings.Contains(sql, fragment) }
