// Package app wires the record store, the search index and the use cases
// into one runtime shared by the API server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/config"
	"github.com/starlet/starlet/internal/db"
	dbRedis "github.com/starlet/starlet/internal/db/redis"
	dbValkey "github.com/starlet/starlet/internal/db/valkey"
	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/metrics"
	catalogrepo "github.com/starlet/starlet/internal/repository/catalog"
	"github.com/starlet/starlet/internal/repository/searchindex"
	chiTransport "github.com/starlet/starlet/internal/transport/chi"
	browseuc "github.com/starlet/starlet/internal/usecase/browse"
	healthuc "github.com/starlet/starlet/internal/usecase/health"
	"github.com/starlet/starlet/internal/usecase/indexsync"
	ingestuc "github.com/starlet/starlet/internal/usecase/ingest"
	reindexuc "github.com/starlet/starlet/internal/usecase/reindex"
	searchuc "github.com/starlet/starlet/internal/usecase/search"
)

// App holds the wired components.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	pool  *pgxpool.Pool
	store db.Store

	Records *catalogrepo.Repo
	Index   *searchindex.Repo
	Search  *searchuc.Service
	Browse  *browseuc.Service
	Reindex *reindexuc.Service
	Ingest  *ingestuc.Loader
	Health  *healthuc.Service
}

// New connects to PostgreSQL and the search backend and builds the use cases.
// A search backend that does not answer within the readiness timeout is
// logged and tolerated: queries fall back to the record store until it returns.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.RegisterHTTPMetrics()
	metrics.RegisterCatalogMetrics()

	if cfg.Database.MigrateOnStart {
		version, err := catalogrepo.Migrate(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Database schema up to date", zap.Uint("version", version))
	}

	pool, err := newPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	store, err := NewIndexStore(cfg.Search)
	if err != nil {
		pool.Close()
		return nil, err
	}

	readiness := time.Duration(cfg.Search.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Warn("Search index not ready, serving queries from the record store", zap.Error(err))
	} else {
		logger.Info("Connected to search index",
			zap.String("driver", cfg.Search.Driver),
			zap.Bool("text_search", store.SupportsTextSearch(ctx)),
		)
	}

	a := &App{cfg: cfg, logger: logger, pool: pool, store: store}
	a.wire()
	return a, nil
}

func (a *App) wire() {
	a.Index = searchindex.New(a.store, a.cfg.Search.KeyPrefix).
		WithChunkSize(a.cfg.Reindex.ChunkSize).
		WithMaxHits(a.cfg.Search.MaxHits)

	syncer := indexsync.New(a.Index, a.logger.Named("indexsync"))
	a.Records = catalogrepo.New(a.pool).
		WithSink(syncer).
		WithPageSize(a.cfg.Database.PageSize)

	a.Search = searchuc.New(a.Index, a.Records, a.logger.Named("search")).
		WithMaxResults(a.cfg.Search.MaxHits)
	a.Browse = browseuc.New(a.Records)
	a.Reindex = reindexuc.New(a.Index, a.Records, a.logger.Named("reindex"))
	a.Ingest = ingestuc.NewLoader(a.Records, a.logger.Named("ingest"))
	a.Health = healthuc.New(a.Records, a.store)
}

// EnsureIndexes creates the missing per-kind indexes. Failures are logged per kind
// and joined; the caller decides whether they are fatal.
func (a *App) EnsureIndexes(ctx context.Context) error {
	var errs []error
	for _, kind := range domain.IndexedKinds() {
		if err := a.Index.EnsureIndex(ctx, kind); err != nil {
			a.logger.Warn("Failed to ensure search index", zap.String("kind", kind.String()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Handler builds the HTTP API router.
func (a *App) Handler() http.Handler {
	server := chiTransport.NewServer(a.Search, a.Browse, a.Reindex, a.Ingest, a.Health, a.logger).
		WithMaxIngestBytes(int64(a.cfg.HTTP.MaxIngestMB) << 20)
	return chiTransport.NewRouter(server, a.cfg.Auth.APIKeys, metrics.Middleware("/metrics"))
}

// Close releases the connections.
func (a *App) Close() {
	a.store.Close()
	a.pool.Close()
}

func newPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	return pool, nil
}

// NewIndexStore creates the search backend client for the configured driver.
func NewIndexStore(cfg config.SearchConfig) (db.Store, error) {
	rc := StoreConfig(cfg)
	switch cfg.Driver {
	case config.DriverValkey:
		s, err := dbValkey.NewStore(rc)
		if err != nil {
			return nil, fmt.Errorf("create valkey store: %w", err)
		}
		return s, nil
	case config.DriverRedis, "":
		s, err := dbRedis.NewStore(rc)
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown search driver %q", cfg.Driver)
	}
}

// StoreConfig maps search settings to client options. Deployed backends use
// TLS with ACL credentials; local ones a plain connection.
func StoreConfig(cfg config.SearchConfig) dbRedis.Config {
	rc := dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
		Timeout:  cfg.Timeout(),
	}
	if cfg.Deployed {
		rc.TLS = true
		rc.Username = cfg.Username
	}
	return rc
}
