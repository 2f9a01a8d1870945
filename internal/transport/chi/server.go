package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
	browseuc "github.com/starlet/starlet/internal/usecase/browse"
	healthuc "github.com/starlet/starlet/internal/usecase/health"
	ingestuc "github.com/starlet/starlet/internal/usecase/ingest"
	reindexuc "github.com/starlet/starlet/internal/usecase/reindex"
	searchuc "github.com/starlet/starlet/internal/usecase/search"
)

// DefaultMaxIngestBytes caps the body of an ingest request.
const DefaultMaxIngestBytes = 16 << 20

// kindAll selects every indexed kind in a reindex request.
const kindAll = "all"

// Searcher runs catalog searches.
type Searcher interface {
	Search(ctx context.Context, kind domain.Kind, text string, limit int) (searchuc.Result, error)
}

// Browser reads catalog views.
type Browser interface {
	Movie(ctx context.Context, slug string) (*catalog.Movie, error)
	Actor(ctx context.Context, slug string) (*catalog.Person, error)
	Genre(ctx context.Context, slug string, page int) (browseuc.GenrePage, error)
	Collections(ctx context.Context) ([]catalog.Collection, error)
	Collection(ctx context.Context, id int64) (*catalog.Collection, error)
}

// Reindexer rebuilds search indexes.
type Reindexer interface {
	Reindex(ctx context.Context, kind domain.Kind) (reindexuc.Summary, error)
	ReindexAll(ctx context.Context) ([]reindexuc.Summary, error)
}

// Ingester loads scraped movies.
type Ingester interface {
	Load(ctx context.Context, movies []ingestuc.ScrapedMovie) ([]ingestuc.Detail, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Kind   domain.Kind      `json:"kind"`
	Query  string           `json:"query"`
	Ranked bool             `json:"ranked"`
	Total  int              `json:"total"`
	Movies []catalog.Movie  `json:"movies,omitempty"`
	People []catalog.Person `json:"people,omitempty"`
}

// ReindexResponse is the body of POST /api/admin/reindex.
type ReindexResponse struct {
	Runs []reindexuc.Summary `json:"runs"`
}

// IngestResponse is the body of POST /api/admin/ingest.
type IngestResponse struct {
	Created int               `json:"created"`
	Existed int               `json:"existed"`
	Failed  int               `json:"failed"`
	Details []ingestuc.Detail `json:"details"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                  `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// Server serves the catalog HTTP API.
type Server struct {
	search         Searcher
	browse         Browser
	reindex        Reindexer
	ingest         Ingester
	health         HealthChecker
	logger         *zap.Logger
	maxIngestBytes int64
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	browse Browser,
	reindex Reindexer,
	ingest Ingester,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:         search,
		browse:         browse,
		reindex:        reindex,
		ingest:         ingest,
		health:         health,
		logger:         logger,
		maxIngestBytes: DefaultMaxIngestBytes,
	}
}

// WithMaxIngestBytes overrides the ingest body limit.
func (s *Server) WithMaxIngestBytes(n int64) *Server {
	if n > 0 {
		s.maxIngestBytes = n
	}
	return s
}

// Register mounts the API on r. Admin routes require one of adminKeys
// as a Bearer token; an empty list leaves them open.
func (s *Server) Register(r chirouter.Router, adminKeys []string) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chirouter.Router) {
		r.Get("/search", s.Search)
		r.Get("/movies/{slug}", s.GetMovie)
		r.Get("/actors/{slug}", s.GetActor)
		r.Get("/genres/{slug}", s.GetGenre)
		r.Get("/collections", s.ListCollections)
		r.Get("/collections/{id}", s.GetCollection)

		r.Route("/admin", func(r chirouter.Router) {
			r.Use(BearerAuthMiddleware(adminKeys))
			r.Post("/reindex", s.Reindex)
			r.Post("/ingest", s.Ingest)
		})
	})
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		text  *string
		kind  *string
		limit *int
	)
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &text); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter q")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "kind", query, &kind); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter kind")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter limit")
		return
	}
	if limit != nil && *limit < 1 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be positive")
		return
	}

	k := domain.KindMovie
	if kind != nil {
		parsed, err := domain.ParseKind(*kind)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		k = parsed
	}

	resp := SearchResponse{Kind: k, Query: deref(text)}
	res, err := s.search.Search(r.Context(), k, resp.Query, deref(limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp.Ranked = res.Ranked
	resp.Total = res.Len()
	resp.Movies = res.Movies
	resp.People = res.People
	writeJSON(w, http.StatusOK, resp)
}

// GetMovie handles GET /api/movies/{slug}.
func (s *Server) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := s.browse.Movie(r.Context(), chirouter.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// GetActor handles GET /api/actors/{slug}.
func (s *Server) GetActor(w http.ResponseWriter, r *http.Request) {
	person, err := s.browse.Actor(r.Context(), chirouter.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// GetGenre handles GET /api/genres/{slug}. A page that is not a number shows the first page.
func (s *Server) GetGenre(w http.ResponseWriter, r *http.Request) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &raw); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter page")
		return
	}
	page := 1
	if raw != nil {
		if n, err := strconv.Atoi(*raw); err == nil {
			page = n
		}
	}

	res, err := s.browse.Genre(r.Context(), chirouter.URLParam(r, "slug"), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListCollections handles GET /api/collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.browse.Collections(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if cols == nil {
		cols = []catalog.Collection{}
	}
	writeJSON(w, http.StatusOK, cols)
}

// GetCollection handles GET /api/collections/{id}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chirouter.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter id")
		return
	}

	col, err := s.browse.Collection(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

// Reindex handles POST /api/admin/reindex.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	var kind *string
	if err := runtime.BindQueryParameter("form", true, false, "kind", r.URL.Query(), &kind); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter kind")
		return
	}

	var (
		runs []reindexuc.Summary
		err  error
	)
	if kind == nil || *kind == kindAll {
		runs, err = s.reindex.ReindexAll(r.Context())
	} else {
		k, perr := domain.ParseKind(*kind)
		if perr != nil {
			s.handleDomainError(w, r, perr)
			return
		}
		var sum reindexuc.Summary
		sum, err = s.reindex.Reindex(r.Context(), k)
		runs = []reindexuc.Summary{sum}
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReindexResponse{Runs: runs})
}

// Ingest handles POST /api/admin/ingest with a JSON array of scraped movies.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxIngestBytes)

	var movies []ingestuc.ScrapedMovie
	if err := json.NewDecoder(r.Body).Decode(&movies); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	details, err := s.ingest.Load(r.Context(), movies)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := IngestResponse{Details: details}
	for _, d := range details {
		switch d.Status {
		case ingestuc.StatusCreated:
			resp.Created++
		case ingestuc.StatusExists:
			resp.Existed++
		default:
			resp.Failed++
		}
	}
	if resp.Details == nil {
		resp.Details = []ingestuc.Detail{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
