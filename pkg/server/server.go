// Package server exposes a graph over HTTP.
//
// The graph itself is single-threaded; [Shared] supplies the locking that
// makes it safe to serve concurrent requests. Routes:
//
//	GET  /healthz                 liveness probe
//	GET  /nodes                   all node IDs, ascending
//	GET  /nodes/{id}              degree, neighbors and distance-2 set
//	GET  /nodes/{id}/degree       degree only
//	GET  /nodes/{id}/distance2    distance-2 set only
//	POST /edges                   insert {"source":n,"target":m} or a list of them
//	GET  /report                  analysis report of the current graph
//	POST /reports                 analyze the current graph and save the report
//	GET  /reports/latest          newest saved report for ?source= (default: served input)
//	GET  /reports/{id}            saved report by ID
//	GET  /metrics                 Prometheus metrics
//
// Unknown nodes are not errors: they have degree 0 and an empty distance-2
// set. Malformed IDs yield 400 with a JSON error body carrying the error code.
The /reports routes answer 501 when no [store.Store] is configured.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/errors"
	"github.com/matzehuels/friendgraph/pkg/graph"
	"github.com/matzehuels/friendgraph/pkg/store"
)

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configures a Server.
type Options struct {
	Addr    string
	LRUSize int
	Top     int // passed to analysis.Options for /report

	// Store backs the /reports routes. Nil disables them.
	Store store.Store
	// Source is the content hash of the served edge list. Saved reports
	// carry it and /reports/latest uses it when ?source= is absent.
	Source string

	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
}

// Server serves a Shared graph.
type Server struct {
	shared   *Shared
	addr     string
	top      int
	store    store.Store
	source   string
	gatherer prometheus.Gatherer
	logger   *log.Logger
	router   chi.Router
}

// New creates a server around g. The server takes ownership of g.
func New(g *graph.Graph, opts Options) (*Server, error) {
	shared, err := NewShared(g, opts.LRUSize)
	if err != nil {
		return nil, err
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	s := &Server{
		shared:   shared,
		addr:     opts.Addr,
		top:      opts.Top,
		store:    opts.Store,
		source:   opts.Source,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// Shared returns the graph the server serves.
func (s *Server) Shared() *Shared { return s.shared }

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/report", s.handleReport)
	r.Post("/edges", s.handleAddEdges)

	r.Route("/reports", func(r chi.Router) {
		r.Post("/", s.handleSaveReport)
		r.Get("/latest", s.handleLatestReport)
		r.Get("/{id}", s.handleGetReport)
	})

	r.Route("/nodes", func(r chi.Router) {
		r.Get("/", s.handleNodes)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleNode)
			r.Get("/degree", s.handleDegree)
			r.Get("/distance2", s.handleDistance2)
		})
	})
	return r
}

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving graph", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Debug("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// =============================================================================
// Handlers
// =============================================================================

// NodeInfo describes a node.
type NodeInfo struct {
	ID        graph.NodeID   `json:"id"`
	Degree    int            `json:"degree"`
	Neighbors []graph.NodeID `json:"neighbors"`
	Distance2 []graph.NodeID `json:"distance2"`
}

// EdgeRequest is one edge in a POST /edges body.
type EdgeRequest struct {
	Source *graph.NodeID `json:"source"`
	Target *graph.NodeID `json:"target"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	nodes, edges := s.shared.Counts()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "nodes": nodes, "edges": edges})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"nodes": s.shared.Nodes(r.Context())})
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.shared.Node(r.Context(), id))
}

func (s *Server) handleDegree(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "degree": s.shared.Degree(r.Context(), id)})
}

func (s *Server) handleDistance2(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "distance2": s.shared.Distance2(r.Context(), id)})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	top, err := s.topParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shared.Report(r.Context(), analysis.Options{Top: top}))
}

func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	top, err := s.topParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report := s.shared.Report(r.Context(), analysis.Options{Top: top})
	report.Source = s.source
	if err := s.store.Save(r.Context(), report); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("saved report", "id", report.ID)
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	report, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = s.source
	}
	if source == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "source is required"))
		return
	}
	report, err := s.store.Latest(r.Context(), source)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "no report store configured"))
		return false
	}
	return true
}

func (s *Server) topParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("top")
	if v == "" {
		return s.top, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "top must be an integer: %q", v)
	}
	return n, nil
}

func (s *Server) handleAddEdges(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	edges, err := decodeEdges(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.shared.AddEdges(r.Context(), edges)
	nodes, total := s.shared.Counts()
	writeJSON(w, http.StatusCreated, map[string]any{"added": len(edges), "nodes": nodes, "edges": total})
}

// decodeEdges accepts a single edge object or an array of them.
func decodeEdges(r io.Reader) ([]graph.Edge, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}

	var reqs []EdgeRequest
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &reqs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNode, err, "decode edges")
		}
	} else {
		var one EdgeRequest
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNode, err, "decode edge")
		}
		reqs = []EdgeRequest{one}
	}

	edges := make([]graph.Edge, 0, len(reqs))
	for i, e := range reqs {
		if e.Source == nil || e.Target == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %d: source and target are required", i)
		}
		edges = append(edges, graph.Edge{From: *e.Source, To: *e.Target})
	}
	return edges, nil
}

func (s *Server) nodeID(w http.ResponseWriter, r *http.Request) (graph.NodeID, bool) {
	id, err := errors.ParseNodeID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return 0, false
	}
	return graph.NodeID(id), true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
