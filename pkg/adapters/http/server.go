// Package http exposes the circuit engine, sandboxes and challenges as a REST API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/presentation/graph"
	"github.com/aretw0/circuitlab/internal/validator"
	"github.com/aretw0/circuitlab/pkg/adapters/memory"
	"github.com/aretw0/circuitlab/pkg/challenge"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/layout"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/aretw0/circuitlab/pkg/sandbox"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds layout request bodies.
const maxBodyBytes = 1 << 20

// defaultLeaderboardLimit applies when ?limit= is absent.
const defaultLeaderboardLimit = 10

// Server serves the REST API.
type Server struct {
	Sandboxes   *sandbox.Manager
	Catalog     ports.ChallengeCatalog
	Leaderboard ports.Leaderboard
	Streams     *StreamManager

	graphOpts []circuitlab.Option
	gatherer  prometheus.Gatherer
	origins   []string
	spec      *openapi3.T
}

// Option configures a Server.
type Option func(*Server)

// WithSandboxes sets the sandbox manager. The default keeps sandboxes in memory.
func WithSandboxes(m *sandbox.Manager) Option {
	return func(s *Server) {
		s.Sandboxes = m
	}
}

// WithCatalog sets the challenge catalog. The default serves the built-in challenges.
func WithCatalog(c ports.ChallengeCatalog) Option {
	return func(s *Server) {
		s.Catalog = c
	}
}

// WithLeaderboard sets where passing checks are ranked. The default keeps scores in memory.
func WithLeaderboard(l ports.Leaderboard) Option {
	return func(s *Server) {
		s.Leaderboard = l
	}
}

// WithGraphOptions configures the engine used by /simulate, /graph and challenge checks.
func WithGraphOptions(opts ...circuitlab.Option) Option {
	return func(s *Server) {
		s.graphOpts = append(s.graphOpts, opts...)
	}
}

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCORSOrigins sets the allowed CORS origins. The default allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// NewServer loads the embedded OpenAPI document and applies the options.
func NewServer(ctx context.Context, opts ...Option) (*Server, error) {
	spec, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Streams: NewStreamManager(),
		origins: []string{"*"},
		spec:    spec,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.Sandboxes == nil {
		s.Sandboxes = sandbox.NewManager(memory.NewStore(), sandbox.WithGraphOptions(s.graphOpts...))
	}
	if s.Catalog == nil {
		catalog, err := memory.NewCatalog(challenge.Builtin()...)
		if err != nil {
			return nil, err
		}
		s.Catalog = catalog
	}
	if s.Leaderboard == nil {
		s.Leaderboard = memory.NewLeaderboard()
	}
	return s, nil
}

// NewHandler is NewServer followed by Routes.
func NewHandler(ctx context.Context, opts ...Option) (http.Handler, error) {
	s, err := NewServer(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/info", s.info)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())

	r.Post("/simulate", s.simulate)
	r.Post("/graph", s.graph)

	r.Route("/sandboxes", func(r chi.Router) {
		r.Get("/", s.listSandboxes)
		r.Post("/", s.createSandbox)
		r.Get("/{id}", s.getSandbox)
		r.Put("/{id}", s.saveSandbox)
		r.Delete("/{id}", s.deleteSandbox)
		r.Post("/{id}/simulate", s.simulateSandbox)
		r.Get("/{id}/events", s.sandboxEvents)
	})

	r.Route("/challenges", func(r chi.Router) {
		r.Get("/", s.listChallenges)
		r.Post("/", s.createChallenge)
		r.Get("/{id}", s.getChallenge)
		r.Put("/{id}", s.updateChallenge)
		r.Delete("/{id}", s.deleteChallenge)
		r.Post("/{id}/check", s.checkChallenge)
		r.Get("/{id}/leaderboard", s.challengeLeaderboard)
	})

	return r
}

func (s *Server) metricsHandler() http.Handler {
	if s.gatherer != nil {
		return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

type infoResponse struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Name:       "circuitlab",
		Version:    strings.TrimSpace(circuitlab.Version),
		APIVersion: s.spec.Info.Version,
	})
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	l, err := decodeLayout(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := circuitlab.Run(r.Context(), l, s.graphOpts...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	l, err := decodeLayout(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	g := circuitlab.New(s.graphOpts...)
	g.Load(r.Context(), l)
	res := g.Simulate(r.Context())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(g.Junctions(), g.Elements(), graph.OverlayFromResult(res)))
}

func (s *Server) listSandboxes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sandboxes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) createSandbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if id := r.URL.Query().Get("challenge"); id != "" {
		ch, err := s.Catalog.Get(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		created, err := s.Sandboxes.FromChallenge(ctx, ch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}

	l := &domain.Layout{}
	if r.ContentLength != 0 {
		var err error
		if l, err = decodeLayout(w, r); err != nil {
			writeError(w, err)
			return
		}
	}
	created, err := s.Sandboxes.Create(ctx, l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getSandbox(w http.ResponseWriter, r *http.Request) {
	l, err := s.Sandboxes.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) saveSandbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	l, err := decodeLayout(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Sandboxes.Save(ctx, id, l); err != nil {
		writeError(w, err)
		return
	}

	if s.Streams.Subscribers(id) > 0 {
		res, err := circuitlab.Run(ctx, l, s.graphOpts...)
		if err != nil {
			slog.Error("Sandbox simulation failed", "sandbox_id", id, "error", err)
		} else if data, err := json.Marshal(res); err == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteSandbox(w http.ResponseWriter, r *http.Request) {
	if err := s.Sandboxes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) simulateSandbox(w http.ResponseWriter, r *http.Request) {
	res, err := s.Sandboxes.Simulate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// sandboxEvents streams a "result" event with the current simulation and another one
// after every save of the sandbox.
func (s *Server) sandboxEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SandboxEvents: Streaming not supported")
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()
	slog.Info("SSE: Subscribing to sandbox", "sandbox_id", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if res, err := s.Sandboxes.Simulate(ctx, id); err == nil {
		if data, err := json.Marshal(res); err == nil {
			fmt.Fprintf(w, "event: result\ndata: %s\n\n", data)
		}
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SSE Client Disconnected", "sandbox_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: result\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) listChallenges(w http.ResponseWriter, r *http.Request) {
	list, err := s.Catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []domain.Challenge{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getChallenge(w http.ResponseWriter, r *http.Request) {
	ch, err := s.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) editor() (ports.ChallengeEditor, error) {
	ed, ok := s.Catalog.(ports.ChallengeEditor)
	if !ok {
		return nil, domain.ErrReadOnlyCatalog
	}
	return ed, nil
}

func (s *Server) createChallenge(w http.ResponseWriter, r *http.Request) {
	ed, err := s.editor()
	if err != nil {
		writeError(w, err)
		return
	}
	ch, err := decodeChallenge(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ed.Create(r.Context(), ch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

// updateChallenge replaces the challenge; the path id wins over the body id.
func (s *Server) updateChallenge(w http.ResponseWriter, r *http.Request) {
	ed, err := s.editor()
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	ch, err := decodeChallengeWithID(w, r, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ed.Update(r.Context(), ch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) deleteChallenge(w http.ResponseWriter, r *http.Request) {
	ed, err := s.editor()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ed.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) challengeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch, err := s.Catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	top, err := s.Leaderboard.Top(ctx, ch.ID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if top == nil {
		top = []domain.Score{}
	}
	writeJSON(w, http.StatusOK, top)
}

// checkChallenge grades the request body, or the stored sandbox named by ?sandbox=.
// With ?player= a passing verdict is recorded on the leaderboard.
func (s *Server) checkChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch, err := s.Catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var l *domain.Layout
	if sandboxID := r.URL.Query().Get("sandbox"); sandboxID != "" {
		l, err = s.Sandboxes.Load(ctx, sandboxID)
	} else {
		l, err = decodeLayout(w, r)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	verdict, err := challenge.Check(ctx, ch, l, s.graphOpts...)
	if err != nil {
		writeError(w, err)
		return
	}
	if player := strings.TrimSpace(r.URL.Query().Get("player")); player != "" {
		if _, err := challenge.Record(ctx, s.Leaderboard, verdict, player); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, verdict)
}

// -- Helpers --

// decodeLayout reads a JSON body, or YAML when the content type says so.
func decodeLayout(w http.ResponseWriter, r *http.Request) (*domain.Layout, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLayout, err)
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return layout.Decode(data)
	}

	var l domain.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLayout, err)
	}
	return &l, nil
}

func decodeChallenge(w http.ResponseWriter, r *http.Request) (*domain.Challenge, error) {
	return decodeChallengeWithID(w, r, "")
}

// decodeChallengeWithID reads a JSON challenge and validates it. A non-empty id
// overrides the id in the body.
func decodeChallengeWithID(w http.ResponseWriter, r *http.Request, id string) (*domain.Challenge, error) {
	var ch domain.Challenge
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&ch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidChallenge, err)
	}
	if id != "" {
		ch.ID = id
	}
	if ch.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidChallenge)
	}
	if problems := validator.ValidateChallenge(ch); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidChallenge, strings.Join(problems, "; "))
	}
	return &ch, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrLayoutNotFound), errors.Is(err, domain.ErrChallengeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidLayout), errors.Is(err, domain.ErrInvalidChallenge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrChallengeExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrReadOnlyCatalog):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed", "status", code, "error", err)
	} else {
		slog.Warn("Request rejected", "status", code, "error", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
