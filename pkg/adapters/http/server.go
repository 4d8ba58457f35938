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

	"github.com/aretw0/cmdgraph"
	"github.com/aretw0/cmdgraph/internal/presentation/graph"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Engine defines the part of the cmdgraph engine the API exposes.
type Engine interface {
	Phase() domain.Phase
	Snapshot(ctx context.Context) (domain.GraphSnapshot, error)
	Unregister(ctx context.Context, name string, includeNamespaced bool, scope domain.Scope) ([]string, error)
	Seal(ctx context.Context) error
}

// Server serves the inspection API and the client event stream.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Logger  *slog.Logger
	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithStreams shares a StreamManager, typically the engine's ClientNotifier.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts a metrics handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager(server.Logger)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/phase", server.GetPhase)
	r.Get("/tree/{tree}", server.GetTree)
	r.Get("/registry", server.GetRegistry)
	r.Get("/help", server.GetHelp)
	r.Get("/graph", server.GetGraph)
	r.Get("/events", server.SubscribeEvents)
	r.Delete("/commands/{name}", server.DeleteCommand)
	r.Post("/lifecycle/seal", server.Seal)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "cmdgraph-http",
		"version": strings.TrimSpace(cmdgraph.Version),
	})
}

// GetPhase handles the GET /phase request.
func (s *Server) GetPhase(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]domain.Phase{"phase": s.Engine.Phase()})
}

// GetTree handles the GET /tree/{tree} request, for "execution" or "published".
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	nodes, ok := pickTree(snap, chi.URLParam(r, "tree"))
	if !ok {
		http.Error(w, "Unknown tree: expected execution or published", http.StatusNotFound)
		return
	}
	s.writeJSON(w, nodes)
}

// GetRegistry handles the GET /registry request.
func (s *Server) GetRegistry(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, snap.Registry)
}

// GetHelp handles the GET /help request.
func (s *Server) GetHelp(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	if snap.Help == nil {
		snap.Help = []domain.HelpTopic{}
	}
	s.writeJSON(w, snap.Help)
}

// GetGraph handles the GET /graph?tree= request and renders Mermaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	tree := r.URL.Query().Get("tree")
	if tree == "" {
		tree = "execution"
	}
	nodes, ok := pickTree(snap, tree)
	if !ok {
		http.Error(w, "Unknown tree: expected execution or published", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(nodes, nil))
}

// DeleteCommand handles DELETE /commands/{name}?namespaced=&scope=.
func (s *Server) DeleteCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	namespaced := false
	if raw := r.URL.Query().Get("namespaced"); raw != "" {
		var err error
		namespaced, err = strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "Invalid namespaced flag", http.StatusBadRequest)
			return
		}
	}
	scope := domain.ParseScope(r.URL.Query().Get("scope"))

	removed, err := s.Engine.Unregister(r.Context(), name, namespaced, scope)
	if err != nil {
		// The structural edit has been applied; report adapter failures alongside it.
		s.Logger.Warn("DeleteCommand: unregister reported errors", "command", name, "error", err)
	}
	if removed == nil {
		removed = []string{}
	}
	resp := map[string]any{"removed": removed}
	if err != nil {
		resp["error"] = err.Error()
	}
	s.writeJSON(w, resp)
}

// Seal handles POST /lifecycle/seal, the host's loaded trigger.
func (s *Server) Seal(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Seal(r.Context()); err != nil {
		if errors.Is(err, domain.ErrPhaseTransition) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Seal error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Seal failed", "error", err)
		return
	}
	s.writeJSON(w, map[string]domain.Phase{"phase": s.Engine.Phase()})
}

// SubscribeEvents handles the GET /events request (SSE).
// Each message is either a command tree update or a lifecycle event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (domain.GraphSnapshot, bool) {
	snap, err := s.Engine.Snapshot(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Snapshot error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Snapshot failed", "error", err)
		return snap, false
	}
	return snap, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func pickTree(snap domain.GraphSnapshot, tree string) ([]domain.NodeSnapshot, bool) {
	var nodes []domain.NodeSnapshot
	switch tree {
	case "execution":
		nodes = snap.Execution
	case "published":
		nodes = snap.Published
	default:
		return nil, false
	}
	if nodes == nil {
		nodes = []domain.NodeSnapshot{}
	}
	return nodes, true
}
