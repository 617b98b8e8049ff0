package ingest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var knownLevels = map[string]bool{
	"error":   true,
	"warning": true,
	"info":    true,
	"success": true,
}

const maxFormSize = 1 << 20

type response struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server accepts events posted by the client at /api/v1/log/{level}.
type Server struct {
	store    Store
	logger   *zap.Logger
	apiKeys  map[string]bool
	router   chi.Router
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

type ServerOption func(*Server)

// WithAPIKeys only accepts events carrying one of keys.
func WithAPIKeys(keys ...string) ServerOption {
	return func(s *Server) {
		for _, k := range keys {
			if k != "" {
				s.apiKeys[k] = true
			}
		}
	}
}

func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewServer(store Store, opts ...ServerOption) *Server {
	if store == nil {
		store = NopStore{}
	}
	s := &Server{
		store:    store,
		logger:   zap.NewNop(),
		apiKeys:  make(map[string]bool),
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unitedlogs_ingest_events_total",
				Help: "Total number of log events received, by level and outcome",
			},
			[]string{"level", "status"},
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry.MustRegister(s.events)

	r := chi.NewRouter()
	r.Post("/api/v1/log/{level}", s.handleLog)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, response{Error: "not found"})
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Registry exposes the server's metrics, mainly for tests.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")
	if !knownLevels[level] {
		s.reject(w, level, http.StatusNotFound, "unknown level "+level)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		s.reject(w, level, http.StatusBadRequest, "invalid form body")
		return
	}

	event := Event{
		ID:          requestID(r.Header.Get("X-Request-Id")),
		Level:       level,
		APIKey:      r.PostForm.Get("api"),
		Environment: r.PostForm.Get("environment"),
		Message:     r.PostForm.Get("message"),
		Category:    r.PostForm.Get("category"),
		Params:      collectParams(r.PostForm),
		ReceivedAt:  time.Now().UTC(),
		RemoteAddr:  r.RemoteAddr,
		UserAgent:   r.UserAgent(),
	}
	switch {
	case event.APIKey == "":
		s.reject(w, level, http.StatusBadRequest, "api key not specified")
		return
	case len(s.apiKeys) > 0 && !s.apiKeys[event.APIKey]:
		s.reject(w, level, http.StatusUnauthorized, "unknown api key")
		return
	case event.Environment == "":
		s.reject(w, level, http.StatusBadRequest, "environment not specified")
		return
	case event.Message == "":
		s.reject(w, level, http.StatusBadRequest, "message not specified")
		return
	}

	if err := s.store.Save(r.Context(), event); err != nil {
		s.logger.Error("failed to store event", zap.String("id", event.ID), zap.Error(err))
		s.reject(w, level, http.StatusInternalServerError, "failed to store event")
		return
	}

	s.events.WithLabelValues(level, "accepted").Inc()
	s.logger.Info("event received",
		zap.String("id", event.ID),
		zap.String("level", level),
		zap.String("environment", event.Environment),
		zap.String("category", event.Category))
	writeJSON(w, http.StatusOK, response{Success: true, ID: event.ID})
}

func (s *Server) reject(w http.ResponseWriter, level string, status int, msg string) {
	if !knownLevels[level] {
		level = "unknown"
	}
	s.events.WithLabelValues(level, "rejected").Inc()
	s.logger.Debug("event rejected", zap.String("level", level), zap.Int("status", status), zap.String("reason", msg))
	writeJSON(w, status, response{Error: msg})
}

// requestID keeps a client-supplied id only when it is a valid UUID, since the
// id ends up in file names.
func requestID(header string) string {
	if id, err := uuid.Parse(header); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

// collectParams folds params[key]=value fields back into a map.
func collectParams(form map[string][]string) map[string]string {
	var params map[string]string
	for key, values := range form {
		if !strings.HasPrefix(key, "params[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		name := key[len("params[") : len(key)-1]
		if params == nil {
			params = make(map[string]string)
		}
		params[name] = values[0]
	}
	// older clients send params as a single opaque string
	if v, ok := form["params"]; ok && len(v) > 0 && v[0] != "" {
		if params == nil {
			params = make(map[string]string)
		}
		params["raw"] = v[0]
	}
	return params
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
