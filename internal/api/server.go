// Package api exposes the lead pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/model"
	"github.com/sells-group/leadgen/internal/pipeline"
	"github.com/sells-group/leadgen/internal/store"
)

// Runner executes one lead search.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// LeadStore is the read side of the store used by the API.
type LeadStore interface {
	ListLeads(ctx context.Context, filter store.LeadFilter) ([]model.StorageLead, error)
	Ping(ctx context.Context) error
}

// Chatter answers a free-text prompt.
type Chatter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// RequestTimeout bounds every handler except /search-leads; 0 disables it.
	RequestTimeout time.Duration
}

// Server holds the handler dependencies. Chat may be nil, in which case
// /chat answers 503.
type Server struct {
	runner Runner
	leads  LeadStore
	chat   Chatter
	opts   Options
}

// New creates a Server.
func New(runner Runner, leads LeadStore, chat Chatter, opts Options) *Server {
	return &Server{runner: runner, leads: leads, chat: chat, opts: opts}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	// A search runs to completion once started; its outbound calls carry
	// their own deadlines.
	r.Post("/search-leads", s.handleSearchLeads)

	r.Group(func(r chi.Router) {
		if s.opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.opts.RequestTimeout))
		}
		r.Get("/health", s.handleHealth)
		r.Get("/leads", s.handleListLeads)
		r.Post("/chat", s.handleChat)
	})
	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zap.L().Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
