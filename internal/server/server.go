package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/leadline-hq/leadline/internal/leads"
	"github.com/leadline-hq/leadline/internal/stats"
	"github.com/leadline-hq/leadline/internal/store"
	"github.com/leadline-hq/leadline/internal/track"
)

type Server struct {
	store      store.Store
	tracker    *track.Tracker
	pipeline   *leads.Pipeline
	reporter   *stats.Reporter
	log        zerolog.Logger
	statsToken string
	port       int
	router     chi.Router
	startTime  time.Time
}

type Options struct {
	Store      store.Store
	Tracker    *track.Tracker
	Pipeline   *leads.Pipeline
	Reporter   *stats.Reporter
	Log        zerolog.Logger
	StatsToken string
	Port       int
}

func New(opts Options) *Server {
	s := &Server{
		store:      opts.Store,
		tracker:    opts.Tracker,
		pipeline:   opts.Pipeline,
		reporter:   opts.Reporter,
		log:        opts.Log,
		statsToken: opts.StatsToken,
		port:       opts.Port,
		startTime:  time.Now(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "x-auth-token"},
		MaxAge:         300,
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found")
	})

	// The cors middleware only short-circuits preflight OPTIONS (those
	// carrying Access-Control-Request-Method); a bare OPTIONS reaches
	// the router and still gets a 200 here.
	bareOptions := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	r.Options("/track", bareOptions)
	r.Options("/submit", bareOptions)

	r.Post("/track", s.handleTrack)
	r.Post("/submit", s.handleSubmit)
	r.With(s.requireStatsToken).Get("/stats", s.handleStats)
	r.Get("/assign", s.handleAssign)
	r.Get("/health", s.handleHealth)
	r.Get("/lp.js", s.handleClientJS)

	return r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info().Str("addr", addr).Str("backend", s.store.Kind()).Msg("server listening")
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// recoverer converts panics into the generic 500 envelope instead of a
// dropped connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				s.writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error":   "Internal server error",
					"message": fmt.Sprint(rec),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
