// Package server exposes film queries over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/filmquery/config"
	"github.com/s0up4200/filmquery/film"
	"github.com/s0up4200/filmquery/filter"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	outcomeOK          = "ok"
	outcomeBadRequest  = "bad_request"
	outcomeNotFound    = "not_found"
	outcomeSourceError = "source_error"
)

// resultEnvelope is the listing response body
type resultEnvelope struct {
	Result []film.Record `json:"result"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// Server serves the film listing endpoints
type Server struct {
	source  film.Source
	engine  *filter.Engine
	presets *filter.Manager
	metrics *Metrics
	logger  zerolog.Logger
	router  *mux.Router
}

// New creates a server. presets may be nil, in which case preset routes answer 404.
func New(source film.Source, engine *filter.Engine, presets *filter.Manager, logger zerolog.Logger) *Server {
	s := &Server{
		source:  source,
		engine:  engine,
		presets: presets,
		metrics: NewMetrics(),
		logger:  logger,
		router:  mux.NewRouter(),
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.router.Use(s.recoverPanic, s.logRequests)

	s.router.HandleFunc("/films", s.handleListFilms).Methods(http.MethodGet)
	s.router.HandleFunc("/films.json", s.handleListFilms).Methods(http.MethodGet)
	s.router.HandleFunc("/presets/{name}", s.handlePreset).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info().Msg("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const route = "films"

	// Parse before loading anything
	directives, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		s.queryFailed(w, r, route, start, err)
		return
	}

	records, err := s.source.Films(r.Context())
	if err != nil {
		s.queryFailed(w, r, route, start, err)
		return
	}

	result, err := s.engine.Query(r.Context(), records, directives)
	if err != nil {
		s.queryFailed(w, r, route, start, err)
		return
	}

	s.querySucceeded(w, r, route, start, len(records), result)
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const route = "presets"

	if s.presets == nil {
		s.queryFailed(w, r, route, start, filter.ErrPresetNotFound)
		return
	}

	name := mux.Vars(r)["name"]
	if _, ok := s.presets.GetPreset(name); !ok {
		s.queryFailed(w, r, route, start, filter.ErrPresetNotFound)
		return
	}

	records, err := s.source.Films(r.Context())
	if err != nil {
		s.queryFailed(w, r, route, start, err)
		return
	}

	result, err := s.presets.RunPreset(r.Context(), name, records)
	if err != nil {
		s.queryFailed(w, r, route, start, err)
		return
	}

	s.querySucceeded(w, r, route, start, len(records), result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) querySucceeded(w http.ResponseWriter, r *http.Request, route string, start time.Time, loaded int, result []film.Record) {
	s.metrics.observe(route, outcomeOK, time.Since(start).Seconds(), len(result))

	s.logger.Debug().
		Str("path", r.URL.Path).
		Str("query", r.URL.RawQuery).
		Int("loaded", loaded).
		Int("returned", len(result)).
		Msg("Query served")

	s.writeJSON(w, http.StatusOK, resultEnvelope{Result: result})
}

// queryFailed maps query errors to responses. Bad input is reported as a server
// error, matching the listing contract clients already depend on.
func (s *Server) queryFailed(w http.ResponseWriter, r *http.Request, route string, start time.Time, err error) {
	status, outcome := http.StatusInternalServerError, outcomeSourceError
	switch {
	case errors.Is(err, filter.ErrPresetNotFound):
		status, outcome = http.StatusNotFound, outcomeNotFound
	case filter.IsCallerError(err):
		outcome = outcomeBadRequest
	}

	s.metrics.observe(route, outcome, time.Since(start).Seconds(), 0)

	s.logger.Error().
		Err(err).
		Str("path", r.URL.Path).
		Str("query", r.URL.RawQuery).
		Int("status", status).
		Msg("Query failed")

	s.writeJSON(w, status, errorEnvelope{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to write response")
	}
}
