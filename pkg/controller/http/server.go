package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/frontend"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/secmon-lab/cuon/pkg/metrics"
	"github.com/secmon-lab/cuon/pkg/usecase"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router       chi.Router
	escalationUC usecase.EscalationUseCase
	statsUC      usecase.StatsUseCase
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	escalationUC usecase.EscalationUseCase,
	statsUC usecase.StatsUseCase,
) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:       router,
		escalationUC: escalationUC,
		statsUC:      statsUC,
	}

	router.Get("/health", handleHealth)
	router.Handle("/metrics", metrics.Handler())
	router.Post("/submit-escalation", server.handleSubmit)
	router.Get("/api/stats", server.handleStats)

	// Serve the embedded escalation form
	fs, err := frontend.GetHTTPFS()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load embedded form assets")
	}
	router.Handle("/*", http.FileServer(fs))

	return server, nil
}

// handleSubmit accepts one escalation form post. Internal tracking or relay
// failures never reach the submitter; only a malformed submission is
// rejected.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, goerr.Wrap(model.ErrMalformedSubmission, "invalid request body"), http.StatusBadRequest)
		return
	}
	sub.Finalize(time.Now())

	if err := s.escalationUC.HandleSubmission(r.Context(), &sub); err != nil {
		if errors.Is(err, model.ErrMalformedSubmission) {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(r.Context(), w, map[string]any{"success": true, "id": sub.ID})
}

// handleStats returns display-only submission counts for an alias or station
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{}
	if alias := r.URL.Query().Get("alias"); alias != "" {
		resp["alias"] = alias
		resp["aliasCount"] = s.statsUC.AliasCount(r.Context(), types.Alias(alias))
	}
	if station := r.URL.Query().Get("station"); station != "" {
		resp["station"] = station
		resp["stationCount"] = s.statsUC.StationCount(r.Context(), types.StationID(station))
	}
	writeJSON(r.Context(), w, resp)
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "cuon",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if encErr := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); encErr != nil {
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", encErr)
	}
}
