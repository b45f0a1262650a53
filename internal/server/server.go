// Package server exposes the chat agents and the activity catalog over
// HTTP. Chat turns stream their output as Server-Sent Events.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/monetalab/fincoach/internal/activity"
	"github.com/monetalab/fincoach/internal/onboarding"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	onboarding *onboarding.Agent
	activity   *activity.Agent
	generator  *activity.Generator
	store      *activity.Store
	logger     *slog.Logger
}

// Options configures a Server.
type Options struct {
	Onboarding *onboarding.Agent
	Activity   *activity.Agent
	Generator  *activity.Generator
	Store      *activity.Store
	Logger     *slog.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		onboarding: opts.Onboarding,
		activity:   opts.Activity,
		generator:  opts.Generator,
		store:      opts.Store,
		logger:     logger,
	}
}

// Router builds the chi router with all routes and global middleware.
func (s *Server) Router(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(allowedOrigins))

	r.Route("/chat/onboarding", func(r chi.Router) {
		r.Post("/", s.handleChatOnboarding)
		r.Get("/", s.handleOnboardingState)
	})

	r.Route("/chat/activity", func(r chi.Router) {
		r.Post("/", s.handleChatActivity)
		r.Get("/", s.handleActivityState)
	})

	r.Route("/activity", func(r chi.Router) {
		r.Post("/onboarding", s.handleGenerateFromOnboarding)
		r.Post("/concepts", s.handleGenerateFromConcepts)
		r.Post("/public", s.handleCreatePublicActivity)
		r.Post("/user", s.handleCreateUserActivity)
		r.Get("/public", s.handleListPublicActivities)
		r.Get("/user/{userID}", s.handleListUserActivities)
		r.Get("/{activityID}", s.handleGetActivity)
	})

	return r
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
