package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/monetalab/fincoach/internal/activity"
	"github.com/monetalab/fincoach/internal/onboarding"
)

type generateFromOnboardingRequest struct {
	OnboardingData onboarding.Data `json:"onboarding_data"`
}

type generateFromConceptsRequest struct {
	Level             activity.Level `json:"level"`
	Concepts          []string       `json:"concepts"`
	GuidedDescription string         `json:"guided_description"`
	UserContext       map[string]any `json:"user_context"`
}

type createActivityRequest struct {
	activity.Activity
	UserID string `json:"user_id"`
}

// activityResponse flattens a stored record into the wire shape.
type activityResponse struct {
	ID     string  `json:"id"`
	UserID *string `json:"user_id"`
	activity.Activity
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toActivityResponse(rec activity.Record) activityResponse {
	resp := activityResponse{
		ID:        rec.ID,
		Activity:  rec.Activity,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.UserID != "" {
		resp.UserID = &rec.UserID
	}
	return resp
}

func toActivityResponses(recs []activity.Record) []activityResponse {
	responses := make([]activityResponse, 0, len(recs))
	for _, rec := range recs {
		responses = append(responses, toActivityResponse(rec))
	}
	return responses
}

func validateActivity(act activity.Activity) string {
	switch {
	case act.Title == "":
		return "title is required"
	case act.OverallObjective == "":
		return "overall_objective is required"
	case len(act.Steps) == 0:
		return "at least one step is required"
	case !act.Level.Valid():
		return "invalid level"
	default:
		return ""
	}
}

// handleGenerateFromOnboarding generates a tailored set of activities
// from a completed onboarding profile.
func (s *Server) handleGenerateFromOnboarding(w http.ResponseWriter, r *http.Request) {
	var req generateFromOnboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	activities, err := s.generator.FromOnboarding(r.Context(), req.OnboardingData)
	if err != nil {
		s.logger.Error("activity generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "activity generation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"type": "onboarding",
		"data": activities,
	})
}

// handleGenerateFromConcepts generates one activity focused on the
// requested financial concepts.
func (s *Server) handleGenerateFromConcepts(w http.ResponseWriter, r *http.Request) {
	var req generateFromConceptsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Level.Valid() {
		respondError(w, http.StatusBadRequest, "invalid level")
		return
	}
	if len(req.Concepts) == 0 {
		respondError(w, http.StatusBadRequest, "at least one concept is required")
		return
	}

	act, err := s.generator.FromConcepts(r.Context(), activity.ConceptsRequest{
		Level:             req.Level,
		Concepts:          req.Concepts,
		GuidedDescription: req.GuidedDescription,
		UserContext:       req.UserContext,
	})
	if err != nil {
		s.logger.Error("activity generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "activity generation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"type": "concepts",
		"data": act,
	})
}

// handleCreatePublicActivity stores an activity visible to all users.
func (s *Server) handleCreatePublicActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateActivity(req.Activity); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	rec, err := s.store.CreatePublic(r.Context(), req.Activity)
	if err != nil {
		s.logger.Error("failed to create activity", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	respondJSON(w, http.StatusCreated, toActivityResponse(rec))
}

// handleCreateUserActivity stores an activity owned by one user.
func (s *Server) handleCreateUserActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if msg := validateActivity(req.Activity); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	rec, err := s.store.CreateForUser(r.Context(), req.UserID, req.Activity)
	if err != nil {
		s.logger.Error("failed to create activity", "user_id", req.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	respondJSON(w, http.StatusCreated, toActivityResponse(rec))
}

// handleListPublicActivities returns every public activity.
func (s *Server) handleListPublicActivities(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListPublic(r.Context())
	if err != nil {
		s.logger.Error("failed to list activities", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"data": toActivityResponses(recs)})
}

// handleListUserActivities returns every activity owned by a user.
func (s *Server) handleListUserActivities(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	recs, err := s.store.ListForUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list activities", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"data": toActivityResponses(recs)})
}

// handleGetActivity returns one activity by ID.
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "activityID")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, activity.ErrNotFound) {
		respondError(w, http.StatusNotFound, "activity not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get activity", "activity_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}

	respondJSON(w, http.StatusOK, toActivityResponse(rec))
}
