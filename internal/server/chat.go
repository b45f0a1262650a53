package server

import (
	"net/http"

	"github.com/monetalab/fincoach/internal/activity"
	"github.com/monetalab/fincoach/internal/chat"
	"github.com/monetalab/fincoach/internal/onboarding"
	"github.com/monetalab/fincoach/internal/sse"
	"github.com/monetalab/fincoach/pkg/graph/stream"
)

const emitterBuffer = 32

type chatOnboardingRequest struct {
	ThreadID     string `json:"thread_id"`
	Message      string `json:"message"`
	UserFullName string `json:"user_full_name"`
}

type chatActivityRequest struct {
	ThreadID       string            `json:"thread_id"`
	Message        string            `json:"message"`
	UserFullName   string            `json:"user_full_name"`
	OnboardingData onboarding.Data   `json:"onboarding_data"`
	Activity       activity.Activity `json:"activity"`
}

// messagePayload is the wire shape of a conversation message. Tool
// messages are internal and never leave the server.
type messagePayload struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

func conversationPayload(messages []chat.Message) []messagePayload {
	payload := make([]messagePayload, 0, len(messages))
	for _, m := range messages {
		if m.Role != chat.RoleHuman && m.Role != chat.RoleAI {
			continue
		}
		payload = append(payload, messagePayload{ID: m.ID, Type: m.Role, Content: m.Content})
	}
	return payload
}

// handleChatOnboarding runs one onboarding turn and streams the
// response as SSE.
func (s *Server) handleChatOnboarding(w http.ResponseWriter, r *http.Request) {
	var req chatOnboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ThreadID == "" {
		respondError(w, http.StatusBadRequest, "thread_id is required")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	s.streamTurn(w, r, func(emitter stream.Emitter) error {
		_, err := s.onboarding.ChatTurn(r.Context(), req.ThreadID, req.Message, req.UserFullName, emitter)
		return err
	})
}

// handleChatActivity runs one activity turn and streams the response
// as SSE.
func (s *Server) handleChatActivity(w http.ResponseWriter, r *http.Request) {
	var req chatActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ThreadID == "" {
		respondError(w, http.StatusBadRequest, "thread_id is required")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	s.streamTurn(w, r, func(emitter stream.Emitter) error {
		_, err := s.activity.ChatTurn(r.Context(), req.ThreadID, req.Message, req.UserFullName,
			req.OnboardingData, req.Activity, emitter)
		return err
	})
}

// streamTurn runs a turn in the background and pumps its events onto
// the response. A turn that fails after streaming began reports the
// failure as a terminal error event.
func (s *Server) streamTurn(w http.ResponseWriter, r *http.Request, turn func(stream.Emitter) error) {
	writer := sse.NewWriter(w)
	if writer == nil {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	emitter := stream.NewChannelEmitter(emitterBuffer)
	errCh := make(chan error, 1)
	go func() {
		err := turn(emitter)
		emitter.Close()
		errCh <- err
	}()

	if pumpErr := writer.Pump(emitter.Events()); pumpErr != nil {
		s.logger.Warn("client disconnected mid-stream", "error", pumpErr)
		<-errCh
		return
	}

	if err := <-errCh; err != nil {
		s.logger.Error("chat turn failed", "error", err)
		if writeErr := writer.SendEvent(stream.TypeError, map[string]string{"error": err.Error()}); writeErr != nil {
			s.logger.Warn("failed to write SSE error event", "error", writeErr)
		}
	}
}

// handleOnboardingState returns the conversation and collected profile
// for an onboarding thread.
func (s *Server) handleOnboardingState(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("thread_id")
	if threadID == "" {
		respondError(w, http.StatusBadRequest, "thread_id is required")
		return
	}

	state, found, err := s.onboarding.GetState(r.Context(), threadID)
	if err != nil {
		s.logger.Error("failed to load onboarding state", "thread_id", threadID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load state")
		return
	}
	if !found {
		// Unknown threads read as empty, matching the load-or-initialize
		// behavior of a first turn.
		respondJSON(w, http.StatusOK, map[string]any{
			"messages":        []messagePayload{},
			"onboarding_data": onboarding.NewData(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"messages":        conversationPayload(state.Messages),
		"onboarding_data": state.Data,
	})
}

// handleActivityState returns the conversation, profile, activity and
// progress for an activity thread.
func (s *Server) handleActivityState(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("thread_id")
	if threadID == "" {
		respondError(w, http.StatusBadRequest, "thread_id is required")
		return
	}

	state, found, err := s.activity.GetState(r.Context(), threadID)
	if err != nil {
		s.logger.Error("failed to load activity state", "thread_id", threadID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load state")
		return
	}
	if !found {
		respondJSON(w, http.StatusOK, map[string]any{
			"messages":        []messagePayload{},
			"onboarding_data": onboarding.NewData(),
			"activity":        activity.Activity{},
			"progress":        nil,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"messages":        conversationPayload(state.Messages),
		"onboarding_data": state.OnboardingData,
		"activity":        state.Activity,
		"progress":        state.Progress,
	})
}
