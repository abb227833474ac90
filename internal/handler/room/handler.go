package room

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	model "github.com/cloudy-assistant/backend/internal/model/session"
	roomsvc "github.com/cloudy-assistant/backend/internal/service/room"
	sessionsvc "github.com/cloudy-assistant/backend/internal/service/session"
	"github.com/cloudy-assistant/backend/pkg/utils"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// Handler serves the room-management REST surface: token issuance, session
// info and health.
type Handler struct {
	tokens    *roomsvc.TokenIssuer
	registry  *sessionsvc.Registry
	startedAt time.Time
}

// New creates the REST handler.
func New(tokens *roomsvc.TokenIssuer, registry *sessionsvc.Registry) *Handler {
	return &Handler{
		tokens:    tokens,
		registry:  registry,
		startedAt: time.Now(),
	}
}

// RegisterRoutes mounts the room routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/room/token", h.handleCreateToken)
	r.Get("/room/sessions/{sessionID}", h.handleSessionInfo)
	r.Get("/room/sessions/{sessionID}/history", h.handleSessionHistory)
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RoomName            string `json:"room_name"`
		ParticipantIdentity string `json:"participant_identity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.RoomName == "" || payload.ParticipantIdentity == "" {
		utils.RespondError(w, http.StatusBadRequest, "room_name and participant_identity are required")
		return
	}

	token, err := h.tokens.Mint(payload.RoomName, payload.ParticipantIdentity)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create access token")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"access_token":         token,
		"room_name":            payload.RoomName,
		"participant_identity": payload.ParticipantIdentity,
	})
}

func (h *Handler) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.registry.Get(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionInfo(sess))
}

func (h *Handler) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.registry.Get(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	history := sess.History
	if history == nil {
		history = []model.Record{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"history":    history,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"uptime":    time.Since(h.startedAt).Seconds(),
	})
}

func sessionInfo(sess model.Session) map[string]any {
	return map[string]any{
		"session_id": sess.ID,
		"room_name":  sess.RoomName,
		"user_id":    sess.UserID,
		"status":     string(sess.State),
		"start_time": sess.CreatedAt.Format(time.RFC3339),
	}
}
