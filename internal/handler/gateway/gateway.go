// Package gateway decodes inbound transport frames into session commands,
// dispatches them to the orchestrator, and encodes the resulting events back
// into protocol messages. It owns the error-response contract: every failure
// path yields exactly one outbound error message and the connection stays up.
package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/cloudy-assistant/backend/internal/config"
	"github.com/cloudy-assistant/backend/internal/service/room"
	sessionsvc "github.com/cloudy-assistant/backend/internal/service/session"
)

// Sender delivers one outbound protocol message to the peer. The websocket
// adapter implements it; tests substitute a recorder.
type Sender interface {
	Send(v any) error
}

// Handler is the gateway protocol handler.
type Handler struct {
	orchestrator *sessionsvc.Orchestrator
	registry     *sessionsvc.Registry
	tokens       *room.TokenIssuer
	roomCfg      config.RoomConfig
}

// New wires the protocol handler to its collaborators.
func New(orchestrator *sessionsvc.Orchestrator, registry *sessionsvc.Registry, tokens *room.TokenIssuer, roomCfg config.RoomConfig) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		registry:     registry,
		tokens:       tokens,
		roomCfg:      roomCfg,
	}
}

// ConnState tracks the weak binding between one transport connection and the
// sessions started on it, used only for disconnect cleanup.
type ConnState struct {
	sessions map[string]struct{}
}

// NewConnState returns an empty binding.
func NewConnState() *ConnState {
	return &ConnState{sessions: make(map[string]struct{})}
}

// HandleFrame processes exactly one inbound frame. Events produced by a
// submission are drained fully before it returns, which is what serializes a
// single session's responses.
func (h *Handler) HandleFrame(ctx context.Context, s Sender, st *ConnState, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[gateway] panic while handling frame: %v", r)
			h.sendError(s, "", CodeInternalError, "internal server error", nil)
		}
	}()

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendError(s, "", CodeInvalidJSON, "invalid JSON format", nil)
		return
	}

	switch env.Action {
	case ActionStartSession:
		h.handleStartSession(ctx, s, st, raw)
	case ActionAudioInput:
		h.handleAudioInput(ctx, s, raw)
	case ActionScreenShareFrame:
		h.handleScreenShareFrame(ctx, s, raw)
	case ActionEndSession:
		h.handleEndSession(ctx, s, st, raw)
	default:
		h.sendError(s, "", CodeInvalidAction, fmt.Sprintf("unknown action: %s", env.Action), nil)
	}
}

// Cleanup removes every session bound to the connection. It runs on transport
// disconnect and is best effort: removal of an already-ended session is a
// no-op and nothing is reported to anyone.
func (h *Handler) Cleanup(st *ConnState) {
	for id := range st.sessions {
		h.registry.Remove(id)
		log.Printf("[gateway] cleaned up session %s after disconnect", id)
	}
	st.sessions = make(map[string]struct{})
}

func (h *Handler) handleStartSession(ctx context.Context, s Sender, st *ConnState, raw []byte) {
	var req startSessionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(s, "", CodeInvalidJSON, "invalid start_session payload", nil)
		return
	}
	if req.UserID == "" {
		h.sendError(s, "", CodeSessionStartError, "user_id is required", nil)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	roomName := room.RoomName(h.roomCfg.RoomPrefix, sessionID)

	accessToken, err := h.tokens.Mint(roomName, req.UserID)
	if err != nil {
		h.sendError(s, sessionID, CodeSessionStartError, fmt.Sprintf("failed to start session: %v", err), nil)
		return
	}

	result, err := h.orchestrator.StartSession(ctx, sessionID, req.UserID, roomName, req.Config)
	if err != nil {
		h.sendError(s, sessionID, CodeSessionStartError, fmt.Sprintf("failed to start session: %v", err), nil)
		return
	}

	st.sessions[sessionID] = struct{}{}

	h.send(s, sessionStartedMessage{
		Action:    ActionSessionStarted,
		SessionID: sessionID,
		Status:    "success",
		Message:   "Session started successfully",
		Greeting:  result.Greeting,
		LiveKit: roomInfo{
			RoomName:    roomName,
			AccessToken: accessToken,
			URL:         h.roomCfg.URL,
		},
	})
	log.Printf("[gateway] session %s started for user %s in room %s", sessionID, req.UserID, roomName)
}

func (h *Handler) handleAudioInput(ctx context.Context, s Sender, raw []byte) {
	var req audioInputRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(s, "", CodeInvalidJSON, "invalid audio_input payload", nil)
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		h.sendError(s, req.SessionID, CodeAudioProcessingError, "audio data is not valid base64", nil)
		return
	}

	events, err := h.orchestrator.SubmitAudio(ctx, req.SessionID, sessionsvc.AudioInput{
		Data:       data,
		Format:     req.Format,
		SampleRate: req.SampleRate,
		Channels:   req.Channels,
	})
	if err != nil {
		h.sendSubmitError(s, req.SessionID, err, CodeAudioProcessingError)
		return
	}

	h.drain(s, req.SessionID, events, CodeAudioProcessingError, CodeCriticalAudioError)
}

func (h *Handler) handleScreenShareFrame(ctx context.Context, s Sender, raw []byte) {
	var req screenShareFrameRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(s, "", CodeInvalidJSON, "invalid screen_share_frame payload", nil)
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		h.sendError(s, req.SessionID, CodeScreenShareError, "frame data is not valid base64", nil)
		return
	}

	events, err := h.orchestrator.SubmitScreenFrame(ctx, req.SessionID, sessionsvc.ScreenFrame{
		Data:   data,
		Format: req.Format,
	})
	if err != nil {
		h.sendSubmitError(s, req.SessionID, err, CodeScreenShareError)
		return
	}

	h.drain(s, req.SessionID, events, CodeScreenShareError, CodeCriticalScreenError)
}

func (h *Handler) handleEndSession(ctx context.Context, s Sender, st *ConnState, raw []byte) {
	var req endSessionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(s, "", CodeInvalidJSON, "invalid end_session payload", nil)
		return
	}

	duration, err := h.orchestrator.EndSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionsvc.ErrSessionNotFound) {
			h.sendError(s, req.SessionID, CodeSessionNotFound, fmt.Sprintf("Session %s not found", req.SessionID), nil)
		} else {
			h.sendError(s, req.SessionID, CodeSessionEndError, fmt.Sprintf("failed to end session: %v", err), nil)
		}
		return
	}

	delete(st.sessions, req.SessionID)

	h.send(s, sessionEndedMessage{
		Action:    ActionSessionEnded,
		SessionID: req.SessionID,
		Status:    "success",
		Message:   "Session ended successfully",
		Duration:  duration.Seconds(),
	})
}

// drain forwards the ordered event stream for one submission, mapping
// processing errors onto the given recoverable/critical code pair.
func (h *Handler) drain(s Sender, sessionID string, events <-chan sessionsvc.Event, recoverableCode, criticalCode string) {
	for ev := range events {
		switch ev := ev.(type) {
		case sessionsvc.TextEvent:
			h.send(s, textResponseMessage{
				Action:    ActionTextResponse,
				SessionID: sessionID,
				Text:      ev.Text,
			})
		case sessionsvc.AudioEvent:
			h.send(s, audioOutputMessage{
				Action:     ActionAudioOutput,
				SessionID:  sessionID,
				Data:       base64.StdEncoding.EncodeToString(ev.Data),
				Format:     ev.Format,
				SampleRate: ev.SampleRate,
				Channels:   ev.Channels,
			})
		case sessionsvc.ProcessingErrorEvent:
			code := recoverableCode
			message := "processing failed, please try again"
			if ev.Critical {
				code = criticalCode
				message = "processing unavailable, please restart session"
			}
			h.sendError(s, sessionID, code, message, map[string]any{"reason": ev.Message})
		}
	}
}

func (h *Handler) sendSubmitError(s Sender, sessionID string, err error, fallbackCode string) {
	if errors.Is(err, sessionsvc.ErrSessionNotFound) {
		h.sendError(s, sessionID, CodeSessionNotFound, fmt.Sprintf("Session %s not found", sessionID), nil)
		return
	}
	h.sendError(s, sessionID, fallbackCode, err.Error(), nil)
}

func (h *Handler) send(s Sender, v any) {
	if err := s.Send(v); err != nil {
		log.Printf("[gateway] send failed: %v", err)
	}
}

func (h *Handler) sendError(s Sender, sessionID, code, message string, details map[string]any) {
	h.send(s, errorMessage{
		Action:    ActionError,
		SessionID: sessionID,
		Code:      code,
		Message:   message,
		Details:   details,
	})
}
