package gateway

// Inbound action strings accepted on the session socket.
const (
	ActionStartSession     = "start_session"
	ActionAudioInput       = "audio_input"
	ActionScreenShareFrame = "screen_share_frame"
	ActionEndSession       = "end_session"
)

// Outbound action strings.
const (
	ActionSessionStarted = "session_started"
	ActionTextResponse   = "text_response"
	ActionAudioOutput    = "audio_output"
	ActionSessionEnded   = "session_ended"
	ActionError          = "error"
)

// Machine-readable error codes carried on outbound error messages.
const (
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeSessionStartError    = "SESSION_START_ERROR"
	CodeAudioProcessingError = "AUDIO_PROCESSING_ERROR"
	CodeCriticalAudioError   = "CRITICAL_AUDIO_ERROR"
	CodeScreenShareError     = "SCREEN_SHARE_ERROR"
	CodeCriticalScreenError  = "CRITICAL_SCREEN_ERROR"
	CodeSessionEndError      = "SESSION_END_ERROR"
	CodeInvalidAction        = "INVALID_ACTION"
	CodeInvalidJSON          = "INVALID_JSON"
	CodeInternalError        = "INTERNAL_ERROR"
)

type envelope struct {
	Action string `json:"action"`
}

type startSessionRequest struct {
	UserID    string            `json:"user_id"`
	SessionID string            `json:"session_id,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
}

type audioInputRequest struct {
	SessionID  string `json:"session_id"`
	Data       string `json:"data"`
	Format     string `json:"format,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

type screenShareFrameRequest struct {
	SessionID string `json:"session_id"`
	Data      string `json:"data"`
	Format    string `json:"format,omitempty"`
}

type endSessionRequest struct {
	SessionID string `json:"session_id"`
}

type roomInfo struct {
	RoomName    string `json:"room_name"`
	AccessToken string `json:"access_token"`
	URL         string `json:"url"`
}

type sessionStartedMessage struct {
	Action    string   `json:"action"`
	SessionID string   `json:"session_id"`
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Greeting  string   `json:"greeting"`
	LiveKit   roomInfo `json:"livekit"`
}

type textResponseMessage struct {
	Action    string `json:"action"`
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type audioOutputMessage struct {
	Action     string `json:"action"`
	SessionID  string `json:"session_id"`
	Data       string `json:"data"`
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type sessionEndedMessage struct {
	Action    string  `json:"action"`
	SessionID string  `json:"session_id"`
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Duration  float64 `json:"duration"`
}

type errorMessage struct {
	Action    string         `json:"action"`
	SessionID string         `json:"session_id,omitempty"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}
