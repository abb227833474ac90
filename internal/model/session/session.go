package session

import "time"

// State is the lifecycle position of a session. Transitions are monotonic:
// created -> active -> ended, with ended terminal.
type State string

const (
	StateCreated State = "created"
	StateActive  State = "active"
	StateEnded   State = "ended"
)

// RecordKind tags one entry in a session's interaction history.
type RecordKind string

const (
	RecordGreeting      RecordKind = "greeting"
	RecordUserAudio     RecordKind = "user_audio"
	RecordUserScreen    RecordKind = "user_screen"
	RecordAssistantText RecordKind = "assistant_text"
)

// Record is one immutable, timestamped interaction entry. Content is empty
// for media kinds where only the fact of the submission is recorded.
type Record struct {
	Kind      RecordKind `json:"kind"`
	Content   string     `json:"content,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Session captures one conversation between a user and the AI backend.
// Config holds the recognized options (model, language, persona) frozen at
// creation.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	RoomName  string            `json:"roomName"`
	State     State             `json:"state"`
	Config    map[string]string `json:"config,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	EndedAt   time.Time         `json:"endedAt,omitzero"`
	History   []Record          `json:"history,omitempty"`
}

// Duration reports end minus start, or zero while the session is live.
func (s Session) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.CreatedAt)
}

// Clone returns a deep copy so callers can hold a snapshot without racing
// registry mutations.
func (s Session) Clone() Session {
	out := s
	if s.Config != nil {
		out.Config = make(map[string]string, len(s.Config))
		for k, v := range s.Config {
			out.Config[k] = v
		}
	}
	out.History = append([]Record(nil), s.History...)
	return out
}
