package session

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	model "github.com/cloudy-assistant/backend/internal/model/session"
	"github.com/cloudy-assistant/backend/internal/service/ai"
)

// Event is one element of the ordered result stream for a media submission.
type Event interface{ event() }

// TextEvent carries one assistant text chunk.
type TextEvent struct {
	Text string
}

// AudioEvent carries one synthesized audio chunk. Data is empty until
// text-to-speech is implemented; the event still flows so clients can wire
// their playback path.
type AudioEvent struct {
	Data       []byte
	Format     string
	SampleRate int
	Channels   int
}

// ProcessingErrorEvent reports an AI-side failure. Critical means the stream
// broke mid-flight and the client should restart the session; either way the
// session itself stays alive and no partial output is emitted afterwards.
type ProcessingErrorEvent struct {
	Critical bool
	Message  string
}

func (TextEvent) event()            {}
func (AudioEvent) event()           {}
func (ProcessingErrorEvent) event() {}

// AudioDefaults describes the output audio envelope advertised to clients.
type AudioDefaults struct {
	Format     string
	SampleRate int
	Channels   int
}

// Orchestrator drives session lifecycles and routes media submissions to the
// AI processor, translating its chunks into ordered events.
type Orchestrator struct {
	registry  *Registry
	processor ai.Processor
	audio     AudioDefaults
}

// NewOrchestrator wires the orchestrator to its registry and AI port.
func NewOrchestrator(registry *Registry, processor ai.Processor, audio AudioDefaults) *Orchestrator {
	return &Orchestrator{registry: registry, processor: processor, audio: audio}
}

// StartResult is returned from StartSession.
type StartResult struct {
	Session  model.Session
	Greeting string
}

// StartSession creates the session and requests an opening greeting. Greeting
// generation is best effort: any AI failure degrades to the fixed fallback
// and the session still starts. The session leaves this call active.
func (o *Orchestrator) StartSession(ctx context.Context, sessionID, userID, roomName string, config map[string]string) (StartResult, error) {
	if _, err := o.registry.Create(sessionID, userID, roomName, config); err != nil {
		return StartResult{}, err
	}

	greeting := o.generateGreeting(ctx, sessionID)

	err := o.registry.update(sessionID, func(s *model.Session) error {
		s.History = append(s.History, model.Record{
			Kind:      model.RecordGreeting,
			Content:   greeting,
			Timestamp: time.Now().UTC(),
		})
		s.State = model.StateActive
		return nil
	})
	if err != nil {
		return StartResult{}, err
	}

	sess, err := o.registry.Get(sessionID)
	if err != nil {
		return StartResult{}, err
	}
	return StartResult{Session: sess, Greeting: greeting}, nil
}

func (o *Orchestrator) generateGreeting(ctx context.Context, sessionID string) string {
	stream, err := o.processor.Generate(ctx, ai.Content{Instruction: ai.GreetingInstruction})
	if err != nil {
		log.Printf("[orchestrator] greeting generation failed for session=%s: %v", sessionID, err)
		return ai.FallbackGreeting
	}
	defer stream.Close()

	var text string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("[orchestrator] greeting stream failed for session=%s: %v", sessionID, err)
			return ai.FallbackGreeting
		}
		if chunk.Kind == ai.ChunkText {
			text += chunk.Text
		}
	}
	if text == "" {
		return ai.FallbackGreeting
	}
	return text
}

// AudioInput is one decoded audio submission.
type AudioInput struct {
	Data       []byte
	Format     string
	SampleRate int
	Channels   int
}

// ScreenFrame is one decoded screen share frame.
type ScreenFrame struct {
	Data   []byte
	Format string
}

// SubmitAudio routes an audio payload to the AI processor. The returned
// channel yields events in generation order and is closed when the response
// stream is exhausted; callers must drain it before submitting the next input
// for the same session.
func (o *Orchestrator) SubmitAudio(ctx context.Context, sessionID string, in AudioInput) (<-chan Event, error) {
	if err := o.requireActive(sessionID); err != nil {
		return nil, err
	}

	format := in.Format
	if format == "" {
		format = o.audio.Format
	}
	content := ai.Content{
		Instruction: ai.AudioInstruction,
		MIMEType:    "audio/" + format,
		Data:        in.Data,
	}

	out := make(chan Event, 4)
	go o.consume(ctx, sessionID, content, model.RecordUserAudio, out)
	return out, nil
}

// SubmitScreenFrame routes a screen frame to the AI processor, symmetric to
// SubmitAudio with the screen-analysis instruction.
func (o *Orchestrator) SubmitScreenFrame(ctx context.Context, sessionID string, in ScreenFrame) (<-chan Event, error) {
	if err := o.requireActive(sessionID); err != nil {
		return nil, err
	}

	format := in.Format
	if format == "" {
		format = "png"
	}
	content := ai.Content{
		Instruction: ai.ScreenInstruction,
		MIMEType:    "image/" + format,
		Data:        in.Data,
	}

	out := make(chan Event, 4)
	go o.consume(ctx, sessionID, content, model.RecordUserScreen, out)
	return out, nil
}

// EndSession flips the session to its terminal state, removes it from the
// registry and reports how long it ran. A second call for the same id fails
// with ErrSessionNotFound.
func (o *Orchestrator) EndSession(_ context.Context, sessionID string) (time.Duration, error) {
	var duration time.Duration
	err := o.registry.update(sessionID, func(s *model.Session) error {
		s.State = model.StateEnded
		s.EndedAt = time.Now().UTC()
		duration = s.Duration()
		return nil
	})
	if err != nil {
		return 0, err
	}

	o.registry.Remove(sessionID)
	log.Printf("[orchestrator] session %s ended after %s", sessionID, duration)
	return duration, nil
}

func (o *Orchestrator) requireActive(sessionID string) error {
	sess, err := o.registry.Get(sessionID)
	if err != nil {
		return err
	}
	if sess.State != model.StateActive {
		return ErrSessionNotFound
	}
	return nil
}

// consume drains one AI response stream into the event channel, applying the
// error-driven-silence policy: failures emit an error event and nothing else,
// and the session stays active.
func (o *Orchestrator) consume(ctx context.Context, sessionID string, content ai.Content, kind model.RecordKind, out chan<- Event) {
	defer close(out)

	err := o.registry.update(sessionID, func(s *model.Session) error {
		if s.State != model.StateActive {
			return ErrSessionNotFound
		}
		s.History = append(s.History, model.Record{Kind: kind, Timestamp: time.Now().UTC()})
		return nil
	})
	if err != nil {
		out <- ProcessingErrorEvent{Critical: true, Message: err.Error()}
		return
	}

	stream, err := o.processor.Generate(ctx, content)
	if err != nil {
		log.Printf("[orchestrator] generate failed for session=%s: %v", sessionID, err)
		out <- ProcessingErrorEvent{Critical: true, Message: err.Error()}
		return
	}
	defer stream.Close()

	var sentText, sentAudio bool
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			// Audio submissions always answer with an audio envelope after
			// the text, even when the model itself produced none; synthesis
			// is unimplemented so the payload stays empty either way.
			if kind == model.RecordUserAudio && sentText && !sentAudio {
				out <- AudioEvent{
					Format:     o.audio.Format,
					SampleRate: o.audio.SampleRate,
					Channels:   o.audio.Channels,
				}
			}
			return
		}
		if err != nil {
			log.Printf("[orchestrator] stream broke for session=%s: %v", sessionID, err)
			out <- ProcessingErrorEvent{Critical: true, Message: err.Error()}
			return
		}

		switch chunk.Kind {
		case ai.ChunkText:
			if chunk.Text == "" {
				continue
			}
			uerr := o.registry.update(sessionID, func(s *model.Session) error {
				s.History = append(s.History, model.Record{
					Kind:      model.RecordAssistantText,
					Content:   chunk.Text,
					Timestamp: time.Now().UTC(),
				})
				return nil
			})
			if uerr != nil {
				// Session vanished mid-stream (disconnect cleanup); stop quietly.
				return
			}
			sentText = true
			out <- TextEvent{Text: chunk.Text}
		case ai.ChunkAudio:
			// Synthesis is not implemented; forward the envelope only.
			sentAudio = true
			out <- AudioEvent{
				Format:     o.audio.Format,
				SampleRate: o.audio.SampleRate,
				Channels:   o.audio.Channels,
			}
		case ai.ChunkError:
			log.Printf("[orchestrator] processing error for session=%s: %s", sessionID, chunk.Err)
			out <- ProcessingErrorEvent{Message: chunk.Err}
		}
	}
}
