package ai

import (
	"context"
	"fmt"
	"io"
	"iter"

	"google.golang.org/genai"
)

var _ Processor = (*Gemini)(nil)

// Gemini implements Processor on top of the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds the Gemini-backed processor. The model name should not
// start with "models/".
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends one payload and returns the response stream.
func (g *Gemini) Generate(ctx context.Context, content Content) (Stream, error) {
	var parts []*genai.Part
	if content.Instruction != "" {
		parts = append(parts, &genai.Part{Text: content.Instruction})
	}
	if content.Text != "" {
		parts = append(parts, &genai.Part{Text: content.Text})
	}
	if len(content.Data) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: content.MIMEType, Data: content.Data},
		})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty content")
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	next, stop := iter.Pull2(g.client.Models.GenerateContentStream(ctx, g.model, contents, nil))
	return &geminiStream{next: next, stop: stop}, nil
}

// geminiStream adapts the SDK's pull iterator to the Stream contract.
type geminiStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
	buf  []Chunk
}

func (s *geminiStream) Recv() (Chunk, error) {
	for {
		if len(s.buf) > 0 {
			c := s.buf[0]
			s.buf = s.buf[1:]
			return c, nil
		}

		resp, err, ok := s.next()
		if !ok {
			return Chunk{}, io.EOF
		}
		if err != nil {
			return Chunk{}, err
		}
		if len(resp.Candidates) == 0 {
			continue
		}

		sel := resp.Candidates[0]
		if sel.Content != nil {
			for _, p := range sel.Content.Parts {
				switch {
				case p.Text != "":
					s.buf = append(s.buf, Chunk{Kind: ChunkText, Text: p.Text})
				case p.InlineData != nil:
					s.buf = append(s.buf, Chunk{
						Kind:     ChunkAudio,
						Data:     p.InlineData.Data,
						MIMEType: p.InlineData.MIMEType,
					})
				}
			}
		}

		switch sel.FinishReason {
		case genai.FinishReasonUnspecified, genai.FinishReasonStop:
			// keep pulling
		case genai.FinishReasonSafety:
			s.buf = append(s.buf, Chunk{Kind: ChunkError, Err: "response blocked by safety filter"})
		default:
			return Chunk{}, fmt.Errorf("unexpected finish reason: %s", sel.FinishReason)
		}
	}
}

func (s *geminiStream) Close() error {
	s.stop()
	return nil
}
