package ai

import (
	"context"
	"errors"
	"io"
	"testing"

	"google.golang.org/genai"
)

// scripted builds a geminiStream over a fixed response sequence, the shape the
// SDK's pull iterator produces.
type scriptedResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func newScriptedStream(script []scriptedResponse) *geminiStream {
	i := 0
	return &geminiStream{
		next: func() (*genai.GenerateContentResponse, error, bool) {
			if i >= len(script) {
				return nil, nil, false
			}
			s := script[i]
			i++
			return s.resp, s.err, true
		},
		stop: func() {},
	}
}

func textResponse(finish genai.FinishReason, texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, &genai.Part{Text: t})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: parts},
			FinishReason: finish,
		}},
	}
}

func drainStream(t *testing.T, s *geminiStream) ([]Chunk, error) {
	t.Helper()
	var chunks []Chunk
	for {
		c, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, c)
	}
}

func TestGeminiStreamText(t *testing.T) {
	s := newScriptedStream([]scriptedResponse{
		{resp: textResponse(genai.FinishReasonUnspecified, "Hello", " world")},
		{resp: textResponse(genai.FinishReasonStop, "!")},
	})

	chunks, err := drainStream(t, s)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	want := []string{"Hello", " world", "!"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), chunks)
	}
	for i, text := range want {
		if chunks[i].Kind != ChunkText || chunks[i].Text != text {
			t.Fatalf("chunk %d: expected text %q, got %+v", i, text, chunks[i])
		}
	}
}

func TestGeminiStreamInlineData(t *testing.T) {
	s := newScriptedStream([]scriptedResponse{
		{resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{
					InlineData: &genai.Blob{MIMEType: "audio/wav", Data: []byte{1, 2, 3}},
				}}},
				FinishReason: genai.FinishReasonStop,
			}},
		}},
	})

	chunks, err := drainStream(t, s)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Kind != ChunkAudio {
		t.Fatalf("expected one audio chunk, got %v", chunks)
	}
	if chunks[0].MIMEType != "audio/wav" || len(chunks[0].Data) != 3 {
		t.Fatalf("unexpected audio chunk: %+v", chunks[0])
	}
}

func TestGeminiStreamSafetyBlock(t *testing.T) {
	s := newScriptedStream([]scriptedResponse{
		{resp: textResponse(genai.FinishReasonUnspecified, "partial")},
		{resp: textResponse(genai.FinishReasonSafety)},
	})

	chunks, err := drainStream(t, s)
	if err != nil {
		t.Fatalf("safety block should surface as a chunk, not an error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected text + error chunk, got %v", chunks)
	}
	if chunks[1].Kind != ChunkError || chunks[1].Err == "" {
		t.Fatalf("expected error chunk, got %+v", chunks[1])
	}
}

func TestGeminiStreamAbnormalFinish(t *testing.T) {
	s := newScriptedStream([]scriptedResponse{
		{resp: textResponse(genai.FinishReasonMaxTokens, "cut")},
	})

	_, err := s.Recv()
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected a hard error, got %v", err)
	}
}

func TestGeminiStreamTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	s := newScriptedStream([]scriptedResponse{
		{resp: textResponse(genai.FinishReasonUnspecified, "hi")},
		{err: boom},
	})

	if c, err := s.Recv(); err != nil || c.Text != "hi" {
		t.Fatalf("expected first chunk, got %+v / %v", c, err)
	}
	if _, err := s.Recv(); !errors.Is(err, boom) {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}
}

func TestGeminiGenerateEmptyContent(t *testing.T) {
	g := &Gemini{model: "gemini-1.5-flash"}
	if _, err := g.Generate(context.Background(), Content{}); err == nil {
		t.Fatal("empty content should be rejected before any API call")
	}
}

func TestGeminiStreamSkipsEmptyCandidates(t *testing.T) {
	s := newScriptedStream([]scriptedResponse{
		{resp: &genai.GenerateContentResponse{}},
		{resp: textResponse(genai.FinishReasonStop, "after the gap")},
	})

	chunks, err := drainStream(t, s)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "after the gap" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}
