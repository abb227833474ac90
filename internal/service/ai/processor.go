package ai

import "context"

// Processor is the port to the generative backend: it turns one content
// payload into a lazy, finite, non-restartable stream of response chunks.
// Implementations must be safe for use from multiple sessions concurrently.
type Processor interface {
	Generate(ctx context.Context, content Content) (Stream, error)
}

// Content is one request payload for the backend. Instruction carries the
// fixed system prompt; Data, when present, is the raw media payload with its
// MIME type.
type Content struct {
	Instruction string
	Text        string
	MIMEType    string
	Data        []byte
}

// ChunkKind tags one element of a response stream.
type ChunkKind int

const (
	// ChunkText carries a piece of generated text.
	ChunkText ChunkKind = iota
	// ChunkAudio carries generated audio bytes.
	ChunkAudio
	// ChunkError reports a recoverable processing failure inside the
	// stream; the stream may still terminate normally afterwards.
	ChunkError
)

// Chunk is one typed element of a response stream.
type Chunk struct {
	Kind     ChunkKind
	Text     string
	Data     []byte
	MIMEType string
	Err      string
}

// Stream yields response chunks until io.EOF. A non-EOF error from Recv
// means the stream broke mid-flight and cannot be resumed.
type Stream interface {
	Recv() (Chunk, error)
	Close() error
}
