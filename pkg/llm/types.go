package llm

import (
	"context"
)

// Role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one entry of the conversational context sent to a model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is the terminal result of one model invocation. Content is nil
// when the model produced nothing before failing; token counts are nil when
// the provider did not report usage. LatencyMS is wall-clock time from call
// issuance to the terminal element, measured by the adapter.
type Completion struct {
	ModelID      string
	Content      *string
	TokensInput  *int
	TokensOutput *int
	LatencyMS    int64
	Err          error
}

// ChunkKind discriminates stream elements.
type ChunkKind string

const (
	ChunkKindToken    ChunkKind = "token"
	ChunkKindComplete ChunkKind = "complete"
)

// StreamChunk is one element of a model's output stream: either a token
// fragment or the single terminal completion. A stream carries exactly one
// terminal chunk, even on failure.
type StreamChunk struct {
	Kind       ChunkKind
	ModelID    string
	Token      string
	Completion *Completion
}

// Client is the uniform capability every model backend exposes. Stream
// returns a lazy, finite, non-restartable sequence of chunks ending in a
// terminal completion; implementations synthesize the terminal chunk from
// accumulated partial content when the upstream call fails midway.
type Client interface {
	Complete(ctx context.Context, modelID string, messages []ChatMessage) (*Completion, error)
	Stream(ctx context.Context, modelID string, messages []ChatMessage) (<-chan StreamChunk, error)
}

// TokenChunk builds a fragment element.
func TokenChunk(modelID, token string) StreamChunk {
	return StreamChunk{Kind: ChunkKindToken, ModelID: modelID, Token: token}
}

// CompleteChunk builds the terminal element.
func CompleteChunk(c *Completion) StreamChunk {
	return StreamChunk{Kind: ChunkKindComplete, ModelID: c.ModelID, Completion: c}
}
