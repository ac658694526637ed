package testutils

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/d4l-data4life/go-svc/pkg/logging"

	"github.com/llmcouncil/go-llm-council/pkg/llm"
)

// GetRequestPayload converts a given object into a reader of that obect as json payload
func GetRequestPayload(payload interface{}) io.Reader {
	bytes, _ := json.Marshal(payload)
	return strings.NewReader(string(bytes))
}

func MustJSON[T any](object T) datatypes.JSON {
	bytes, err := json.Marshal(object)
	if err != nil {
		logging.LogErrorfCtx(context.Background(), err, "failed marshalling to JSON")
		return nil
	}
	return bytes
}

func Pointerfy[T any](thing T) *T {
	return &thing
}

// ScriptedModel describes how the fake client behaves for one model id:
// which token fragments to stream, the terminal content or failure, and
// the usage metadata reported with the terminal chunk.
type ScriptedModel struct {
	Tokens       []string
	Content      string
	Failure      error
	TokensInput  int
	TokensOutput int
	LatencyMS    int64
	// Delay is inserted before each token, to exercise interleaving.
	Delay time.Duration
}

// FakeClient is a scripted llm.Client for orchestrator and handler
// tests. Unknown model ids fail with llm.ErrUnknownModel.
type FakeClient struct {
	Scripts map[string]ScriptedModel

	mu    sync.Mutex
	calls map[string][][]llm.ChatMessage
}

var _ llm.Client = (*FakeClient)(nil)

func NewFakeClient(scripts map[string]ScriptedModel) *FakeClient {
	return &FakeClient{
		Scripts: scripts,
		calls:   make(map[string][][]llm.ChatMessage),
	}
}

// Calls returns the context each invocation of modelID received.
func (f *FakeClient) Calls(modelID string) [][]llm.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[modelID]
}

func (f *FakeClient) record(modelID string, messages []llm.ChatMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[modelID] = append(f.calls[modelID], messages)
}

func (f *FakeClient) terminal(modelID string) *llm.Completion {
	script := f.Scripts[modelID]
	completion := &llm.Completion{ModelID: modelID, LatencyMS: script.LatencyMS}
	if script.Failure != nil {
		completion.Err = script.Failure
		if script.Content != "" {
			partial := script.Content
			completion.Content = &partial
		}
		return completion
	}
	content := script.Content
	completion.Content = &content
	completion.TokensInput = Pointerfy(script.TokensInput)
	completion.TokensOutput = Pointerfy(script.TokensOutput)
	return completion
}

func (f *FakeClient) Complete(ctx context.Context, modelID string, messages []llm.ChatMessage) (*llm.Completion, error) {
	f.record(modelID, messages)
	if _, ok := f.Scripts[modelID]; !ok {
		return nil, llm.ErrUnknownModel
	}
	return f.terminal(modelID), nil
}

func (f *FakeClient) Stream(ctx context.Context, modelID string, messages []llm.ChatMessage) (<-chan llm.StreamChunk, error) {
	f.record(modelID, messages)
	script, ok := f.Scripts[modelID]
	if !ok {
		return nil, llm.ErrUnknownModel
	}

	chunks := make(chan llm.StreamChunk)
	go func() {
		defer close(chunks)
		for _, token := range script.Tokens {
			if script.Delay > 0 {
				time.Sleep(script.Delay)
			}
			select {
			case <-ctx.Done():
				completion := f.terminal(modelID)
				completion.Err = ctx.Err()
				chunks <- llm.CompleteChunk(completion)
				return
			case chunks <- llm.TokenChunk(modelID, token):
			}
		}
		chunks <- llm.CompleteChunk(f.terminal(modelID))
	}()
	return chunks, nil
}
