package openaicompat

import (
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	"github.com/llmcouncil/go-llm-council/pkg/llm"

	"github.com/d4l-data4life/go-svc/pkg/logging"
)

// Client implements llm.Client against any OpenAI-compatible chat completion
// endpoint. All supported providers (and self-hosted gateways) speak this
// dialect, so one implementation covers the whole catalog.
type Client struct {
	openai *openai.Client
}

// Config defines the settings for one provider endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient builds a new llm.Client backed by the official OpenAI Go SDK.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	opts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))

	openaiClient := openai.NewClient(opts...)

	logging.LogDebugf("Initialized OpenAI-compatible client (base=%s, timeout=%s)",
		cfg.BaseURL, cfg.Timeout)

	return &Client{openai: &openaiClient}
}

// Complete sends a non-streaming chat completion.
func (c *Client) Complete(ctx context.Context, modelID string, messages []llm.ChatMessage) (*llm.Completion, error) {
	start := time.Now()

	resp, err := c.openai.Chat.Completions.New(ctx, buildChatParams(modelID, messages))
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return &llm.Completion{
			ModelID:   modelID,
			LatencyMS: latency,
			Err:       errors.Wrap(err, "chat completion failed"),
		}, nil
	}
	if len(resp.Choices) == 0 {
		return &llm.Completion{
			ModelID:   modelID,
			LatencyMS: latency,
			Err:       errors.New("provider returned an empty response"),
		}, nil
	}

	content := resp.Choices[0].Message.Content
	completion := &llm.Completion{
		ModelID:   modelID,
		Content:   &content,
		LatencyMS: latency,
	}
	if resp.Usage.TotalTokens > 0 {
		completion.TokensInput = intPtr(int(resp.Usage.PromptTokens))
		completion.TokensOutput = intPtr(int(resp.Usage.CompletionTokens))
	}
	return completion, nil
}

// Stream starts a streaming chat completion. The returned channel always
// ends with exactly one terminal chunk; upstream failures are folded into it
// together with whatever content arrived before the failure.
func (c *Client) Stream(ctx context.Context, modelID string, messages []llm.ChatMessage) (<-chan llm.StreamChunk, error) {
	start := time.Now()
	stream := c.openai.Chat.Completions.NewStreaming(ctx, buildChatParams(modelID, messages))
	chunkChan := make(chan llm.StreamChunk, 10)

	go func() {
		defer close(chunkChan)
		defer stream.Close()

		var builder strings.Builder
		var tokensInput, tokensOutput *int
		sawContent := false

		for stream.Next() {
			chunk := stream.Current()
			if chunk.Usage.TotalTokens > 0 {
				tokensInput = intPtr(int(chunk.Usage.PromptTokens))
				tokensOutput = intPtr(int(chunk.Usage.CompletionTokens))
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				sawContent = true
				builder.WriteString(choice.Delta.Content)
				chunkChan <- llm.TokenChunk(modelID, choice.Delta.Content)
			}
		}

		completion := &llm.Completion{
			ModelID:      modelID,
			TokensInput:  tokensInput,
			TokensOutput: tokensOutput,
			LatencyMS:    time.Since(start).Milliseconds(),
		}
		if sawContent {
			content := builder.String()
			completion.Content = &content
		}
		if err := stream.Err(); err != nil {
			completion.Err = errors.Wrap(err, "streaming failed")
			completion.TokensInput = nil
			completion.TokensOutput = nil
		}
		chunkChan <- llm.CompleteChunk(completion)
	}()

	return chunkChan, nil
}

func buildChatParams(modelID string, messages []llm.ChatMessage) openai.ChatCompletionNewParams {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case llm.RoleAssistant:
			converted = append(converted, openai.ChatCompletionMessageParamOfAssistant(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(modelID),
		Messages: converted,
	}
}

func intPtr(i int) *int {
	return &i
}
