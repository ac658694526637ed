package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/llmcouncil/go-llm-council/pkg/llm"

	"github.com/d4l-data4life/go-svc/pkg/logging"
)

// Client implements llm.Client for a local Ollama instance. Ollama speaks its
// own newline-delimited JSON streaming dialect, so it gets a dedicated
// adapter instead of the OpenAI-compatible one.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the Ollama client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new Ollama client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Minute
	}

	logging.LogDebugf("Initialized Ollama client with URL: %s (timeout: %s)",
		config.BaseURL, config.Timeout)

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// Complete sends a non-streaming chat request.
func (c *Client) Complete(ctx context.Context, modelID string, messages []llm.ChatMessage) (*llm.Completion, error) {
	start := time.Now()

	respData, err := c.post(ctx, convertRequest(modelID, messages, false))
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return &llm.Completion{ModelID: modelID, LatencyMS: latency, Err: err}, nil
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(respData, &ollamaResp); err != nil {
		return &llm.Completion{
			ModelID:   modelID,
			LatencyMS: latency,
			Err:       errors.Wrap(err, "failed to unmarshal response"),
		}, nil
	}

	content := ollamaResp.Message.Content
	return &llm.Completion{
		ModelID:      modelID,
		Content:      &content,
		TokensInput:  countPtr(ollamaResp.PromptEvalCount),
		TokensOutput: countPtr(ollamaResp.EvalCount),
		LatencyMS:    latency,
	}, nil
}

// Stream sends a streaming chat request. Ollama emits one JSON object per
// line; the last one has done=true and carries the token counts.
func (c *Client) Stream(ctx context.Context, modelID string, messages []llm.ChatMessage) (<-chan llm.StreamChunk, error) {
	start := time.Now()

	reqData, err := json.Marshal(convertRequest(modelID, messages, true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	logging.LogDebugf("Starting Ollama streaming chat: model=%s messages=%d", modelID, len(messages))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(reqData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(body))
	}

	chunkChan := make(chan llm.StreamChunk, 10)
	go c.streamResponse(resp.Body, modelID, start, chunkChan)
	return chunkChan, nil
}

// streamResponse reads streaming responses and sends them to the channel
func (c *Client) streamResponse(body io.ReadCloser, modelID string, start time.Time, chunkChan chan<- llm.StreamChunk) {
	defer close(chunkChan)
	defer body.Close()

	var builder strings.Builder
	var tokensInput, tokensOutput *int
	sawContent := false
	var streamErr error

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk ollamaChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			streamErr = errors.Wrap(err, "failed to unmarshal chunk")
			break
		}

		if chunk.Message.Content != "" {
			sawContent = true
			builder.WriteString(chunk.Message.Content)
			chunkChan <- llm.TokenChunk(modelID, chunk.Message.Content)
		}

		if chunk.Done {
			tokensInput = countPtr(chunk.PromptEvalCount)
			tokensOutput = countPtr(chunk.EvalCount)
			break
		}
	}
	if streamErr == nil {
		if err := scanner.Err(); err != nil {
			streamErr = errors.Wrap(err, "error reading stream")
		}
	}

	completion := &llm.Completion{
		ModelID:      modelID,
		TokensInput:  tokensInput,
		TokensOutput: tokensOutput,
		LatencyMS:    time.Since(start).Milliseconds(),
		Err:          streamErr,
	}
	if sawContent {
		content := builder.String()
		completion.Content = &content
	}
	chunkChan <- llm.CompleteChunk(completion)
}

func (c *Client) post(ctx context.Context, req ollamaChatRequest) ([]byte, error) {
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(reqData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func convertRequest(modelID string, messages []llm.ChatMessage, stream bool) ollamaChatRequest {
	converted := make([]ollamaMessage, len(messages))
	for i, msg := range messages {
		converted[i] = ollamaMessage{Role: msg.Role, Content: msg.Content}
	}
	return ollamaChatRequest{Model: modelID, Messages: converted, Stream: stream}
}

func countPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
