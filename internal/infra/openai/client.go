package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/service"
)

var (
	errStreamDone    = errors.New("stream done")
	errStreamStopped = errors.New("consumer stopped")
)

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client streams chat completions from an OpenAI compatible API.
type Client struct {
	baseURL     string
	model       string
	credentials service.CredentialProvider
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(cfg Config, credentials service.CredentialProvider, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	return &Client{
		baseURL:     baseURL,
		model:       cfg.Model,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With(zap.String("service", "openai")),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Messages []chatMessage `json:"messages"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
}

// Stream returns the generated text as a lazy sequence of fragments.
// The request is sent when the sequence is first ranged over.
func (c *Client) Stream(ctx context.Context, req service.GenerationRequest) iter.Seq2[string, error] {
	var used atomic.Bool

	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			yield("", service.ErrStreamConsumed)
			return
		}

		key, ok := c.credentials.APIKey()
		if !ok {
			yield("", service.ErrNotConfigured)
			return
		}

		resp, err := c.open(ctx, key, req)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		err = streamSSE(resp.Body, func(_ string, data string) error {
			data = strings.TrimSpace(data)
			if data == "" {
				return nil
			}
			if data == "[DONE]" {
				return errStreamDone
			}

			var chunk chatChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				c.logger.Debug("skipping undecodable chunk", zap.Error(err))
				return nil
			}
			if chunk.Error != nil {
				return fmt.Errorf("openai stream error: %s", chunk.Error.Message)
			}
			if len(chunk.Choices) == 0 {
				return nil
			}

			token := chunk.Choices[0].Delta.Content
			if token == "" {
				return nil
			}
			if !yield(token, nil) {
				return errStreamStopped
			}
			return nil
		})

		switch {
		case err == nil, errors.Is(err, errStreamDone), errors.Is(err, errStreamStopped):
			return
		default:
			yield("", err)
		}
	}
}

func (c *Client) open(ctx context.Context, key string, req service.GenerationRequest) (*http.Response, error) {
	body := chatRequest{
		Model:  c.model,
		Stream: true,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	c.logger.Debug("opening stream", zap.String("model", c.model))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()

	return nil, &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
}

func errorMessage(raw []byte) string {
	var payload struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
