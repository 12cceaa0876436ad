package gemini

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/aliskhannn/villager-test-bot/internal/service"
)

type Config struct {
	BaseURL string // API root, SDK default when empty
	Model   string
	Timeout time.Duration
}

// Client streams generated text from the Gemini API.
type Client struct {
	baseURL     string
	model       string
	credentials service.CredentialProvider
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(cfg Config, credentials service.CredentialProvider, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With(zap.String("service", "gemini")),
	}
}

// Stream returns the generated text as a lazy sequence of fragments.
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

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      key,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  c.httpClient,
			HTTPOptions: genai.HTTPOptions{
				BaseURL: c.baseURL,
			},
		})
		if err != nil {
			yield("", fmt.Errorf("create gemini client: %w", err))
			return
		}

		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		}

		c.logger.Debug("opening stream", zap.String("model", c.model))

		for resp, err := range client.Models.GenerateContentStream(ctx, c.model, genai.Text(req.User), config) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}

			token := fragmentText(resp)
			if token == "" {
				continue
			}
			if !yield(token, nil) {
				return
			}
		}
	}
}

func fragmentText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
