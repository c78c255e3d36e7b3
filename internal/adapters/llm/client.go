// Package llm adapta o cliente OpenAI-compatível do go-kit à porta TextGenerator.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	kitllm "github.com/anatolykoptev/go-kit/llm"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

type Config struct {
	APIBase      string
	APIKey       string
	FallbackKeys []string
	Model        string
	MaxTokens    int
	Temperature  float64
	HTTPTimeout  time.Duration
}

type Client struct {
	client *kitllm.Client
}

var _ ports.TextGenerator = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	if cfg.APIBase == "" || cfg.Model == "" {
		return nil, fmt.Errorf("llm api base and model are required")
	}

	httpTimeout := cfg.HTTPTimeout
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}

	client := kitllm.NewClient(cfg.APIBase, cfg.APIKey, cfg.Model,
		kitllm.WithFallbackKeys(cfg.FallbackKeys),
		kitllm.WithMaxTokens(cfg.MaxTokens),
		kitllm.WithTemperature(cfg.Temperature),
		kitllm.WithHTTPClient(&http.Client{Timeout: httpTimeout}),
	)
	return &Client{client: client}, nil
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.client.Complete(ctx, system, prompt)
}
