// Package dealerai is the table's generative dealer persona, Vic: event
// commentary, a one-shot avatar and a free-form chat widget, all backed
// by an OpenRouter-compatible chat-completions API. Every call is best
// effort — on failure the callers fall back to canned lines and the game
// never waits on the network.
package dealerai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the OpenRouter API endpoint
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Config holds the settings for the dealer AI client
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	ImageModel string
	Timeout    time.Duration
}

// Message is a single chat-completion message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Modalities  []string  `json:"modalities,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Images  []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenRouter-compatible chat completions endpoint
type Client struct {
	cfg    Config
	http   *http.Client
	logger *log.Logger
}

// NewClient creates a dealer AI client. An empty API key is allowed;
// every request will then fail fast and callers use their fallbacks.
func NewClient(cfg Config, logger *log.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.WithPrefix("dealerai"),
	}
}

// complete performs one chat completion round trip
func (c *Client) complete(ctx context.Context, req completionRequest) (completionResponse, error) {
	var out completionResponse

	if c.cfg.APIKey == "" {
		return out, fmt.Errorf("API key not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return out, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Title", "vicjack")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("completion request failed: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// DealerComment asks the model for a one-liner reacting to the table.
func (c *Client) DealerComment(ctx context.Context, prompt string) (string, error) {
	resp, err := c.complete(ctx, completionRequest{
		Model:       c.cfg.Model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   60,
		Temperature: 1.1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatCompletion runs a multi-turn completion for the chat widget.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.complete(ctx, completionRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateAvatar requests a portrait of Vic from the image model and
// returns it as a data URL. Best effort: callers fall back to the
// default avatar on any error.
func (c *Client) GenerateAvatar(ctx context.Context) (string, error) {
	resp, err := c.complete(ctx, completionRequest{
		Model:      c.cfg.ImageModel,
		Messages:   []Message{{Role: "user", Content: avatarPrompt}},
		Modalities: []string{"image", "text"},
	})
	if err != nil {
		return "", err
	}
	for _, choice := range resp.Choices {
		for _, img := range choice.Message.Images {
			if img.ImageURL.URL != "" {
				return img.ImageURL.URL, nil
			}
		}
	}
	return "", fmt.Errorf("no image in response")
}
