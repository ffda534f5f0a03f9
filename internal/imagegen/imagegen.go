// Package imagegen calls an external text-to-image HTTP API (DeepAI-style)
// to generate an image for a post prompt.
package imagegen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/socialapi-dev/socialapi/internal/config"
	"github.com/socialapi-dev/socialapi/internal/logger"
)

const clientTimeout = 60 * time.Second // image generation is slow

type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func New(cfg *config.ImageGen, apiKey string) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: clientTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

type generateResponse struct {
	OutputURL string `json:"output_url"`
}

// Generate submits the prompt and returns the URL of the generated image.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	logger.Log.Debug("generating image", "prompt", prompt)

	form := url.Values{}
	form.Set("text", prompt)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("image generation API returned an error: %d - %s", resp.StatusCode, string(body))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode image generation response: %w", err)
	}
	if out.OutputURL == "" {
		return "", fmt.Errorf("image generation response is missing output_url")
	}
	return out.OutputURL, nil
}
