package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultURL = "https://openrouter.ai/api/v1/chat/completions"

const systemPrompt = "You are a helpful assistant that can also analyze images."

const (
	chatTimeout   = 90 * time.Second
	visionTimeout = 120 * time.Second
)

// StatusError is a non-2xx answer from OpenRouter. Callers that word
// replies for the end user pick it apart with errors.As; transport
// failures stay plain errors.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openrouter %s %d: %s", e.Op, e.Code, e.Body)
}

// Client calls the OpenRouter chat-completions API. The bearer key is
// supplied per call: every user brings their own.
type Client struct {
	Model    string
	Referrer string
	Title    string
	URL      string

	// no client-level timeout: each call sets its own deadline
	httpc *http.Client
}

func New(model, referrer, title string) *Client {
	return &Client{
		Model:    model,
		Referrer: referrer,
		Title:    title,
		URL:      DefaultURL,
		httpc:    &http.Client{},
	}
}

// Chat runs a single-turn text exchange and returns the model's reply
// verbatim.
func (c *Client) Chat(ctx context.Context, apiKey, userText string) (string, error) {
	body := map[string]any{
		"model": c.Model,
		"messages": []any{
			map[string]any{"role": "system", "content": systemPrompt},
			map[string]any{"role": "user", "content": userText},
		},
	}
	return c.complete(ctx, "chat", apiKey, body, chatTimeout)
}

// AnalyzeImage sends a prompt plus an image URL to the vision-capable
// endpoint.
func (c *Client) AnalyzeImage(ctx context.Context, apiKey, prompt, imageURL string) (string, error) {
	body := map[string]any{
		"model": c.Model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": prompt},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": imageURL}},
				},
			},
		},
	}
	return c.complete(ctx, "vision", apiKey, body, visionTimeout)
}

func (c *Client) complete(ctx context.Context, op, apiKey string, body map[string]any, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, "POST", c.URL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if c.Referrer != "" {
		req.Header.Set("HTTP-Referer", c.Referrer)
	}
	if c.Title != "" {
		req.Header.Set("X-Title", c.Title)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(x))}
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("openrouter %s: empty response", op)
	}
	return raw.Choices[0].Message.Content, nil
}
