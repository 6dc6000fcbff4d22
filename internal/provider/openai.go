// Package provider calls the remote text-generation API and normalizes its
// polymorphic response into plain text plus token counts.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrEmptyOutput is returned when the provider answered but the extracted
// text is empty after trimming.
var ErrEmptyOutput = errors.New("empty model output")

// Client talks to an OpenAI-compatible responses endpoint over plain
// net/http. It is safe for concurrent use.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

// Result is a normalized generation outcome.
type Result struct {
	Text           string
	PromptTokens   int
	ResponseTokens int
}

func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
	Input        string `json:"input"`
}

// generateResponse is the union of the two shapes the provider returns:
// an aggregated output_text field, or a structured output list.
type generateResponse struct {
	OutputText string       `json:"output_text"`
	Output     []outputItem `json:"output"`
	Usage      *usage       `json:"usage"`
	Error      *apiError    `json:"error"`
}

type outputItem struct {
	Type    string            `json:"type"`
	Content []contentFragment `json:"content"`
}

type contentFragment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// usage carries both field-naming conventions the provider is known to use.
// Pointers distinguish absent fields from zero counts.
type usage struct {
	InputTokens      *int `json:"input_tokens"`
	OutputTokens     *int `json:"output_tokens"`
	PromptTokens     int  `json:"prompt_tokens"`
	CompletionTokens int  `json:"completion_tokens"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Generate sends instructions + input to the model and returns the
// normalized text with token counts. Transport and API failures come back as
// plain errors; a syntactically valid but textless response is ErrEmptyOutput.
func (c *Client) Generate(ctx context.Context, instructions, input string) (*Result, error) {
	body, err := json.Marshal(generateRequest{
		Model:        c.model,
		Instructions: instructions,
		Input:        input,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failed generateResponse
		if json.Unmarshal(data, &failed) == nil && failed.Error != nil && failed.Error.Message != "" {
			return nil, fmt.Errorf("model API error (status %d): %s", resp.StatusCode, failed.Error.Message)
		}
		return nil, fmt.Errorf("model API error: status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	text := strings.TrimSpace(extractOutputText(&parsed))
	if text == "" {
		return nil, ErrEmptyOutput
	}

	promptTokens, responseTokens := extractUsage(parsed.Usage)
	return &Result{
		Text:           text,
		PromptTokens:   promptTokens,
		ResponseTokens: responseTokens,
	}, nil
}

// extractOutputText prefers the aggregated output_text field; otherwise it
// concatenates every output_text fragment of every message item, in list
// order.
func extractOutputText(resp *generateResponse) string {
	if resp.OutputText != "" {
		return resp.OutputText
	}
	var b strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" {
				b.WriteString(content.Text)
			}
		}
	}
	return b.String()
}

// extractUsage prefers input_tokens/output_tokens and falls back to
// prompt_tokens/completion_tokens. A missing usage object counts as zero.
func extractUsage(u *usage) (promptTokens, responseTokens int) {
	if u == nil {
		return 0, 0
	}
	promptTokens = u.PromptTokens
	if u.InputTokens != nil {
		promptTokens = *u.InputTokens
	}
	responseTokens = u.CompletionTokens
	if u.OutputTokens != nil {
		responseTokens = *u.OutputTokens
	}
	return promptTokens, responseTokens
}
