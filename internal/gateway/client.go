package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amazon11335/fraudwatch/internal/detector"
)

const classifyPrompt = `Analyze the fraud risk of the following text and answer with a JSON object only:
{
  "riskScore": risk score between 0 and 100,
  "riskLevel": "safe/low/medium/high/critical",
  "fraudTypes": ["detected fraud types"],
  "keyIndicators": ["key risk indicators"],
  "recommendation": "safety advice"
}

Text: %q`

// Verdict is the externally consumed classification output.
type Verdict struct {
	RiskScore      float64            `json:"riskScore"`
	RiskLevel      detector.RiskLevel `json:"riskLevel"`
	FraudTypes     []string           `json:"fraudTypes"`
	KeyIndicators  []string           `json:"keyIndicators"`
	Recommendation string             `json:"recommendation"`
	Offline        bool               `json:"isOffline"`
}

// chatRequest is an OpenAI-compatible chat completion request.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat completion reply we consume.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Client calls an OpenAI-compatible chat-completions endpoint for text
// classification.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

// NewClient creates a classification client. baseURL should point at the
// API root (e.g. https://api.deepseek.com/v1).
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Health probes the endpoint with a one-token request. A 400 still counts
// as reachable: the endpoint answered, only the probe payload was refused.
func (c *Client) Health(ctx context.Context) bool {
	req := chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: "test"}},
		MaxTokens: 1,
	}
	resp, err := c.post(ctx, req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode < 300 || resp.StatusCode == http.StatusBadRequest
}

// Classify sends one classification request with a short output budget.
// A well-formed JSON reply is parsed directly; anything else goes through
// heuristic extraction rather than failing.
func (c *Client) Classify(ctx context.Context, text string) (*Verdict, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: fmt.Sprintf(classifyPrompt, text)}},
		MaxTokens:   300,
		Temperature: 0.3,
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("classification endpoint returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)

	var verdict Verdict
	if err := json.Unmarshal([]byte(content), &verdict); err == nil && verdict.RiskLevel != "" {
		if verdict.RiskScore > 100 {
			verdict.RiskScore = 100
		}
		if verdict.RiskScore < 0 {
			verdict.RiskScore = 0
		}
		return &verdict, nil
	}

	// The model ignored the JSON instruction; salvage what we can.
	return parseLoose(content), nil
}

func (c *Client) post(ctx context.Context, req chatRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.httpc.Do(httpReq)
}
