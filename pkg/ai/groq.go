package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

// GroqClient calls the Groq chat completion API to analyze transcripts. A
// circuit breaker keeps a degraded upstream from stalling every request;
// transient failures inside a request are retried with backoff.
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

var _ Extractor = (*GroqClient)(nil)

// NewGroqClient creates a client from the AI config section.
func NewGroqClient(cfg config.AIConfig) *GroqClient {
	model := cfg.Model
	if model == "" {
		model = "llama-3.1-70b-versatile"
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.groq.com"
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "groq",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &GroqClient{
		apiKey:  cfg.APIKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: breaker,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const extractionPrompt = `Analyze the following meeting transcript. Respond with JSON only, no prose, in this shape:
{"summary": "...", "action_items": [{"description": "...", "owner": "...", "priority": "high|medium|low"}]}

Transcript:
%s`

// Extract sends the transcript for analysis and parses the structured reply.
func (g *GroqClient) Extract(ctx context.Context, transcript string) (*Analysis, error) {
	content, err := g.complete(ctx, fmt.Sprintf(extractionPrompt, transcript))
	if err != nil {
		return nil, err
	}
	return parseAnalysis(content)
}

func (g *GroqClient) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   8000,
	})
	if err != nil {
		return "", err
	}

	var content string
	operation := func() error {
		result, err := g.breaker.Execute(func() (any, error) {
			return g.doRequest(ctx, body)
		})
		if err != nil {
			if isTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		content = result.(string)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return content, nil
}

func (g *GroqClient) doRequest(ctx context.Context, body []byte) (string, error) {
	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return "", &apiError{status: resp.StatusCode}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return cr.Choices[0].Message.Content, nil
}

type apiError struct {
	status int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("model api returned status %d", e.status)
}

// isTransient reports whether a failed call is worth retrying: server
// errors and rate limits are, client errors are not.
func isTransient(err error) bool {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status >= 500 || ae.status == http.StatusTooManyRequests
	}
	// An open breaker may close before the retry budget runs out.
	return true
}
