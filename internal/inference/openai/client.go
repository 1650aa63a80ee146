// Package openai implements the inference client against the OpenAI
// chat-completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/ksmolina/lexibot/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	// Incomplete responses surface as JSON parsing failures
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	// Server errors and rate limiting
	if strings.Contains(errStr, "response error 5") || strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

const extractSystemPrompt = `You extract vocabulary entries from the user's input.
Return ONLY a JSON array. Each element: {"title": "<the word or phrase>",
"meaning": "<translation or short gloss>", "explanation": "<one-sentence
explanation in simple English>", "example": "<one example sentence>",
"category": "<one of: Idiom, Phrase, Word, Slang>"}.
Extract every distinct word or phrase the user seems to be asking about.
No text outside the JSON array.`

// ExtractEntries implements the inference.Client interface.
func (client *Client) ExtractEntries(ctx context.Context, input string) ([]inference.Entry, error) {
	var result []inference.Entry
	if err := retry.Do(
		func() error {
			entries, err := client.extractEntries(ctx, input)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = entries
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
	); err != nil {
		return nil, fmt.Errorf("extract entries: %w", err)
	}
	return result, nil
}

func (client *Client) extractEntries(ctx context.Context, input string) ([]inference.Entry, error) {
	requestBody := chatCompletionRequest{
		Model: client.model,
		Messages: []message{
			{Role: "system", Content: extractSystemPrompt},
			{Role: "user", Content: input},
		},
	}

	var response chatCompletionResponse
	res, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("client.R.Post > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("response error %d: %s", res.StatusCode(), res.String())
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("response error: no choices returned")
	}

	content := response.Choices[0].Message.Content
	var entries []inference.Entry
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		// Models wrap JSON in prose or fences often enough that one
		// repair pass is worth it before retrying the whole call.
		repaired := extractJSONArray(content)
		if repairErr := json.Unmarshal([]byte(repaired), &entries); repairErr != nil {
			slog.Default().Warn("JSON parsing error in extraction response",
				"error", err,
				"content", content)
			return nil, fmt.Errorf("json.Unmarshal > %w", err)
		}
	}
	return entries, nil
}

// extractJSONArray pulls the first complete top-level JSON array out of
// text that may carry markdown fences or commentary around it.
func extractJSONArray(content string) string {
	firstBracket := -1
	depth := 0
	inString := false
	escapeNext := false

	for i, ch := range content {
		if escapeNext {
			escapeNext = false
			continue
		}
		if ch == '\\' && inString {
			escapeNext = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '[':
			if firstBracket == -1 {
				firstBracket = i
			}
			depth++
		case ']':
			depth--
			if depth == 0 && firstBracket != -1 {
				return content[firstBracket : i+1]
			}
		}
	}
	return content
}
