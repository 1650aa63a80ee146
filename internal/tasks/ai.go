package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// AIParser is the fallback for inputs the regex parser cannot place in
// time: phrasing like "sometime before the weekend" or mixed-language
// sentences with no recognizable date token.
type AIParser struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewAIParser(apiKey, model string) *AIParser {
	return &AIParser{
		client: openai.NewClient(apiKey),
		model:  model,
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (p *AIParser) WithClock(now func() time.Time) *AIParser {
	p.now = now
	return p
}

type aiParsedTask struct {
	Task      string `json:"task"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Priority  string `json:"priority"`
	Category  string `json:"category"`
}

const taskParsePrompt = `You parse one natural-language task (Chinese or English) into JSON.
Current date and time: %s (%s).
Return ONLY a JSON object:
{"task": "<cleaned task description>", "date": "<YYYY-MM-DD or empty>",
"start_time": "<HH:MM or empty>", "end_time": "<HH:MM or empty>",
"priority": "<High|Mid|Low>", "category": "<Work|Study|Health|Life|Other>"}.
Resolve relative dates against the current date. No text outside the JSON.`

// Parse asks the model to structure the task text.
func (p *AIParser) Parse(ctx context.Context, text string, timezone string) (ParsedTask, error) {
	now := p.now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(taskParsePrompt, now.Format("2006-01-02 15:04 Monday"), timezone),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return ParsedTask{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ParsedTask{}, fmt.Errorf("chat completion returned no choices")
	}

	var parsed aiParsedTask
	content := sanitizeJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return ParsedTask{}, fmt.Errorf("decode task JSON: %w", err)
	}

	task := ParsedTask{
		Task:      parsed.Task,
		Date:      parsed.Date,
		StartTime: parsed.StartTime,
		EndTime:   parsed.EndTime,
		Priority:  parsed.Priority,
		Category:  parsed.Category,
	}
	if task.Task == "" {
		task.Task = cleanTaskText(text)
	}
	if task.Priority == "" {
		task.Priority = "Mid"
	}
	if task.Category == "" {
		task.Category = "Other"
	}
	return task, nil
}

// sanitizeJSON strips markdown fences and surrounding prose, keeping
// the first complete top-level JSON object.
func sanitizeJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return content
	}
	depth := 0
	inString := false
	escapeNext := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if escapeNext {
			escapeNext = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escapeNext = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return content[start:]
}
