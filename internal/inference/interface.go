package inference

import "context"

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Entry is one vocabulary entry extracted from free text.
type Entry struct {
	Title       string `json:"title"`
	Meaning     string `json:"meaning"`
	Explanation string `json:"explanation"`
	Example     string `json:"example"`
	Category    string `json:"category"`
}

// Client extracts vocabulary entries from a user's free-text input.
type Client interface {
	ExtractEntries(ctx context.Context, input string) ([]Entry, error)
}
