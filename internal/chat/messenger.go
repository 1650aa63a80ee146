// Package chat defines the delivery contract the review orchestrator
// speaks. The concrete transport lives outside this module; the
// interactive terminal session and the test doubles implement it here.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksmolina/lexibot/internal/review"
)

//go:generate mockgen -source=messenger.go -destination=../mocks/chat/mock_messenger.go -package=mock_chat

// Button is one response control attached to a message. Token is the
// opaque value the transport echoes back when the button is pressed.
type Button struct {
	Label string
	Token string
}

// Messenger delivers review presentations and plain notifications.
type Messenger interface {
	// SendMessage sends text with response buttons and returns the
	// transport's message id, used later to remove the buttons.
	SendMessage(ctx context.Context, text string, buttons []Button) (string, error)

	// RemoveButtons strips the response controls from a sent message
	// once the item has been answered.
	RemoveButtons(ctx context.Context, messageID string) error

	// Notify sends plain text without controls.
	Notify(ctx context.Context, text string) error
}

// Callback token prefixes. Each presented item carries exactly three
// buttons whose tokens are built from the item id.
const (
	tokenPrefixAgain = "again_"
	tokenPrefixGood  = "good_"
	tokenPrefixEasy  = "easy_"
)

// ResponseButtons builds the Again/Good/Easy controls for an item.
func ResponseButtons(itemID string) []Button {
	return []Button{
		{Label: "🔴 Again", Token: tokenPrefixAgain + itemID},
		{Label: "🟡 Good", Token: tokenPrefixGood + itemID},
		{Label: "🟢 Easy", Token: tokenPrefixEasy + itemID},
	}
}

// ParseToken maps a pressed button's token back to the response kind
// and the item id. Unknown tokens are rejected at this boundary so the
// state machine only ever sees the closed response set.
func ParseToken(token string) (review.Response, string, error) {
	switch {
	case strings.HasPrefix(token, tokenPrefixAgain):
		return review.ResponseAgain, token[len(tokenPrefixAgain):], nil
	case strings.HasPrefix(token, tokenPrefixGood):
		return review.ResponseGood, token[len(tokenPrefixGood):], nil
	case strings.HasPrefix(token, tokenPrefixEasy):
		return review.ResponseEasy, token[len(tokenPrefixEasy):], nil
	}
	return 0, "", fmt.Errorf("unknown callback token %q", token)
}
