package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// ConsoleMessenger renders messages to a terminal. Buttons become
// printed tokens the user types back, so the whole review loop works
// over plain stdin/stdout.
type ConsoleMessenger struct {
	mu   sync.Mutex
	out  io.Writer
	bold *color.Color
}

func NewConsoleMessenger(out io.Writer) *ConsoleMessenger {
	return &ConsoleMessenger{
		out:  out,
		bold: color.New(color.Bold),
	}
}

func (m *ConsoleMessenger) SendMessage(ctx context.Context, text string, buttons []Button) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	messageID := uuid.NewString()
	if _, err := fmt.Fprintf(m.out, "\n%s\n", text); err != nil {
		return "", fmt.Errorf("write message: %w", err)
	}
	if len(buttons) > 0 {
		labels := make([]string, 0, len(buttons))
		for _, b := range buttons {
			labels = append(labels, fmt.Sprintf("%s → type %q", b.Label, b.Token))
		}
		if _, err := m.bold.Fprintf(m.out, "%s\n", strings.Join(labels, "   ")); err != nil {
			return "", fmt.Errorf("write buttons: %w", err)
		}
	}
	return messageID, nil
}

// RemoveButtons on a terminal cannot redraw history; answered items are
// acknowledged instead.
func (m *ConsoleMessenger) RemoveButtons(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintln(m.out, "✓ recorded")
	if err != nil {
		return fmt.Errorf("write acknowledgement: %w", err)
	}
	return nil
}

func (m *ConsoleMessenger) Notify(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := fmt.Fprintf(m.out, "\n%s\n", text); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

var _ Messenger = (*ConsoleMessenger)(nil)
