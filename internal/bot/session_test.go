package bot

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_bot "github.com/ksmolina/lexibot/internal/mocks/bot"
	mock_chat "github.com/ksmolina/lexibot/internal/mocks/chat"
	"github.com/ksmolina/lexibot/internal/store"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	}
}

func overdueItem(id string) store.Item {
	return store.Item{
		ID:           id,
		Title:        "word " + id,
		ReviewCount:  3,
		LastReviewed: store.ParseDate("2024-05-01"),
		NextReview:   store.ParseDate("2024-05-20"),
	}
}

func TestStartSession(t *testing.T) {
	t.Run("Presents each selected item with response buttons", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)

		items := []store.Item{overdueItem("a"), overdueItem("b")}
		source.EXPECT().FetchAll(gomock.Any()).Return(items)
		messenger.EXPECT().
			SendMessage(gomock.Any(), gomock.Any(), gomock.Len(3)).
			Return("msg-1", nil).
			Times(2)

		orchestrator := NewOrchestrator(source, updater, messenger, 5).
			WithClock(fixedClock()).
			WithRand(rand.New(rand.NewSource(1)))
		session, err := orchestrator.StartSession(context.Background())

		require.NoError(t, err)
		assert.Len(t, session.Items, 2)
		assert.Equal(t, 2, session.Remaining())
	})

	t.Run("Empty pool sends a notification and no items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)

		source.EXPECT().FetchAll(gomock.Any()).Return([]store.Item{})
		messenger.EXPECT().Notify(gomock.Any(), "No vocabulary entries found to review.").Return(nil)

		orchestrator := NewOrchestrator(source, updater, messenger, 5).WithClock(fixedClock())
		session, err := orchestrator.StartSession(context.Background())

		require.NoError(t, err)
		assert.Empty(t, session.Items)
	})

	t.Run("Batch size bounds the session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)

		items := []store.Item{overdueItem("a"), overdueItem("b"), overdueItem("c")}
		source.EXPECT().FetchAll(gomock.Any()).Return(items)
		messenger.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return("m", nil).Times(2)

		orchestrator := NewOrchestrator(source, updater, messenger, 2).
			WithClock(fixedClock()).
			WithRand(rand.New(rand.NewSource(1)))
		session, err := orchestrator.StartSession(context.Background())

		require.NoError(t, err)
		assert.Len(t, session.Items, 2)
	})
}

func TestHandleResponse(t *testing.T) {
	newSession := func(t *testing.T, orchestrator *Orchestrator, source *mock_bot.MockItemSource, messenger *mock_chat.MockMessenger) *Session {
		t.Helper()
		source.EXPECT().FetchAll(gomock.Any()).Return([]store.Item{overdueItem("a")})
		messenger.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return("msg-a", nil)
		session, err := orchestrator.StartSession(context.Background())
		require.NoError(t, err)
		return session
	}

	t.Run("Good answer persists the new state and removes the buttons", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)
		orchestrator := NewOrchestrator(source, updater, messenger, 5).WithClock(fixedClock())

		session := newSession(t, orchestrator, source, messenger)

		today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		updater.EXPECT().
			UpdateReviewState(gomock.Any(), "a", today, today.AddDate(0, 0, 8), 4).
			Return(nil)
		messenger.EXPECT().RemoveButtons(gomock.Any(), "msg-a").Return(nil)

		require.NoError(t, orchestrator.HandleResponse(context.Background(), session, "good_a"))
		assert.True(t, session.Answered("a"))
		assert.Equal(t, 0, session.Remaining())
	})

	t.Run("Failed update notifies the user and keeps the item unanswered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)
		orchestrator := NewOrchestrator(source, updater, messenger, 5).WithClock(fixedClock())

		session := newSession(t, orchestrator, source, messenger)

		updater.EXPECT().
			UpdateReviewState(gomock.Any(), "a", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("store unavailable"))
		messenger.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		err := orchestrator.HandleResponse(context.Background(), session, "easy_a")
		assert.Error(t, err)
		assert.False(t, session.Answered("a"))
	})

	t.Run("Duplicate answer is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)
		orchestrator := NewOrchestrator(source, updater, messenger, 5).WithClock(fixedClock())

		session := newSession(t, orchestrator, source, messenger)

		updater.EXPECT().UpdateReviewState(gomock.Any(), "a", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		messenger.EXPECT().RemoveButtons(gomock.Any(), "msg-a").Return(nil)

		require.NoError(t, orchestrator.HandleResponse(context.Background(), session, "again_a"))
		require.NoError(t, orchestrator.HandleResponse(context.Background(), session, "again_a"))
	})

	t.Run("Unknown item is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)
		orchestrator := NewOrchestrator(source, updater, messenger, 5).WithClock(fixedClock())

		session := newSession(t, orchestrator, source, messenger)

		err := orchestrator.HandleResponse(context.Background(), session, "good_unknown")
		assert.Error(t, err)
	})

	t.Run("Malformed token is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_bot.NewMockItemSource(ctrl)
		updater := mock_bot.NewMockReviewUpdater(ctrl)
		messenger := mock_chat.NewMockMessenger(ctrl)
		orchestrator := NewOrchestrator(source, updater, messenger, 5).WithClock(fixedClock())

		session := newSession(t, orchestrator, source, messenger)

		err := orchestrator.HandleResponse(context.Background(), session, "garbage")
		assert.Error(t, err)
	})
}

func TestFormatItem(t *testing.T) {
	tests := []struct {
		name string
		item store.Item
		want string
	}{
		{
			name: "New item",
			item: store.Item{Title: "ubiquitous"},
			want: "🆕 New",
		},
		{
			name: "Early review",
			item: store.Item{Title: "ubiquitous", ReviewCount: 2, LastReviewed: store.ParseDate("2024-05-01")},
			want: "📖 Review #3",
		},
		{
			name: "Well-known item",
			item: store.Item{Title: "ubiquitous", ReviewCount: 7, LastReviewed: store.ParseDate("2024-05-01")},
			want: "✅ Review #8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := FormatItem(tt.item, 1, 5)
			assert.Contains(t, text, tt.want)
			assert.Contains(t, text, "ubiquitous")
		})
	}
}

func TestReviewBotPause(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mock_bot.NewMockItemSource(ctrl)
	updater := mock_bot.NewMockReviewUpdater(ctrl)
	messenger := mock_chat.NewMockMessenger(ctrl)
	orchestrator := NewOrchestrator(source, updater, messenger, 5).WithClock(fixedClock())
	reviewBot := NewReviewBot(orchestrator, source)

	reviewBot.Pause()
	// No FetchAll expectation: a paused scheduled delivery never reaches
	// the orchestrator.
	require.NoError(t, reviewBot.DeliverBatch(context.Background(), false))

	// Manual delivery bypasses the pause.
	source.EXPECT().FetchAll(gomock.Any()).Return([]store.Item{})
	messenger.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, reviewBot.DeliverBatch(context.Background(), true))

	reviewBot.Resume()
	assert.False(t, reviewBot.Paused())
}
