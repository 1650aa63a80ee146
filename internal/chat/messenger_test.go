package chat

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksmolina/lexibot/internal/review"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantResp   review.Response
		wantItemID string
		wantErr    bool
	}{
		{name: "Again token", token: "again_item-42", wantResp: review.ResponseAgain, wantItemID: "item-42"},
		{name: "Good token", token: "good_item-42", wantResp: review.ResponseGood, wantItemID: "item-42"},
		{name: "Easy token", token: "easy_item-42", wantResp: review.ResponseEasy, wantItemID: "item-42"},
		{name: "Unknown prefix", token: "hard_item-42", wantErr: true},
		{name: "Empty token", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, itemID, err := ParseToken(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp)
			assert.Equal(t, tt.wantItemID, itemID)
		})
	}
}

func TestResponseButtonsRoundTrip(t *testing.T) {
	buttons := ResponseButtons("item-7")
	require.Len(t, buttons, 3)

	want := []review.Response{review.ResponseAgain, review.ResponseGood, review.ResponseEasy}
	for i, button := range buttons {
		resp, itemID, err := ParseToken(button.Token)
		require.NoError(t, err)
		assert.Equal(t, want[i], resp)
		assert.Equal(t, "item-7", itemID)
	}
}

func TestConsoleMessenger(t *testing.T) {
	var out bytes.Buffer
	messenger := NewConsoleMessenger(&out)
	ctx := context.Background()

	messageID, err := messenger.SendMessage(ctx, "review this", ResponseButtons("item-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, messageID)
	assert.Contains(t, out.String(), "review this")
	assert.Contains(t, out.String(), "again_item-1")

	require.NoError(t, messenger.RemoveButtons(ctx, messageID))
	require.NoError(t, messenger.Notify(ctx, "all done"))
	assert.Contains(t, out.String(), "all done")
}
