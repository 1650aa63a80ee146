package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}
}

func TestAdapterFetchAll(t *testing.T) {
	t.Run("Paginates until the store reports no more pages", func(t *testing.T) {
		var cursors []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/collections/vocab/query", r.URL.Path)
			require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req struct {
				Cursor string `json:"cursor"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			cursors = append(cursors, req.Cursor)

			if req.Cursor == "" {
				writeJSON(t, w, map[string]any{
					"documents": []map[string]any{
						{"id": "a", "fields": map[string]any{"title": "first"}},
					},
					"has_more":    true,
					"next_cursor": "page-2",
				})
				return
			}
			writeJSON(t, w, map[string]any{
				"documents": []map[string]any{
					{"id": "b", "fields": map[string]any{"title": "second"}},
				},
				"has_more": false,
			})
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "test-key"), []string{"vocab"}, testPolicy())
		items := adapter.FetchAll(context.Background())

		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].ID)
		assert.Equal(t, "b", items[1].ID)
		assert.Equal(t, []string{"", "page-2"}, cursors)
	})

	t.Run("Merges multiple collections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := "x"
			if r.URL.Path == "/collections/extra/query" {
				id = "y"
			}
			writeJSON(t, w, map[string]any{
				"documents": []map[string]any{{"id": id, "fields": map[string]any{}}},
				"has_more":  false,
			})
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"vocab", "extra"}, testPolicy())
		items := adapter.FetchAll(context.Background())

		require.Len(t, items, 2)
		assert.Equal(t, "vocab", items[0].Collection)
		assert.Equal(t, "extra", items[1].Collection)
	})

	t.Run("Returns empty after exhausted retries", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"vocab"}, testPolicy())
		items := adapter.FetchAll(context.Background())

		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.Equal(t, 3, requests)
	})

	t.Run("Does not retry permanent failures", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"vocab"}, testPolicy())
		items := adapter.FetchAll(context.Background())

		assert.Empty(t, items)
		assert.Equal(t, 1, requests)
	})

	t.Run("A failed collection does not sink the others", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/collections/broken/query" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			writeJSON(t, w, map[string]any{
				"documents": []map[string]any{{"id": "ok", "fields": map[string]any{}}},
				"has_more":  false,
			})
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"broken", "vocab"}, testPolicy())
		items := adapter.FetchAll(context.Background())

		require.Len(t, items, 1)
		assert.Equal(t, "ok", items[0].ID)
	})
}

func TestAdapterUpdateReviewState(t *testing.T) {
	t.Run("Patches only the review state fields", func(t *testing.T) {
		var patched map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPatch, r.Method)
			require.Equal(t, "/documents/item-1", r.URL.Path)

			var body struct {
				Fields map[string]any `json:"fields"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			patched = body.Fields
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"vocab"}, testPolicy())
		err := adapter.UpdateReviewState(context.Background(), "item-1",
			time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 9, 9, 0, 0, 0, time.UTC),
			4)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"last_reviewed": "2024-06-01",
			"next_review":   "2024-06-09",
			"review_count":  float64(4),
		}, patched)
	})

	t.Run("Retries transient failures and succeeds", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"vocab"}, testPolicy())
		err := adapter.UpdateReviewState(context.Background(), "item-1", time.Now(), time.Now(), 1)

		require.NoError(t, err)
		assert.Equal(t, 3, requests)
	})

	t.Run("Returns the error after exhausted retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"vocab"}, testPolicy())
		err := adapter.UpdateReviewState(context.Background(), "item-1", time.Now(), time.Now(), 1)

		assert.Error(t, err)
	})

	t.Run("Repeating the same patch is idempotent", func(t *testing.T) {
		state := map[string]any{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Fields map[string]any `json:"fields"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			for k, v := range body.Fields {
				state[k] = v
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		adapter := NewAdapter(NewClient(server.URL, "k"), []string{"vocab"}, testPolicy())
		when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, adapter.UpdateReviewState(context.Background(), "item-1", when, when.AddDate(0, 0, 4), 2))
		first := map[string]any{}
		for k, v := range state {
			first[k] = v
		}
		require.NoError(t, adapter.UpdateReviewState(context.Background(), "item-1", when, when.AddDate(0, 0, 4), 2))
		assert.Equal(t, first, state)
	})
}

func TestClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k")
	err := client.Patch(context.Background(), "missing", map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsTransient(err))
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}
