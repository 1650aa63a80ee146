package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksmolina/lexibot/internal/testutil"
)

func TestLoad(t *testing.T) {
	t.Run("Minimal config gets the defaults", func(t *testing.T) {
		cfgPath := testutil.SetupTestConfig(t, t.TempDir())

		cfg, err := Load(cfgPath)
		require.NoError(t, err)

		assert.Equal(t, "https://store.example.com", cfg.Store.BaseURL)
		assert.Equal(t, "vocabulary", cfg.Store.Collection)
		assert.Equal(t, []int{8, 13, 17, 19, 22}, cfg.Review.Hours)
		assert.Equal(t, 20, cfg.Review.WordsPerBatch)
		assert.Equal(t, uint(3), cfg.Store.RetryAttempts)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)

		// Task and habit records default into the main collection.
		assert.Equal(t, "vocabulary", cfg.Tasks.Collection)
		assert.Equal(t, "vocabulary", cfg.Habits.Collection)
	})

	t.Run("Environment variables override the file", func(t *testing.T) {
		cfgPath := testutil.SetupTestConfig(t, t.TempDir())
		t.Setenv("VOCAB_STORE_API_KEY", "env-secret")
		t.Setenv("OPENAI_MODEL", "gpt-4o")

		cfg, err := Load(cfgPath)
		require.NoError(t, err)
		assert.Equal(t, "env-secret", cfg.Store.APIKey)
		assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	})

	t.Run("Missing store settings fail validation", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("review:\n  words_per_batch: 10\n"), 0644))

		_, err := Load(cfgPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("Out-of-range review hours are rejected", func(t *testing.T) {
		dir := t.TempDir()
		base := testutil.SetupTestConfig(t, dir)
		content, err := os.ReadFile(base)
		require.NoError(t, err)
		content = append(content, []byte("review:\n  hours: [8, 25]\n")...)
		require.NoError(t, os.WriteFile(base, content, 0644))

		_, err = Load(base)
		assert.Error(t, err)
	})

	t.Run("Nonexistent blocks file is rejected", func(t *testing.T) {
		dir := t.TempDir()
		base := testutil.SetupTestConfig(t, dir)
		content, err := os.ReadFile(base)
		require.NoError(t, err)
		content = append(content, []byte("tasks:\n  blocks_file: /does/not/exist.yml\n")...)
		require.NoError(t, os.WriteFile(base, content, 0644))

		_, err = Load(base)
		assert.Error(t, err)
	})
}

func TestStoreConfigCollections(t *testing.T) {
	cfg := StoreConfig{Collection: "main", AdditionalCollections: []string{"extra-a", "extra-b"}}
	assert.Equal(t, []string{"main", "extra-a", "extra-b"}, cfg.Collections())

	solo := StoreConfig{Collection: "main"}
	assert.Equal(t, []string{"main"}, solo.Collections())
}

func TestReviewConfigLocation(t *testing.T) {
	loc, err := ReviewConfig{Timezone: "Asia/Shanghai"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())

	_, err = ReviewConfig{Timezone: "Not/AZone"}.Location()
	assert.Error(t, err)

	loc, err = ReviewConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
