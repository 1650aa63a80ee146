package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduleText(t *testing.T) {
	base := DefaultScheduleConfig()

	tests := []struct {
		name      string
		text      string
		wantHours []int
		wantWords int
		wantErr   bool
	}{
		{
			name:      "Words and hours together",
			text:      "20 words at 8 13 17 19 22",
			wantHours: []int{8, 13, 17, 19, 22},
			wantWords: 20,
		},
		{
			name:      "Words only keeps the hours",
			text:      "30 words",
			wantHours: base.ReviewHours,
			wantWords: 30,
		},
		{
			name:      "Hours only keeps the words",
			text:      "at 9 12 21",
			wantHours: []int{9, 12, 21},
			wantWords: base.WordsPerBatch,
		},
		{
			name:      "Comma separated hours",
			text:      "at 9, 12, 21",
			wantHours: []int{9, 12, 21},
			wantWords: base.WordsPerBatch,
		},
		{
			name:    "Nothing recognizable",
			text:    "hello there",
			wantErr: true,
		},
		{
			name:    "Empty text",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseScheduleText(base, tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrScheduleNotParsed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHours, cfg.ReviewHours)
			assert.Equal(t, tt.wantWords, cfg.WordsPerBatch)
		})
	}
}

func TestScheduleConfigNormalize(t *testing.T) {
	t.Run("Out-of-range values fall back to defaults", func(t *testing.T) {
		cfg := ScheduleConfig{ReviewHours: []int{-1, 24, 30}, WordsPerBatch: 0}.Normalize()
		assert.Equal(t, DefaultScheduleConfig(), cfg)
	})

	t.Run("Hours are deduplicated and sorted", func(t *testing.T) {
		cfg := ScheduleConfig{ReviewHours: []int{22, 8, 8, 13}, WordsPerBatch: 10}.Normalize()
		assert.Equal(t, []int{8, 13, 22}, cfg.ReviewHours)
		assert.Equal(t, 10, cfg.WordsPerBatch)
	})

	t.Run("Too many words per batch falls back", func(t *testing.T) {
		cfg := ScheduleConfig{ReviewHours: []int{9}, WordsPerBatch: 51}.Normalize()
		assert.Equal(t, 20, cfg.WordsPerBatch)
	})
}

func TestScheduleConfigFormat(t *testing.T) {
	text := ScheduleConfig{ReviewHours: []int{8, 13}, WordsPerBatch: 15}.Format()
	assert.Contains(t, text, "08:00")
	assert.Contains(t, text, "13:00")
	assert.Contains(t, text, "Words per batch: 15")
}
