package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Saturday, 2024-06-01.
func testClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	}
}

func TestParserParse(t *testing.T) {
	parser := NewParser().WithClock(testClock())

	tests := []struct {
		name string
		text string
		want ParsedTask
	}{
		{
			name: "Chinese relative date with numeral time",
			text: "明天下午三点开会",
			want: ParsedTask{
				Task:      "开会",
				Date:      "2024-06-02",
				StartTime: "15:00",
				EndTime:   "17:00",
				Priority:  "Mid",
				Category:  "Work",
			},
		},
		{
			name: "English relative date with am/pm time",
			text: "dentist tomorrow 3pm",
			want: ParsedTask{
				Task:      "dentist",
				Date:      "2024-06-02",
				StartTime: "15:00",
				EndTime:   "17:00",
				Priority:  "Mid",
				Category:  "Other",
			},
		},
		{
			name: "Tonight with evening hour",
			text: "今晚八点跑步",
			want: ParsedTask{
				Task:      "跑步",
				Date:      "2024-06-01",
				StartTime: "20:00",
				EndTime:   "22:00",
				Priority:  "Mid",
				Category:  "Health",
			},
		},
		{
			name: "Explicit Chinese month and day",
			text: "7月15日交报告",
			want: ParsedTask{
				Task:      "交报告",
				Date:      "2024-07-15",
				Priority:  "Mid",
				Category:  "Work",
			},
		},
		{
			name: "Past explicit date rolls into next year",
			text: "1月5日生日聚会",
			want: ParsedTask{
				Task:      "生日聚会",
				Date:      "2025-01-05",
				Priority:  "Mid",
				Category:  "Life",
			},
		},
		{
			name: "Arabic hour with minutes",
			text: "下午3:30 study session",
			want: ParsedTask{
				Task:      "study session",
				StartTime: "15:30",
				EndTime:   "17:30",
				Priority:  "Mid",
				Category:  "Study",
			},
		},
		{
			name: "Noon marker",
			text: "中午十二点吃饭",
			want: ParsedTask{
				Task:      "吃饭",
				StartTime: "12:00",
				EndTime:   "14:00",
				Priority:  "Mid",
				Category:  "Life",
			},
		},
		{
			name: "Urgent keyword raises priority",
			text: "today finish the urgent report",
			want: ParsedTask{
				Task:      "finish the urgent report",
				Date:      "2024-06-01",
				Priority:  "High",
				Category:  "Work",
			},
		},
		{
			name: "Low priority keyword",
			text: "maybe 明天 clean desk",
			want: ParsedTask{
				Task:      "maybe clean desk",
				Date:      "2024-06-02",
				Priority:  "Low",
				Category:  "Other",
			},
		},
		{
			name: "End time is capped at 23",
			text: "tomorrow 10pm call family",
			want: ParsedTask{
				Task:      "call family",
				Date:      "2024-06-02",
				StartTime: "22:00",
				EndTime:   "23:00",
				Priority:  "Mid",
				Category:  "Other",
			},
		},
		{
			name: "No date or time at all",
			text: "buy groceries",
			want: ParsedTask{
				Task:     "buy groceries",
				Priority: "Mid",
				Category: "Other",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.Parse(tt.text))
		})
	}
}

func TestNextWeekday(t *testing.T) {
	// 2024-06-01 is a Saturday.
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-06-02", nextWeekday(today, time.Sunday).Format("2006-01-02"))
	assert.Equal(t, "2024-06-03", nextWeekday(today, time.Monday).Format("2006-01-02"))
	// The same weekday means next week, not today.
	assert.Equal(t, "2024-06-08", nextWeekday(today, time.Saturday).Format("2006-01-02"))
}

func TestNeedsAIFallback(t *testing.T) {
	assert.True(t, ParsedTask{}.NeedsAIFallback())
	assert.False(t, ParsedTask{Date: "2024-06-01"}.NeedsAIFallback())
	assert.False(t, ParsedTask{StartTime: "09:00"}.NeedsAIFallback())
}

func TestChineseNumToInt(t *testing.T) {
	tests := []struct {
		chinese string
		want    int
	}{
		{"一", 1},
		{"两", 2},
		{"九", 9},
		{"十", 10},
		{"十一", 11},
		{"十二", 12},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chineseNumToInt(tt.chinese), tt.chinese)
	}
}

func TestCleanTaskText(t *testing.T) {
	assert.Equal(t, "开会 讨论", cleanTaskText("开会，讨论。"))
	assert.Equal(t, "Task", cleanTaskText("  ，。  "))
	assert.Equal(t, "plain", cleanTaskText("plain"))
}

func TestFormatConfirmation(t *testing.T) {
	task := ParsedTask{
		Task:      "开会",
		Date:      "2024-06-02",
		StartTime: "15:00",
		EndTime:   "17:00",
		Priority:  "High",
		Category:  "Work",
	}
	text := task.FormatConfirmation()
	assert.Contains(t, text, "2024-06-02 15:00-17:00")
	assert.Contains(t, text, "🔴 High")
	assert.Contains(t, text, "Category: Work")
}
