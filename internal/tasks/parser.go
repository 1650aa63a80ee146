// Package tasks implements the task/habit-reminder pipeline: natural
// language task capture, store-backed reminders, and recurring time
// blocks. The parser handles common Chinese and English date/time
// phrases with regular expressions; only inputs it cannot place get
// escalated to the AI fallback.
package tasks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedTask is the structured form of one captured task.
type ParsedTask struct {
	Task      string
	Date      string // YYYY-MM-DD, empty when no date phrase matched
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Priority  string // High, Mid, Low
	Category  string // Work, Study, Health, Life, Other
}

// Parser extracts task structure from free text without any API call.
type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// WithClock overrides the time source, for tests.
func (p *Parser) WithClock(now func() time.Time) *Parser {
	p.now = now
	return p
}

// Parse extracts date, time, category, and priority from text. It
// always succeeds; unmatched fields stay at their defaults (no date,
// Mid priority) and the cleaned remainder becomes the task text.
func (p *Parser) Parse(text string) ParsedTask {
	today := p.now()

	remaining, date := extractDate(text, today)
	remaining, startTime, endTime := extractTime(remaining)

	// "今晚八点" drops its evening marker with the date phrase, so an
	// unqualified morning hour after a tonight phrase means evening.
	if tonightPattern.MatchString(text) {
		startTime, endTime = shiftToEvening(startTime, endTime)
	}

	return ParsedTask{
		Task:      cleanTaskText(remaining),
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Category:  inferCategory(text),
		Priority:  inferPriority(text),
	}
}

// NeedsAIFallback reports whether the regex pass failed to place the
// task in time at all, which is the trigger for the AI parser.
func (t ParsedTask) NeedsAIFallback() bool {
	return t.Date == "" && t.StartTime == ""
}

type datePattern struct {
	pattern *regexp.Regexp
	resolve func(today time.Time) time.Time
}

var relativeDatePatterns = []datePattern{
	{
		pattern: regexp.MustCompile(`(?i)今天|today`),
		resolve: func(today time.Time) time.Time { return today },
	},
	{
		pattern: regexp.MustCompile(`(?i)明天|明日|tomorrow`),
		resolve: func(today time.Time) time.Time { return today.AddDate(0, 0, 1) },
	},
	{
		pattern: regexp.MustCompile(`后天|後天`),
		resolve: func(today time.Time) time.Time { return today.AddDate(0, 0, 2) },
	},
	{
		pattern: regexp.MustCompile(`(?i)这?周六|本周六|this saturday|saturday`),
		resolve: func(today time.Time) time.Time { return nextWeekday(today, time.Saturday) },
	},
	{
		pattern: regexp.MustCompile(`(?i)这?周日|本周日|周天|this sunday|sunday`),
		resolve: func(today time.Time) time.Time { return nextWeekday(today, time.Sunday) },
	},
	{
		pattern: regexp.MustCompile(`(?i)下周一|next monday`),
		resolve: func(today time.Time) time.Time { return nextWeekday(today, time.Monday) },
	},
	{
		pattern: regexp.MustCompile(`(?i)今晚|tonight`),
		resolve: func(today time.Time) time.Time { return today },
	},
}

var explicitDatePattern = regexp.MustCompile(`(\d{1,2})月(\d{1,2})[日号]?`)

var tonightPattern = regexp.MustCompile(`(?i)今晚|tonight`)

func shiftToEvening(startTime, endTime string) (string, string) {
	shift := func(value string) string {
		if len(value) < 5 {
			return value
		}
		hour, err := strconv.Atoi(value[:2])
		if err != nil || hour >= 12 {
			return value
		}
		return fmt.Sprintf("%02d%s", min(hour+12, 23), value[2:])
	}
	return shift(startTime), shift(endTime)
}

func extractDate(text string, today time.Time) (string, string) {
	date := ""
	for _, p := range relativeDatePatterns {
		if p.pattern.MatchString(text) {
			date = p.resolve(today).Format("2006-01-02")
			text = p.pattern.ReplaceAllString(text, "")
			break
		}
	}

	// Explicit M月D日 dates override a relative phrase; a past date
	// rolls into next year.
	if m := explicitDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			year := today.Year()
			if month < int(today.Month()) || (month == int(today.Month()) && day < today.Day()) {
				year++
			}
			date = fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			text = explicitDatePattern.ReplaceAllString(text, "")
		}
	}

	return text, date
}

// nextWeekday returns the next occurrence of weekday strictly after
// today.
func nextWeekday(today time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

var chineseNumerals = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5,
	"六": 6, "七": 7, "八": 8, "九": 9, "十": 10,
	"十一": 11, "十二": 12, "两": 2,
}

func chineseNumToInt(chinese string) int {
	if n, ok := chineseNumerals[chinese]; ok {
		return n
	}
	runes := []rune(chinese)
	if len(runes) == 2 && runes[0] == '十' {
		if n, ok := chineseNumerals[string(runes[1])]; ok {
			return 10 + n
		}
	}
	return 0
}

var (
	chineseNumeralTimePattern = regexp.MustCompile(`(上午|下午|晚上|早上|中午)?(十?[一二三四五六七八九十两])[点點時]`)
	chineseArabicTimePattern  = regexp.MustCompile(`(上午|下午|晚上|早上|中午)?(\d{1,2})[点點時:：](\d{2})?`)
	englishTimePattern        = regexp.MustCompile(`(\d{1,2}):?(\d{2})?\s*(am|pm|AM|PM)`)
)

func extractTime(text string) (string, string, string) {
	if m := chineseNumeralTimePattern.FindStringSubmatchIndex(text); m != nil {
		period := submatch(text, m, 1)
		hour := chineseNumToInt(submatch(text, m, 2))
		if hour > 0 {
			hour = applyPeriod(hour, period)
			start := fmt.Sprintf("%02d:00", hour)
			end := fmt.Sprintf("%02d:00", min(hour+2, 23))
			return text[:m[0]] + text[m[1]:], start, end
		}
	}

	if m := chineseArabicTimePattern.FindStringSubmatchIndex(text); m != nil {
		period := submatch(text, m, 1)
		hour, _ := strconv.Atoi(submatch(text, m, 2))
		minute := 0
		if raw := submatch(text, m, 3); raw != "" {
			minute, _ = strconv.Atoi(raw)
		}
		hour = applyPeriod(hour, period)
		if hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
			start := fmt.Sprintf("%02d:%02d", hour, minute)
			end := fmt.Sprintf("%02d:%02d", min(hour+2, 23), minute)
			return text[:m[0]] + text[m[1]:], start, end
		}
	}

	if m := englishTimePattern.FindStringSubmatchIndex(text); m != nil {
		hour, _ := strconv.Atoi(submatch(text, m, 1))
		minute := 0
		if raw := submatch(text, m, 2); raw != "" {
			minute, _ = strconv.Atoi(raw)
		}
		period := strings.ToLower(submatch(text, m, 3))
		if period == "pm" && hour < 12 {
			hour += 12
		} else if period == "am" && hour == 12 {
			hour = 0
		}
		if hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
			start := fmt.Sprintf("%02d:%02d", hour, minute)
			end := fmt.Sprintf("%02d:%02d", min(hour+2, 23), minute)
			return text[:m[0]] + text[m[1]:], start, end
		}
	}

	return text, "", ""
}

// applyPeriod converts an hour with a Chinese day-period marker to the
// 24-hour clock.
func applyPeriod(hour int, period string) int {
	switch period {
	case "下午", "晚上":
		if hour < 12 {
			return hour + 12
		}
	case "上午":
		if hour == 12 {
			return 0
		}
	case "中午":
		return 12
	}
	return hour
}

func submatch(text string, indexes []int, group int) string {
	start, end := indexes[2*group], indexes[2*group+1]
	if start < 0 {
		return ""
	}
	return text[start:end]
}

var (
	punctuationPattern = regexp.MustCompile(`[，,。.！!？?、]+`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

func cleanTaskText(text string) string {
	text = punctuationPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return "Task"
	}
	return text
}

var (
	workPattern   = regexp.MustCompile(`开会|会议|工作|meeting|work|office|报告|report`)
	studyPattern  = regexp.MustCompile(`学习|看书|读书|study|learn|课|class|homework`)
	healthPattern = regexp.MustCompile(`运动|健身|跑步|gym|exercise|workout|health|医`)
	lifePattern   = regexp.MustCompile(`吃饭|约|朋友|玩|看|聚会|生日|show|movie|dinner|lunch|party`)

	highPriorityPattern = regexp.MustCompile(`紧急|urgent|重要|important|必须|must|asap`)
	lowPriorityPattern  = regexp.MustCompile(`不急|随便|maybe|可能`)
)

func inferCategory(text string) string {
	lower := strings.ToLower(text)
	switch {
	case workPattern.MatchString(lower):
		return "Work"
	case studyPattern.MatchString(lower):
		return "Study"
	case healthPattern.MatchString(lower):
		return "Health"
	case lifePattern.MatchString(lower):
		return "Life"
	default:
		return "Other"
	}
}

func inferPriority(text string) string {
	lower := strings.ToLower(text)
	switch {
	case highPriorityPattern.MatchString(lower):
		return "High"
	case lowPriorityPattern.MatchString(lower):
		return "Low"
	default:
		return "Mid"
	}
}

// FormatConfirmation renders a parsed task for the confirmation message.
func (t ParsedTask) FormatConfirmation() string {
	lines := []string{"✅ Task added!", ""}

	if t.StartTime != "" {
		date := t.Date
		if date == "" {
			date = "today"
		}
		timeLine := fmt.Sprintf("• Time: %s %s", date, t.StartTime)
		if t.EndTime != "" {
			timeLine += "-" + t.EndTime
		}
		lines = append(lines, timeLine)
	} else if t.Date != "" {
		lines = append(lines, "• Date: "+t.Date)
	}

	lines = append(lines, "• Task: "+t.Task)

	priorityEmoji := map[string]string{"High": "🔴", "Mid": "🟡", "Low": "🟢"}[t.Priority]
	if priorityEmoji == "" {
		priorityEmoji = "🟡"
	}
	lines = append(lines,
		fmt.Sprintf("• Priority: %s %s", priorityEmoji, t.Priority),
		"• Category: "+t.Category,
	)
	return strings.Join(lines, "\n")
}
