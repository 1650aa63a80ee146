package store

import (
	"time"
)

// Field names used in vocabulary documents.
const (
	FieldTitle        = "title"
	FieldMeaning      = "meaning"
	FieldExplanation  = "explanation"
	FieldExample      = "example"
	FieldCategory     = "category"
	FieldKind         = "kind"
	FieldReviewCount  = "review_count"
	FieldLastReviewed = "last_reviewed"
	FieldNextReview   = "next_review"
	FieldDateAdded    = "date_added"
	FieldMastered     = "mastered"
)

// KindVocabulary marks a document as a vocabulary item. Other kinds
// (reminders, habit entries, config records) share the same collections.
const KindVocabulary = "vocabulary"

// Date is a calendar date read from a stored document. The raw string is
// kept so that malformed values can be recognized without being dropped:
// the scorer gives unparsable dates a moderate default instead of
// excluding the item from rotation.
type Date struct {
	Raw  string
	Time time.Time
}

const dateLayout = "2006-01-02"

// ParseDate parses a stored date value. It accepts YYYY-MM-DD and falls
// back to RFC3339 for records written by older tooling.
func ParseDate(raw string) Date {
	if raw == "" {
		return Date{}
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return Date{Raw: raw, Time: t}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Date{Raw: raw, Time: t}
	}
	return Date{Raw: raw}
}

// NewDate builds a Date from a time.Time, truncated to the day.
func NewDate(t time.Time) Date {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date{Raw: day.Format(dateLayout), Time: day}
}

// IsZero reports whether no value was stored at all.
func (d Date) IsZero() bool {
	return d.Raw == ""
}

// Malformed reports whether a value was stored but could not be parsed.
func (d Date) Malformed() bool {
	return d.Raw != "" && d.Time.IsZero()
}

func (d Date) String() string {
	if d.Time.IsZero() {
		return d.Raw
	}
	return d.Time.Format(dateLayout)
}

// Item is one vocabulary record. Content fields are opaque to the
// scheduler; only the review state is read and written by it.
type Item struct {
	ID         string
	Collection string

	Title       string
	Meaning     string
	Explanation string
	Example     string
	Category    string

	ReviewCount  int
	LastReviewed Date
	NextReview   Date
	DateAdded    Date
	Mastered     bool
}

// ItemFromDocument converts a raw store document into an Item.
// Missing fields become zero values; review_count is clamped at zero.
func ItemFromDocument(doc Document, collection string) Item {
	item := Item{
		ID:          doc.ID,
		Collection:  collection,
		Title:       doc.StringField(FieldTitle),
		Meaning:     doc.StringField(FieldMeaning),
		Explanation: doc.StringField(FieldExplanation),
		Example:     doc.StringField(FieldExample),
		Category:    doc.StringField(FieldCategory),
		Mastered:    doc.BoolField(FieldMastered),
	}

	if count := doc.IntField(FieldReviewCount); count > 0 {
		item.ReviewCount = count
	}
	item.LastReviewed = ParseDate(doc.StringField(FieldLastReviewed))
	item.NextReview = ParseDate(doc.StringField(FieldNextReview))

	added := doc.StringField(FieldDateAdded)
	if added == "" {
		added = doc.CreatedAt
	}
	item.DateAdded = ParseDate(added)

	return item
}
