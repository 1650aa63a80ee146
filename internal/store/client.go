// Package store talks to the external document-database service that
// persists vocabulary items, reminders, and habit records. The client is
// schema-agnostic: documents are bags of JSON fields, and each record
// kind layers its own field names on top.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Document is one record in the document database.
type Document struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"created_at,omitempty"`
	Fields    map[string]any `json:"fields"`
}

// StringField reads a string field, returning "" when absent or not a string.
func (doc Document) StringField(name string) string {
	if s, ok := doc.Fields[name].(string); ok {
		return s
	}
	return ""
}

// IntField reads a numeric field. JSON numbers decode as float64.
func (doc Document) IntField(name string) int {
	switch v := doc.Fields[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// BoolField reads a boolean field, returning false when absent.
func (doc Document) BoolField(name string) bool {
	if b, ok := doc.Fields[name].(bool); ok {
		return b
	}
	return false
}

// Filter restricts a query to documents whose field equals a value.
type Filter struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

type queryRequest struct {
	Filter   *Filter `json:"filter,omitempty"`
	Cursor   string  `json:"cursor,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}

type queryResponse struct {
	Documents  []Document `json:"documents"`
	HasMore    bool       `json:"has_more"`
	NextCursor string     `json:"next_cursor"`
}

// TransientError wraps a failure that is worth retrying: network errors,
// rate limiting, and server-side 5xx responses.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transient store error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient store error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err should be retried against the store.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// Client is a low-level document-database client. It performs single
// requests without retries; the Adapter layers the retry policy on top.
type Client struct {
	http *resty.Client
}

// NewClient creates a store client for the given API endpoint.
func NewClient(baseURL, apiKey string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	return &Client{http: client}
}

// QueryPage runs one page of a filtered query against a collection.
func (c *Client) QueryPage(ctx context.Context, collection string, filter *Filter, cursor string, pageSize int) ([]Document, string, error) {
	var result queryResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(queryRequest{Filter: filter, Cursor: cursor, PageSize: pageSize}).
		SetResult(&result).
		Post(fmt.Sprintf("/collections/%s/query", collection))
	if err != nil {
		return nil, "", &TransientError{Err: fmt.Errorf("query collection %s: %w", collection, err)}
	}
	if err := classifyStatus(res); err != nil {
		return nil, "", err
	}
	if !result.HasMore {
		return result.Documents, "", nil
	}
	return result.Documents, result.NextCursor, nil
}

// QueryAll pages through a filtered query until the store reports no
// more pages, returning every matching document.
func (c *Client) QueryAll(ctx context.Context, collection string, filter *Filter) ([]Document, error) {
	var all []Document
	cursor := ""
	for {
		docs, next, err := c.QueryPage(ctx, collection, filter, cursor, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, docs...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// Patch performs a partial update: only the given fields change, every
// other field on the document is left untouched. Patching the same
// fields twice leaves the document in the same state, so a patch is
// always safe to retry.
func (c *Client) Patch(ctx context.Context, documentID string, fields map[string]any) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"fields": fields}).
		Patch("/documents/" + documentID)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("patch document %s: %w", documentID, err)}
	}
	return classifyStatus(res)
}

// Create inserts a new document into a collection.
func (c *Client) Create(ctx context.Context, collection string, fields map[string]any) (Document, error) {
	var doc Document
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"fields": fields}).
		SetResult(&doc).
		Post(fmt.Sprintf("/collections/%s/documents", collection))
	if err != nil {
		return Document{}, &TransientError{Err: fmt.Errorf("create in collection %s: %w", collection, err)}
	}
	if err := classifyStatus(res); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Delete archives a document. The store soft-deletes, so this is safe
// to repeat.
func (c *Client) Delete(ctx context.Context, documentID string) error {
	res, err := c.http.R().
		SetContext(ctx).
		Delete("/documents/" + documentID)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("delete document %s: %w", documentID, err)}
	}
	return classifyStatus(res)
}

func classifyStatus(res *resty.Response) error {
	code := res.StatusCode()
	switch {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return &TransientError{
			StatusCode: code,
			Err:        fmt.Errorf("status %d: %s", code, res.String()),
		}
	default:
		return fmt.Errorf("store request failed: status %d: %s", code, res.String())
	}
}
