package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Bot configuration lives in the store as a special document so that a
// redeploy keeps the user's schedule. The record is found by its key
// field and carries its payload as a JSON string.
const (
	KindConfig      = "config"
	fieldConfigKey  = "config_key"
	fieldConfigJSON = "config_json"
)

// LoadConfigRecord reads the config payload stored under key into out.
// A missing record returns ErrNotFound so callers can fall back to
// defaults.
func (c *Client) LoadConfigRecord(ctx context.Context, collection, key string, out any) error {
	docs, err := c.QueryAll(ctx, collection, &Filter{Field: fieldConfigKey, Equals: key})
	if err != nil {
		return fmt.Errorf("query config record %s: %w", key, err)
	}
	if len(docs) == 0 {
		return ErrNotFound
	}
	payload := docs[0].StringField(fieldConfigJSON)
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decode config record %s: %w", key, err)
	}
	return nil
}

// SaveConfigRecord writes the config payload under key, creating the
// record on first save and patching it afterwards.
func (c *Client) SaveConfigRecord(ctx context.Context, collection, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode config record %s: %w", key, err)
	}

	docs, err := c.QueryAll(ctx, collection, &Filter{Field: fieldConfigKey, Equals: key})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("query config record %s: %w", key, err)
	}
	if len(docs) > 0 {
		if err := c.Patch(ctx, docs[0].ID, map[string]any{fieldConfigJSON: string(payload)}); err != nil {
			return fmt.Errorf("patch config record %s: %w", key, err)
		}
		return nil
	}

	_, err = c.Create(ctx, collection, map[string]any{
		FieldKind:       KindConfig,
		fieldConfigKey:  key,
		fieldConfigJSON: string(payload),
	})
	if err != nil {
		return fmt.Errorf("create config record %s: %w", key, err)
	}
	return nil
}
