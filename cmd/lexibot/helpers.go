package main

import (
	"time"

	"github.com/ksmolina/lexibot/internal/config"
	"github.com/ksmolina/lexibot/internal/store"
)

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

func newStoreClient(cfg *config.Config) *store.Client {
	return store.NewClient(cfg.Store.BaseURL, cfg.Store.APIKey)
}

func newAdapter(cfg *config.Config) *store.Adapter {
	policy := store.DefaultRetryPolicy()
	if cfg.Store.RetryAttempts > 0 {
		policy.Attempts = cfg.Store.RetryAttempts
	}
	if cfg.Store.RetryBaseDelay > 0 {
		policy.BaseDelay = time.Duration(cfg.Store.RetryBaseDelay) * time.Second
	}
	return store.NewAdapter(newStoreClient(cfg), cfg.Store.Collections(), policy)
}
