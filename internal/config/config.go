package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Review   ReviewConfig   `mapstructure:"review"`
	Tasks    TasksConfig    `mapstructure:"tasks"`
	Habits   HabitsConfig   `mapstructure:"habits"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Database DatabaseConfig `mapstructure:"database"`
	Outputs  OutputsConfig  `mapstructure:"outputs"`
}

// StoreConfig points at the external document-database service.
type StoreConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`

	// Collection holds vocabulary items; AdditionalCollections are
	// merged into the review pool when configured.
	Collection            string   `mapstructure:"collection" validate:"required"`
	AdditionalCollections []string `mapstructure:"additional_collections"`

	RetryAttempts  uint `mapstructure:"retry_attempts" validate:"omitempty,lte=10"`
	RetryBaseDelay int  `mapstructure:"retry_base_delay_seconds"`
}

// Collections returns the primary collection followed by the extras.
func (c StoreConfig) Collections() []string {
	return append([]string{c.Collection}, c.AdditionalCollections...)
}

type ReviewConfig struct {
	Hours         []int  `mapstructure:"hours" validate:"omitempty,dive,gte=0,lte=23"`
	WordsPerBatch int    `mapstructure:"words_per_batch" validate:"omitempty,gte=1,lte=50"`
	Timezone      string `mapstructure:"timezone"`
}

// Location resolves the configured timezone, defaulting to local time.
func (c ReviewConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type TasksConfig struct {
	Collection string `mapstructure:"collection"`
	BlocksFile string `mapstructure:"blocks_file" validate:"omitempty,file"`
}

type HabitsConfig struct {
	Collection string `mapstructure:"collection"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	RetryAttempts  uint   `mapstructure:"retry_attempts"`
	CacheDirectory string `mapstructure:"cache_directory"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	Database        string            `mapstructure:"database"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lexibot")
	}

	v.SetDefault("store.retry_attempts", 3)
	v.SetDefault("store.retry_base_delay_seconds", 2)
	v.SetDefault("review.hours", []int{8, 13, 17, 19, 22})
	v.SetDefault("review.words_per_batch", 20)
	v.SetDefault("review.timezone", "Europe/London")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.retry_attempts", 3)
	v.SetDefault("openai.cache_directory", filepath.Join("cache", "analysis"))
	v.SetDefault("outputs.report_directory", "reports")
	v.SetDefault("database.port", 3306)

	// Secrets come from the environment only, never from the config file.
	if err := v.BindEnv("store.api_key", "VOCAB_STORE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind VOCAB_STORE_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("store.base_url", "VOCAB_STORE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind VOCAB_STORE_URL environment variable: %w", err)
	}
	if err := v.BindEnv("store.collection", "VOCAB_STORE_COLLECTION"); err != nil {
		return nil, fmt.Errorf("failed to bind VOCAB_STORE_COLLECTION environment variable: %w", err)
	}
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "LEXIBOT_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind LEXIBOT_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if cfg.Tasks.Collection == "" {
		cfg.Tasks.Collection = cfg.Store.Collection
	}
	if cfg.Habits.Collection == "" {
		cfg.Habits.Collection = cfg.Store.Collection
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	validate, translator, err := newValidator()
	if err != nil {
		return fmt.Errorf("config.newValidator > %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		messages := translateErrors(err, translator)
		if len(messages) > 0 {
			return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
