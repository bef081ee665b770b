package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
)

// ModelConfig holds the parameters used to build and train the language model.
type ModelConfig struct {
	WindowLength int      `json:"window_length" toml:"window_length"`
	Seed         *int64   `json:"seed,omitempty" toml:"seed"`
	Corpora      []string `json:"corpora" toml:"corpora"`
}

// GenerateConfig holds the default generation request.
type GenerateConfig struct {
	InitialText string `json:"initial_text" toml:"initial_text"`
	Length      int    `json:"length" toml:"length"`
}

// ServerConfig holds settings for the API server and shared infrastructure.
type ServerConfig struct {
	ApiAddr  string `json:"api_addr" toml:"api_addr"`
	LogLevel string `json:"log_level" toml:"log_level"`
	// HistoryDatabasePath is the SQLite file generations are recorded to.
	// An empty path disables the history.
	HistoryDatabasePath string `json:"history_database_path" toml:"history_database_path"`
	MaxTrainBytes       int64  `json:"max_train_bytes" toml:"max_train_bytes"`
	MaxGenerateLength   int    `json:"max_generate_length" toml:"max_generate_length"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Model    *ModelConfig    `json:"model_config"`
	Generate *GenerateConfig `json:"generate_config"`
	Server   *ServerConfig   `json:"server_config"`
}

// tomlConfig mirrors Config with value sections, since the TOML decoder
// replaces pointers instead of filling them and would drop the defaults.
type tomlConfig struct {
	Model    ModelConfig    `toml:"model"`
	Generate GenerateConfig `toml:"generate"`
	Server   ServerConfig   `toml:"server"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Model: &ModelConfig{
			WindowLength: 2,
			Corpora:      []string{},
		},
		Generate: &GenerateConfig{
			InitialText: "hi",
			Length:      100,
		},
		Server: &ServerConfig{
			ApiAddr:             ":7279",
			LogLevel:            "info",
			HistoryDatabasePath: "./data/charmarkov_history.db",
			MaxTrainBytes:       10 << 20, // 10MB
			MaxGenerateLength:   100_000,
		},
	}
}

// LoadConfig reads the configuration at path on top of the defaults. Files
// ending in ".toml" are decoded as TOML, anything else as JSON. A missing
// JSON file is created with the default values; a missing TOML file simply
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	isTOML := strings.EqualFold(filepath.Ext(path), ".toml")

	file, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if isTOML {
			return config, nil
		}
		var data []byte
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			// The defaults are still usable without a file on disk.
			fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
		}
		return config, nil
	}

	if isTOML {
		tc := tomlConfig{Model: *config.Model, Generate: *config.Generate, Server: *config.Server}
		if _, err = toml.Decode(string(file), &tc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		config.Model, config.Generate, config.Server = &tc.Model, &tc.Generate, &tc.Server
	} else if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Model == nil || c.Generate == nil || c.Server == nil {
		return errors.New("config: model_config, generate_config and server_config are required")
	}
	if c.Model.WindowLength < 1 {
		return fmt.Errorf("config: window_length must be positive, got %d", c.Model.WindowLength)
	}
	if c.Generate.Length < 0 {
		return fmt.Errorf("config: length must not be negative, got %d", c.Generate.Length)
	}
	if c.Server.MaxGenerateLength < 1 {
		return fmt.Errorf("config: max_generate_length must be positive, got %d", c.Server.MaxGenerateLength)
	}
	if c.Server.MaxTrainBytes < 1 {
		return fmt.Errorf("config: max_train_bytes must be positive, got %d", c.Server.MaxTrainBytes)
	}
	return nil
}

// parseLogLevel maps a config level name to a slog.Level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
