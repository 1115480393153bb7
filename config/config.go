// Package config loads the immutable configuration snapshot consumed at
// startup. Values are read once, validated, and never mutated afterwards;
// changing them requires a restart.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Enhancement controls the optional LLM rewrite pass between transcription
// and insertion.
type Enhancement struct {
	Enabled      bool    `json:"enabled"`
	BaseURL      string  `json:"base_url"`
	APIKeyEnvVar string  `json:"api_key_env_var"`
	Model        string  `json:"model"`
	Prompt       string  `json:"prompt"`
	TimeoutS     float64 `json:"timeout_s"`
}

// Shortcuts holds the global key chords, in "ctrl+shift+space" form.
type Shortcuts struct {
	Hold   string `json:"hold"`
	Toggle string `json:"toggle"`
}

// Config is the full configuration snapshot.
type Config struct {
	ModelProfile string `json:"model_profile"`
	Endpoint     string `json:"endpoint"` // empty = local whisper.cpp
	Language     string `json:"language"`
	ModelDir     string `json:"model_dir"`

	DeviceHint   string  `json:"device_hint"`
	SampleRate   uint32  `json:"sample_rate"`
	Channels     uint32  `json:"channels"`
	MinDurationS float64 `json:"min_duration_s"`

	Enhancement Enhancement `json:"enhancement"`
	Shortcuts   Shortcuts   `json:"shortcuts"`

	LogPath string `json:"log_path"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ModelProfile: "base.en",
		Language:     "en",
		SampleRate:   16000,
		Channels:     1,
		MinDurationS: 0.5,
		Enhancement: Enhancement{
			BaseURL:      "https://api.openai.com/v1",
			APIKeyEnvVar: "OPENAI_API_KEY",
			Model:        "gpt-4o-mini",
			TimeoutS:     10,
		},
		Shortcuts: Shortcuts{
			Hold:   "ctrl+shift+space",
			Toggle: "ctrl+shift+t",
		},
	}
}

// searchPaths lists the locations probed when no explicit path is given.
func searchPaths() []string {
	paths := []string{"murmur.json"}
	if home, err := os.UserHomeDir(); err == nil {
		xdg := os.Getenv("XDG_CONFIG_HOME")
		if xdg == "" {
			xdg = filepath.Join(home, ".config")
		}
		paths = append(paths, filepath.Join(xdg, "murmur", "config.json"))
	}
	return paths
}

// Load reads the config file at path, or searches the default locations when
// path is empty. A missing file yields defaults; a malformed file is an error
// so typos are not silently ignored.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the snapshot before it reaches the orchestrator.
func (c *Config) Validate() error {
	if c.ModelProfile == "" {
		return fmt.Errorf("model_profile must not be empty")
	}
	if c.SampleRate == 0 {
		return fmt.Errorf("invalid sample_rate: %d", c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("invalid channels: %d (allowed 1..2)", c.Channels)
	}
	if c.MinDurationS < 0 {
		return fmt.Errorf("invalid min_duration_s: %v", c.MinDurationS)
	}
	if c.Shortcuts.Hold == "" && c.Shortcuts.Toggle == "" {
		return fmt.Errorf("at least one shortcut must be configured")
	}
	if c.Enhancement.Enabled && c.Enhancement.BaseURL == "" {
		return fmt.Errorf("enhancement.base_url must be set when enhancement is enabled")
	}
	if c.Enhancement.TimeoutS <= 0 {
		c.Enhancement.TimeoutS = 10
	}
	return nil
}

// MinDuration returns the minimum recording duration gate.
func (c Config) MinDuration() time.Duration {
	return time.Duration(c.MinDurationS * float64(time.Second))
}

// EnhancementTimeout returns the enhancement request deadline.
func (c Config) EnhancementTimeout() time.Duration {
	return time.Duration(c.Enhancement.TimeoutS * float64(time.Second))
}

// APIKey resolves the enhancement API key from the configured env var.
func (e Enhancement) APIKey() string {
	if e.APIKeyEnvVar == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnvVar)
}

// WriteDefault writes the default config as JSON, creating parent
// directories as needed.
func WriteDefault(path string) error {
	cfg := Default()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
