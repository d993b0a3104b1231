// ABOUTME: Application configuration with file and environment overrides
// ABOUTME: Stores settings as JSON at an XDG path; env vars win over file
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigFileName is where settings are stored under the data directory.
const ConfigFileName = "config.json"

// Config holds process-level settings. Environment variables override file
// values:
// - USERDESK_DATA_DIR
// - USERDESK_LISTEN_ADDR
// - USERDESK_SEED
type Config struct {
	// DataDir holds the key-value store backing the activity log.
	DataDir string `json:"data_dir,omitempty"`

	// ListenAddr is the HTTP API bind address for the serve command.
	ListenAddr string `json:"listen_addr,omitempty"`

	// Seed loads the default user accounts at startup.
	Seed bool `json:"seed"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		DataDir:    filepath.Join(xdg.DataHome, "userdesk"),
		ListenAddr: ":8080",
		Seed:       true,
	}
}

func path() string {
	return filepath.Join(xdg.DataHome, "userdesk", ConfigFileName)
}

// Load reads the config file, falling back to defaults when it is absent or
// unreadable, then applies environment overrides.
func Load() *Config {
	cfg := Default()

	data, err := os.ReadFile(path())
	if err == nil {
		// Invalid file contents fall back to defaults
		_ = json.Unmarshal(data, cfg)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Default().ListenAddr
	}

	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if dir := os.Getenv("USERDESK_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if addr := os.Getenv("USERDESK_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if seed := os.Getenv("USERDESK_SEED"); seed != "" {
		cfg.Seed = seed == "true" || seed == "1"
	}
}

// Save persists the config to the data directory.
func (c *Config) Save() error {
	p := path()
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0600)
}
