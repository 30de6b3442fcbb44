// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for lens.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.lens/config.toml
//   - ~/.lens/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/lens-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lens configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`
	// DataDir overrides the default ~/.lens data directory
	DataDir string `toml:"data_dir" json:"data_dir"`

	// Oracle (answer backend) configuration
	Oracle OracleConfig `toml:"oracle" json:"oracle"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Index configuration
	Index IndexConfig `toml:"index" json:"index"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// OracleConfig contains answer backend configuration.
type OracleConfig struct {
	// BaseURL is the URL of the insight service
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-question timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is how many times a transient failure is retried
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RequestsPerMin caps the question rate sent to the service
	RequestsPerMin int `toml:"requests_per_min" json:"requests_per_min"`
	// Simulate answers questions locally instead of calling the service
	Simulate bool `toml:"simulate" json:"simulate"`
	// SimulatedLatencyMs is the artificial answer delay in simulate mode
	SimulatedLatencyMs int `toml:"simulated_latency_ms" json:"simulated_latency_ms"`
}

// StorageConfig contains snapshot storage configuration.
type StorageConfig struct {
	// Encrypt stores the snapshot encrypted at rest (AES-256-GCM)
	Encrypt bool `toml:"encrypt" json:"encrypt"`
	// Passphrase is the encryption passphrase. Prefer LENS_PASSPHRASE over
	// writing it to the config file.
	Passphrase string `toml:"passphrase" json:"passphrase"`
}

// IndexConfig contains search index configuration.
type IndexConfig struct {
	// Enabled controls whether the search index is maintained
	Enabled bool `toml:"enabled" json:"enabled"`
	// WatchDebounceMs is how long snapshot writes must settle before a
	// reindex triggers
	WatchDebounceMs int `toml:"watch_debounce_ms" json:"watch_debounce_ms"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// DefaultMode is the question mode on startup: "company" or "slack"
	DefaultMode string `toml:"default_mode" json:"default_mode"`
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowSuggestions displays common questions in empty chats
	ShowSuggestions bool `toml:"show_suggestions" json:"show_suggestions"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		DataDir: "",

		Oracle: OracleConfig{
			BaseURL:            "http://127.0.0.1:8790",
			TimeoutSecs:        30,
			MaxRetries:         3,
			RequestsPerMin:     30,
			Simulate:           true,
			SimulatedLatencyMs: 2000,
		},

		Storage: StorageConfig{
			Encrypt:    false,
			Passphrase: "",
		},

		Index: IndexConfig{
			Enabled:         true,
			WatchDebounceMs: 500,
		},

		UI: UIConfig{
			DefaultMode:     "company",
			Theme:           "dark",
			CompactMode:     false,
			ShowSuggestions: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the lens configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".lens"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ResolveDataDir returns the effective data directory, creating it if
// needed.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		var err error
		dir, err = ConfigDir()
		if err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// SnapshotPath returns where the chat snapshot lives.
func (c *Config) SnapshotPath() (string, error) {
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chats.json"), nil
}

// IndexPath returns where the search index database lives.
func (c *Config) IndexPath() (string, error) {
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "turns.db"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 in case a passphrase is stored in them.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# lens configuration file")
	fmt.Fprintln(file, "# Generated by lens - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Oracle settings
	if c.Oracle.BaseURL != "" {
		if _, err := url.Parse(c.Oracle.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "oracle.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}
	if c.Oracle.TimeoutSecs < 1 || c.Oracle.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "oracle.timeout_secs",
			Message: fmt.Sprintf("must be 1-300, got %d", c.Oracle.TimeoutSecs),
		})
	}
	if c.Oracle.MaxRetries < 0 || c.Oracle.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "oracle.max_retries",
			Message: fmt.Sprintf("must be 0-10, got %d", c.Oracle.MaxRetries),
		})
	}
	if c.Oracle.RequestsPerMin < 1 {
		errs = append(errs, ValidationError{
			Field:   "oracle.requests_per_min",
			Message: fmt.Sprintf("must be positive, got %d", c.Oracle.RequestsPerMin),
		})
	}
	if c.Oracle.SimulatedLatencyMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "oracle.simulated_latency_ms",
			Message: "must be non-negative",
		})
	}

	// Storage settings
	if c.Storage.Encrypt && c.Storage.Passphrase == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.passphrase",
			Message: "required when storage.encrypt is true (set LENS_PASSPHRASE)",
		})
	}

	// Index settings
	if c.Index.WatchDebounceMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "index.watch_debounce_ms",
			Message: "must be non-negative",
		})
	}

	// UI settings
	validModes := map[string]bool{"company": true, "slack": true}
	if !validModes[strings.ToLower(c.UI.DefaultMode)] {
		errs = append(errs, ValidationError{
			Field:   "ui.default_mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: company, slack", c.UI.DefaultMode),
		})
	}
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value
// configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Oracle.BaseURL == "" {
		c.Oracle.BaseURL = defaults.Oracle.BaseURL
	}
	if c.Oracle.TimeoutSecs == 0 {
		c.Oracle.TimeoutSecs = defaults.Oracle.TimeoutSecs
	}
	if c.Oracle.MaxRetries == 0 {
		c.Oracle.MaxRetries = defaults.Oracle.MaxRetries
	}
	if c.Oracle.RequestsPerMin == 0 {
		c.Oracle.RequestsPerMin = defaults.Oracle.RequestsPerMin
	}
	if c.Oracle.SimulatedLatencyMs == 0 {
		c.Oracle.SimulatedLatencyMs = defaults.Oracle.SimulatedLatencyMs
	}

	if c.Index.WatchDebounceMs == 0 {
		c.Index.WatchDebounceMs = defaults.Index.WatchDebounceMs
	}

	if c.UI.DefaultMode == "" {
		c.UI.DefaultMode = defaults.UI.DefaultMode
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - LENS_DATA_DIR: overrides data_dir
//   - LENS_ORACLE_URL: overrides oracle.base_url
//   - LENS_SIMULATE: set to "1" or "true" to answer locally
//   - LENS_MODE: overrides ui.default_mode
//   - LENS_ENCRYPT: set to "1" or "true" to encrypt the snapshot
//   - LENS_PASSPHRASE: overrides storage.passphrase
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("LENS_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}

	if u := os.Getenv("LENS_ORACLE_URL"); u != "" {
		c.Oracle.BaseURL = u
	}

	if simulate := os.Getenv("LENS_SIMULATE"); simulate != "" {
		c.Oracle.Simulate = simulate == "1" || strings.ToLower(simulate) == "true"
	}

	if mode := os.Getenv("LENS_MODE"); mode != "" {
		c.UI.DefaultMode = mode
	}

	if encrypt := os.Getenv("LENS_ENCRYPT"); encrypt != "" {
		c.Storage.Encrypt = encrypt == "1" || strings.ToLower(encrypt) == "true"
	}

	if passphrase := os.Getenv("LENS_PASSPHRASE"); passphrase != "" {
		c.Storage.Passphrase = passphrase
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type
// conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"data_dir",
		"oracle.base_url",
		"oracle.timeout_secs",
		"oracle.max_retries",
		"oracle.requests_per_min",
		"oracle.simulate",
		"oracle.simulated_latency_ms",
		"storage.encrypt",
		"storage.passphrase",
		"index.enabled",
		"index.watch_debounce_ms",
		"ui.default_mode",
		"ui.theme",
		"ui.compact_mode",
		"ui.show_suggestions",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// The passphrase is redacted so it never reaches logs or terminal output.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Storage.Passphrase != "" {
		safe.Storage.Passphrase = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access unless SetGlobal already published one. Thread-safe.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}
