// FILE: lixenwraith/tradelog/config.go
package tradelog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
	"github.com/lixenwraith/tradelog/spsc"
)

// Config holds all logger configuration values
type Config struct {
	// Channel
	BufferSize int64 `toml:"buffer_size"` // Ring capacity, rounded up to a power of two

	// Worker placement
	EnablePinning bool  `toml:"enable_pinning"` // Pin the worker thread to one core
	CoreIndex     int64 `toml:"core_index"`     // Preferred core, -1 selects the last available core

	// Idle behavior
	SpinCount   int64 `toml:"spin_count"`    // Cooperative yields before sleeping
	IdleSleepUs int64 `toml:"idle_sleep_us"` // Upper bound of the idle sleep backoff

	// Timers
	FlushIntervalMs     int64 `toml:"flush_interval_ms"`     // Sink sync interval while idle
	HeartbeatIntervalMs int64 `toml:"heartbeat_interval_ms"` // Worker stats record interval (0=disabled)
	ShutdownTimeoutMs   int64 `toml:"shutdown_timeout_ms"`   // Default wait in Shutdown

	// Console output
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// File output
	EnableFile bool   `toml:"enable_file"`
	Directory  string `toml:"directory"`
	Name       string `toml:"name"` // Base name for the log file
	Extension  string `toml:"extension"`

	// Rendering
	Sanitization string `toml:"sanitization"` // "raw" or "txt"

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write worker diagnostics to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Channel
	BufferSize: 4096,

	// Worker placement
	EnablePinning: true,
	CoreIndex:     -1,

	// Idle behavior
	SpinCount:   64,
	IdleSleepUs: 500,

	// Timers
	FlushIntervalMs:     100,
	HeartbeatIntervalMs: 0,
	ShutdownTimeoutMs:   200,

	// Console output
	EnableConsole: true,
	ConsoleTarget: ConsoleStdout,

	// File output
	EnableFile: false,
	Directory:  "./logs",
	Name:       "trade",
	Extension:  "log",

	// Rendering
	Sanitization: SanitizeRaw,

	// Internal error handling
	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
// Keys are read from the [tradelog] table; missing keys keep their defaults
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("tradelog.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// Missing file is not an error, defaults apply
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "tradelog.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies values found by the loader into cfg, matched by toml tag
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		tomlTag := t.Field(i).Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			// TOML decoders may surface whole numbers as float64
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	// Numeric validations
	if c.BufferSize <= 0 || c.BufferSize > spsc.MaxCapacity {
		return fmtErrorf("buffer_size must be between 1 and %d: %d", spsc.MaxCapacity, c.BufferSize)
	}

	if c.CoreIndex < -1 {
		return fmtErrorf("core_index must be -1 (last core) or a core number: %d", c.CoreIndex)
	}

	if c.SpinCount < 0 {
		return fmtErrorf("spin_count cannot be negative: %d", c.SpinCount)
	}

	if c.IdleSleepUs <= 0 || c.FlushIntervalMs <= 0 || c.ShutdownTimeoutMs <= 0 {
		return fmtErrorf("interval settings must be positive")
	}

	if c.HeartbeatIntervalMs < 0 {
		return fmtErrorf("heartbeat_interval_ms cannot be negative: %d", c.HeartbeatIntervalMs)
	}

	// String validations
	if c.ConsoleTarget != ConsoleStdout && c.ConsoleTarget != ConsoleStderr {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.Sanitization != SanitizeRaw && c.Sanitization != SanitizeTxt {
		return fmtErrorf("invalid sanitization: '%s' (use raw or txt)", c.Sanitization)
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	// Cross-field validations
	if c.EnableFile {
		if strings.TrimSpace(c.Name) == "" {
			return fmtErrorf("log name cannot be empty when file output is enabled")
		}
		if strings.TrimSpace(c.Directory) == "" {
			return fmtErrorf("directory cannot be empty when file output is enabled")
		}
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
