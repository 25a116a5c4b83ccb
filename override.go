// FILE: lixenwraith/tradelog/override.go
package tradelog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to a copy of cfg and
// returns the validated result. Each override should be in the format "key=value".
//
// Example:
//
//	cfg, err := tradelog.ApplyOverride(tradelog.DefaultConfig(),
//	    "buffer_size=8192",
//	    "core_index=3",
//	    "console_target=stderr",
//	)
func ApplyOverride(base *Config, overrides ...string) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}
	cfg := base.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, combineConfigErrors(errors)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("tradelog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "tradelog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Channel
	case "buffer_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for buffer_size '%s': %w", value, err)
		}
		cfg.BufferSize = intVal

	// Worker placement
	case "enable_pinning":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_pinning '%s': %w", value, err)
		}
		cfg.EnablePinning = boolVal
	case "core_index":
		if value == "last" {
			cfg.CoreIndex = -1
			break
		}
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for core_index '%s': %w", value, err)
		}
		cfg.CoreIndex = intVal

	// Idle behavior
	case "spin_count":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for spin_count '%s': %w", value, err)
		}
		cfg.SpinCount = intVal
	case "idle_sleep_us":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for idle_sleep_us '%s': %w", value, err)
		}
		cfg.IdleSleepUs = intVal

	// Timers
	case "flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for flush_interval_ms '%s': %w", value, err)
		}
		cfg.FlushIntervalMs = intVal
	case "heartbeat_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for heartbeat_interval_ms '%s': %w", value, err)
		}
		cfg.HeartbeatIntervalMs = intVal
	case "shutdown_timeout_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for shutdown_timeout_ms '%s': %w", value, err)
		}
		cfg.ShutdownTimeoutMs = intVal

	// Console output
	case "enable_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_console '%s': %w", value, err)
		}
		cfg.EnableConsole = boolVal
	case "console_target":
		cfg.ConsoleTarget = value

	// File output
	case "enable_file":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_file '%s': %w", value, err)
		}
		cfg.EnableFile = boolVal
	case "directory":
		cfg.Directory = value
	case "name":
		cfg.Name = value
	case "extension":
		cfg.Extension = value

	// Rendering
	case "sanitization":
		cfg.Sanitization = value

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
