// FILE: lixenwraith/tradelog/builder.go
package tradelog

import (
	"io"
)

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	sink io.Writer
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration and starts its worker.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewWithSink(b.cfg, b.sink)
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Sink replaces console and file output with a caller-owned writer.
func (b *Builder) Sink(w io.Writer) *Builder {
	b.sink = w
	return b
}

// Override applies "key=value" overrides on top of the current values.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	cfg, err := ApplyOverride(b.cfg, overrides...)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg = cfg
	return b
}

// BufferSize sets the channel capacity.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// EnablePinning enables or disables worker core pinning.
func (b *Builder) EnablePinning(enable bool) *Builder {
	b.cfg.EnablePinning = enable
	return b
}

// CoreIndex sets the preferred worker core, -1 for the last available core.
func (b *Builder) CoreIndex(core int64) *Builder {
	b.cfg.CoreIndex = core
	return b
}

// SpinCount sets the number of idle yields before the worker sleeps.
func (b *Builder) SpinCount(count int64) *Builder {
	b.cfg.SpinCount = count
	return b
}

// IdleSleepUs sets the maximum idle sleep in microseconds.
func (b *Builder) IdleSleepUs(us int64) *Builder {
	b.cfg.IdleSleepUs = us
	return b
}

// FlushIntervalMs sets the sink sync interval.
func (b *Builder) FlushIntervalMs(ms int64) *Builder {
	b.cfg.FlushIntervalMs = ms
	return b
}

// HeartbeatIntervalMs sets the heartbeat interval, 0 disables heartbeats.
func (b *Builder) HeartbeatIntervalMs(ms int64) *Builder {
	b.cfg.HeartbeatIntervalMs = ms
	return b
}

// ShutdownTimeoutMs sets the default Shutdown wait.
func (b *Builder) ShutdownTimeoutMs(ms int64) *Builder {
	b.cfg.ShutdownTimeoutMs = ms
	return b
}

// EnableConsole enables console output.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget sets the console stream ("stdout" or "stderr").
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// EnableFile enables file output.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Name sets the log file base name.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// Sanitization sets the output sanitization policy ("raw" or "txt").
func (b *Builder) Sanitization(policy string) *Builder {
	b.cfg.Sanitization = policy
	return b
}

// InternalErrorsToStderr routes worker diagnostics to stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// logger, err := tradelog.NewBuilder().
//
//	BufferSize(8192).
//	CoreIndex(3).
//	EnableFile(true).
//	Directory("/var/log/trading").
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Warning("feed reconnected")
//
// }
