// FILE: lixenwraith/tradelog/storage.go
package tradelog

import (
	"io"
	"os"
	"path/filepath"
)

// syncer is implemented by sinks that buffer below the Write call (files, bufio wrappers)
type syncer interface {
	Sync() error
}

// output is the sink set of one logger. The worker is the only writer.
type output struct {
	w    io.Writer
	file *os.File // owned, nil unless file output is enabled
	sync syncer   // nil when the sink cannot be synced
	path string
}

// openOutput builds the sink described by cfg. A non-nil external writer
// replaces console and file output and is never closed by the logger.
func openOutput(cfg *Config, external io.Writer) (*output, error) {
	if external != nil {
		out := &output{w: external}
		if s, ok := external.(syncer); ok {
			out.sync = s
		}
		return out, nil
	}

	out := &output{}
	var writers []io.Writer

	if cfg.EnableFile {
		file, path, err := createLogFile(cfg)
		if err != nil {
			return nil, err
		}
		out.file = file
		out.sync = file
		out.path = path
		writers = append(writers, file)
	}

	// Console is never synced, terminals and pipes reject fsync
	if cfg.EnableConsole {
		if cfg.ConsoleTarget == ConsoleStderr {
			writers = append(writers, os.Stderr)
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	switch len(writers) {
	case 0:
		out.w = io.Discard
	case 1:
		out.w = writers[0]
	default:
		out.w = io.MultiWriter(writers...)
	}

	return out, nil
}

// getStaticLogFilePath returns the full path to the active log file
func getStaticLogFilePath(cfg *Config) string {
	name := cfg.Name
	if cfg.Extension != "" {
		name += "." + cfg.Extension
	}
	return filepath.Join(cfg.Directory, name)
}

// createLogFile ensures the directory exists and opens the log file for append
func createLogFile(cfg *Config) (*os.File, string, error) {
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, "", fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
	}

	fullPath := getStaticLogFilePath(cfg)
	file, err := os.OpenFile(fullPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, "", fmtErrorf("failed to open/create log file '%s': %w", fullPath, err)
	}
	return file, fullPath, nil
}

// performSync syncs the sink if it supports it
func (o *output) performSync() error {
	if o.sync == nil {
		return nil
	}
	if err := o.sync.Sync(); err != nil {
		return fmtErrorf("failed to sync sink: %w", err)
	}
	return nil
}

// close syncs and releases the owned log file; external sinks are left open
func (o *output) close() error {
	var finalErr error
	if err := o.performSync(); err != nil {
		finalErr = combineErrors(finalErr, err)
	}
	if o.file != nil {
		if err := o.file.Close(); err != nil {
			closeErr := fmtErrorf("failed to close log file '%s': %w", o.path, err)
			finalErr = combineErrors(finalErr, closeErr)
		}
		o.file = nil
		o.sync = nil
	}
	return finalErr
}
