// FILE: lixenwraith/tradelog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/tradelog"
)

// Builder provides a flexible way to create configured logger adapters for gnet and fasthttp
// All adapters built by one Builder share a single SharedLogger
type Builder struct {
	shared *SharedLogger
	logCfg *tradelog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters
// The logger must not be used directly afterwards, only through GetLogger
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l *tradelog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("tradelog/compat: provided logger cannot be nil")
		return b
	}
	b.shared = NewSharedLogger(l)
	return b
}

// WithShared reuses a SharedLogger created elsewhere
func (b *Builder) WithShared(s *SharedLogger) *Builder {
	if s == nil {
		b.err = fmt.Errorf("tradelog/compat: provided shared logger cannot be nil")
		return b
	}
	b.shared = s
	return b
}

// WithConfig provides a configuration for a new logger instance
// This is used only if an existing logger is NOT provided via WithLogger
// If neither WithLogger nor WithConfig is used, a default logger will be created
func (b *Builder) WithConfig(cfg *tradelog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the shared logger, creating one if necessary
func (b *Builder) getLogger() (*SharedLogger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.shared != nil {
		return b.shared, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = tradelog.DefaultConfig()
	}

	l, err := tradelog.New(cfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.shared = NewSharedLogger(l)
	return b.shared, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	s, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(s, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	s, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(s, opts...), nil
}

// GetLogger returns the SharedLogger behind the adapters
// If a logger has not been provided or created yet, it will be initialized
func (b *Builder) GetLogger() (*SharedLogger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	appLogger, err := tradelog.NewBuilder().EnableFile(true).Directory("/var/log/feed").Build()
//	if err != nil { /* handle error */ }
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
//
//	// Application code logs through the same SharedLogger
//	shared, _ := builder.GetLogger()
//	_ = shared.Log(msg.Warning{Message: "feed started"})
