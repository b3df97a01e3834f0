// Package diag carries the non-fatal "warning channel" the original spec
// calls for in §4.2 and §7: unknown hardware/core flag names falling back
// to defaults, nonzero reserved bytes, and private/public key mismatches
// are all surfaced here rather than printed directly from the core
// packages (builder.go in the teacher repo takes the same shape, routing
// every diagnostic through an hclog.Logger instead of fmt.Println).
package diag

import "github.com/hashicorp/go-hclog"

// Sink receives non-fatal diagnostics produced while building or verifying
// a package. Callers (CLI commands, tests) decide how warnings are
// surfaced; the core packages never write to stdout/stderr themselves.
type Sink interface {
	Warn(msg string, args ...any)
}

// LoggerSink adapts an hclog.Logger to Sink.
type LoggerSink struct {
	Logger hclog.Logger
}

func (s LoggerSink) Warn(msg string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, args...)
}

// nullSink discards every diagnostic; used where a caller doesn't care.
type nullSink struct{}

func (nullSink) Warn(string, ...any) {}

// NewNullSink returns a Sink that discards all diagnostics.
func NewNullSink() Sink { return nullSink{} }

// NewLoggerSink returns a Sink backed by logger. A nil logger yields the
// null sink behavior.
func NewLoggerSink(logger hclog.Logger) Sink {
	if logger == nil {
		return nullSink{}
	}
	return LoggerSink{Logger: logger}
}

// Collector records diagnostics in-memory as well as forwarding them to an
// underlying Sink, for callers (e.g. verifier scenario tests) that want to
// assert on which warnings fired.
type Collector struct {
	Messages []string
	Inner    Sink
}

func NewCollector(inner Sink) *Collector {
	if inner == nil {
		inner = nullSink{}
	}
	return &Collector{Inner: inner}
}

func (c *Collector) Warn(msg string, args ...any) {
	c.Messages = append(c.Messages, msg)
	c.Inner.Warn(msg, args...)
}
