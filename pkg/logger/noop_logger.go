package logger

import "context"

// noopLogger discards everything. Used in tests and as a safe default.
type noopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(context.Context, string, ...Field)        {}
func (noopLogger) Info(context.Context, string, ...Field)         {}
func (noopLogger) Warn(context.Context, string, ...Field)         {}
func (noopLogger) Error(context.Context, string, error, ...Field) {}

func (n noopLogger) WithFields(...Field) Logger  { return n }
func (n noopLogger) WithComponent(string) Logger { return n }
