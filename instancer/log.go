package instancer

import "github.com/npillmayer/schuko/tracing"

// tracer returns this package's trace channel, following the
// tracing.Select(name)-per-package convention.
func tracer() tracing.Trace {
	return tracing.Select("varinstance")
}

// Logger is the logging collaborator interface §6 calls out: a thin,
// severity-leveled sink so the core can report recoverable anomalies
// (an unrecognized feature-variation condition format, a STAT record
// dropped for a format-4 sub-entry mismatch) without taking a hard
// dependency on any particular logging library beyond what the rest of
// this module already uses.
type Logger interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// TracingLogger adapts schuko/tracing to the Logger interface.
type TracingLogger struct{}

// Warnf reports a recoverable anomaly.
func (TracingLogger) Warnf(format string, args ...interface{}) {
	tracer().Errorf(format, args...)
}

// Infof reports routine progress.
func (TracingLogger) Infof(format string, args ...interface{}) {
	tracer().Infof(format, args...)
}

// NopLogger discards everything; the zero value of Options uses it.
type NopLogger struct{}

func (NopLogger) Warnf(format string, args ...interface{}) {}
func (NopLogger) Infof(format string, args ...interface{}) {}
