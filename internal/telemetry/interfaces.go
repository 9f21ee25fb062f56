package telemetry

import (
	"log"

	"chain-racer/server/logging"
)

// Logger exposes the logging capabilities required by server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger to the Logger interface.
func WrapLogger(logger *log.Logger) Logger {
	return &loggerAdapter{logger: logger}
}

type loggerAdapter struct {
	logger *log.Logger
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf(format, args...)
}

// Metrics exposes the counter methods required by server components.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// WrapMetrics adapts the logging counter set into the Metrics interface.
func WrapMetrics(counters *logging.CounterSet) Metrics {
	return &metricsAdapter{counters: counters}
}

type metricsAdapter struct {
	counters *logging.CounterSet
}

func (m *metricsAdapter) Add(key string, delta uint64) {
	if m == nil || m.counters == nil {
		return
	}
	m.counters.TelemetryAdd(key, delta)
}

func (m *metricsAdapter) Store(key string, value uint64) {
	if m == nil || m.counters == nil {
		return
	}
	m.counters.TelemetryStore(key, value)
}
