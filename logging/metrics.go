package logging

import "sync"

// CounterSet is a concurrency-safe registry of named uint64 counters and
// gauges. It backs the telemetry Metrics interface used across the server.
type CounterSet struct {
	mu     sync.RWMutex
	values map[string]uint64
}

func NewCounterSet() *CounterSet {
	return &CounterSet{values: make(map[string]uint64)}
}

// TelemetryAdd increments the named counter by delta.
func (c *CounterSet) TelemetryAdd(key string, delta uint64) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	c.values[key] += delta
	c.mu.Unlock()
}

// TelemetryStore overwrites the named gauge.
func (c *CounterSet) TelemetryStore(key string, value uint64) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
}

// Value reads a single counter, returning zero for unknown keys.
func (c *CounterSet) Value(key string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// Snapshot copies every counter for the diagnostics endpoint.
func (c *CounterSet) Snapshot() map[string]uint64 {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	copied := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		copied[k] = v
	}
	return copied
}
