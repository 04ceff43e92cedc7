package runner

import (
	"sync"
	"time"
)

// FlushFunc persists a meta snapshot.
type FlushFunc func(meta map[string]string) error

// MetaBuffer is a local mutable snapshot of a job's meta map. Writes land
// in memory only; Flush pushes a copy through the flush func at most once
// per interval unless forced. The executing worker owns the job's meta for
// the duration of the run, so the store may lag the buffer by up to one
// interval but never diverges.
type MetaBuffer struct {
	mu       sync.Mutex
	meta     map[string]string
	dirty    bool
	lastPush time.Time
	interval time.Duration
	flush    FlushFunc
}

func NewMetaBuffer(seed map[string]string, interval time.Duration, flush FlushFunc) *MetaBuffer {
	meta := make(map[string]string, len(seed))
	for k, v := range seed {
		meta[k] = v
	}
	return &MetaBuffer{meta: meta, interval: interval, flush: flush}
}

// Set records a key locally. The store is not touched.
func (m *MetaBuffer) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta[key] == value {
		return
	}
	m.meta[key] = value
	m.dirty = true
}

// Get returns the buffered value for key.
func (m *MetaBuffer) Get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta[key]
}

// Snapshot returns a copy of the buffered meta map.
func (m *MetaBuffer) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.meta))
	for k, v := range m.meta {
		out[k] = v
	}
	return out
}

// Flush pushes buffered meta through the flush func if anything changed
// and the throttle interval has passed. Forced flushes skip the throttle;
// the final flush when a job ends must be forced.
func (m *MetaBuffer) Flush(force bool) error {
	m.mu.Lock()
	if !m.dirty && !force {
		m.mu.Unlock()
		return nil
	}
	if !force && time.Since(m.lastPush) < m.interval {
		m.mu.Unlock()
		return nil
	}
	snap := make(map[string]string, len(m.meta))
	for k, v := range m.meta {
		snap[k] = v
	}
	m.dirty = false
	m.lastPush = time.Now()
	m.mu.Unlock()

	return m.flush(snap)
}
