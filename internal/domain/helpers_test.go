package domain_test

import (
	"sync"
	"time"
)

// recordingMetrics is a domain.Metrics that counts every event.
type recordingMetrics struct {
	mu        sync.Mutex
	hits      int
	misses    int
	errors    int
	apiErrors map[string]int
	cacheOps  map[string]int
	requests  int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		apiErrors: make(map[string]int),
		cacheOps:  make(map[string]int),
	}
}

func (m *recordingMetrics) CacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *recordingMetrics) CacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *recordingMetrics) CacheError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

func (m *recordingMetrics) APIError(errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiErrors[errorType]++
}

func (m *recordingMetrics) ObserveCacheOperation(operation string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheOps[operation]++
}

func (m *recordingMetrics) ObserveRequest(_, _ string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
}
