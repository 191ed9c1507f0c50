package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects counters for the request cache and page loads.
// It satisfies cache.Metrics.
type Metrics struct {
	mu sync.Mutex

	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	cacheBypasses  atomic.Int64
	cacheEvictions atomic.Int64

	pageMetrics map[string]*PageMetrics
}

// PageMetrics represents metrics for a single page.
type PageMetrics struct {
	loadCount     atomic.Int64
	renderedCount atomic.Int64
	failedCount   atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		pageMetrics: make(map[string]*PageMetrics),
	}
}

// Hit records a cache hit.
func (m *Metrics) Hit() { m.cacheHits.Add(1) }

// Miss records a cache miss.
func (m *Metrics) Miss() { m.cacheMisses.Add(1) }

// Bypass records a busted cache call.
func (m *Metrics) Bypass() { m.cacheBypasses.Add(1) }

// Evict records a failed load removed from the cache.
func (m *Metrics) Evict() { m.cacheEvictions.Add(1) }

// RecordLoad records the start of a page load.
func (m *Metrics) RecordLoad(page string) {
	m.getPageMetrics(page).loadCount.Add(1)
}

// RecordRendered records a page that rendered its cards.
func (m *Metrics) RecordRendered(page string, d time.Duration) {
	pm := m.getPageMetrics(page)
	pm.renderedCount.Add(1)
	pm.totalDuration.Add(d.Milliseconds())
}

// RecordFailed records a page that fell back to the error fragment.
func (m *Metrics) RecordFailed(page string, d time.Duration) {
	pm := m.getPageMetrics(page)
	pm.failedCount.Add(1)
	pm.totalDuration.Add(d.Milliseconds())
}

func (m *Metrics) getPageMetrics(page string) *PageMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	pm, ok := m.pageMetrics[page]
	if !ok {
		pm = &PageMetrics{}
		m.pageMetrics[page] = pm
	}
	return pm
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.cacheBypasses.Store(0)
	m.cacheEvictions.Store(0)

	m.mu.Lock()
	m.pageMetrics = make(map[string]*PageMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	pages := make([]PageMetricsSnapshot, 0, len(m.pageMetrics))
	for name, pm := range m.pageMetrics {
		loads := pm.loadCount.Load()
		total := pm.totalDuration.Load()
		var avg int64
		if loads > 0 {
			avg = total / loads
		}
		pages = append(pages, PageMetricsSnapshot{
			Page:            name,
			Loads:           loads,
			Rendered:        pm.renderedCount.Load(),
			Failed:          pm.failedCount.Load(),
			AverageDuration: avg,
		})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Page < pages[j].Page })

	return &MetricsSnapshot{
		CacheHits:      m.cacheHits.Load(),
		CacheMisses:    m.cacheMisses.Load(),
		CacheBypasses:  m.cacheBypasses.Load(),
		CacheEvictions: m.cacheEvictions.Load(),
		Pages:          pages,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	CacheHits      int64                 `json:"cache_hits"`
	CacheMisses    int64                 `json:"cache_misses"`
	CacheBypasses  int64                 `json:"cache_bypasses"`
	CacheEvictions int64                 `json:"cache_evictions"`
	Pages          []PageMetricsSnapshot `json:"pages"`
}

// PageMetricsSnapshot represents metrics for a single page.
type PageMetricsSnapshot struct {
	Page            string `json:"page"`
	Loads           int64  `json:"loads"`
	Rendered        int64  `json:"rendered"`
	Failed          int64  `json:"failed"`
	AverageDuration int64  `json:"avg_duration_ms"`
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s *MetricsSnapshot) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100.0
}
