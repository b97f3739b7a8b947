package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	AnalyzeCount        int64
	ClassifierScores    int64
	HeuristicFallbacks  int64
	AverageResponseTime int64 // in nanoseconds
	StartTime           time.Time

	// Response time samples for percentile reporting
	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	// Status code tracking
	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementAnalyze increments the analysis count
func (m *Metrics) IncrementAnalyze() {
	atomic.AddInt64(&m.AnalyzeCount, 1)
}

// IncrementClassifierScore records a score produced by the trained artifact
func (m *Metrics) IncrementClassifierScore() {
	atomic.AddInt64(&m.ClassifierScores, 1)
}

// IncrementHeuristicFallback records a score produced by the heuristic path
func (m *Metrics) IncrementHeuristicFallback() {
	atomic.AddInt64(&m.HeuristicFallbacks, 1)
}

// RecordResponseTime records response time for averaging and percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	current := atomic.LoadInt64(&m.AverageResponseTime)
	newAverage := (current + duration.Nanoseconds()) / 2
	atomic.StoreInt64(&m.AverageResponseTime, newAverage)

	// Keep the last 1000 samples
	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// percentile computes the p-th percentile of recorded response times
func (m *Metrics) percentile(p float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	sorted := append([]time.Duration(nil), m.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// GetStats returns current metrics as a map
func (m *Metrics) GetStats() map[string]interface{} {
	m.StatusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		byStatus[code] = count
	}
	m.StatusMutex.RUnlock()

	return map[string]interface{}{
		"request_count":        atomic.LoadInt64(&m.RequestCount),
		"error_count":          atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":           atomic.LoadInt64(&m.CacheHits),
		"cache_misses":         atomic.LoadInt64(&m.CacheMisses),
		"analyze_count":        atomic.LoadInt64(&m.AnalyzeCount),
		"classifier_scores":    atomic.LoadInt64(&m.ClassifierScores),
		"heuristic_fallbacks":  atomic.LoadInt64(&m.HeuristicFallbacks),
		"avg_response_time_ms": time.Duration(atomic.LoadInt64(&m.AverageResponseTime)).Milliseconds(),
		"p50_response_time_ms": m.percentile(0.50).Milliseconds(),
		"p95_response_time_ms": m.percentile(0.95).Milliseconds(),
		"p99_response_time_ms": m.percentile(0.99).Milliseconds(),
		"requests_by_status":   byStatus,
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
	}
}
