// Package monitor tracks processing performance across the lifetime of the
// service. Averages are computed over a rolling window of recent samples so
// a long-running process reports current behavior rather than boot-time
// history; totals cover everything ever recorded.
package monitor

import (
	"sync"
	"time"

	"github.com/veilware/veil/internal/pii"
)

// defaultWindow is the number of recent samples kept for averages.
const defaultWindow = 512

// Stats is a point-in-time view of processing performance.
type Stats struct {
	TotalProcessed     int64   `json:"total_processed"`
	TotalEntities      int64   `json:"total_entities"`
	CacheHits          int64   `json:"cache_hits"`
	HitRate            float64 `json:"hit_rate"`
	AvgProcessingMs    float64 `json:"avg_processing_time_ms"`
	CharsPerSecond     float64 `json:"chars_per_second"`
	AvgEntitiesPerText float64 `json:"avg_entities_per_text"`
	WindowSize         int     `json:"window_size"`
}

type sample struct {
	duration time.Duration
	textLen  int
	entities int
}

// Monitor records processing outcomes. Safe for concurrent use.
type Monitor struct {
	mu     sync.Mutex
	window []sample
	next   int

	processed int64
	entities  int64
	hits      int64
}

// New returns a monitor with the default rolling window.
func New() *Monitor {
	return NewWindow(defaultWindow)
}

// NewWindow returns a monitor that averages over the last n samples.
func NewWindow(n int) *Monitor {
	if n < 1 {
		n = 1
	}
	return &Monitor{window: make([]sample, 0, n)}
}

// Record adds one processing outcome.
func (m *Monitor) Record(d time.Duration, textLen, entities int, cacheHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := sample{duration: d, textLen: textLen, entities: entities}
	if len(m.window) < cap(m.window) {
		m.window = append(m.window, s)
	} else {
		m.window[m.next] = s
		m.next = (m.next + 1) % cap(m.window)
	}

	m.processed++
	m.entities += int64(entities)
	if cacheHit {
		m.hits++
	}
}

// RecordResult records the outcome of a single pipeline call.
func (m *Monitor) RecordResult(res *pii.ProcessingResult) {
	if res == nil {
		return
	}
	m.Record(res.ProcessingTime, res.Metadata.TextLength, res.TotalEntities, res.CacheHits > 0)
}

// Snapshot returns current statistics. Totals cover all recorded samples;
// averages cover only the rolling window.
func (m *Monitor) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Stats{
		TotalProcessed: m.processed,
		TotalEntities:  m.entities,
		CacheHits:      m.hits,
		WindowSize:     len(m.window),
	}
	if m.processed > 0 {
		st.HitRate = float64(m.hits) / float64(m.processed) * 100
	}
	if len(m.window) == 0 {
		return st
	}

	var dur time.Duration
	var chars, found int
	for _, s := range m.window {
		dur += s.duration
		chars += s.textLen
		found += s.entities
	}
	n := float64(len(m.window))
	st.AvgProcessingMs = dur.Seconds() * 1000 / n
	if dur > 0 {
		st.CharsPerSecond = float64(chars) / dur.Seconds()
	}
	st.AvgEntitiesPerText = float64(found) / n
	return st
}

// Reset discards all samples and counters.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window = m.window[:0]
	m.next = 0
	m.processed = 0
	m.entities = 0
	m.hits = 0
}
