package stdout

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
)

// metricStore holds metric values shared by every tagged view of a Metrics
// instance. A single mutex guards all three maps.
type metricStore struct {
	mu         sync.RWMutex
	counters   map[string]int64
	histograms map[string][]float64
	gauges     map[string]float64
}

// Metrics implements observability.Metrics using stdout
type Metrics struct {
	tags   map[string]string
	logger *log.Logger
	store  *metricStore
}

// NewMetrics creates a new stdout metrics instance
func NewMetrics() observability.Metrics {
	return &Metrics{
		tags:   make(map[string]string),
		logger: log.New(os.Stdout, "", 0),
		store: &metricStore{
			counters:   make(map[string]int64),
			histograms: make(map[string][]float64),
			gauges:     make(map[string]float64),
		},
	}
}

// IncrementCounter increments a counter metric
func (m *Metrics) IncrementCounter(name string, tags map[string]string) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	key := m.buildKey(name, tags)
	m.store.counters[key]++

	m.logMetric("COUNTER", name, float64(m.store.counters[key]), tags)
}

// RecordHistogram records a histogram value
func (m *Metrics) RecordHistogram(name string, value float64, tags map[string]string) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	key := m.buildKey(name, tags)
	m.store.histograms[key] = append(m.store.histograms[key], value)

	stats := calculateStats(m.store.histograms[key])
	m.logHistogram(name, value, tags, stats)
}

// RecordGauge records a gauge value
func (m *Metrics) RecordGauge(name string, value float64, tags map[string]string) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	key := m.buildKey(name, tags)
	m.store.gauges[key] = value

	m.logMetric("GAUGE", name, value, tags)
}

// WithTags returns a new Metrics instance with additional tags.
// The returned instance shares the underlying metric storage.
func (m *Metrics) WithTags(tags map[string]string) observability.Metrics {
	newTags := make(map[string]string)
	for k, v := range m.tags {
		newTags[k] = v
	}
	for k, v := range tags {
		newTags[k] = v
	}

	return &Metrics{
		tags:   newTags,
		logger: m.logger,
		store:  m.store,
	}
}

// GetCounter returns the current value of a counter (useful for testing)
func (m *Metrics) GetCounter(name string, tags map[string]string) int64 {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	return m.store.counters[m.buildKey(name, tags)]
}

// GetHistogram returns all values recorded for a histogram (useful for testing)
func (m *Metrics) GetHistogram(name string, tags map[string]string) []float64 {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	values := m.store.histograms[m.buildKey(name, tags)]

	// Return a copy to avoid race conditions
	result := make([]float64, len(values))
	copy(result, values)
	return result
}

// GetGauge returns the current value of a gauge (useful for testing)
func (m *Metrics) GetGauge(name string, tags map[string]string) float64 {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	return m.store.gauges[m.buildKey(name, tags)]
}

// Reset clears all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	m.store.counters = make(map[string]int64)
	m.store.histograms = make(map[string][]float64)
	m.store.gauges = make(map[string]float64)
}

// buildKey creates a unique key for a metric with tags
func (m *Metrics) buildKey(name string, tags map[string]string) string {
	allTags := m.combineTags(tags)

	// Build sorted tag string for consistent keys
	var tagPairs []string
	for k, v := range allTags {
		tagPairs = append(tagPairs, fmt.Sprintf("%s:%s", k, v))
	}
	sort.Strings(tagPairs)

	if len(tagPairs) > 0 {
		return fmt.Sprintf("%s{%s}", name, strings.Join(tagPairs, ","))
	}
	return name
}

// combineTags merges default tags with provided tags
func (m *Metrics) combineTags(tags map[string]string) map[string]string {
	allTags := make(map[string]string)
	for k, v := range m.tags {
		allTags[k] = v
	}
	for k, v := range tags {
		allTags[k] = v
	}
	return allTags
}

// logMetric logs a metric to stdout
func (m *Metrics) logMetric(metricType string, name string, value float64, tags map[string]string) {
	allTags := m.combineTags(tags)

	if jsonMetrics {
		m.logJSONEntry(map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"type":      "metric",
			"metric":    metricType,
			"name":      name,
			"value":     value,
			"tags":      allTags,
		})
	} else {
		m.logger.Printf("%s [METRIC] %s %s=%.2f%s",
			time.Now().UTC().Format(time.RFC3339), metricType, name, value, formatTags(allTags))
	}
}

// logHistogram logs a histogram metric with statistics
func (m *Metrics) logHistogram(name string, value float64, tags map[string]string, stats histogramStats) {
	allTags := m.combineTags(tags)

	if jsonMetrics {
		m.logJSONEntry(map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"type":      "metric",
			"metric":    "HISTOGRAM",
			"name":      name,
			"value":     value,
			"stats": map[string]interface{}{
				"count": stats.count,
				"min":   stats.min,
				"max":   stats.max,
				"avg":   stats.avg,
			},
			"tags": allTags,
		})
	} else {
		m.logger.Printf("%s [METRIC] HISTOGRAM %s=%.2f count=%d min=%.2f max=%.2f avg=%.2f%s",
			time.Now().UTC().Format(time.RFC3339), name, value,
			stats.count, stats.min, stats.max, stats.avg, formatTags(allTags))
	}
}

// logJSONEntry marshals and prints a single metric entry
func (m *Metrics) logJSONEntry(entry map[string]interface{}) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		m.logger.Printf("Failed to marshal metric entry: %v", err)
		return
	}
	m.logger.Println(string(jsonBytes))
}

// formatTags renders tags as a " k=v k=v" suffix
func formatTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}

	var tagPairs []string
	for k, v := range tags {
		tagPairs = append(tagPairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(tagPairs)
	return " " + strings.Join(tagPairs, " ")
}

// histogramStats holds basic statistics for histogram values
type histogramStats struct {
	count int
	min   float64
	max   float64
	avg   float64
}

// calculateStats computes basic statistics for histogram values
func calculateStats(values []float64) histogramStats {
	if len(values) == 0 {
		return histogramStats{}
	}

	stats := histogramStats{
		count: len(values),
		min:   values[0],
		max:   values[0],
	}

	sum := 0.0
	for _, v := range values {
		sum += v
		if v < stats.min {
			stats.min = v
		}
		if v > stats.max {
			stats.max = v
		}
	}

	stats.avg = sum / float64(len(values))
	return stats
}

// Configuration

var jsonMetrics = false

// UseJSONMetrics enables JSON output format for metrics
func UseJSONMetrics(enabled bool) {
	jsonMetrics = enabled
}
