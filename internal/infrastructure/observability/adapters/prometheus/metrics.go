package prometheus

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
)

// byteBuckets covers object sizes from 1KB to 1GB
var byteBuckets = []float64{
	1024,       // 1KB
	10240,      // 10KB
	102400,     // 100KB
	1048576,    // 1MB
	10485760,   // 10MB
	104857600,  // 100MB
	1073741824, // 1GB
}

// vecStore lazily creates one metric vector per metric name. The label
// set of the first observation wins; later observations are matched
// against it, with missing labels recorded as empty strings.
type vecStore struct {
	mu         sync.Mutex
	registry   *prom.Registry
	namespace  string
	counters   map[string]*vecEntry[*prom.CounterVec]
	histograms map[string]*vecEntry[*prom.HistogramVec]
	gauges     map[string]*vecEntry[*prom.GaugeVec]
}

type vecEntry[T any] struct {
	vec    T
	labels []string
}

// Metrics implements observability.Metrics backed by a private Prometheus
// registry. Metric names are sanitized to Prometheus conventions and
// prefixed with the service name. When a Pushgateway URL is configured,
// Flush pushes the whole registry at the end of a run.
type Metrics struct {
	tags    map[string]string
	store   *vecStore
	pushURL string
	job     string
}

// NewMetrics creates a Prometheus-backed metrics instance
func NewMetrics(serviceName, pushURL string) *Metrics {
	return &Metrics{
		tags: make(map[string]string),
		store: &vecStore{
			registry:   prom.NewRegistry(),
			namespace:  sanitizeName(serviceName),
			counters:   make(map[string]*vecEntry[*prom.CounterVec]),
			histograms: make(map[string]*vecEntry[*prom.HistogramVec]),
			gauges:     make(map[string]*vecEntry[*prom.GaugeVec]),
		},
		pushURL: pushURL,
		job:     serviceName,
	}
}

// IncrementCounter increments a counter metric
func (m *Metrics) IncrementCounter(name string, tags map[string]string) {
	counter, err := m.store.counter(name, m.combineTags(tags))
	if err != nil {
		return
	}
	counter.Inc()
}

// RecordHistogram records a histogram value
func (m *Metrics) RecordHistogram(name string, value float64, tags map[string]string) {
	histogram, err := m.store.histogram(name, m.combineTags(tags))
	if err != nil {
		return
	}
	histogram.Observe(value)
}

// RecordGauge records a gauge value
func (m *Metrics) RecordGauge(name string, value float64, tags map[string]string) {
	gauge, err := m.store.gauge(name, m.combineTags(tags))
	if err != nil {
		return
	}
	gauge.Set(value)
}

// WithTags returns a new Metrics instance with additional default tags.
// The returned instance shares the underlying registry.
func (m *Metrics) WithTags(tags map[string]string) observability.Metrics {
	newTags := make(map[string]string)
	for k, v := range m.tags {
		newTags[k] = v
	}
	for k, v := range tags {
		newTags[k] = v
	}

	return &Metrics{
		tags:    newTags,
		store:   m.store,
		pushURL: m.pushURL,
		job:     m.job,
	}
}

// Flush pushes all collected metrics to the configured Pushgateway.
// It is a no-op when no Pushgateway URL is configured.
func (m *Metrics) Flush() error {
	if m.pushURL == "" {
		return nil
	}

	if err := push.New(m.pushURL, m.job).Gatherer(m.store.registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", m.pushURL, err)
	}
	return nil
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

func (s *vecStore) counter(name string, tags map[string]string) (prom.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metricName := counterName(name)
	entry, ok := s.counters[metricName]
	if !ok {
		labelNames := sortedKeys(tags)
		vec := prom.NewCounterVec(prom.CounterOpts{
			Namespace: s.namespace,
			Name:      metricName,
			Help:      fmt.Sprintf("Total number of %s events", name),
		}, labelNames)
		if err := s.registry.Register(vec); err != nil {
			return nil, err
		}
		entry = &vecEntry[*prom.CounterVec]{vec: vec, labels: labelNames}
		s.counters[metricName] = entry
	}

	return entry.vec.GetMetricWith(matchLabels(entry.labels, tags))
}

func (s *vecStore) histogram(name string, tags map[string]string) (prom.Observer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metricName := sanitizeName(name)
	entry, ok := s.histograms[metricName]
	if !ok {
		labelNames := sortedKeys(tags)
		vec := prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: s.namespace,
			Name:      metricName,
			Help:      fmt.Sprintf("Distribution of %s", name),
			Buckets:   bucketsFor(metricName),
		}, labelNames)
		if err := s.registry.Register(vec); err != nil {
			return nil, err
		}
		entry = &vecEntry[*prom.HistogramVec]{vec: vec, labels: labelNames}
		s.histograms[metricName] = entry
	}

	return entry.vec.GetMetricWith(matchLabels(entry.labels, tags))
}

func (s *vecStore) gauge(name string, tags map[string]string) (prom.Gauge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metricName := sanitizeName(name)
	entry, ok := s.gauges[metricName]
	if !ok {
		labelNames := sortedKeys(tags)
		vec := prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: s.namespace,
			Name:      metricName,
			Help:      fmt.Sprintf("Current value of %s", name),
		}, labelNames)
		if err := s.registry.Register(vec); err != nil {
			return nil, err
		}
		entry = &vecEntry[*prom.GaugeVec]{vec: vec, labels: labelNames}
		s.gauges[metricName] = entry
	}

	return entry.vec.GetMetricWith(matchLabels(entry.labels, tags))
}

// counterName appends the conventional _total suffix to counter names
func counterName(name string) string {
	sanitized := sanitizeName(name)
	if strings.HasSuffix(sanitized, "_total") {
		return sanitized
	}
	return sanitized + "_total"
}

// bucketsFor selects histogram buckets based on the metric name.
// Byte-sized metrics get exponential buckets; everything else uses
// the default latency buckets.
func bucketsFor(metricName string) []float64 {
	if strings.HasSuffix(metricName, "_bytes") {
		return byteBuckets
	}
	return prom.DefBuckets
}

// sanitizeName converts a dotted metric name to Prometheus conventions
func sanitizeName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// sortedKeys returns the tag keys in stable order
func sortedKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// matchLabels builds a label set for exactly the given label names.
// Tags without a matching label name are dropped; missing labels are
// recorded as empty strings.
func matchLabels(labelNames []string, tags map[string]string) prom.Labels {
	labels := make(prom.Labels, len(labelNames))
	for _, name := range labelNames {
		labels[name] = tags[name]
	}
	return labels
}
