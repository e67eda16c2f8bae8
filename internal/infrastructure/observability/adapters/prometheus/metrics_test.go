package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementCounter(t *testing.T) {
	m := NewMetrics("prayer-crawler", "")
	scoped := m.WithTags(map[string]string{"component": "paginator"})

	scoped.IncrementCounter("pages.fetched", map[string]string{"category": "1"})
	scoped.IncrementCounter("pages.fetched", map[string]string{"category": "1"})

	entry := m.store.counters["pages_fetched_total"]
	require.NotNil(t, entry)
	assert.Equal(t, []string{"category", "component"}, entry.labels)

	counter, err := entry.vec.GetMetricWith(matchLabels(entry.labels, map[string]string{
		"component": "paginator",
		"category":  "1",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))
}

func TestCounterToleratesLabelDrift(t *testing.T) {
	m := NewMetrics("prayer-crawler", "")

	m.IncrementCounter("items.skipped", map[string]string{"reason": "duplicate"})
	// Extra tags are dropped, missing tags become empty strings
	m.IncrementCounter("items.skipped", map[string]string{"category": "7"})

	entry := m.store.counters["items_skipped_total"]
	require.NotNil(t, entry)
	assert.Equal(t, []string{"reason"}, entry.labels)

	blank, err := entry.vec.GetMetricWith(matchLabels(entry.labels, nil))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(blank))
}

func TestRecordHistogram(t *testing.T) {
	m := NewMetrics("prayer-crawler", "")

	m.RecordHistogram("download.duration", 0.42, map[string]string{"kind": "audio"})
	m.RecordHistogram("download.duration", 1.7, map[string]string{"kind": "document"})

	entry := m.store.histograms["download_duration"]
	require.NotNil(t, entry)
	assert.Equal(t, 2, testutil.CollectAndCount(entry.vec))
}

func TestRecordGauge(t *testing.T) {
	m := NewMetrics("prayer-crawler", "")

	m.RecordGauge("prayers.total", 41, nil)
	m.RecordGauge("prayers.total", 42, nil)

	entry := m.store.gauges["prayers_total"]
	require.NotNil(t, entry)

	gauge, err := entry.vec.GetMetricWith(matchLabels(entry.labels, nil))
	require.NoError(t, err)
	assert.Equal(t, 42.0, testutil.ToFloat64(gauge))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "storage.put.attempts", want: "storage_put_attempts"},
		{in: "prayer-crawler", want: "prayer_crawler"},
		{in: "already_clean", want: "already_clean"},
		{in: "9lives", want: "_9lives"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.in))
		})
	}
}

func TestCounterName(t *testing.T) {
	assert.Equal(t, "pages_fetched_total", counterName("pages.fetched"))
	assert.Equal(t, "errors_total", counterName("errors_total"))
}

func TestBucketsFor(t *testing.T) {
	assert.Equal(t, byteBuckets, bucketsFor("download_size_bytes"))
	assert.NotEqual(t, byteBuckets, bucketsFor("download_duration"))
}

func TestFlushWithoutGatewayIsNoop(t *testing.T) {
	m := NewMetrics("prayer-crawler", "")
	m.IncrementCounter("crawl.completed", nil)

	assert.NoError(t, m.Flush())
}

func TestFlushPushesToGateway(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMetrics("prayer-crawler", srv.URL)
	m.IncrementCounter("crawl.completed", nil)

	require.NoError(t, m.Flush())
	assert.Equal(t, "/metrics/job/prayer-crawler", gotPath)
}
