package authcore

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsInert(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricValidateLatency, time.Millisecond)

	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("Value = %d, want 0", got)
	}

	var nilMetrics *Metrics
	nilMetrics.Inc(MetricLoginSuccess)
	if nilMetrics.Enabled() {
		t.Fatal("nil metrics must report disabled")
	}
}

func TestMetricsCountersAccumulate(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	for i := 0; i < 7; i++ {
		m.Inc(MetricLoginFailure)
	}
	m.Inc(MetricLogout)

	if got := m.Value(MetricLoginFailure); got != 7 {
		t.Fatalf("login failure = %d, want 7", got)
	}
	if got := m.Value(MetricLogout); got != 1 {
		t.Fatalf("logout = %d, want 1", got)
	}

	snapshot := m.Snapshot()
	if snapshot.Counters[MetricLoginFailure] != 7 {
		t.Fatalf("snapshot login failure = %d", snapshot.Counters[MetricLoginFailure])
	}
	if len(snapshot.Histograms) != 0 {
		t.Fatal("histograms present without latency enabled")
	}
}

func TestMetricsConcurrentIncrements(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				m.Inc(MetricRefreshSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRefreshSuccess); got != workers*perWorker {
		t.Fatalf("counter = %d, want %d", got, workers*perWorker)
	}
}

func TestLatencyBucketBoundaries(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{50 * time.Microsecond, 0},
		{51 * time.Microsecond, 1},
		{100 * time.Microsecond, 1},
		{250 * time.Microsecond, 2},
		{500 * time.Microsecond, 3},
		{time.Millisecond, 4},
		{5 * time.Millisecond, 5},
		{25 * time.Millisecond, 6},
		{time.Second, 7},
	}

	for _, tc := range cases {
		if got := bucketIndex(tc.d); got != tc.want {
			t.Fatalf("bucketIndex(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestObserveRecordsIntoHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricValidateLatency, 40*time.Microsecond)
	m.Observe(MetricValidateLatency, 40*time.Microsecond)
	m.Observe(MetricValidateLatency, 2*time.Second)

	// Only the latency metric accepts observations.
	m.Observe(MetricLoginSuccess, time.Millisecond)

	buckets := m.Snapshot().Histograms[MetricValidateLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d, want %d", len(buckets), histBucketCount)
	}
	if buckets[0] != 2 {
		t.Fatalf("fastest bucket = %d, want 2", buckets[0])
	}
	if buckets[histBucketCount-1] != 1 {
		t.Fatalf("overflow bucket = %d, want 1", buckets[histBucketCount-1])
	}
}
