package goAuthState

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goAuthState/session"
)

func BenchmarkMetricsInc(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Inc(MetricAccessAllowed)
	}
}

func BenchmarkMetricsIncDisabled(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Inc(MetricAccessAllowed)
	}
}

var hotMetricIDs = [...]MetricID{
	MetricAccessAllowed,
	MetricAccessDenied,
	MetricPermissionCacheHit,
	MetricPermissionCacheMiss,
}

func BenchmarkMetricsIncMixedParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		idx := 0
		for pb.Next() {
			m.Inc(hotMetricIDs[idx])
			idx = (idx + 1) % len(hotMetricIDs)
		}
	})
}

func BenchmarkMetricsObserveParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Observe(MetricCredentialExchangeLatency, 80*time.Millisecond)
		}
	})
}

func BenchmarkEngineAccessAllowed(b *testing.B) {
	e, err := New().Build()
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()
	ctx := context.Background()
	e.Rehydrate(ctx)
	_ = e.Login(ctx, "bench-token", session.UserProfile{ID: 1, Username: "bench", Role: "TANTOSHA"})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.AccessAllowed(ctx, "/yukyu-requests")
	}
}
