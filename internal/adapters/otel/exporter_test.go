package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/coBecT/MtsTrueTech/internal/ports"
)

var (
	_ ports.MetricsExporter = (*Exporter)(nil)
	_ ports.MetricsExporter = (*NoOpExporter)(nil)
)

func sums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out
}

func TestExporter_Counters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	e, err := newExporter(reader, nil)
	if err != nil {
		t.Fatalf("newExporter failed: %v", err)
	}
	ctx := context.Background()

	e.ExperimentCreated(ctx, 3)
	e.ExperimentCreated(ctx, 0)
	e.VersionCreated(ctx, "1", 2)
	e.VersionCreated(ctx, "1", 0)
	e.NotificationAdded(ctx, "success")
	e.SocialLogin(ctx, "vk", true)
	e.SocialLogin(ctx, "google", false)
	e.ComparisonRendered(ctx)

	got := sums(t, reader)
	want := map[string]int64{
		"labtrack_experiments_created_total": 2,
		"labtrack_experiment_files_total":    3,
		"labtrack_versions_created_total":    2,
		"labtrack_critical_alerts_total":     2,
		"labtrack_notifications_total":       1,
		"labtrack_social_logins_total":       2,
		"labtrack_comparisons_total":         1,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %d, want %d", name, got[name], v)
		}
	}

	if err := e.Close(ctx); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNew_DisabledFallsBackToNoOp(t *testing.T) {
	exp := New(context.Background(), Config{Enabled: false, Endpoint: "localhost:4317"})
	if _, ok := exp.(*NoOpExporter); !ok {
		t.Fatalf("expected *NoOpExporter, got %T", exp)
	}
	if err := exp.Close(context.Background()); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNewExporter_RequiresEndpoint(t *testing.T) {
	if _, err := NewExporter(context.Background(), Config{Enabled: true}); err == nil {
		t.Error("expected error without endpoint")
	}
}
