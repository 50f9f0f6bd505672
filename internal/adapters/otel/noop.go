package otel

import "context"

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExperimentCreated(context.Context, int) {}
func (e *NoOpExporter) VersionCreated(context.Context, string, int) {}
func (e *NoOpExporter) NotificationAdded(context.Context, string) {}
func (e *NoOpExporter) SocialLogin(context.Context, string, bool) {}
func (e *NoOpExporter) ComparisonRendered(context.Context) {}
func (e *NoOpExporter) Close(ctx context.Context) error { return nil }
