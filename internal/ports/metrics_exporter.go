package ports

import "context"

// MetricsExporter exports application events to an external observability system.
type MetricsExporter interface {
	ExperimentCreated(ctx context.Context, files int)
	VersionCreated(ctx context.Context, experimentID string, alerts int)
	NotificationAdded(ctx context.Context, kind string)
	SocialLogin(ctx context.Context, provider string, success bool)
	ComparisonRendered(ctx context.Context)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
