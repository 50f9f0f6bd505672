package otel

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/coBecT/MtsTrueTech/internal/ports"
)

const (
	serviceName    = "labtrack"
	serviceVersion = "1.0.0"
)

// Exporter exports application events to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	experiments   metric.Int64Counter
	attachments   metric.Int64Counter
	versions      metric.Int64Counter
	alerts        metric.Int64Counter
	notifications metric.Int64Counter
	socialLogins  metric.Int64Counter
	comparisons   metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	e, err := newExporter(sdkmetric.NewPeriodicReader(exp), res)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

// New returns the OTLP exporter when cfg enables it and a no-op exporter
// otherwise, including when the collector cannot be set up.
func New(ctx context.Context, cfg Config) ports.MetricsExporter {
	if !cfg.Enabled {
		return NewNoOpExporter()
	}
	e, err := NewExporter(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", cfg.Endpoint).Msg("metrics disabled")
		return NewNoOpExporter()
	}
	return e
}

func newExporter(reader sdkmetric.Reader, res *resource.Resource) (*Exporter, error) {
	opts := []sdkmetric.Option{sdkmetric.WithReader(reader)}
	if res != nil {
		opts = append(opts, sdkmetric.WithResource(res))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(serviceName)

	e := &Exporter{provider: provider}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&e.experiments, "labtrack_experiments_created_total", "Experiments created", "{experiment}"},
		{&e.attachments, "labtrack_experiment_files_total", "Files attached to new experiments", "{file}"},
		{&e.versions, "labtrack_versions_created_total", "Experiment versions created", "{version}"},
		{&e.alerts, "labtrack_critical_alerts_total", "Critical parameter alerts raised", "{alert}"},
		{&e.notifications, "labtrack_notifications_total", "Notifications added", "{notification}"},
		{&e.socialLogins, "labtrack_social_logins_total", "Social login attempts", "{login}"},
		{&e.comparisons, "labtrack_comparisons_total", "Comparison views rendered", "{view}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}
	return e, nil
}

func (e *Exporter) ExperimentCreated(ctx context.Context, files int) {
	e.experiments.Add(ctx, 1)
	e.attachments.Add(ctx, int64(files))
}

func (e *Exporter) VersionCreated(ctx context.Context, experimentID string, alerts int) {
	opt := metric.WithAttributes(attribute.String("experiment_id", experimentID))
	e.versions.Add(ctx, 1, opt)
	if alerts > 0 {
		e.alerts.Add(ctx, int64(alerts), opt)
	}
}

func (e *Exporter) NotificationAdded(ctx context.Context, kind string) {
	e.notifications.Add(ctx, 1, metric.WithAttributes(attribute.String("type", kind)))
}

func (e *Exporter) SocialLogin(ctx context.Context, provider string, success bool) {
	e.socialLogins.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("success", success),
	))
}

func (e *Exporter) ComparisonRendered(ctx context.Context) {
	e.comparisons.Add(ctx, 1)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
