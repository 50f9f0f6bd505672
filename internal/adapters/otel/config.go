package otel

// Config holds OTEL exporter configuration, filled from the otel.* config keys.
type Config struct {
	Endpoint string `koanf:"endpoint"`
	Enabled  bool   `koanf:"enabled"`
	Insecure bool   `koanf:"insecure"`
}
