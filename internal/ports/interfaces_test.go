package ports_test

import (
	"testing"

	"github.com/coBecT/MtsTrueTech/internal/adapters/memory"
	"github.com/coBecT/MtsTrueTech/internal/adapters/otel"
	"github.com/coBecT/MtsTrueTech/internal/adapters/storage"
	"github.com/coBecT/MtsTrueTech/internal/adapters/turso"
	"github.com/coBecT/MtsTrueTech/internal/ports"
)

// Compile-time interface conformance checks.
// These verify that concrete adapters properly implement their port interfaces.

func TestExperimentRepositoryConformance(t *testing.T) {
	var _ ports.ExperimentRepository = (*turso.ExperimentRepository)(nil)
	var _ ports.ExperimentRepository = (*memory.ExperimentRepository)(nil)
}

func TestVersionRepositoryConformance(t *testing.T) {
	var _ ports.VersionRepository = (*turso.VersionRepository)(nil)
	var _ ports.VersionRepository = (*memory.VersionRepository)(nil)
}

func TestIdentityRepositoryConformance(t *testing.T) {
	var _ ports.IdentityRepository = (*turso.IdentityRepository)(nil)
	var _ ports.IdentityRepository = (*memory.IdentityRepository)(nil)
}

func TestFileStorageConformance(t *testing.T) {
	var _ ports.FileStorage = (*storage.FileStorage)(nil)
}

func TestMetricsExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.Exporter)(nil)
	var _ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
}
