// Package memory holds process-local repositories used when no database is
// configured. Data is lost on restart.
package memory

import "github.com/coBecT/MtsTrueTech/internal/ports"

// Repositories mirrors turso.Repositories for the in-memory driver.
type Repositories struct {
	Experiments ports.ExperimentRepository
	Versions    ports.VersionRepository
	Identities  ports.IdentityRepository
}

// NewRepositories returns repositories seeded with the demo experiments.
func NewRepositories() *Repositories {
	return &Repositories{
		Experiments: NewExperimentRepository(SeedExperiments()...),
		Versions:    NewVersionRepository(),
		Identities:  NewIdentityRepository(),
	}
}
