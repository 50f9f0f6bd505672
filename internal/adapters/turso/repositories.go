package turso

import (
	"database/sql"

	"github.com/coBecT/MtsTrueTech/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Experiments ports.ExperimentRepository
	Versions    ports.VersionRepository
	Identities  ports.IdentityRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Experiments: NewExperimentRepository(db),
		Versions:    NewVersionRepository(db),
		Identities:  NewIdentityRepository(db),
	}
}
