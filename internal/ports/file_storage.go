package ports

import "context"

// FileStorage keeps the content of files attached to experiments.
type FileStorage interface {
	Store(ctx context.Context, experimentID, name string, content []byte) (storedPath string, err error)
	Get(ctx context.Context, experimentID, name string) ([]byte, error)
	Delete(ctx context.Context, experimentID string) error
	Exists(ctx context.Context, experimentID, name string) (bool, error)
}
