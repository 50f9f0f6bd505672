package storage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coBecT/MtsTrueTech/internal/util"
)

// FileStorage keeps experiment attachments gzip-compressed on disk, one
// directory per experiment.
type FileStorage struct {
	baseDir string
}

// NewFileStorage stores files under dir, or under the XDG data directory when
// dir is empty.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		var err error
		if dir, err = util.DataPath("files"); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create files directory: %w", err)
	}

	return &FileStorage{baseDir: dir}, nil
}

func (s *FileStorage) Store(ctx context.Context, experimentID, name string, content []byte) (string, error) {
	destPath, err := s.getPath(experimentID, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create experiment directory: %w", err)
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	gw := gzip.NewWriter(dest)
	gw.Name = name
	if _, err := gw.Write(content); err != nil {
		_ = gw.Close()
		return "", fmt.Errorf("failed to compress file: %w", err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return destPath, nil
}

func (s *FileStorage) Get(ctx context.Context, experimentID, name string) ([]byte, error) {
	path, err := s.getPath(experimentID, name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	defer func() { _ = file.Close() }()

	gr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gr.Close() }()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}

	return data, nil
}

// Delete removes every file stored for the experiment.
func (s *FileStorage) Delete(ctx context.Context, experimentID string) error {
	dir, err := s.experimentDir(experimentID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete experiment files: %w", err)
	}
	return nil
}

func (s *FileStorage) Exists(ctx context.Context, experimentID, name string) (bool, error) {
	path, err := s.getPath(experimentID, name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *FileStorage) experimentDir(experimentID string) (string, error) {
	if !safeName(experimentID) {
		return "", fmt.Errorf("invalid experiment id %q", experimentID)
	}
	return filepath.Join(s.baseDir, experimentID), nil
}

func (s *FileStorage) getPath(experimentID, name string) (string, error) {
	dir, err := s.experimentDir(experimentID)
	if err != nil {
		return "", err
	}
	name = filepath.Base(name)
	if !safeName(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(dir, name+".gz"), nil
}

func safeName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
