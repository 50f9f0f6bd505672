package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/coBecT/MtsTrueTech/internal/adapters/storage"
	"github.com/coBecT/MtsTrueTech/internal/ports"
)

var _ ports.FileStorage = (*storage.FileStorage)(nil)

func TestFileStorage_StoreGetDelete(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	ctx := context.Background()

	content := []byte("temperature,rate\n20,0.1\n30,0.2\n")
	path, err := fs.Store(ctx, "exp-1", "kinetics.csv", content)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, "exp-1") {
		t.Errorf("stored at %q, expected under experiment directory", path)
	}

	ok, err := fs.Exists(ctx, "exp-1", "kinetics.csv")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	got, err := fs.Get(ctx, "exp-1", "kinetics.csv")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Get = %q, want %q", got, content)
	}

	if err := fs.Delete(ctx, "exp-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "exp-1")); !os.IsNotExist(err) {
		t.Errorf("expected experiment directory removed, stat err = %v", err)
	}
	if ok, _ := fs.Exists(ctx, "exp-1", "kinetics.csv"); ok {
		t.Error("file still exists after Delete")
	}
}

func TestFileStorage_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	fs, _ := storage.NewFileStorage(dir)

	path, err := fs.Store(context.Background(), "exp-2", "../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, "exp-2") {
		t.Errorf("path escaped experiment directory: %q", path)
	}
}

func TestFileStorage_RejectsBadExperimentID(t *testing.T) {
	fs, _ := storage.NewFileStorage(t.TempDir())

	for _, id := range []string{"", "..", "a/b"} {
		if _, err := fs.Store(context.Background(), id, "f.txt", nil); err == nil {
			t.Errorf("Store with experiment id %q should fail", id)
		}
	}
}
