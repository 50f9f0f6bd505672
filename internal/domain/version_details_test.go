package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewFileReference(t *testing.T) {
	tests := []struct {
		name     string
		source   SourceType
		path     string
		fileType FileType
		wantErr  bool
	}{
		{"excel dataset", SourceExcel, "runs.xlsx", FileTypeDataset, false},
		{"remote without type", SourceCloud, "https://example.org/a.csv", "", false},
		{"unknown source", SourceType("ftp"), "a.csv", "", true},
		{"unknown file type", SourceSQL, "select 1", FileType("image"), true},
		{"empty path", SourceAPI, "  ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileReference("f1", "v1", tt.source, tt.path, tt.fileType, time.Now())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFileReference) {
				t.Errorf("err = %v, want ErrInvalidFileReference", err)
			}
		})
	}
}

func TestParseSourceType_CaseInsensitive(t *testing.T) {
	got, err := ParseSourceType(" Excel ")
	if err != nil || got != SourceExcel {
		t.Errorf("ParseSourceType = %q, %v", got, err)
	}
}

func TestIsRemote(t *testing.T) {
	for path, want := range map[string]bool{
		"https://example.org/x": true,
		"http://example.org/x":  true,
		"ftp://host/x":          true,
		"data/runs.xlsx":        false,
		"/abs/http://x":         false,
	} {
		if got := IsRemote(path); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFileReference_Digest(t *testing.T) {
	f, _ := NewFileReference("f1", "v1", SourceExcel, "runs.xlsx", "", time.Now())
	if err := f.Digest(strings.NewReader("abc")); err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	const sha = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if f.Hash != sha || f.Size != 3 {
		t.Errorf("Hash = %s Size = %d", f.Hash, f.Size)
	}

	if err := f.Digest(strings.NewReader("")); !errors.Is(err, ErrInvalidFileReference) {
		t.Errorf("empty file err = %v", err)
	}
	big := bytes.NewReader(make([]byte, MaxReferencedFileSize+1))
	if err := f.Digest(big); !errors.Is(err, ErrInvalidFileReference) {
		t.Errorf("oversized file err = %v", err)
	}
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		data    string
		wantErr bool
	}{
		{`{"yield": 0.82}`, false},
		{`{}`, true},
		{`[1, 2]`, true},
		{`not json`, true},
	}
	for _, tt := range tests {
		_, err := NewResult("r1", "v1", []byte(tt.data), "", time.Now())
		if (err != nil) != tt.wantErr {
			t.Errorf("NewResult(%s) err = %v, wantErr %v", tt.data, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidResult) {
			t.Errorf("NewResult(%s) err = %v, want ErrInvalidResult", tt.data, err)
		}
	}
}

func TestExperimentVersion_SetMetadata(t *testing.T) {
	v, _ := NewVersion("v1", "1", "Baseline", "", time.Now())
	if err := v.SetMetadata(" ", "x"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("blank key err = %v", err)
	}
	_ = v.SetMetadata("operator", "A")
	_ = v.SetMetadata("operator", "B")
	if len(v.Metadata) != 1 || v.Metadata["operator"] != "B" {
		t.Errorf("Metadata = %v", v.Metadata)
	}
}

func TestFork_DropsDetails(t *testing.T) {
	v, _ := NewVersion("v1", "1", "Baseline", "", time.Now())
	_ = v.SetMetadata("operator", "A")
	f, _ := NewFileReference("f1", "v1", SourceAPI, "https://x", "", time.Now())
	v.AddFile(*f)

	child, err := v.Fork("v2", "Next", "", time.Now())
	if err != nil {
		t.Fatalf("Fork failed: %v", err)
	}
	if child.Files != nil || child.Metadata != nil || child.Results != nil {
		t.Errorf("fork carried details: %+v", child)
	}
}
