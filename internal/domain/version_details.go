package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// SourceType says where a referenced file lives.
type SourceType string

const (
	SourceExcel SourceType = "excel"
	SourceSQL   SourceType = "sql"
	SourceCloud SourceType = "cloud"
	SourceAPI   SourceType = "api"
)

// FileType classifies what a referenced file holds. The zero value means unset.
type FileType string

const (
	FileTypeDataset FileType = "dataset"
	FileTypeModel   FileType = "model"
	FileTypeConfig  FileType = "config"
	FileTypeOther   FileType = "other"
)

// MaxReferencedFileSize bounds local files hashed into a FileReference.
const MaxReferencedFileSize = 100 << 20

var remotePrefixes = []string{"http://", "https://", "ftp://"}

func ParseSourceType(s string) (SourceType, error) {
	switch st := SourceType(strings.ToLower(strings.TrimSpace(s))); st {
	case SourceExcel, SourceSQL, SourceCloud, SourceAPI:
		return st, nil
	}
	return "", fmt.Errorf("%w: source type %q", ErrInvalidFileReference, s)
}

// ParseFileType accepts an empty string as "no type".
func ParseFileType(s string) (FileType, error) {
	switch ft := FileType(strings.ToLower(strings.TrimSpace(s))); ft {
	case "", FileTypeDataset, FileTypeModel, FileTypeConfig, FileTypeOther:
		return ft, nil
	}
	return "", fmt.Errorf("%w: file type %q", ErrInvalidFileReference, s)
}

// IsRemote reports whether pathOrURL is fetched over the network rather
// than read from disk.
func IsRemote(pathOrURL string) bool {
	for _, p := range remotePrefixes {
		if strings.HasPrefix(pathOrURL, p) {
			return true
		}
	}
	return false
}

// FileReference points a version at a data file. Local files carry their
// SHA-256 and size; remote ones leave both empty.
type FileReference struct {
	ID         string     `json:"id"`
	VersionID  string     `json:"version_id"`
	SourceType SourceType `json:"source_type"`
	PathOrURL  string     `json:"path_or_url"`
	Hash       string     `json:"file_hash"`
	FileType   FileType   `json:"file_type,omitempty"`
	Size       int64      `json:"size_bytes"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

func NewFileReference(id, versionID string, source SourceType, pathOrURL string, fileType FileType, now time.Time) (*FileReference, error) {
	if versionID == "" {
		return nil, fmt.Errorf("%w: version id is required", ErrInvalidFileReference)
	}
	if strings.TrimSpace(pathOrURL) == "" {
		return nil, fmt.Errorf("%w: path or url is required", ErrInvalidFileReference)
	}
	if _, err := ParseSourceType(string(source)); err != nil {
		return nil, err
	}
	if _, err := ParseFileType(string(fileType)); err != nil {
		return nil, err
	}
	return &FileReference{
		ID:         id,
		VersionID:  versionID,
		SourceType: source,
		PathOrURL:  pathOrURL,
		FileType:   fileType,
		UploadedAt: now,
	}, nil
}

// Digest hashes the content of a local file. Empty and oversized files are
// rejected.
func (f *FileReference) Digest(r io.Reader) error {
	h := sha256.New()
	n, err := io.Copy(h, io.LimitReader(r, MaxReferencedFileSize+1))
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", f.PathOrURL, err)
	}
	switch {
	case n == 0:
		return fmt.Errorf("%w: %s is empty", ErrInvalidFileReference, f.PathOrURL)
	case n > MaxReferencedFileSize:
		return fmt.Errorf("%w: %s is larger than %d MB", ErrInvalidFileReference, f.PathOrURL, MaxReferencedFileSize>>20)
	}
	f.Hash = hex.EncodeToString(h.Sum(nil))
	f.Size = n
	return nil
}

// Result is one recorded outcome of a version run.
type Result struct {
	ID        string          `json:"id"`
	VersionID string          `json:"version_id"`
	Data      json.RawMessage `json:"data"`
	Metrics   string          `json:"metrics,omitempty"`
	Approved  bool            `json:"is_approved"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewResult requires data to be a non-empty JSON object.
func NewResult(id, versionID string, data json.RawMessage, metrics string, now time.Time) (*Result, error) {
	if versionID == "" {
		return nil, fmt.Errorf("%w: version id is required", ErrInvalidResult)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: data must be a JSON object", ErrInvalidResult)
	}
	if len(obj) == 0 {
		return nil, fmt.Errorf("%w: data is required", ErrInvalidResult)
	}
	return &Result{
		ID:        id,
		VersionID: versionID,
		Data:      data,
		Metrics:   metrics,
		CreatedAt: now,
	}, nil
}

// SetMetadata stores value under key, replacing any previous value.
func (v *ExperimentVersion) SetMetadata(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: metadata key is required", ErrInvalidParameter)
	}
	if v.Metadata == nil {
		v.Metadata = make(map[string]string)
	}
	v.Metadata[key] = value
	return nil
}

func (v *ExperimentVersion) AddFile(f FileReference) {
	f.VersionID = v.ID
	v.Files = append(v.Files, f)
}
