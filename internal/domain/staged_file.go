package domain

import "strings"

// StagedFile is a file picked in the experiment form and held until submit.
type StagedFile struct {
	Name      string
	MediaType string
	Size      int64
	Content   []byte
}

type FileKind string

const (
	FileKindImage       FileKind = "image"
	FileKindSpreadsheet FileKind = "spreadsheet"
	FileKindDocument    FileKind = "document"
)

const (
	mediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mediaTypeXLS  = "application/vnd.ms-excel"
)

// KindOf classifies a declared media type for icon selection.
func KindOf(mediaType string) FileKind {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return FileKindImage
	case mediaType == mediaTypeXLSX, mediaType == mediaTypeXLS:
		return FileKindSpreadsheet
	default:
		return FileKindDocument
	}
}

func (f StagedFile) Kind() FileKind {
	return KindOf(f.MediaType)
}
