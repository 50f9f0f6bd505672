package domain

// DropZone hands files dropped on or picked through the upload area back to
// the form. The drag-over highlight is kept by the browser.
type DropZone struct{}

// Drop returns the files released over the zone.
func (DropZone) Drop(files []StagedFile) []StagedFile {
	return nonEmpty(files)
}

// Pick returns files chosen through the file picker.
func (DropZone) Pick(files []StagedFile) []StagedFile {
	return nonEmpty(files)
}

func nonEmpty(files []StagedFile) []StagedFile {
	if len(files) == 0 {
		return nil
	}
	return files
}
