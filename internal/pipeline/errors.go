package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two pre-download failure conditions.
var (
	// ErrRootNotFound means the project root could not be resolved from
	// the starting directory within the configured ancestor budget.
	ErrRootNotFound = errors.New("pipeline: project root not found")

	// ErrDataDirMissing means the data directory the staging area must
	// live under does not exist. The pipeline never creates it: its
	// absence indicates a broken checkout, not a first run.
	ErrDataDirMissing = errors.New("pipeline: data directory missing")
)

// DownloadError reports a failed archive download. StatusCode is zero
// when the failure happened below the HTTP layer (connection, timeout).
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractionError reports an archive that could not be extracted.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
