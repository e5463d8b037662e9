package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

// Staging is the raw-data staging area. All downloads and extracted
// entries go through Bucket; Dir is the directory it is rooted at.
type Staging struct {
	Dir    string
	Bucket *blob.Bucket
}

// Close releases the underlying bucket.
func (s *Staging) Close() error {
	return s.Bucket.Close()
}

// EnsureStaging prepares the raw-data staging area under root. The
// parent data directory must already exist; the raw subdirectory is
// created if absent and reused as-is if present. The result is the
// staging directory opened as a fileblob bucket.
func EnsureStaging(root, dataDir, rawDir string) (*Staging, error) {
	parent := filepath.Join(root, dataDir)
	info, err := os.Stat(parent)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDataDirMissing, parent)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", parent, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s exists but is not a directory", ErrDataDirMissing, parent)
	}

	dir := filepath.Join(parent, rawDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory %s: %w", dir, err)
	}

	// The dashboard reads these files straight off disk, so suppress the
	// per-object attribute sidecar files fileblob writes by default.
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		Metadata: fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("open staging bucket %s: %w", dir, err)
	}

	return &Staging{Dir: dir, Bucket: bucket}, nil
}
