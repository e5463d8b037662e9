package pipeline

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"gocloud.dev/blob"
)

// expandArchives extracts every top-level staging file whose name ends
// in suffix. The staging area is enumerated exactly once, after all
// downloads have finished, and matching archives are processed in sorted
// name order so runs are reproducible. Entries are written flat into the
// staging directory: internal archive paths are preserved relative to
// it, but no per-archive folder is introduced, so entries from different
// archives may collide on name — last archive in sorted order wins.
// The first malformed archive aborts the run; output from archives
// already extracted is left in place.
func expandArchives(ctx context.Context, staging *Staging, suffix string, logf func(string, ...any)) (int, int, error) {
	var keys []string

	iter := staging.Bucket.List(&blob.ListOptions{Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("list staging directory: %w", err)
		}
		if obj.IsDir {
			continue
		}
		if strings.HasSuffix(obj.Key, suffix) {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)

	var entries int
	for _, key := range keys {
		n, err := extractArchive(ctx, staging, key)
		if err != nil {
			return len(keys), entries, &ExtractionError{Archive: key, Err: err}
		}
		entries += n
		logf("extracted %s (%d entries)", key, n)
	}

	return len(keys), entries, nil
}

// extractArchive decompresses one staged zip in place and returns the
// number of file entries written.
func extractArchive(ctx context.Context, staging *Staging, key string) (int, error) {
	attrs, err := staging.Bucket.Attributes(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}

	ra := &bucketReaderAt{ctx: ctx, bucket: staging.Bucket, key: key}
	zr, err := zip.NewReader(ra, attrs.Size)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}

	var entries int
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir() {
			continue
		}
		name, err := entryKey(f.Name)
		if err != nil {
			return entries, err
		}
		if err := writeEntry(ctx, staging, name, f); err != nil {
			return entries, err
		}
		entries++
	}

	return entries, nil
}

// entryKey validates an archive entry name and normalizes it to a
// staging bucket key. Entries that would land outside the staging
// directory are rejected.
func entryKey(name string) (string, error) {
	if strings.Contains(name, `\`) {
		name = strings.ReplaceAll(name, `\`, "/")
	}
	if path.IsAbs(name) {
		return "", fmt.Errorf("entry %q has an absolute path", name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("entry %q escapes the staging directory", name)
	}
	return clean, nil
}

// writeEntry copies a single archive entry into the staging bucket,
// overwriting any existing file of the same name.
func writeEntry(ctx context.Context, staging *Staging, key string, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	bw, err := staging.Bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", key, err)
	}

	if _, err := io.Copy(bw, rc); err != nil {
		bw.Close()
		return fmt.Errorf("write entry %s: %w", key, err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("write entry %s: %w", key, err)
	}
	return nil
}

// bucketReaderAt adapts a bucket object to io.ReaderAt via range reads,
// so archives are decompressed without buffering them whole in memory.
type bucketReaderAt struct {
	ctx    context.Context
	bucket *blob.Bucket
	key    string
}

func (r *bucketReaderAt) ReadAt(p []byte, off int64) (int, error) {
	rdr, err := r.bucket.NewRangeReader(r.ctx, r.key, off, int64(len(p)), nil)
	if err != nil {
		return 0, err
	}
	defer rdr.Close()

	n, err := io.ReadFull(rdr, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}
