package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	fetchhttp "github.com/AzinPiran/vessel-vision-test/internal/http"
	"github.com/AzinPiran/vessel-vision-test/internal/progress"
)

// Options configures a pipeline run.
type Options struct {
	// StartDir is the directory to resolve the project root from,
	// usually the process working directory.
	StartDir string

	// Project is the expected base name of the project root.
	Project string

	// DataDir is the data directory name under the root. It must
	// already exist.
	DataDir string

	// RawDir is the staging subdirectory name under DataDir.
	RawDir string

	// URLs is the ordered list of archive URLs to download.
	URLs []string

	// ArchiveSuffix selects which staged files to extract.
	ArchiveSuffix string

	// MaxClimb is how many ancestor levels to search for the root.
	MaxClimb int

	// Timeout bounds each download request.
	Timeout time.Duration

	// Reporter optionally receives per-file download progress.
	Reporter *progress.Reporter

	// Output is where step lines are written. Default: os.Stdout
	Output io.Writer
}

// Result summarizes a completed run.
type Result struct {
	Root       string
	StagingDir string
	Downloaded int
	Bytes      int64
	Archives   int
	Extracted  int
}

// Run executes the acquisition pipeline: resolve the project root,
// prepare the staging area, download every archive, then extract every
// archive found in the staging directory. The stages run strictly in
// that order and the first failure aborts the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logf := func(format string, args ...any) {
		fmt.Fprintf(out, "[aisfetch] "+format+"\n", args...)
	}

	logf("resolving project root from %s (expecting %q)", opts.StartDir, opts.Project)
	root, err := LocateRoot(opts.StartDir, opts.Project, opts.MaxClimb)
	if err != nil {
		return nil, err
	}
	logf("project root: %s", root)

	logf("preparing staging directory %s/%s under %s", opts.DataDir, opts.RawDir, root)
	staging, err := EnsureStaging(root, opts.DataDir, opts.RawDir)
	if err != nil {
		return nil, err
	}
	defer staging.Close()
	logf("staging directory ready: %s", staging.Dir)

	logf("downloading %d archive(s)", len(opts.URLs))
	client := fetchhttp.NewClient(fetchhttp.Options{Timeout: opts.Timeout})
	bytes, err := fetchArchives(ctx, client, opts.URLs, staging, opts.Reporter, logf)
	if err != nil {
		return nil, err
	}
	logf("downloads complete: %d archive(s), %s", len(opts.URLs), progress.FormatBytes(bytes))

	logf("extracting archives in %s", staging.Dir)
	archives, extracted, err := expandArchives(ctx, staging, opts.ArchiveSuffix, logf)
	if err != nil {
		return nil, err
	}
	logf("extraction complete: %d archive(s), %d file(s)", archives, extracted)

	return &Result{
		Root:       root,
		StagingDir: staging.Dir,
		Downloaded: len(opts.URLs),
		Bytes:      bytes,
		Archives:   archives,
		Extracted:  extracted,
	}, nil
}
