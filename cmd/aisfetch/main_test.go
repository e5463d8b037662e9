package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/AzinPiran/vessel-vision-test/internal/pipeline"
	"github.com/AzinPiran/vessel-vision-test/internal/testutils"
)

func TestRunUnexpectedArgument(t *testing.T) {
	if code := run([]string{"extra"}); code != ExitInvalidArgs {
		t.Errorf("expected exit %d, got %d", ExitInvalidArgs, code)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	if code := run([]string{"-urls", "not-a-url"}); code != ExitInvalidArgs {
		t.Errorf("expected exit %d, got %d", ExitInvalidArgs, code)
	}
}

func TestRunRootNotFound(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "elsewhere")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	code := run([]string{
		"-dir", dir,
		"-urls", "https://example.com/A.zip",
		"-no-progress",
	})
	if code != ExitRootNotFound {
		t.Errorf("expected exit %d, got %d", ExitRootNotFound, code)
	}
}

func TestRunEndToEnd(t *testing.T) {
	server, _ := testutils.ServeArchives(t, map[string][]byte{
		"/A.zip": testutils.ZipArchive(t, map[string]string{
			"AIS_2024_01_01.csv": "mmsi,lat,lon\n",
		}),
	})

	root := testutils.ProjectTree(t, "vessel-vision-test", true)

	code := run([]string{
		"-dir", root,
		"-urls", server.URL + "/A.zip",
		"-no-progress",
	})
	if code != ExitSuccess {
		t.Fatalf("expected exit %d, got %d", ExitSuccess, code)
	}

	if _, err := os.Stat(filepath.Join(root, "data", "raw", "AIS_2024_01_01.csv")); err != nil {
		t.Errorf("expected extracted file: %v", err)
	}
}

func TestRunMissingDataDirExitCode(t *testing.T) {
	server, _ := testutils.ServeArchives(t, map[string][]byte{})
	root := testutils.ProjectTree(t, "vessel-vision-test", false)

	code := run([]string{
		"-dir", root,
		"-urls", server.URL + "/A.zip",
		"-no-progress",
	})
	if code != ExitDataDirMissing {
		t.Errorf("expected exit %d, got %d", ExitDataDirMissing, code)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", pipeline.ErrRootNotFound), ExitRootNotFound},
		{fmt.Errorf("wrapped: %w", pipeline.ErrDataDirMissing), ExitDataDirMissing},
		{&pipeline.DownloadError{URL: "https://example.com/A.zip", StatusCode: 500}, ExitDownloadFailed},
		{&pipeline.ExtractionError{Archive: "A.zip", Err: errors.New("bad magic")}, ExitExtractionFailed},
		{errors.New("anything else"), ExitGeneralError},
	}

	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
