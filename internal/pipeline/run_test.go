package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AzinPiran/vessel-vision-test/internal/testutils"
)

func TestRunHappyPath(t *testing.T) {
	server, _ := testutils.ServeArchives(t, map[string][]byte{
		"/2024/A.zip": testutils.ZipArchive(t, map[string]string{
			"AIS_2024_01_01.csv": "mmsi,lat,lon\n1,2,3\n",
		}),
		"/2024/B.zip": testutils.ZipArchive(t, map[string]string{
			"AIS_2024_01_02.csv": "mmsi,lat,lon\n4,5,6\n",
		}),
	})

	root := testutils.ProjectTree(t, "vessel-vision-test", true)
	start := filepath.Join(root, "notebooks")
	if err := os.MkdirAll(start, 0o755); err != nil {
		t.Fatalf("create notebooks dir: %v", err)
	}

	var out bytes.Buffer
	res, err := Run(context.Background(), Options{
		StartDir:      start,
		Project:       "vessel-vision-test",
		DataDir:       "data",
		RawDir:        "raw",
		URLs:          []string{server.URL + "/2024/A.zip", server.URL + "/2024/B.zip"},
		ArchiveSuffix: ".zip",
		MaxClimb:      1,
		Output:        &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Root != root {
		t.Errorf("expected root %s, got %s", root, res.Root)
	}
	if res.Downloaded != 2 || res.Archives != 2 || res.Extracted != 2 {
		t.Errorf("unexpected result: %+v", res)
	}

	stagingDir := filepath.Join(root, "data", "raw")
	for _, name := range []string{"A.zip", "B.zip", "AIS_2024_01_01.csv", "AIS_2024_01_02.csv"} {
		if _, err := os.Stat(filepath.Join(stagingDir, name)); err != nil {
			t.Errorf("expected %s in staging: %v", name, err)
		}
	}

	for _, line := range []string{"project root:", "staging directory ready:", "downloads complete:", "extraction complete:"} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("missing step line %q in output:\n%s", line, out.String())
		}
	}
}

func TestRunRootNotFoundBeforeAnyIO(t *testing.T) {
	start := filepath.Join(t.TempDir(), "unrelated", "place")

	var out bytes.Buffer
	_, err := Run(context.Background(), Options{
		StartDir:      start,
		Project:       "vessel-vision-test",
		DataDir:       "data",
		RawDir:        "raw",
		URLs:          []string{"https://example.com/A.zip"},
		ArchiveSuffix: ".zip",
		MaxClimb:      1,
		Output:        &out,
	})
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestRunMissingDataDirBeforeAnyRequest(t *testing.T) {
	archive := testutils.ZipArchive(t, map[string]string{"a.csv": "x"})
	server, requests := testutils.ServeArchives(t, map[string][]byte{"/A.zip": archive})

	root := testutils.ProjectTree(t, "vessel-vision-test", false)

	var out bytes.Buffer
	_, err := Run(context.Background(), Options{
		StartDir:      root,
		Project:       "vessel-vision-test",
		DataDir:       "data",
		RawDir:        "raw",
		URLs:          []string{server.URL + "/A.zip"},
		ArchiveSuffix: ".zip",
		MaxClimb:      1,
		Output:        &out,
	})
	if !errors.Is(err, ErrDataDirMissing) {
		t.Fatalf("expected ErrDataDirMissing, got %v", err)
	}
	if *requests != 0 {
		t.Errorf("no network request may be issued before staging succeeds, got %d", *requests)
	}
}

func TestRunDownloadFailureSkipsExtraction(t *testing.T) {
	archive := testutils.ZipArchive(t, map[string]string{"a.csv": "x"})
	server, _ := testutils.ServeArchives(t, map[string][]byte{"/A.zip": archive})

	root := testutils.ProjectTree(t, "vessel-vision-test", true)

	var out bytes.Buffer
	_, err := Run(context.Background(), Options{
		StartDir:      root,
		Project:       "vessel-vision-test",
		DataDir:       "data",
		RawDir:        "raw",
		URLs:          []string{server.URL + "/A.zip", server.URL + "/missing.zip"},
		ArchiveSuffix: ".zip",
		MaxClimb:      1,
		Output:        &out,
	})

	var de *DownloadError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DownloadError, got %v", err)
	}

	stagingDir := filepath.Join(root, "data", "raw")
	// A.zip was downloaded before the failure and stays.
	if _, err := os.Stat(filepath.Join(stagingDir, "A.zip")); err != nil {
		t.Errorf("A.zip must be kept: %v", err)
	}
	// But extraction never ran.
	if _, err := os.Stat(filepath.Join(stagingDir, "a.csv")); !os.IsNotExist(err) {
		t.Error("extraction must not run after a download failure")
	}
}

func TestRunTwiceOverwrites(t *testing.T) {
	content := map[string]string{"AIS_2024_01_01.csv": "first run"}
	archives := map[string][]byte{"/A.zip": testutils.ZipArchive(t, content)}
	server, _ := testutils.ServeArchives(t, archives)

	root := testutils.ProjectTree(t, "vessel-vision-test", true)
	opts := Options{
		StartDir:      root,
		Project:       "vessel-vision-test",
		DataDir:       "data",
		RawDir:        "raw",
		URLs:          []string{server.URL + "/A.zip"},
		ArchiveSuffix: ".zip",
		MaxClimb:      1,
		Output:        &bytes.Buffer{},
	}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Second run re-downloads and re-extracts; the staging directory is
	// reused, not recreated, and contents are overwritten.
	archives["/A.zip"] = testutils.ZipArchive(t, map[string]string{"AIS_2024_01_01.csv": "second run"})
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("second run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "data", "raw", "AIS_2024_01_01.csv"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "second run" {
		t.Errorf("expected second run contents, got %q", data)
	}
}
