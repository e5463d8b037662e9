// Package testutils provides shared fixtures for pipeline tests.
package testutils

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ZipArchive builds an in-memory zip containing the given entries.
// Entry names may contain slashes to create internal directories.
func ZipArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}

// ServeArchives starts an HTTP server that serves the given archives by
// path (e.g. "/2024/AIS_2024_01_01.zip"). Anything else is a 404. The
// returned counter records the number of requests received.
func ServeArchives(t *testing.T, archives map[string][]byte) (*httptest.Server, *int) {
	t.Helper()

	requests := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		data, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(server.Close)

	return server, requests
}

// ProjectTree creates a temporary project directory named project, with
// a data directory when withData is set, and returns the root path.
func ProjectTree(t *testing.T, project string, withData bool) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), project)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("create project root: %v", err)
	}
	if withData {
		if err := os.MkdirAll(filepath.Join(root, "data"), 0o755); err != nil {
			t.Fatalf("create data directory: %v", err)
		}
	}
	return root
}
