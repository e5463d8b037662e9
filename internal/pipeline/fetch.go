package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	fetchhttp "github.com/AzinPiran/vessel-vision-test/internal/http"
	"github.com/AzinPiran/vessel-vision-test/internal/progress"
)

// deriveLocalName returns the staging file name for an archive URL: the
// final segment of the URL path.
func deriveLocalName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("URL %q has no file name in its path", rawURL)
	}
	return name, nil
}

// fetchArchives downloads each URL in order into the staging bucket,
// strictly sequentially: each body is fully written before the next
// request is issued. An existing file of the same name is overwritten.
// The first failure aborts the remaining downloads; files already
// written in this run are left in place.
func fetchArchives(ctx context.Context, client *fetchhttp.Client, urls []string, staging *Staging, reporter *progress.Reporter, logf func(string, ...any)) (int64, error) {
	var total int64

	for _, rawURL := range urls {
		name, err := deriveLocalName(rawURL)
		if err != nil {
			return total, &DownloadError{URL: rawURL, Err: err}
		}

		n, err := fetchOne(ctx, client, rawURL, name, staging, reporter)
		if err != nil {
			return total, err
		}
		total += n
		logf("downloaded %s (%s)", name, progress.FormatBytes(n))
	}

	return total, nil
}

// fetchOne downloads a single archive into the staging bucket under name.
func fetchOne(ctx context.Context, client *fetchhttp.Client, rawURL, name string, staging *Staging, reporter *progress.Reporter) (int64, error) {
	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		var se *fetchhttp.StatusError
		if errors.As(err, &se) {
			return 0, &DownloadError{URL: rawURL, StatusCode: se.StatusCode, Err: err}
		}
		return 0, &DownloadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	bw, err := staging.Bucket.NewWriter(ctx, name, nil)
	if err != nil {
		return 0, fmt.Errorf("create %s in staging: %w", name, err)
	}

	var dst io.Writer = bw
	if reporter != nil {
		reporter.FileStarted(name, resp.ContentLength)
		dst = &progress.CountingWriter{W: bw, R: reporter}
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		if reporter != nil {
			reporter.FileFailed()
		}
		bw.Close()
		return 0, &DownloadError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := bw.Close(); err != nil {
		if reporter != nil {
			reporter.FileFailed()
		}
		return 0, fmt.Errorf("write %s to staging: %w", name, err)
	}

	if reporter != nil {
		reporter.FileCompleted()
	}
	return n, nil
}
