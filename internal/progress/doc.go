// Package progress provides progress reporting for downloads.
//
// This package outputs human-readable progress information to stdout,
// including completion percentage, transfer speed, and ETA for the file
// currently in flight. Downloads are sequential, so the reporter tracks
// one file at a time.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{})
//
//	reporter.FileStarted("AIS_2024_01_01.zip", totalBytes)
//	w := &progress.CountingWriter{W: dst, R: reporter}
//	// copy the body through w
//	reporter.FileCompleted()
//
// # Output Format
//
//	[aisfetch] Downloading AIS_2024_01_01.zip (412.53 MB)
//	[aisfetch] AIS_2024_01_01.zip: 45.2% | 186.44 MB / 412.53 MB | Speed: 12.10 MB/s | ETA: 18s
//	[aisfetch] AIS_2024_01_01.zip: 412.53 MB in 34s (12.13 MB/s)
package progress
