package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// Output is where to write progress output.
	// Default: os.Stdout
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable progress for sequential file downloads.
// Exactly one file is in flight at a time; FileStarted resets the counters
// for the next file.
type Reporter struct {
	opts Options

	mu        sync.Mutex
	name      string
	total     int64
	startTime time.Time
	lastTime  time.Time
	lastBytes int64
	stopCh    chan struct{}

	written atomic.Int64
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}
	return &Reporter{opts: opts}
}

// FileStarted begins reporting for a new file. total is the expected size
// in bytes, or -1 if unknown.
func (r *Reporter) FileStarted(name string, total int64) {
	r.mu.Lock()
	r.name = name
	r.total = total
	r.startTime = time.Now()
	r.lastTime = r.startTime
	r.lastBytes = 0
	r.written.Store(0)
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.mu.Unlock()

	if total >= 0 {
		fmt.Fprintf(r.opts.Output, "[aisfetch] Downloading %s (%s)\n", name, formatBytes(total))
	} else {
		fmt.Fprintf(r.opts.Output, "[aisfetch] Downloading %s\n", name)
	}

	go r.updateLoop(stopCh)
}

// Add records n more bytes written for the current file.
func (r *Reporter) Add(n int64) {
	r.written.Add(n)
}

// FileCompleted finishes reporting for the current file.
func (r *Reporter) FileCompleted() {
	r.stop()

	r.mu.Lock()
	name := r.name
	written := r.written.Load()
	duration := time.Since(r.startTime)
	r.mu.Unlock()

	speed := float64(written) / duration.Seconds()
	fmt.Fprintf(r.opts.Output, "\r[aisfetch] %s: %s in %s (%s/s)    \n",
		name,
		formatBytes(written),
		formatDuration(duration),
		formatBytes(int64(speed)),
	)
}

// FileFailed stops reporting for the current file without a summary line.
func (r *Reporter) FileFailed() {
	r.stop()
	fmt.Fprintln(r.opts.Output)
}

func (r *Reporter) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopCh != nil {
		close(r.stopCh)
		r.stopCh = nil
	}
}

// updateLoop periodically updates the progress display until stopCh closes.
func (r *Reporter) updateLoop(stopCh chan struct{}) {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress for the in-flight file.
func (r *Reporter) printProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	written := r.written.Load()

	elapsed := now.Sub(r.lastTime).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(written-r.lastBytes) / elapsed

	r.lastTime = now
	r.lastBytes = written

	if r.total > 0 {
		percent := float64(written) / float64(r.total) * 100
		eta := "calculating..."
		if speed > 0 {
			remaining := float64(r.total - written)
			eta = formatDuration(time.Duration(remaining / speed * float64(time.Second)))
		}
		fmt.Fprintf(r.opts.Output, "\r[aisfetch] %s: %.1f%% | %s / %s | Speed: %s/s | ETA: %s    ",
			r.name,
			percent,
			formatBytes(written),
			formatBytes(r.total),
			formatBytes(int64(speed)),
			eta,
		)
		return
	}

	fmt.Fprintf(r.opts.Output, "\r[aisfetch] %s: %s | Speed: %s/s    ",
		r.name,
		formatBytes(written),
		formatBytes(int64(speed)),
	)
}

// CountingWriter forwards writes to W and reports the byte count to R.
type CountingWriter struct {
	W io.Writer
	R *Reporter
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.W.Write(p)
	if n > 0 && cw.R != nil {
		cw.R.Add(int64(n))
	}
	return n, err
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}
