package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AzinPiran/vessel-vision-test/internal/config"
	"github.com/AzinPiran/vessel-vision-test/internal/pipeline"
	"github.com/AzinPiran/vessel-vision-test/internal/progress"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArgs      = 2
	ExitRootNotFound     = 3
	ExitDataDirMissing   = 4
	ExitDownloadFailed   = 5
	ExitExtractionFailed = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("aisfetch", flag.ContinueOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	startDir := fs.String("dir", "", "Directory to resolve the project root from (default: current directory)")
	project := fs.String("project", "", "Expected project root directory name")
	urls := fs.String("urls", "", "Comma-separated archive URLs (overrides config)")
	timeout := fs.Duration("timeout", 0, "Per-download timeout (overrides config)")
	maxClimb := fs.Int("max-climb", -1, "Ancestor levels to search for the project root")
	noProgress := fs.Bool("no-progress", false, "Disable the live download progress display")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: aisfetch [options]

Download the configured AIS archives into <root>/data/raw and extract
them in place. The data directory must already exist; the raw
subdirectory is created if needed.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	override := config.Config{
		Project: *project,
		Timeout: *timeout,
	}
	if *urls != "" {
		for _, u := range strings.Split(*urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				override.URLs = append(override.URLs, u)
			}
		}
	}
	cfg = cfg.Merge(override)
	if *maxClimb >= 0 {
		cfg.MaxClimb = *maxClimb
	}
	if *noProgress {
		cfg.Progress = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	dir := *startDir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[aisfetch] Received interrupt, shutting down...")
		cancel()
	}()

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			UpdateInterval: 500 * time.Millisecond,
		})
	}

	res, err := pipeline.Run(ctx, pipeline.Options{
		StartDir:      dir,
		Project:       cfg.Project,
		DataDir:       cfg.DataDir,
		RawDir:        cfg.RawDir,
		URLs:          cfg.URLs,
		ArchiveSuffix: cfg.ArchiveSuffix,
		MaxClimb:      cfg.MaxClimb,
		Timeout:       cfg.Timeout,
		Reporter:      reporter,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[aisfetch] Error: %v\n", err)
		return exitCode(err)
	}

	fmt.Printf("[aisfetch] Done: %d archive(s) downloaded (%s), %d file(s) extracted to %s\n",
		res.Downloaded, progress.FormatBytes(res.Bytes), res.Extracted, res.StagingDir)
	return ExitSuccess
}

// exitCode maps a pipeline failure to its exit code.
func exitCode(err error) int {
	var de *pipeline.DownloadError
	var ee *pipeline.ExtractionError

	switch {
	case errors.Is(err, pipeline.ErrRootNotFound):
		return ExitRootNotFound
	case errors.Is(err, pipeline.ErrDataDirMissing):
		return ExitDataDirMissing
	case errors.As(err, &de):
		return ExitDownloadFailed
	case errors.As(err, &ee):
		return ExitExtractionFailed
	default:
		return ExitGeneralError
	}
}
