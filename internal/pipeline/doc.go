// Package pipeline implements the raw-data acquisition pipeline.
//
// A run has four stages, executed strictly in order:
//
//  1. Resolve the project root from the starting directory, climbing a
//     bounded number of ancestor levels (LocateRoot).
//  2. Ensure the raw staging directory exists under the pre-existing
//     data directory, and open it as a fileblob bucket (EnsureStaging).
//  3. Download every configured archive URL into the staging area,
//     sequentially and in input order.
//  4. Extract every staged archive flat into the staging directory, in
//     sorted name order.
//
// Every failure is terminal: there is no retry, no skip-and-continue,
// and no rollback of files already written. The caller maps the typed
// errors (ErrRootNotFound, ErrDataDirMissing, DownloadError,
// ExtractionError) to exit codes.
package pipeline
