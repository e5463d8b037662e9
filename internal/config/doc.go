// Package config defines configuration structures for the aisfetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (AISFETCH_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    Project       string        // expected project root directory name
//	    DataDir       string        // must already exist under the root
//	    RawDir        string        // created under DataDir if absent
//	    URLs          []string      // ordered archive URLs
//	    ArchiveSuffix string        // which staged files to extract
//	    MaxClimb      int           // ancestor levels to search for the root
//	    Timeout       time.Duration // per-download bound
//	    Progress      bool
//	}
package config
