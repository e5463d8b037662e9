package pipeline

import (
	"fmt"
	"path/filepath"
)

// LocateRoot resolves the project working directory. It is a pure
// function of its inputs: if the base name of start equals project, start
// is returned unchanged; otherwise up to maxClimb ancestor directories
// are checked in turn. This is a narrow correction for being launched a
// few levels below the true root (typically from a notebooks directory),
// not general root discovery, so exhaustion is ErrRootNotFound rather
// than a wider search.
func LocateRoot(start, project string, maxClimb int) (string, error) {
	dir := filepath.Clean(start)
	for hop := 0; ; hop++ {
		if filepath.Base(dir) == project {
			return dir, nil
		}
		if hop >= maxClimb {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Hit the filesystem root.
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: %s is not under a directory named %q (checked %d ancestor level(s))",
		ErrRootNotFound, start, project, maxClimb)
}
