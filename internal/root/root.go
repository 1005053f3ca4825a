// Package root locates the sitepub project that contains a working directory.
package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/sitepub/internal/config"
	"github.com/conn-castle/sitepub/internal/messages"
)

var errStartRequired = errors.New("start path is required")

// FindProjectRoot searches upwards from start for a .sitepub directory.
// It returns found=false without error when no project exists above start, and an
// error when a .sitepub entry exists but is not a directory.
func FindProjectRoot(start string) (string, bool, error) {
	if start == "" {
		return "", false, errStartRequired
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, config.ProjectDirName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.IsDir():
			return dir, true, nil
		case err == nil:
			return "", false, fmt.Errorf(messages.RootNotADirectoryFmt, candidate)
		case !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf(messages.RootStatFailedFmt, candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
