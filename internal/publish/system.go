package publish

import (
	"context"
	"iter"
	"os"
	"os/exec"

	"github.com/conn-castle/sitepub/internal/proc"
)

// System abstracts the OS operations needed by the publishers.
type System interface {
	LookPath(file string) (string, error)
	UserCacheDir() (string, error)
	Getenv(key string) string
	Environ() []string
	Run(ctx context.Context, cmd proc.Cmd) iter.Seq2[string, error]
}

// RealSystem implements System using the OS and proc.Runner.
type RealSystem struct {
	Runner proc.Runner
}

// LookPath searches for an executable named file in the directories named by the PATH environment variable.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// UserCacheDir returns the default user cache directory.
func (RealSystem) UserCacheDir() (string, error) {
	return os.UserCacheDir()
}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Environ returns a copy of strings representing the environment.
func (RealSystem) Environ() []string {
	return os.Environ()
}

// Run starts cmd and streams its combined output.
func (s RealSystem) Run(ctx context.Context, cmd proc.Cmd) iter.Seq2[string, error] {
	return s.Runner.Run(ctx, cmd)
}
