package publish

import (
	"context"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/sitepub/internal/config"
	"github.com/conn-castle/sitepub/internal/proc"
	"github.com/conn-castle/sitepub/internal/testutil"
)

// recordingSystem records commands instead of running them.
type recordingSystem struct {
	RealSystem
	commands []proc.Cmd
	output   []string
	runErr   error
	lookErr  error
	env      map[string]string
}

func (s *recordingSystem) LookPath(file string) (string, error) {
	if s.lookErr != nil {
		return "", s.lookErr
	}
	return "/usr/bin/" + file, nil
}

func (s *recordingSystem) Getenv(key string) string {
	return s.env[key]
}

func (s *recordingSystem) Environ() []string {
	return []string{"PATH=/usr/bin", "HOME=/home/site"}
}

func (s *recordingSystem) Run(_ context.Context, cmd proc.Cmd) iter.Seq2[string, error] {
	s.commands = append(s.commands, cmd)
	return func(yield func(string, error) bool) {
		for _, line := range s.output {
			if !yield(line, nil) {
				return
			}
		}
		if s.runErr != nil {
			yield("", s.runErr)
		}
	}
}

func mustTarget(t *testing.T, raw string) Target {
	t.Helper()
	env := &Env{Sys: &recordingSystem{}}
	target, err := env.ResolveTarget(raw)
	require.NoError(t, err)
	return target
}

// drain consumes a publish sequence and returns its lines and final error.
func drain(seq iter.Seq2[string, error]) ([]string, error) {
	var lines []string
	for line, err := range seq {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func projectEnv(t *testing.T, cfg config.Config) *Env {
	t.Helper()
	return &Env{
		Sys:     RealSystem{},
		Project: &config.ProjectConfig{Config: cfg, Root: t.TempDir(), Env: map[string]string{}},
	}
}

// gitRemote is a bare repository standing in for github.com.
type gitRemote struct {
	bare string
	git  string
}

// setupGitRemote creates a bare repository and redirects the GitHub URL of
// owner/site to it through a throwaway global git config. The global config asks
// for reftable refs, which git versions without reftable support ignore.
func setupGitRemote(t *testing.T) *gitRemote {
	t.Helper()
	gitPath := testutil.RequireExecutable(t, "git")
	tmp := t.TempDir()
	bare := filepath.Join(tmp, "remote.git")
	runGit(t, gitPath, "", "init", "-q", "--bare", bare)

	global := filepath.Join(tmp, "gitconfig")
	content := strings.Join([]string{
		"[user]",
		"\tname = Site Deployer",
		"\temail = deploy@example.com",
		"[init]",
		"\tdefaultBranch = main",
		"\tdefaultRefFormat = reftable",
		`[url "` + bare + `"]`,
		"\tinsteadOf = git@github.com:owner/site.git",
		"\tinsteadOf = https://github.com/owner/site.git",
		`[url "` + filepath.Join(tmp, "missing.git") + `"]`,
		"\tinsteadOf = git@github.com:owner/elsewhere.git",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(global, []byte(content), 0o644))
	t.Setenv("GIT_CONFIG_GLOBAL", global)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv(EnvCacheDir, filepath.Join(tmp, "cache"))
	return &gitRemote{bare: bare, git: gitPath}
}

func runGit(t *testing.T, gitPath string, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(gitPath, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func (r *gitRemote) run(t *testing.T, args ...string) string {
	t.Helper()
	return runGit(t, r.git, "", append([]string{"--git-dir", r.bare}, args...)...)
}

func (r *gitRemote) commitCount(t *testing.T, branch string) string {
	t.Helper()
	return r.run(t, "rev-list", "--count", branch)
}

// seedBranch pushes one commit holding files to branch of the remote.
func (r *gitRemote) seedBranch(t *testing.T, branch string, files map[string]string) {
	t.Helper()
	work := t.TempDir()
	runGit(t, r.git, work, "init", "-q")
	for name, content := range files {
		testutil.WriteFile(t, work, name, content)
	}
	runGit(t, r.git, work, "add", "-A")
	runGit(t, r.git, work, "commit", "-q", "-m", "Existing site")
	runGit(t, r.git, work, "push", "-q", r.bare, "HEAD:refs/heads/"+branch)
}

func envValue(env []string, key string) (string, bool) {
	for _, entry := range env {
		if name, value, ok := strings.Cut(entry, "="); ok && name == key {
			return value, true
		}
	}
	return "", false
}
