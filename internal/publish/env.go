package publish

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/sitepub/internal/config"
	"github.com/conn-castle/sitepub/internal/messages"
)

// EnvCacheDir overrides the directory holding working clones.
const EnvCacheDir = "SITEPUB_CACHE_DIR"

// MetadataDir is the site builder's local build-state directory. It is never uploaded.
const MetadataDir = ".lektor"

const (
	defaultRsync       = "rsync"
	defaultGit         = "git"
	defaultLockTimeout = 30 * time.Second
)

// Env is the environment a publish attempt runs in.
type Env struct {
	Sys System
	// Project is the loaded project config; nil when publishing to a raw URL outside a project.
	Project *config.ProjectConfig
}

// NewEnv returns an Env backed by the real OS.
func NewEnv(project *config.ProjectConfig) *Env {
	return &Env{Sys: RealSystem{}, Project: project}
}

func (e *Env) sys() System {
	if e.Sys == nil {
		return RealSystem{}
	}
	return e.Sys
}

func (e *Env) settings() config.PublishConfig {
	if e.Project == nil {
		return config.PublishConfig{}
	}
	return e.Project.Config.Publish
}

func (e *Env) rsyncExecutable() string {
	if exe := strings.TrimSpace(e.settings().Rsync); exe != "" {
		return exe
	}
	return defaultRsync
}

func (e *Env) gitExecutable() string {
	if exe := strings.TrimSpace(e.settings().Git); exe != "" {
		return exe
	}
	return defaultGit
}

// Executable returns the external tool a scheme deploys with, or "" for unknown schemes.
func (e *Env) Executable(scheme string) string {
	switch strings.ToLower(scheme) {
	case SchemeRsync:
		return e.rsyncExecutable()
	case SchemeGithubPages, SchemeGithubPagesSSH, SchemeGithubPagesHTTPS:
		return e.gitExecutable()
	}
	return ""
}

func (e *Env) lockTimeout() time.Duration {
	if seconds := e.settings().LockTimeoutSeconds; seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultLockTimeout
}

func (e *Env) commitMessage() string {
	if msg := strings.TrimSpace(e.settings().CommitMessage); msg != "" {
		return msg
	}
	return messages.GhpagesDefaultCommitMsg
}

// lookupEnv consults the process environment first, then the project's .env file.
func (e *Env) lookupEnv(key string) string {
	if value := strings.TrimSpace(e.sys().Getenv(key)); value != "" {
		return value
	}
	if e.Project != nil {
		return strings.TrimSpace(e.Project.Env[key])
	}
	return ""
}

// cacheRoot resolves the directory for persistent working clones, honoring
// SITEPUB_CACHE_DIR, then publish.cache_dir, then the user cache directory.
func (e *Env) cacheRoot() (string, error) {
	if override := e.lookupEnv(EnvCacheDir); override != "" {
		return homedir.Expand(override)
	}
	if dir := strings.TrimSpace(e.settings().CacheDir); dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(expanded) && e.Project != nil {
			expanded = filepath.Join(e.Project.Root, expanded)
		}
		return expanded, nil
	}
	base, err := e.sys().UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "sitepub"), nil
}

// Target is a resolved publishing destination.
type Target struct {
	// Server is the configured record; for raw URLs only Target is set.
	Server config.Server
	URL    *url.URL
}

// Label names the target in messages without exposing a password.
func (t Target) Label() string {
	if t.Server.ID != "" {
		return t.Server.ID
	}
	if t.URL != nil {
		return t.URL.Redacted()
	}
	return t.Server.Target
}

// Option returns a strategy option. A query parameter on the target URL wins over the
// server's extra field of the same name.
func (t Target) Option(key string) string {
	if values := t.Options(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// Options returns every value of a repeatable option.
func (t Target) Options(key string) []string {
	if t.URL != nil {
		if values, ok := t.URL.Query()[key]; ok {
			return values
		}
	}
	if value, ok := t.Server.Extra[key]; ok {
		return []string{value}
	}
	return nil
}

// Flag reports whether a boolean option is switched on. A bare key counts as on.
func (t Target) Flag(key string) bool {
	values := t.Options(key)
	if values == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(values[0])) {
	case "", "on", "yes", "true", "1":
		return true
	}
	return false
}

func expandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveHomeFmt, "path", path, err)
	}
	return expanded, nil
}
