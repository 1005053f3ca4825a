package config

import "path/filepath"

// ProjectDirName is the per-project configuration directory.
const ProjectDirName = ".sitepub"

// Paths holds resolved paths for config files and directories.
type Paths struct {
	Root       string
	ConfigPath string
	EnvPath    string
}

// DefaultPaths returns the default config paths for a project root.
func DefaultPaths(root string) Paths {
	return Paths{
		Root:       root,
		ConfigPath: filepath.Join(root, ProjectDirName, "config.toml"),
		EnvPath:    filepath.Join(root, ProjectDirName, ".env"),
	}
}
