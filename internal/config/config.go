// Package config loads the sitepub project configuration and its server records.
package config

import (
	"net/url"
	"sort"
	"strings"
)

// Config is the decoded .sitepub/config.toml.
type Config struct {
	Publish PublishConfig     `toml:"publish"`
	Servers map[string]Server `toml:"servers"`
}

// PublishConfig holds settings shared by every publishing strategy.
type PublishConfig struct {
	// Rsync and Git name the executables used by the strategies.
	Rsync string `toml:"rsync"`
	Git   string `toml:"git"`
	// CacheDir holds persistent working clones; empty means the user cache directory.
	CacheDir           string `toml:"cache_dir"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
	CommitMessage      string `toml:"commit_message"`
	// OutputPath is the default build output directory, relative to the project root.
	OutputPath string `toml:"output_path"`
}

// Server is one publishing destination.
type Server struct {
	// ID is the table key under [servers]; it is filled in after decoding.
	ID       string            `toml:"-"`
	Name     string            `toml:"name"`
	NameI18n map[string]string `toml:"name_i18n"`
	Target   string            `toml:"target"`
	Enabled  *bool             `toml:"enabled"`
	Default  bool              `toml:"default"`
	Extra    map[string]string `toml:"extra"`
}

// IsEnabled reports whether the server may be deployed to. Servers are enabled unless
// explicitly disabled.
func (s Server) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// DisplayName returns the name for lang, falling back to Name and then the ID.
func (s Server) DisplayName(lang string) string {
	if lang != "" {
		if name := strings.TrimSpace(s.NameI18n[lang]); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return s.ID
}

// ShortTarget returns the target with any password redacted.
func (s Server) ShortTarget() string {
	u, err := url.Parse(s.Target)
	if err != nil {
		return s.Target
	}
	return u.Redacted()
}

// Server looks up a server by ID.
func (c *Config) Server(id string) (Server, bool) {
	if c == nil {
		return Server{}, false
	}
	server, ok := c.Servers[id]
	if !ok {
		return Server{}, false
	}
	server.ID = id
	return server, true
}

// DefaultServer returns the server marked default, if any.
func (c *Config) DefaultServer() (Server, bool) {
	if c == nil {
		return Server{}, false
	}
	for _, id := range c.ServerIDs() {
		if c.Servers[id].Default {
			return c.Server(id)
		}
	}
	return Server{}, false
}

// ServerIDs returns the configured server IDs in sorted order.
func (c *Config) ServerIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.Servers))
	for id := range c.Servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
