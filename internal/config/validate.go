package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/conn-castle/sitepub/internal/messages"
)

// Validate ensures every server has a parseable target and at most one is the default.
func (c *Config) Validate(path string) error {
	if c.Publish.LockTimeoutSeconds < 0 {
		return fmt.Errorf(messages.ConfigLockTimeoutInvalidFmt, path)
	}
	defaultID := ""
	for _, id := range c.ServerIDs() {
		server := c.Servers[id]
		target := strings.TrimSpace(server.Target)
		if target == "" {
			return fmt.Errorf(messages.ConfigServerTargetRequiredFmt, path, id)
		}
		u, err := url.Parse(target)
		if err != nil {
			return fmt.Errorf(messages.ConfigServerTargetInvalidFmt, path, id, err)
		}
		if u.Scheme == "" {
			return fmt.Errorf(messages.ConfigServerSchemeRequiredFmt, path, id, server.ShortTarget())
		}
		if server.Default {
			if defaultID != "" {
				return fmt.Errorf(messages.ConfigMultipleDefaultsFmt, path, defaultID, id)
			}
			defaultID = id
		}
	}
	return nil
}
