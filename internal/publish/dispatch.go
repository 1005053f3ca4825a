package publish

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"os"
	"strings"

	"github.com/conn-castle/sitepub/internal/config"
	"github.com/conn-castle/sitepub/internal/messages"
)

// Publish uploads the site in outputPath to serverOrURL, which is either a configured
// server ID, a raw target URL, or empty for the default server. Configuration and
// credential problems are returned directly before anything runs; upload progress and
// failures arrive through the returned sequence.
func Publish(ctx context.Context, env *Env, serverOrURL string, outputPath string, credentials *Credentials) (iter.Seq2[string, error], error) {
	if env == nil {
		return nil, errors.New(messages.PublishEnvRequired)
	}
	target, err := env.ResolveTarget(serverOrURL)
	if err != nil {
		return nil, err
	}
	factory, err := selectPublisher(target)
	if err != nil {
		return nil, err
	}
	if err := checkOutputDir(outputPath); err != nil {
		return nil, err
	}
	if credentials != nil {
		if err := credentials.Validate(); err != nil {
			return nil, err
		}
	}
	return factory(env, outputPath).Publish(ctx, target, credentials), nil
}

// ResolveTarget maps a server ID or raw URL onto a Target.
func (e *Env) ResolveTarget(serverOrURL string) (Target, error) {
	ref := strings.TrimSpace(serverOrURL)
	var cfg *config.Config
	if e.Project != nil {
		cfg = &e.Project.Config
	}

	var server config.Server
	switch {
	case ref == "":
		def, ok := cfg.DefaultServer()
		if !ok {
			return Target{}, &ConfigurationError{Message: messages.PublishNoDefaultServer}
		}
		server = def
	case strings.Contains(ref, "://"):
		server = config.Server{Target: ref}
	default:
		named, ok := cfg.Server(ref)
		if !ok {
			return Target{}, configErrorf(messages.PublishUnknownServerFmt, ref)
		}
		server = named
	}
	if server.ID != "" && !server.IsEnabled() {
		return Target{}, configErrorf(messages.PublishServerDisabledFmt, server.ID)
	}

	parsed, err := url.Parse(server.Target)
	if err != nil {
		return Target{}, configErrorf(messages.PublishTargetInvalidFmt, server.ShortTarget(), err)
	}
	return Target{Server: server, URL: parsed}, nil
}

// CheckTarget reports the ConfigurationError Publish would return for target, if any.
func CheckTarget(target Target) error {
	_, err := selectPublisher(target)
	return err
}

func selectPublisher(target Target) (Factory, error) {
	host := target.URL.Hostname()
	if host == "" {
		return nil, configErrorf(messages.PublishTargetNoHostFmt, target.URL.Redacted())
	}
	if strings.HasPrefix(host, "-") {
		return nil, configErrorf(messages.PublishHostInvalidFmt, host)
	}
	factory, ok := lookupFactory(target.URL.Scheme)
	if !ok {
		return nil, configErrorf(messages.PublishInvalidMethodFmt, target.Label())
	}
	return factory, nil
}

func checkOutputDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return configErrorf(messages.PublishOutputMissingFmt, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return configErrorf(messages.PublishOutputNotDirFmt, path)
	}
	return nil
}
