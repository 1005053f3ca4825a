package publish

import (
	"context"
	"iter"
	"slices"
	"strings"
)

// Publisher uploads a built site to one kind of target.
type Publisher interface {
	// Publish returns the lazy output of the upload. The final element carries the
	// error, if any; stopping early aborts the upload.
	Publish(ctx context.Context, target Target, credentials *Credentials) iter.Seq2[string, error]
}

// Factory builds a Publisher for a site output directory.
type Factory func(env *Env, outputPath string) Publisher

// URL schemes understood by the dispatcher.
const (
	SchemeRsync            = "rsync"
	SchemeGithubPages      = "ghpages"
	SchemeGithubPagesSSH   = "ghpages+ssh"
	SchemeGithubPagesHTTPS = "ghpages+https"
)

var registry = map[string]Factory{
	SchemeRsync:            newRsync,
	SchemeGithubPages:      newGithubPages,
	SchemeGithubPagesSSH:   newGithubPages,
	SchemeGithubPagesHTTPS: newGithubPages,
}

func newRsync(env *Env, outputPath string) Publisher {
	return NewRsyncPublisher(env, outputPath)
}

func newGithubPages(env *Env, outputPath string) Publisher {
	return NewGithubPagesPublisher(env, outputPath)
}

func lookupFactory(scheme string) (Factory, bool) {
	factory, ok := registry[strings.ToLower(scheme)]
	return factory, ok
}

// Schemes returns the supported URL schemes in sorted order.
func Schemes() []string {
	schemes := make([]string, 0, len(registry))
	for scheme := range registry {
		schemes = append(schemes, scheme)
	}
	slices.Sort(schemes)
	return schemes
}
