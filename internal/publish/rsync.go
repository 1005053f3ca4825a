package publish

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/sitepub/internal/messages"
	"github.com/conn-castle/sitepub/internal/proc"
)

// RsyncPublisher mirrors the site to a remote host with rsync over ssh.
//
// Target options: exclude (repeatable), delete (flag), known_hosts.
type RsyncPublisher struct {
	env        *Env
	outputPath string
}

// NewRsyncPublisher returns an rsync publisher for outputPath.
func NewRsyncPublisher(env *Env, outputPath string) *RsyncPublisher {
	return &RsyncPublisher{env: env, outputPath: outputPath}
}

// Command builds the rsync invocation for target. Inline key material is written below
// sshPath, which may be empty when no inline key is in use. A password is passed through
// RSYNC_PASSWORD and never appears in the arguments.
func (p *RsyncPublisher) Command(target Target, sshPath string, creds Credentials) (proc.Cmd, error) {
	args := []string{p.env.rsyncExecutable(), "-rclzv", "--exclude=" + MetadataDir}
	for _, pattern := range target.Options("exclude") {
		args = append(args, "--exclude="+pattern)
	}
	if target.Flag("delete") {
		args = append(args, "--delete-delay")
	}

	keyPath := ""
	if sshPath != "" {
		keyPath = filepath.Join(sshPath, sshKeyFileName)
	}
	keyFile, err := writeSSHKeyFile(keyPath, creds)
	if err != nil {
		return proc.Cmd{}, err
	}
	knownHosts := target.Option("known_hosts")
	if knownHosts != "" {
		if knownHosts, err = expandPath(knownHosts); err != nil {
			return proc.Cmd{}, err
		}
	}
	if shell := sshCommand(target.URL.Port(), keyFile, knownHosts); shell != "" {
		args = append(args, "-e", shell)
	}

	args = append(args, withTrailingSeparator(p.outputPath), remoteSpec(target.URL, creds.Username))

	cmd := proc.Cmd{Args: args}
	if creds.Password != "" {
		cmd.Env = proc.MergeEnv(p.env.sys().Environ(), map[string]string{"RSYNC_PASSWORD": creds.Password})
	}
	return cmd, nil
}

// Publish runs rsync and streams its output.
func (p *RsyncPublisher) Publish(ctx context.Context, target Target, credentials *Credentials) iter.Seq2[string, error] {
	return stream(func(out *emitter) error {
		return p.publish(ctx, target, ResolveCredentials(target.URL, credentials), out)
	})
}

func (p *RsyncPublisher) publish(ctx context.Context, target Target, creds Credentials, out *emitter) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	sys := p.env.sys()
	exe := p.env.rsyncExecutable()
	if _, err := sys.LookPath(exe); err != nil {
		return &PublishError{Step: messages.StepRsync, Err: fmt.Errorf(messages.PublishExecutableMissingFmt, exe)}
	}

	sshPath, err := os.MkdirTemp("", "sitepub-ssh-")
	if err != nil {
		return &PublishError{Step: messages.StepSSHDir, Err: err}
	}
	defer func() { _ = os.RemoveAll(sshPath) }()

	cmd, err := p.Command(target, sshPath, creds)
	if err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			return err
		}
		return &PublishError{Step: messages.StepSSHKey, Err: err}
	}
	return out.run(ctx, sys, messages.StepRsync, cmd)
}

func withTrailingSeparator(path string) string {
	sep := string(filepath.Separator)
	return strings.TrimRight(path, sep) + sep
}

// remoteSpec renders the rsync destination "[user@]host:path".
func remoteSpec(target *url.URL, username string) string {
	host := target.Hostname()
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if username != "" {
		host = username + "@" + host
	}
	path := target.Path
	if path == "" {
		path = "/"
	}
	return host + ":" + path
}
