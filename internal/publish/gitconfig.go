package publish

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const remoteBlockFmt = "[remote \"origin\"]\nurl = %s\nfetch = +refs/heads/%s:refs/remotes/origin/%s\n"

// managedSections are rewritten on every deploy; everything else in the config is kept.
var managedSections = []string{`remote "origin"`, "credential"}

// remoteURL returns the push URL for a ghpages target and whether it goes over ssh.
func remoteURL(target *url.URL) (string, bool) {
	repo := strings.TrimSuffix(strings.Trim(target.Path, "/"), ".git")
	slug := target.Hostname() + "/" + repo
	if strings.EqualFold(target.Scheme, SchemeGithubPagesHTTPS) {
		return "https://github.com/" + slug + ".git", false
	}
	return "git@github.com:" + slug + ".git", true
}

// UpdateGitConfig points the origin remote of the clone at repoPath to target and tracks
// branch. Previous origin and credential sections are replaced, so repeating a call with
// the same inputs leaves the file byte-identical. It returns the ssh command git should
// use, or "" when plain ssh is fine.
func (p *GithubPagesPublisher) UpdateGitConfig(repoPath string, target Target, branch string, creds Credentials) (string, error) {
	gitDir := filepath.Join(repoPath, ".git")
	configPath := filepath.Join(gitDir, "config")
	credentialsPath := filepath.Join(gitDir, "credentials")
	pushURL, viaSSH := remoteURL(target.URL)

	sshCmd := ""
	if viaSSH {
		keyFile, err := writeSSHKeyFile(filepath.Join(gitDir, sshKeyFileName), creds)
		if err != nil {
			return "", err
		}
		knownHosts := target.Option("known_hosts")
		if knownHosts != "" {
			if knownHosts, err = expandPath(knownHosts); err != nil {
				return "", err
			}
		}
		sshCmd = sshCommand(target.URL.Port(), keyFile, knownHosts)
	}

	existing, err := os.ReadFile(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	var b strings.Builder
	b.WriteString(stripSections(string(existing), managedSections))
	fmt.Fprintf(&b, remoteBlockFmt, pushURL, branch, branch)

	if !viaSSH && creds.Username != "" {
		fmt.Fprintf(&b, "[credential]\nhelper = store --file %s\n", shellQuote(credentialsPath))
		if err := writeFileAtomic(credentialsPath, []byte(credentialLine(creds)), 0o600); err != nil {
			return "", err
		}
	} else if err := os.Remove(credentialsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := writeFileAtomic(configPath, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return sshCmd, nil
}

// credentialLine renders a git-credential-store entry.
func credentialLine(creds Credentials) string {
	user := url.User(creds.Username)
	if creds.Password != "" {
		user = url.UserPassword(creds.Username, creds.Password)
	}
	u := url.URL{Scheme: "https", User: user, Host: "github.com"}
	return u.String() + "\n"
}

// stripSections removes the named sections from git config content. Names compare the
// way git does: section names ignore case, subsection names do not.
func stripSections(content string, names []string) string {
	var kept []string
	skipping := false
	for _, line := range strings.Split(content, "\n") {
		if name, ok := sectionHeader(line); ok {
			skipping = false
			for _, managed := range names {
				if name == managed {
					skipping = true
					break
				}
			}
		}
		if !skipping {
			kept = append(kept, line)
		}
	}
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}

// sectionHeader returns the normalized name of a "[section]" or "[section "sub"]" line.
func sectionHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	end := strings.Index(trimmed, "]")
	if end < 0 {
		return "", false
	}
	inner := strings.TrimSpace(trimmed[1:end])
	section, sub, hasSub := strings.Cut(inner, " ")
	if hasSub {
		return strings.ToLower(section) + " " + strings.TrimSpace(sub), true
	}
	// Legacy "[remote.origin]" form.
	if section, sub, ok := strings.Cut(inner, "."); ok {
		return strings.ToLower(section) + ` "` + strings.ToLower(sub) + `"`, true
	}
	return strings.ToLower(inner), true
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
