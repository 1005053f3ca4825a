package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/sitepub/internal/messages"
)

const sshKeyFileName = "ssh-auth-key"

// writeSSHKeyFile returns the private key path ssh should use for creds. Inline key
// material is written to path with owner-only permissions.
func writeSSHKeyFile(path string, creds Credentials) (string, error) {
	if creds.KeyFile != "" {
		return expandPath(creds.KeyFile)
	}
	if creds.Key == "" {
		return "", nil
	}
	if path == "" {
		return "", errors.New(messages.PublishSSHDirRequired)
	}
	data, err := keyPEM(creds.Key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// sshCommand builds the remote shell command line for rsync -e and GIT_SSH_COMMAND.
// It returns "" when plain ssh would behave the same.
func sshCommand(port, keyFile, knownHosts string) string {
	if port == "" && keyFile == "" && knownHosts == "" {
		return ""
	}
	args := []string{"ssh"}
	if port != "" {
		args = append(args, "-p", port)
	}
	if keyFile != "" {
		args = append(args, "-i", keyFile, "-o", "IdentitiesOnly=yes")
	}
	if knownHosts != "" {
		args = append(args, "-o", "UserKnownHostsFile="+knownHosts)
	}
	return shellJoin(args)
}

func shellJoin(words []string) string {
	quoted := make([]string, len(words))
	for i, word := range words {
		quoted[i] = shellQuote(word)
	}
	return strings.Join(quoted, " ")
}

// shellQuote quotes word for POSIX shells. rsync splits -e with the same rules.
func shellQuote(word string) string {
	if word == "" {
		return "''"
	}
	if strings.IndexFunc(word, needsQuoting) < 0 {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'"'"'`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("@%+=:,./_-", r)
}
