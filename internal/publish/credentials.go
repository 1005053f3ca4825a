package publish

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/ssh"

	"github.com/conn-castle/sitepub/internal/messages"
)

// Credentials are the secrets used to authenticate against a target.
// A zero value means "no credentials".
type Credentials struct {
	Username string
	Password string
	// KeyFile is a path to an ssh private key.
	KeyFile string
	// Key is inline key material, "TYPE:base64body" or just the body for RSA keys.
	Key string
}

// IsZero reports whether no credential field is set.
func (c Credentials) IsZero() bool {
	return c == Credentials{}
}

// ResolveCredentials picks the credentials for target. Explicit credentials win outright,
// even when some of their fields are empty; otherwise the URL's userinfo is used.
func ResolveCredentials(target *url.URL, explicit *Credentials) Credentials {
	if explicit != nil {
		return *explicit
	}
	if target == nil || target.User == nil {
		return Credentials{}
	}
	password, _ := target.User.Password()
	return Credentials{Username: target.User.Username(), Password: password}
}

// Validate checks that the credentials can be handed to the transport tools.
// It returns a *CredentialError describing the first problem found.
func (c Credentials) Validate() error {
	if c.Username != "" && !validUsername(c.Username) {
		return credentialErrorf(messages.CredentialUsernameInvalidFmt, c.Username)
	}
	if c.KeyFile != "" && c.Key != "" {
		return &CredentialError{Reason: messages.CredentialKeyAndKeyFile}
	}
	if c.KeyFile != "" {
		path, err := expandPath(c.KeyFile)
		if err != nil {
			return &CredentialError{Reason: err.Error()}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return credentialErrorf(messages.CredentialKeyFileMissingFmt, c.KeyFile, err)
		}
		return checkPrivateKey(data)
	}
	if c.Key != "" {
		data, err := keyPEM(c.Key)
		if err != nil {
			return err
		}
		return checkPrivateKey(data)
	}
	return nil
}

func validUsername(name string) bool {
	if strings.HasPrefix(name, "-") || strings.ContainsAny(name, "@:/") {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}

// checkPrivateKey accepts any key ssh could load. Encrypted keys pass; ssh prompts for them.
func checkPrivateKey(data []byte) error {
	_, err := ssh.ParseRawPrivateKey(data)
	var missing *ssh.PassphraseMissingError
	if err == nil || errors.As(err, &missing) {
		return nil
	}
	return credentialErrorf(messages.CredentialKeyInvalidFmt, err)
}

var keyTypePattern = regexp.MustCompile(`^[A-Z0-9]+( [A-Z0-9]+)*$`)

// keyPEM rebuilds an inline key into a PEM document with 64 column body lines.
func keyPEM(key string) ([]byte, error) {
	keyType, body := "RSA", key
	if before, after, ok := strings.Cut(key, ":"); ok {
		keyType, body = strings.ToUpper(strings.TrimSpace(before)), after
	}
	if !keyTypePattern.MatchString(keyType) {
		return nil, credentialErrorf(messages.CredentialKeyTypeInvalidFmt, keyType)
	}
	body = strings.Join(strings.Fields(body), "")

	var b strings.Builder
	fmt.Fprintf(&b, "-----BEGIN %s PRIVATE KEY-----\n", keyType)
	for len(body) > 64 {
		b.WriteString(body[:64])
		b.WriteByte('\n')
		body = body[64:]
	}
	if body != "" {
		b.WriteString(body)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "-----END %s PRIVATE KEY-----\n", keyType)
	return []byte(b.String()), nil
}
