// Package envfile reads dotenv-style files holding deploy secrets.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/sitepub/internal/messages"
)

// Parse reads .env content into a key-value map.
// Later assignments of the same key win, matching shell semantics.
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	if content == "" {
		return env, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, lineNo, err)
		}
		if ok {
			env[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return env, nil
}

// FilterPrefix returns the entries whose key starts with prefix.
func FilterPrefix(env map[string]string, prefix string) map[string]string {
	filtered := make(map[string]string, len(env))
	for key, value := range env {
		if strings.HasPrefix(key, prefix) {
			filtered[key] = value
		}
	}
	return filtered
}

// parseLine returns key/value when line holds an assignment; blank and comment lines report ok=false.
func parseLine(line string) (key string, value string, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	name, raw, found := strings.Cut(trimmed, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", false, errors.New(messages.EnvfileExpectedKeyVal)
	}
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, `"`):
		value, err = unquote(raw, '"')
	case strings.HasPrefix(raw, `'`):
		value, err = unquote(raw, '\'')
	default:
		value = stripInlineComment(raw)
	}
	if err != nil {
		return "", "", false, err
	}
	return name, value, true, nil
}

// unquote decodes a quoted value. Double quotes honour \\, \", \n and \r escapes;
// single quotes are literal. Only whitespace or a comment may follow the closing quote.
func unquote(raw string, quote byte) (string, error) {
	var b strings.Builder
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		if quote == '"' && c == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '\\', '"':
				b.WriteByte(raw[i+1])
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			}
		}
		if c == quote {
			rest := strings.TrimSpace(raw[i+1:])
			if rest != "" && !strings.HasPrefix(rest, "#") {
				return "", errors.New(messages.EnvfileTrailingContent)
			}
			return b.String(), nil
		}
		b.WriteByte(c)
	}
	return "", errors.New(messages.EnvfileUnterminatedVal)
}

// stripInlineComment drops a " #" comment from an unquoted value.
func stripInlineComment(raw string) string {
	if idx := strings.Index(raw, " #"); idx >= 0 {
		return strings.TrimSpace(raw[:idx])
	}
	return raw
}
