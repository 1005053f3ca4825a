package proc

import (
	"fmt"
	"sort"
	"strings"
)

// setEnv sets or appends a key=value entry in an env slice.
// Duplicate entries for key are collapsed so the child sees exactly one value.
func setEnv(env []string, key string, value string) []string {
	entry := fmt.Sprintf("%s=%s", key, value)
	out := unsetEnv(env, key)
	return append(out, entry)
}

// unsetEnv removes all entries for the given key from an env slice.
// If key is empty, it returns env unchanged.
func unsetEnv(env []string, key string) []string {
	if key == "" {
		return env
	}
	prefix := key + "="
	result := make([]string, 0, len(env))
	for _, entry := range env {
		if !strings.HasPrefix(entry, prefix) {
			result = append(result, entry)
		}
	}
	return result
}

// MergeEnv returns a copy of base with overrides applied in key order.
// It returns nil when overrides is empty so callers inherit the parent environment.
func MergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	env := append([]string(nil), base...)
	for _, key := range keys {
		env = setEnv(env, key, overrides[key])
	}
	return env
}
