package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/sitepub/internal/envfile"
	"github.com/conn-castle/sitepub/internal/messages"
)

// EnvPrefix namespaces the variables read from .sitepub/.env.
const EnvPrefix = "SITEPUB_"

// Deploy credentials, read from the process environment or .sitepub/.env.
const (
	EnvDeployUsername = EnvPrefix + "DEPLOY_USERNAME"
	EnvDeployPassword = EnvPrefix + "DEPLOY_PASSWORD"
	EnvDeployKeyFile  = EnvPrefix + "DEPLOY_KEY_FILE"
	EnvDeployKey      = EnvPrefix + "DEPLOY_KEY"
)

// ErrConfigValidation wraps config validation failures
// (as opposed to TOML syntax, filesystem, or other loading errors).
var ErrConfigValidation = errors.New("config validation failed")

// ProjectConfig is the loaded configuration of one project.
type ProjectConfig struct {
	Config Config
	Root   string
	// Env holds SITEPUB_ variables from .sitepub/.env; empty when the file is absent.
	Env map[string]string
}

// LoadProjectConfig reads and validates the project config under root.
// The .env file is optional.
func LoadProjectConfig(root string) (*ProjectConfig, error) {
	paths := DefaultPaths(root)
	cfg, err := LoadConfig(paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	env, err := LoadEnv(paths.EnvPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		env = map[string]string{}
	}
	return &ProjectConfig{Config: *cfg, Root: root, Env: env}, nil
}

// LoadConfig reads a config.toml file and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseConfig(data, path)
}

// LoadEnv reads a .env file into a key-value map restricted to the SITEPUB_ namespace.
func LoadEnv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingEnvFileFmt, path, err)
	}
	env, err := envfile.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidEnvFileFmt, path, err)
	}
	return envfile.FilterPrefix(env, EnvPrefix), nil
}

// ParseConfig parses and validates config TOML data.
// source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	for id, server := range cfg.Servers {
		server.ID = id
		cfg.Servers[id] = server
	}
	return &cfg, nil
}

// decodeStrict re-decodes the TOML data with unknown-field rejection so typos in
// server tables surface instead of being ignored.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
