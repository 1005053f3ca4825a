package messages

// Config messages for configuration loading and validation.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigMissingEnvFileFmt   = "missing env file %s: %w"
	ConfigInvalidEnvFileFmt   = "invalid env file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"

	ConfigServerTargetRequiredFmt = "%s: servers.%s.target is required"
	ConfigServerTargetInvalidFmt  = "%s: servers.%s.target is not a valid URL: %w"
	ConfigServerSchemeRequiredFmt = "%s: servers.%s.target %q has no scheme"
	ConfigMultipleDefaultsFmt     = "%s: servers %s and %s are both marked default"
	ConfigLockTimeoutInvalidFmt   = "%s: publish.lock_timeout_seconds must not be negative"
	ConfigResolveHomeFmt          = "%s: expand %s: %w"

	// ConfigValidationGuidance is appended to validation errors.
	ConfigValidationGuidance = "(edit .sitepub/config.toml to fix)"

	RootMissingProjectFmt = "no .sitepub directory found in %s or any parent"
	RootNotADirectoryFmt  = "%s exists but is not a directory"
	RootStatFailedFmt     = "stat %s: %w"
)
