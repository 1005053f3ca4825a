package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse         = "sitepub"
	RootShort       = "Publish a built static site to a remote server"
	RootVersionFlag = "Print version and exit"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	DeployUse              = "deploy [server|url]"
	DeployShort            = "Publish the output directory to a configured server or URL"
	DeployFlagOutputPath   = "Directory holding the built site (default: publish.output_path or ./build)"
	DeployFlagUsername     = "Username for the target (overrides credentials in the URL)"
	DeployFlagPassword     = "Password for the target"
	DeployFlagKeyFile      = "Path to an SSH private key file"
	DeployFlagKey          = "Inline SSH private key as [TYPE:]BASE64"
	DeployFlagAskPassword  = "Prompt for the password on the terminal"
	DeployHeaderFmt        = "Deploying to %s (%s)\n"
	DeployDone             = "Done!"
	DeployFailedFmt        = "Deploy failed: %v\n"
	DeployPasswordPrompt   = "Password: "
	DeployPromptNeedsTTY   = "--ask-password requires an interactive terminal"
	DeployReadPasswordFmt  = "read password: %w"
	DeployResolveCwdFmt    = "resolve working directory: %w"
	DeployExpandPathFmt    = "expand %s: %w"
	DeployProjectRequired  = "server names require a project with .sitepub/config.toml; pass a URL instead"

	ServersUse         = "servers"
	ServersShort       = "List configured publishing servers"
	ServersFlagLang    = "Language used for server display names"
	ServersNone        = "No servers configured."
	ServersLineFmt     = "%s%s  %s  %s\n"
	ServersDefaultMark = "* "
	ServersPlainMark   = "  "
	ServersDisabledTag = " (disabled)"
)
