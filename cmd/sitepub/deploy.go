package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/conn-castle/sitepub/internal/config"
	"github.com/conn-castle/sitepub/internal/messages"
	"github.com/conn-castle/sitepub/internal/publish"
	"github.com/conn-castle/sitepub/internal/terminal"
)

const defaultOutputDir = "build"

var (
	publishFunc   = publish.Publish
	newPublishEnv = publish.NewEnv
	isInteractive = terminal.IsInteractive
	readSecret    = terminal.ReadSecret
	lookupEnv     = os.Getenv
)

type deployOptions struct {
	outputPath  string
	username    string
	password    string
	keyFile     string
	key         string
	askPassword bool
}

func newDeployCmd() *cobra.Command {
	var opts deployOptions
	cmd := &cobra.Command{
		Use:   messages.DeployUse,
		Short: messages.DeployShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runDeploy(cmd, ref, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.outputPath, "output-path", "O", "", messages.DeployFlagOutputPath)
	flags.StringVar(&opts.username, "username", "", messages.DeployFlagUsername)
	flags.StringVar(&opts.password, "password", "", messages.DeployFlagPassword)
	flags.StringVar(&opts.keyFile, "key-file", "", messages.DeployFlagKeyFile)
	flags.StringVar(&opts.key, "key", "", messages.DeployFlagKey)
	flags.BoolVar(&opts.askPassword, "ask-password", false, messages.DeployFlagAskPassword)
	return cmd
}

func runDeploy(cmd *cobra.Command, ref string, opts deployOptions) error {
	out := cmd.OutOrStdout()
	project, cwd, err := loadProject()
	if err != nil {
		return err
	}
	if project == nil && !strings.Contains(ref, "://") {
		return errors.New(messages.DeployProjectRequired)
	}

	credentials, err := explicitCredentials(cmd, opts, project)
	if err != nil {
		return err
	}
	outputPath, err := resolveOutputPath(opts.outputPath, cwd, project)
	if err != nil {
		return err
	}

	env := newPublishEnv(project)
	target, err := env.ResolveTarget(ref)
	if err != nil {
		return err
	}
	seq, err := publishFunc(cmd.Context(), env, ref, outputPath, credentials)
	if err != nil {
		return err
	}

	name := target.Server.DisplayName("")
	if name == "" {
		name = target.Label()
	}
	_, _ = color.New(color.Bold).Fprintf(out, messages.DeployHeaderFmt, name, target.URL.Redacted())
	for line, err := range seq {
		if err != nil {
			_, _ = color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), messages.DeployFailedFmt, err)
			return &SilentExitError{Code: 1}
		}
		_, _ = fmt.Fprintln(out, line)
	}
	_, _ = color.New(color.FgGreen).Fprintln(out, messages.DeployDone)
	return nil
}

// explicitCredentials collects credentials from flags, then the environment, then
// .sitepub/.env. It returns nil when none are given so URL credentials apply. A flag
// passed with an empty value still counts as given.
func explicitCredentials(cmd *cobra.Command, opts deployOptions, project *config.ProjectConfig) (*publish.Credentials, error) {
	var dotenv map[string]string
	if project != nil {
		dotenv = project.Env
	}
	given := opts.askPassword
	pick := func(flag string, value string, key string) string {
		if cmd.Flags().Changed(flag) {
			given = true
			return value
		}
		if fromEnv := strings.TrimSpace(lookupEnv(key)); fromEnv != "" {
			given = true
			return fromEnv
		}
		if fromFile := dotenv[key]; fromFile != "" {
			given = true
			return fromFile
		}
		return ""
	}
	credentials := publish.Credentials{
		Username: pick("username", opts.username, config.EnvDeployUsername),
		Password: pick("password", opts.password, config.EnvDeployPassword),
		KeyFile:  pick("key-file", opts.keyFile, config.EnvDeployKeyFile),
		Key:      pick("key", opts.key, config.EnvDeployKey),
	}
	if opts.askPassword {
		if !isInteractive() {
			return nil, errors.New(messages.DeployPromptNeedsTTY)
		}
		secret, err := readSecret(messages.DeployPasswordPrompt, cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf(messages.DeployReadPasswordFmt, err)
		}
		credentials.Password = secret
	}
	if !given {
		return nil, nil
	}
	return &credentials, nil
}

// resolveOutputPath picks the site directory. A flag value is relative to the working
// directory; configured and default paths are relative to the project root.
func resolveOutputPath(flagValue string, cwd string, project *config.ProjectConfig) (string, error) {
	path, base := strings.TrimSpace(flagValue), cwd
	if path == "" {
		if project != nil {
			base = project.Root
			path = strings.TrimSpace(project.Config.Publish.OutputPath)
		}
		if path == "" {
			path = defaultOutputDir
		}
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.DeployExpandPathFmt, path, err)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(base, expanded)
	}
	return filepath.Clean(expanded), nil
}
