package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conn-castle/sitepub/internal/config"
	"github.com/conn-castle/sitepub/internal/messages"
	"github.com/conn-castle/sitepub/internal/root"
)

var getwd = os.Getwd

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)
	cmd.AddCommand(newDeployCmd(), newServersCmd(), newDoctorCmd())
	return cmd
}

// loadProject loads the project containing the working directory.
// It returns nil without error when the directory is not inside a project.
func loadProject() (*config.ProjectConfig, string, error) {
	cwd, err := getwd()
	if err != nil {
		return nil, "", fmt.Errorf(messages.DeployResolveCwdFmt, err)
	}
	projectRoot, found, err := root.FindProjectRoot(cwd)
	if err != nil {
		return nil, cwd, err
	}
	if !found {
		return nil, cwd, nil
	}
	project, err := config.LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, cwd, err
	}
	return project, cwd, nil
}
