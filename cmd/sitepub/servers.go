package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/sitepub/internal/messages"
)

func newServersCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   messages.ServersUse,
		Short: messages.ServersShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, cwd, err := loadProject()
			if err != nil {
				return err
			}
			if project == nil {
				return fmt.Errorf(messages.RootMissingProjectFmt, cwd)
			}

			out := cmd.OutOrStdout()
			ids := project.Config.ServerIDs()
			if len(ids) == 0 {
				_, _ = fmt.Fprintln(out, messages.ServersNone)
				return nil
			}
			bold := color.New(color.Bold).SprintFunc()
			faint := color.New(color.Faint).SprintFunc()
			for _, id := range ids {
				server, _ := project.Config.Server(id)
				mark, label := messages.ServersPlainMark, id
				if server.Default {
					mark, label = messages.ServersDefaultMark, bold(id)
				}
				name := server.DisplayName(lang)
				if !server.IsEnabled() {
					name += faint(messages.ServersDisabledTag)
				}
				_, _ = fmt.Fprintf(out, messages.ServersLineFmt, mark, label, name, server.ShortTarget())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", messages.ServersFlagLang)
	return cmd
}
