package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/sitepub/internal/doctor"
	"github.com/conn-castle/sitepub/internal/messages"
	"github.com/conn-castle/sitepub/internal/root"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cwd, err := getwd()
			if err != nil {
				return fmt.Errorf(messages.DeployResolveCwdFmt, err)
			}
			projectRoot, found, err := root.FindProjectRoot(cwd)
			if err != nil {
				return err
			}
			if !found {
				projectRoot = cwd
			}

			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, projectRoot)

			results := doctor.CheckStructure(projectRoot)
			if found {
				configResults, cfg := doctor.CheckConfig(projectRoot)
				results = append(results, configResults...)
				if cfg != nil {
					env := newPublishEnv(cfg)
					results = append(results, doctor.CheckServers(env)...)
					results = append(results, doctor.CheckTools(env)...)
					results = append(results, doctor.CheckCredentials(env)...)
				}
			}

			hasFail := false
			for _, r := range results {
				printResult(out, r)
				if r.Status == doctor.StatusFail {
					hasFail = true
				}
			}
			if hasFail {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	for i, line := range strings.Split(recommendation, "\n") {
		switch {
		case i == 0:
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
		case line == "":
			_, _ = fmt.Fprintln(out, messages.DoctorRecommendationIndent)
		default:
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
		}
	}
}
