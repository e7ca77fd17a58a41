package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ganot/project-sentry/internal/domain/project"
)

func newBandCmd(o *options) *cobra.Command {
	var all bool
	c := &cobra.Command{
		Use:   "band [score]",
		Short: "Classify a health score",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return render(cmd.OutOrStdout(), o.outputFormat, project.Bands())
			}
			score, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[0], err)
			}
			return render(cmd.OutOrStdout(), o.outputFormat, project.HealthBandFloat(score))
		},
	}
	c.Flags().BoolVar(&all, "all", false, "List every band")
	return c
}
