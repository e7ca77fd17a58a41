package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/transport"
)

func newProjectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "project <project-id>",
		Short: "Show a project with its validation results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			detail, err := a.client.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o.outputFormat, map[string]any{
				"project":            newProjectRow(detail.Project),
				"validation_results": detail.ValidationResults,
			})
		},
	}
}

func newIssuesCmd(o *options) *cobra.Command {
	var severity string
	c := &cobra.Command{
		Use:   "issues [project-id]",
		Short: "List the issues of a project",
		Long:  `List issues of the given project, or of the selected project when no id is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch project.Severity(severity) {
			case "", project.SeverityCritical, project.SeverityWarning, project.SeverityInfo:
			default:
				return fmt.Errorf("invalid severity %q: want critical, warning or info", severity)
			}

			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				a.start(ctx)
				sel, ok := a.store.Selected()
				if !ok {
					return fmt.Errorf("no project selected: pass a project id or run 'sentry select'")
				}
				id = sel.ID
			}

			issues, err := a.client.Issues(ctx, id)
			if err != nil {
				return err
			}
			filtered := make([]transport.Issue, 0, len(issues))
			for _, is := range issues {
				if severity == "" || string(is.Severity) == severity {
					filtered = append(filtered, is)
				}
			}
			return render(cmd.OutOrStdout(), o.outputFormat, map[string]any{
				"project_id": id,
				"count":      len(filtered),
				"issues":     filtered,
			})
		},
	}
	c.Flags().StringVar(&severity, "severity", "", "Only show issues of this severity (critical|warning|info)")
	return c
}

func newDashboardCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard statistics from the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			dash, err := a.client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o.outputFormat, dash)
		},
	}
}

func newHealthCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			health, err := a.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o.outputFormat, map[string]any{
				"api":    a.client.BaseURL(),
				"health": health,
			})
		},
	}
}
