package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/domain/project"
)

type projectRow struct {
	project.Project
	Band              string `json:"health_band"`
	ValidationPercent int    `json:"validation_percent"`
}

func newProjectRow(p project.Project) projectRow {
	return projectRow{Project: p, Band: p.Band().Label, ValidationPercent: p.ValidationPercent()}
}

func projectRows(ps []project.Project) []projectRow {
	rows := make([]projectRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, newProjectRow(p))
	}
	return rows
}

type stateOutput struct {
	Outcome      dashboard.LoadOutcome  `json:"outcome,omitempty"`
	Projects     []projectRow           `json:"projects"`
	Selected     *projectRow            `json:"selected_project,omitempty"`
	CurrentView  dashboard.View         `json:"current_view"`
	Component    dashboard.Component    `json:"component"`
	Capabilities []dashboard.Capability `json:"capabilities"`
}

func newStateOutput(snap dashboard.Snapshot, props dashboard.ViewProps) stateOutput {
	out := stateOutput{
		Projects:     projectRows(snap.Projects),
		CurrentView:  snap.View,
		Component:    props.Component,
		Capabilities: props.Capabilities,
	}
	if snap.Selected != nil {
		row := newProjectRow(*snap.Selected)
		out.Selected = &row
	}
	return out
}

func newProjectsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects with health bands",
		Long: `Load projects from the API and list them in display order.

When the API is unreachable the sample dataset is shown and the outcome is "fallback".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			res := a.start(ctx)
			a.persist(ctx)
			snap := a.store.Snapshot()
			return render(cmd.OutOrStdout(), o.outputFormat, map[string]any{
				"outcome":  res.Outcome,
				"projects": projectRows(snap.Projects),
			})
		},
	}
}

func newStateCmd(o *options) *cobra.Command {
	view := &viewValue{}
	c := &cobra.Command{
		Use:   "state",
		Short: "Show the dashboard state and the props of the active view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			res := a.start(ctx)
			snap := a.store.Snapshot()
			props := a.store.Props()
			if view.view != "" {
				props = dashboard.ResolveView(view.view, snap, dashboard.Actions{})
			}
			out := newStateOutput(snap, props)
			out.Outcome = res.Outcome
			return render(cmd.OutOrStdout(), o.outputFormat, out)
		},
	}
	c.Flags().Var(view, "view", "Resolve props for this view instead of the active one (dashboard|upload|issues|viewer)")
	return c
}

func newSelectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "select <project-id>",
		Short: "Select a project",
		Long: `Select a loaded project. Pass "" to clear it.

The selection and the active view are saved in the local database (--db) and
restored on the next run when the project is still present. The project
collection itself is always reloaded from the API.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			a.start(ctx)
			if err := a.store.SelectProject(args[0]); err != nil {
				return err
			}
			a.persist(ctx)
			return render(cmd.OutOrStdout(), o.outputFormat, newStateOutput(a.store.Snapshot(), a.store.Props()))
		},
	}
}

func newViewCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view [name]",
		Short: "Show or switch the active view",
		Long: `Without arguments, show the props of the active view. With a name, switch to it first.

Unknown names are kept but render the dashboard.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			a.start(ctx)
			if len(args) == 1 {
				a.store.SetView(dashboard.View(args[0]))
				a.persist(ctx)
			}
			return render(cmd.OutOrStdout(), o.outputFormat, a.store.Props())
		},
	}
}

func newNavCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "List navigation entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render(cmd.OutOrStdout(), o.outputFormat, dashboard.NavigationItems())
		},
	}
}
