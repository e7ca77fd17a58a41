// Package cmd contains all CLI commands for sentry.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the current version of sentry
var Version = "0.1.0"

// options holds the global flags.
type options struct {
	configPath   string
	apiURL       string
	dbPath       string
	outputFormat string
	verbose      bool
}

// NewRootCmd builds the command tree. Each call returns an independent tree
// with its own flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sentry",
		Short: "IFC model health dashboard client",
		Long: `sentry is a command-line client for the Project Sentry IFC model health API.

It loads projects, tracks the selected project and active view between runs,
uploads model files, and reads issues and dashboard statistics.

Output Format:
  All commands output YAML by default. Use --format json for JSON.

Examples:
  sentry projects                 # List projects with health bands
  sentry select tower-a           # Select a project
  sentry view issues              # Switch the active view
  sentry upload ./tower.ifc       # Upload a model file
  sentry issues tower-a --severity critical
  sentry band 87.5                # Classify a score

Configuration is read from --config or SENTRY_CONFIG_PATH, then SENTRY_* environment variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config file (default: $SENTRY_CONFIG_PATH)")
	pf.StringVar(&opts.apiURL, "api-url", "", "Project Sentry API base URL")
	pf.StringVar(&opts.dbPath, "db", "", "Path to the local state database")
	pf.StringVar(&opts.outputFormat, "format", "yaml", "Output format (yaml|json)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newProjectsCmd(opts),
		newStateCmd(opts),
		newSelectCmd(opts),
		newViewCmd(opts),
		newUploadCmd(opts),
		newProjectCmd(opts),
		newIssuesCmd(opts),
		newDashboardCmd(opts),
		newHealthCmd(opts),
		newBandCmd(opts),
		newNavCmd(opts),
		newKVCmd(opts),
	)
	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
