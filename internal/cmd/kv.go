package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganot/project-sentry/internal/repository"
)

func newKVCmd(o *options) *cobra.Command {
	kvCmd := &cobra.Command{
		Use:   "kv",
		Short: "Read and write the local JSON store",
	}

	kvCmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value stored under key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd, o)
				if err != nil {
					return err
				}
				defer a.Close()

				raw, err := a.kv.Lookup(cmd.Context(), args[0])
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("key %q: %w", args[0], err)
				}
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), o.outputFormat, raw)
			},
		},
		&cobra.Command{
			Use:   "set <key> <json>",
			Short: "Store a JSON value under key",
			Long:  `Store a JSON value. A value that is not valid JSON is stored as a string.`,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd, o)
				if err != nil {
					return err
				}
				defer a.Close()

				var value any = args[1]
				if json.Valid([]byte(args[1])) {
					value = json.RawMessage(args[1])
				}
				if !a.kv.Set(cmd.Context(), args[0], value) {
					return fmt.Errorf("failed to store %q", args[0])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <key>",
			Aliases: []string{"remove"},
			Short:   "Remove a key",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd, o)
				if err != nil {
					return err
				}
				defer a.Close()

				if !a.kv.Remove(cmd.Context(), args[0]) {
					return fmt.Errorf("failed to remove %q", args[0])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List stored keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := openApp(cmd, o)
				if err != nil {
					return err
				}
				defer a.Close()
				return render(cmd.OutOrStdout(), o.outputFormat, a.kv.Keys(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := openApp(cmd, o)
				if err != nil {
					return err
				}
				defer a.Close()

				if !a.kv.Clear(cmd.Context()) {
					return fmt.Errorf("failed to clear store")
				}
				return nil
			},
		},
	)
	return kvCmd
}
