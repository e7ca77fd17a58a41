package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/domain/project"
)

func newUploadCmd(o *options) *cobra.Command {
	var quiet bool
	c := &cobra.Command{
		Use:   "upload <file.ifc>",
		Short: "Upload an IFC model file",
		Long: `Upload a .ifc file (500 MB max by default) and reload the projects.

If the upload fails and upload.mask_failures is on, a demo project is
synthesized from the file and the result reports synthesized: true.

The projects are reloaded from the API on every run. Only the selected
project and the active view are saved in the local database (--db) for the
next run; the upload itself and any synthesized project are not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, o)
			if err != nil {
				return err
			}
			defer a.Close()

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			name := filepath.Base(path)
			if err := project.ValidateFile(name, info.Size(), a.cfg.Upload.MaxFileSize); err != nil {
				return err
			}

			ctx := cmd.Context()
			a.start(ctx)
			a.store.SetView(dashboard.ViewUpload)

			var onProgress func(int)
			if !quiet {
				errOut := cmd.ErrOrStderr()
				onProgress = func(pct int) {
					fmt.Fprintf(errOut, "\rUploading %s... %3d%%", name, pct)
					if pct == 100 {
						fmt.Fprintln(errOut)
					}
				}
			}

			res, err := a.store.UploadFile(ctx, dashboard.File{Name: name, Size: info.Size(), Body: f}, onProgress)
			if err != nil {
				return err
			}
			a.persist(ctx)

			out := map[string]any{
				"message":     res.Message,
				"project_id":  res.ProjectID,
				"synthesized": res.Synthesized,
				"file_size":   project.FormatFileSize(info.Size()),
			}
			if res.Project != nil {
				out["project"] = newProjectRow(*res.Project)
			}
			if res.Cause != nil {
				out["cause"] = res.Cause.Error()
			}
			return render(cmd.OutOrStdout(), o.outputFormat, out)
		},
	}
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	return c
}
