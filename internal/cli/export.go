package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/export"
)

func newExportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export quests, books and courses",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "csv [dir]",
			Short: "Write quests.csv, books.csv and courses.csv",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, cleanup, err := openSession(opts)
				if err != nil {
					return err
				}
				defer cleanup()

				dir := sess.cfg.ExportDir
				if len(args) == 1 {
					dir = args[0]
				}
				snap, err := sess.tracker.Snapshot()
				if err != nil {
					return err
				}
				paths, err := export.ToCSVDir(snap, dir)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), "Exported to "+p)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "json [file]",
			Short: "Write everything to one JSON document",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, cleanup, err := openSession(opts)
				if err != nil {
					return err
				}
				defer cleanup()

				path := filepath.Join(sess.cfg.ExportDir, "levelup.json")
				if len(args) == 1 {
					path = args[0]
				}
				snap, err := sess.tracker.Snapshot()
				if err != nil {
					return err
				}
				if err := export.ToJSON(snap, path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exported to "+path)
				return nil
			},
		},
	)
	return cmd
}
