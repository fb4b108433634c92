// Package cli is the levelup command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/config"
)

const Version = "0.1.0"

// options are the persistent flags shared by every command.
type options struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "levelup",
		Short:         "Gamified learning tracker for quests, books and courses",
		Long:          "levelup tracks reading, courses and learning quests, awards XP for progress and keeps a daily check-in streak.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides the config file and $"+config.EnvDB+")")

	root.AddCommand(
		newStatusCmd(opts),
		newCheckInCmd(opts),
		newQuestCmd(opts),
		newBookCmd(opts),
		newCourseCmd(opts),
		newFocusCmd(opts),
		newImportCmd(opts),
		newImportsCmd(opts),
		newExportCmd(opts),
		newTUICmd(opts),
	)
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleBad.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
