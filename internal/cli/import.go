package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/bulk"
	"github.com/sadopc/levelup/internal/export"
	"github.com/sadopc/levelup/internal/tracker"
)

func newImportCmd(opts *options) *cobra.Command {
	var replace, yes, dryRun bool

	cmd := &cobra.Command{
		Use:   "import <quests|books|courses> <file.csv>",
		Short: "Bulk import records from a CSV file",
		Long: "Import validates every row first and applies nothing if any row has an error.\n" +
			"With --replace all existing records of the type are deleted first; this needs --yes.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := bulk.ParseTarget(args[0])
			if err != nil {
				return err
			}
			table, err := export.ReadTable(args[1])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()
			if dryRun {
				res, err := sess.tracker.PreviewImport(target, table)
				if err != nil {
					return err
				}
				printImportResult(w, res)
				if res.Valid {
					fmt.Fprintln(w, styleGood.Render("Valid. Nothing was written (dry run)."))
				}
				return nil
			}

			mode := tracker.ImportAppend
			if replace {
				mode = tracker.ImportReplace
			}
			report, err := sess.tracker.Import(target, table, mode, yes)
			if errors.Is(err, tracker.ErrConfirmationRequired) {
				return fmt.Errorf("--replace deletes every existing %s; re-run with --yes to confirm", target)
			}
			printImportResult(w, report.Result)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s %d %s (%s, batch %s)\n", styleGood.Render("Imported"), report.Inserted, target, mode, report.BatchID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Delete existing records of this type before importing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm a destructive --replace import")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate only")
	return cmd
}

func printImportResult(w io.Writer, res bulk.Result) {
	for _, e := range res.Errors {
		fmt.Fprintln(w, styleBad.Render("error: ")+e)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintln(w, styleWarn.Render("warning: ")+warn)
	}
}

func newImportsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "imports",
		Short: "List applied import batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			batches, err := sess.tracker.Imports()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, b := range batches {
				rows = append(rows, []string{
					b.ImportedAt.Local().Format("2006-01-02 15:04"),
					b.Target,
					b.Mode,
					strconv.Itoa(b.RowCount),
					strconv.Itoa(b.Warnings),
					b.ID,
				})
			}
			renderTable(cmd.OutOrStdout(), "No imports yet.", []string{"When", "Target", "Mode", "Rows", "Warnings", "Batch"}, rows)
			return nil
		},
	}
}
