package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/engine"
)

func newFocusCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Show or change the focused quest, book and course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showFocus(cmd, opts)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the focused items",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showFocus(cmd, opts)
			},
		},
		newFocusSetCmd(opts),
		newFocusRmCmd(opts),
	)
	return cmd
}

func showFocus(cmd *cobra.Command, opts *options) error {
	sess, cleanup, err := openSession(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	fs, err := sess.tracker.FocusState()
	if err != nil {
		return err
	}
	printFocus(cmd.OutOrStdout(), fs)
	return nil
}

func newFocusSetCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "set <quest|book|course> <id>",
		Short: "Focus an item, replacing the current one of that type",
		Long: "Each type has one focus slot. If the slot already holds a different item\n" +
			"the command warns and changes nothing unless --yes is given.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := engine.ParseFocusType(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			slot, err := sess.tracker.Focus()
			if err != nil {
				return err
			}
			if cur := slot.Get(typ); cur != nil && *cur != id && !yes {
				return fmt.Errorf("%s #%d is in focus; re-run with --yes to replace it with #%d", typ, *cur, id)
			}

			change, err := sess.tracker.SetFocus(typ, id)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if change.Replaced() {
				fmt.Fprintln(w, styleWarn.Render(fmt.Sprintf("Replaced focused %s #%d", typ, *change.Previous)))
			}
			fmt.Fprintf(w, "Focused %s #%d\n", typ, id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an item already in focus")
	return cmd
}

func newFocusRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <quest|book|course>",
		Aliases: []string{"clear"},
		Short:   "Clear the focus slot of a type",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := engine.ParseFocusType(args[0])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			change, err := sess.tracker.RemoveFocus(typ)
			if err != nil {
				return err
			}
			if change.Previous == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s in focus\n", typ)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s focus\n", typ)
			return nil
		},
	}
}
