package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

func newQuestCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quest",
		Aliases: []string{"quests", "q"},
		Short:   "Manage quests",
	}
	cmd.AddCommand(
		newQuestAddCmd(opts),
		newQuestListCmd(opts),
		newQuestToggleCmd(opts),
		newQuestEditCmd(opts),
		newQuestRmCmd(opts),
	)
	return cmd
}

func newQuestAddCmd(opts *options) *cobra.Command {
	var in tracker.QuestInput
	var typ string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			in.Title = args[0]
			in.Type = engine.QuestType(typ)
			q, err := sess.tracker.CreateQuest(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s (%d XP, %s)\n", styleGood.Render("Added quest"), q.ID, q.Title, q.XP, q.Type)
			return nil
		},
	}
	cmd.Flags().IntVarP(&in.XP, "xp", "x", 50, "XP reward when done")
	cmd.Flags().StringVarP(&in.Category, "category", "c", "", "Category")
	cmd.Flags().StringVarP(&typ, "type", "t", string(engine.QuestTopic), "Type (topic|project|bonus)")
	return cmd
}

func newQuestListCmd(opts *options) *cobra.Command {
	var f engine.Filter

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List quests",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			quests, err := sess.tracker.ListQuests(f)
			if err != nil {
				return err
			}
			slot, err := sess.tracker.Focus()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, q := range quests {
				done := " "
				if q.Done {
					done = "x"
				}
				rows = append(rows, []string{
					strconv.FormatInt(q.ID, 10),
					"[" + done + "]",
					q.Title + focusMark(slot.IsInFocus(engine.FocusQuest, q.ID)),
					q.Category,
					string(q.Type),
					strconv.Itoa(q.XP),
				})
			}
			renderTable(cmd.OutOrStdout(), "No quests.", []string{"ID", "", "Title", "Category", "Type", "XP"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "Filter by status (open|done)")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "Filter by category")
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Filter by title substring")
	return cmd
}

func newQuestToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Toggle a quest between open and done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			q, delta, err := sess.tracker.ToggleQuest(id)
			if err != nil {
				return err
			}
			state := "reopened"
			if q.Done {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quest #%d %s %s\n", q.ID, state, xpGain(delta))
			return nil
		},
	}
}

func newQuestEditCmd(opts *options) *cobra.Command {
	var title, category, typ string
	var xp int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a quest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			cur, err := sess.tracker.GetQuest(id)
			if err != nil {
				return err
			}
			in := tracker.QuestInput{Title: cur.Title, XP: cur.XP, Category: cur.Category, Type: cur.Type}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = title
			}
			if flags.Changed("xp") {
				in.XP = xp
			}
			if flags.Changed("category") {
				in.Category = category
			}
			if flags.Changed("type") {
				in.Type = engine.QuestType(typ)
			}
			q, err := sess.tracker.UpdateQuest(id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", styleGood.Render("Updated quest"), q.ID, q.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().IntVarP(&xp, "xp", "x", 0, "New XP reward")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "New type (topic|project|bonus)")
	return cmd
}

func newQuestRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a quest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := sess.tracker.DeleteQuest(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted quest #%d\n", id)
			return nil
		},
	}
}

func focusMark(on bool) string {
	if on {
		return " " + styleGold.Render("*")
	}
	return ""
}
