package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

func newCourseCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "course",
		Aliases: []string{"courses", "c"},
		Short:   "Manage courses and log study sessions",
	}
	cmd.AddCommand(
		newCourseAddCmd(opts),
		newCourseListCmd(opts),
		newCourseLogCmd(opts),
		newCourseHistoryCmd(opts),
		newCourseEditCmd(opts),
		newCourseRmCmd(opts),
	)
	return cmd
}

func newCourseAddCmd(opts *options) *cobra.Command {
	var in tracker.CourseInput
	var tags string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a course to the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			in.Title = args[0]
			in.Tags = engine.ParseTags(tags)
			c, err := sess.tracker.CreateCourse(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", styleGood.Render("Added course"), c.ID, c)
			return nil
		},
	}
	cmd.Flags().IntVarP(&in.TotalUnits, "units", "u", 0, "Total units")
	cmd.Flags().StringVar(&in.Platform, "platform", "", "Platform")
	cmd.Flags().StringVar(&in.URL, "url", "", "Course URL")
	cmd.Flags().StringVarP(&in.Category, "category", "c", "", "Category")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	return cmd
}

func newCourseListCmd(opts *options) *cobra.Command {
	var f engine.Filter

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List courses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			courses, err := sess.tracker.ListCourses(f)
			if err != nil {
				return err
			}
			slot, err := sess.tracker.Focus()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, c := range courses {
				rows = append(rows, []string{
					strconv.FormatInt(c.ID, 10),
					c.Title + focusMark(slot.IsInFocus(engine.FocusCourse, c.ID)),
					c.Platform,
					fmt.Sprintf("%d/%d", c.CompletedUnits, c.TotalUnits),
					string(c.Status),
					c.Category,
					engine.JoinTags(c.Tags),
				})
			}
			renderTable(cmd.OutOrStdout(), "No courses.", []string{"ID", "Title", "Platform", "Units", "Status", "Category", "Tags"}, rows)
			return nil
		},
	}
	addFilterFlags(cmd, &f, "backlog|learning|finished")
	return cmd
}

func newCourseLogCmd(opts *options) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "log <id> <units>",
		Short: "Log completed course units",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			units, err := parseCount("units", args[1])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := sess.tracker.LogCourse(id, engine.CourseSession{Units: units, Notes: notes})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Completed %d unit(s) of %s %s\n", units, res.Course.Title, xpGain(res.SessionXP))
			if res.Finished {
				fmt.Fprintf(w, "%s Finish bonus %s\n", styleGold.Render("Course finished!"), xpGain(res.FinishBonus))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Session notes")
	return cmd
}

func newCourseHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the study sessions of a course",
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

			entries, err := sess.tracker.CourseHistory(id)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					strconv.Itoa(e.Units),
					strconv.Itoa(e.XPAwarded),
					e.Notes,
				})
			}
			renderTable(cmd.OutOrStdout(), "No sessions logged.", []string{"When", "Units", "XP", "Notes"}, rows)
			return nil
		},
	}
}

func newCourseEditCmd(opts *options) *cobra.Command {
	var title, platform, url, category, tags string
	var units int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit course details",
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

			cur, err := sess.tracker.GetCourse(id)
			if err != nil {
				return err
			}
			in := tracker.CourseInput{
				Title: cur.Title, Platform: cur.Platform, URL: cur.URL,
				TotalUnits: cur.TotalUnits, Category: cur.Category, Tags: cur.Tags,
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = title
			}
			if flags.Changed("platform") {
				in.Platform = platform
			}
			if flags.Changed("url") {
				in.URL = url
			}
			if flags.Changed("units") {
				in.TotalUnits = units
			}
			if flags.Changed("category") {
				in.Category = category
			}
			if flags.Changed("tags") {
				in.Tags = engine.ParseTags(tags)
			}
			c, err := sess.tracker.UpdateCourse(id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", styleGood.Render("Updated course"), c.ID, c)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&platform, "platform", "", "New platform")
	cmd.Flags().StringVar(&url, "url", "", "New URL")
	cmd.Flags().IntVarP(&units, "units", "u", 0, "New total units")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags")
	return cmd
}

func newCourseRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a course and its study history",
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

			if err := sess.tracker.DeleteCourse(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted course #%d\n", id)
			return nil
		},
	}
}
