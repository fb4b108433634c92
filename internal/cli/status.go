package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, badges, streak and focus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := sess.tracker.Stats()
			if err != nil {
				return err
			}
			fs, err := sess.tracker.FocusState()
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), st)
			printFocus(cmd.OutOrStdout(), fs)
			return nil
		},
	}
}

func printStats(w io.Writer, st tracker.Stats) {
	lvl := st.Level
	heading(w, fmt.Sprintf("Level %d", lvl.Level))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())
	fmt.Fprintf(w, "  %s %s\n", bar.ViewAs(float64(lvl.Pct)/100), styleMuted.Render(fmt.Sprintf("%d/%d XP, %d to next", lvl.Progress, lvl.NextLevelXP, lvl.ToNext())))
	labelValue(w, "Total XP", st.TotalXP)

	streak := fmt.Sprintf("%d day(s)", st.Streak)
	if st.CheckedInToday {
		streak += " " + styleGood.Render("checked in today")
	} else {
		streak += " " + styleWarn.Render("not checked in today")
	}
	labelValue(w, "Streak", streak)

	var names []string
	for _, b := range st.Badges {
		names = append(names, badgeStyle(b.Color).Render(b.Name))
	}
	badges := styleMuted.Render("none yet")
	if len(names) > 0 {
		badges = strings.Join(names, ", ")
	}
	if st.NextBadge != nil {
		badges += styleMuted.Render(fmt.Sprintf("  (next: %s at %d XP, %d to go)",
			st.NextBadge.Name, st.NextBadge.Threshold, st.NextBadge.Threshold-st.TotalXP))
	}
	labelValue(w, "Badges", badges)

	labelValue(w, "Quests", fmt.Sprintf("%d/%d done", st.QuestsDone, st.QuestsTotal))
	labelValue(w, "Books", fmt.Sprintf("%d reading, %d finished, %d backlog",
		st.Books[engine.BookReading], st.Books[engine.BookFinished], st.Books[engine.BookBacklog]))
	labelValue(w, "Courses", fmt.Sprintf("%d learning, %d finished, %d backlog",
		st.Courses[engine.CourseLearning], st.Courses[engine.CourseFinished], st.Courses[engine.CourseBacklog]))
	labelValue(w, "Today", fmt.Sprintf("%d/%d pages, %d/%d units", st.PagesToday, st.PageGoal, st.UnitsToday, st.UnitGoal))
	fmt.Fprintln(w)
}

func printFocus(w io.Writer, fs engine.FocusState) {
	heading(w, "Focus")
	none := styleMuted.Render("none")
	quest, book, course := none, none, none
	if fs.Quest != nil {
		quest = fmt.Sprintf("#%d %s (%d XP)", fs.Quest.ID, fs.Quest.Title, fs.Quest.XP)
	}
	if fs.Book != nil {
		book = fmt.Sprintf("#%d %s", fs.Book.ID, fs.Book)
	}
	if fs.Course != nil {
		course = fmt.Sprintf("#%d %s", fs.Course.ID, fs.Course)
	}
	labelValue(w, "Quest", quest)
	labelValue(w, "Book", book)
	labelValue(w, "Course", course)
}

func newCheckInCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "checkin",
		Aliases: []string{"check-in"},
		Short:   "Record today's check-in",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := sess.tracker.CheckIn()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.Changed {
				fmt.Fprintf(w, "%s Streak: %d day(s)\n", styleGood.Render("Checked in!"), res.State.Streak)
			} else {
				fmt.Fprintf(w, "%s Streak: %d day(s)\n", styleMuted.Render("Already checked in today."), res.State.Streak)
			}
			return nil
		},
	}
}
