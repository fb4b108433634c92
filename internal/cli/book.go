package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

func newBookCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "book",
		Aliases: []string{"books", "b"},
		Short:   "Manage books and log reading",
	}
	cmd.AddCommand(
		newBookAddCmd(opts),
		newBookListCmd(opts),
		newBookLogCmd(opts),
		newBookHistoryCmd(opts),
		newBookEditCmd(opts),
		newBookRmCmd(opts),
	)
	return cmd
}

func newBookAddCmd(opts *options) *cobra.Command {
	var in tracker.BookInput
	var tags string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book to the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			in.Title = args[0]
			in.Tags = engine.ParseTags(tags)
			b, err := sess.tracker.CreateBook(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", styleGood.Render("Added book"), b.ID, b)
			return nil
		},
	}
	cmd.Flags().IntVarP(&in.TotalPages, "pages", "p", 0, "Total pages")
	cmd.Flags().StringVarP(&in.Author, "author", "a", "", "Author")
	cmd.Flags().StringVarP(&in.Category, "category", "c", "", "Category")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	return cmd
}

func newBookListCmd(opts *options) *cobra.Command {
	var f engine.Filter

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			books, err := sess.tracker.ListBooks(f)
			if err != nil {
				return err
			}
			slot, err := sess.tracker.Focus()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, b := range books {
				rows = append(rows, []string{
					strconv.FormatInt(b.ID, 10),
					b.Title + focusMark(slot.IsInFocus(engine.FocusBook, b.ID)),
					b.Author,
					fmt.Sprintf("%d/%d", b.CurrentPage, b.TotalPages),
					string(b.Status),
					b.Category,
					engine.JoinTags(b.Tags),
				})
			}
			renderTable(cmd.OutOrStdout(), "No books.", []string{"ID", "Title", "Author", "Pages", "Status", "Category", "Tags"}, rows)
			return nil
		},
	}
	addFilterFlags(cmd, &f, "backlog|reading|finished")
	return cmd
}

func newBookLogCmd(opts *options) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "log <id> <from-page> <to-page>",
		Short: "Log a reading session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			from, err := parseCount("from-page", args[1])
			if err != nil {
				return err
			}
			to, err := parseCount("to-page", args[2])
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := sess.tracker.LogBook(id, engine.BookSession{FromPage: from, ToPage: to, Notes: notes})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Read %d page(s) of %s %s\n", res.Entry.Pages(), res.Book.Title, xpGain(res.SessionXP))
			if res.Finished {
				fmt.Fprintf(w, "%s Finish bonus %s\n", styleGold.Render("Book finished!"), xpGain(res.FinishBonus))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Session notes")
	return cmd
}

func newBookHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the reading sessions of a book",
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

			entries, err := sess.tracker.BookHistory(id)
			if err != nil {
				return err
			}
			printBookHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func printBookHistory(w io.Writer, entries []engine.BookProgressEntry) {
	var rows [][]string
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d-%d", e.FromPage, e.ToPage),
			strconv.Itoa(e.Pages()),
			strconv.Itoa(e.XPAwarded),
			e.Notes,
		})
	}
	renderTable(w, "No sessions logged.", []string{"When", "Range", "Pages", "XP", "Notes"}, rows)
}

func newBookEditCmd(opts *options) *cobra.Command {
	var title, author, category, tags string
	var pages int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit book details",
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

			cur, err := sess.tracker.GetBook(id)
			if err != nil {
				return err
			}
			in := tracker.BookInput{Title: cur.Title, Author: cur.Author, TotalPages: cur.TotalPages, Category: cur.Category, Tags: cur.Tags}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = title
			}
			if flags.Changed("author") {
				in.Author = author
			}
			if flags.Changed("pages") {
				in.TotalPages = pages
			}
			if flags.Changed("category") {
				in.Category = category
			}
			if flags.Changed("tags") {
				in.Tags = engine.ParseTags(tags)
			}
			b, err := sess.tracker.UpdateBook(id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", styleGood.Render("Updated book"), b.ID, b)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&author, "author", "a", "", "New author")
	cmd.Flags().IntVarP(&pages, "pages", "p", 0, "New total pages")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags")
	return cmd
}

func newBookRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a book and its reading history",
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

			if err := sess.tracker.DeleteBook(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted book #%d\n", id)
			return nil
		},
	}
}

func addFilterFlags(cmd *cobra.Command, f *engine.Filter, statuses string) {
	cmd.Flags().StringVar(&f.Status, "status", "", "Filter by status ("+statuses+")")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "Filter by category")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Filter by title substring")
}
