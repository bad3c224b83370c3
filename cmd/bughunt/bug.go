package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/metalagman/bughunt/internal/defect"
	"github.com/metalagman/bughunt/internal/session"
	"github.com/metalagman/bughunt/internal/task"
	"github.com/spf13/cobra"
)

func bugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bug",
		Short: "Browse and report defects",
	}
	cmd.AddCommand(bugCatalogCmd())
	cmd.AddCommand(bugReportCmd())
	cmd.AddCommand(bugStatusCmd())
	return cmd
}

func bugCatalogCmd() *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the defect catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			items, _, err := sess.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(100))
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			out, err := r.Render(catalogMarkdown(items))
			if err != nil {
				return fmt.Errorf("render catalog: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style: dark, light, notty, ascii")
	return cmd
}

func catalogMarkdown(items []session.CatalogItem) string {
	var b strings.Builder
	b.WriteString("# Report a Bug\n\n")
	for _, item := range items {
		mark := " "
		if item.Found {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] **%s** `%s`  \n  %s\n", mark, item.Title, item.ID, item.Description)
		if !item.Found && item.Hint != "" {
			fmt.Fprintf(&b, "  *Hint: %s*\n", item.Hint)
		}
	}
	return b.String()
}

func bugReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <id>",
		Short: "Report a found defect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := defect.ParseID(args[0])
			if err != nil {
				return err
			}
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := sess.Report(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case report.Outcome == defect.OutcomeAlreadyReported:
				fmt.Fprintln(w, "You already found this bug!")
			case report.Completed:
				fmt.Fprintf(w, "Congratulations! You found all %d bugs!\n", defect.CatalogSize)
			default:
				fmt.Fprintf(w, "Bug found! %s\n", report.Entry.Title)
			}
			return nil
		},
	}
}

func bugStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many defects have been found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			view, err := sess.Snapshot(cmd.Context(), task.ModeAll, "")
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Bugs found: %d / %d\n", view.FoundCount, view.CatalogSize)
			for _, e := range view.Found {
				fmt.Fprintf(w, "  ✓ %s\n", e.Title)
			}
			if view.Complete {
				fmt.Fprintln(w, "Challenge complete!")
			}
			return nil
		},
	}
}
