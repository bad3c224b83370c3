package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/metalagman/bughunt/internal/session"
	"github.com/metalagman/bughunt/internal/task"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the task list",
	}
	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskToggleCmd())
	cmd.AddCommand(taskDeleteCmd())
	cmd.AddCommand(taskClearCompletedCmd())
	cmd.AddCommand(taskStatsCmd())
	return cmd
}

func taskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to the end of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			created, added, err := sess.AddTask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !added {
				return fmt.Errorf("task text cannot be empty")
			}
			log.Info().Str("task_id", created.ID).Msg("task added")
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
}

func taskListCmd() *cobra.Command {
	var filter, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := task.ParseMode(filter)
			if err != nil {
				return err
			}
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			view, err := sess.Snapshot(cmd.Context(), mode, search)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(task.ModeAll), "filter: all, active, completed")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text search")
	return cmd
}

func printTasks(w io.Writer, view session.View) {
	if len(view.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks to show")
	}
	for _, t := range view.Tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "%s %s  %s  (%s)\n", box, t.ID, t.Text, t.Created().Format(time.DateTime))
	}
	fmt.Fprintf(w, "%d active %s\n", view.Active, plural(view.Active, "task", "tasks"))
}

func taskToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()
			return sess.ToggleTask(cmd.Context(), args[0])
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()
			return sess.DeleteTask(cmd.Context(), args[0])
		},
	}
}

func taskClearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()
			return sess.ClearCompleted(cmd.Context())
		},
	}
}

func taskStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and progress",
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
			fmt.Fprintf(w, "Total:     %d\n", view.Total)
			fmt.Fprintf(w, "Active:    %d\n", view.Active)
			fmt.Fprintf(w, "Completed: %d\n", view.Completed)
			fmt.Fprintf(w, "Progress:  %.0f%%\n", view.Progress)
			return nil
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
