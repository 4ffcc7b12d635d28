package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pablasso/todo/internal/display"
	"github.com/pablasso/todo/internal/task"
	"github.com/spf13/cobra"
)

// parseID converts a command argument to a task id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long:  `Add a pending task. Words after the command are joined into the title.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}

			return opts.withStore(func(store task.Store) error {
				t, err := store.Add(title, desc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[OK] Task #%d added: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var pending, completed bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in creation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := task.FilterAll
			switch {
			case pending:
				filter = task.FilterPending
			case completed:
				filter = task.FilterCompleted
			}

			return opts.withStore(func(store task.Store) error {
				tasks, err := store.List(filter)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					if filter == task.FilterAll {
						fmt.Fprintln(out, "No tasks yet.")
					} else {
						fmt.Fprintf(out, "No %s tasks.\n", filter)
					}
				}
				for _, t := range tasks {
					fmt.Fprintln(out, display.FormatTaskLine(t))
				}

				pendingCount, err := store.CountPending()
				if err != nil {
					return err
				}
				completedCount, err := store.CountCompleted()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n", display.FormatSummary(pendingCount, completedCount))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only pending tasks")
	cmd.Flags().BoolVar(&completed, "completed", false, "Only completed tasks")
	cmd.MarkFlagsMutuallyExclusive("pending", "completed")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return opts.withStore(func(store task.Store) error {
				t, err := store.Get(id)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), display.FormatTaskDetail(t))
				return nil
			})
		},
	}
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a task's title or description",
		Long:  `Change only the supplied fields. Passing an empty --description clears it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var titlePtr, descPtr *string
			if cmd.Flags().Changed("title") {
				titlePtr = &title
			}
			if cmd.Flags().Changed("description") {
				descPtr = &description
			}
			if titlePtr == nil && descPtr == nil {
				return fmt.Errorf("nothing to update: pass --title and/or --description")
			}

			return opts.withStore(func(store task.Store) error {
				t, err := store.Update(id, titlePtr, descPtr)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[OK] Task #%d updated: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return opts.withStore(func(store task.Store) error {
				if err := store.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[OK] Task #%d deleted\n", id)
				return nil
			})
		},
	}
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return opts.withStore(func(store task.Store) error {
				t, err := store.MarkComplete(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[OK] Task #%d marked complete: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}
}

func newUndoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <id>",
		Short: "Mark a task pending again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return opts.withStore(func(store task.Store) error {
				t, err := store.MarkIncomplete(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[OK] Task #%d marked pending: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store task.Store) error {
				total, err := store.CountAll()
				if err != nil {
					return err
				}
				pending, err := store.CountPending()
				if err != nil {
					return err
				}
				completed, err := store.CountCompleted()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Task Statistics:")
				fmt.Fprintf(out, "  Total tasks: %d\n", total)
				fmt.Fprintf(out, "  Pending tasks: %d\n", pending)
				fmt.Fprintf(out, "  Completed tasks: %d\n", completed)
				return nil
			})
		},
	}
}
