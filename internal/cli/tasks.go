package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"todoview/internal/model"
	"todoview/internal/storage"
)

const dateLayout = "2006-01-02"

func newAddCmd(app *App) *cobra.Command {
	var priority, deadline, description, listName string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			due, err := parseDate(deadline)
			if err != nil {
				return fmt.Errorf("--deadline: %w", err)
			}

			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			nt := storage.NewTask{
				Name:        strings.Join(args, " "),
				Description: description,
				Priority:    p,
				Deadline:    due,
			}
			if listName != "" {
				if nt.ListID, err = st.AddList(listName); err != nil {
					return fmt.Errorf("add list: %w", err)
				}
			}
			id, err := st.AddTask(nt)
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "medium", "high|medium|low")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&description, "description", "", "Markdown description")
	cmd.Flags().StringVar(&listName, "list", "", "List name; created when missing")
	return cmd
}

func newSubtaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <task-id> <name>",
		Short: "Append a subtask to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := app.loadList(st)
			if err != nil {
				return err
			}
			sub, err := list.AppendSubtask(taskID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added subtask %d to task %d\n", sub.ID, taskID)
			return nil
		},
	})
	return cmd
}

func newDoneCmd(app *App, use string, done bool) *cobra.Command {
	short := "Mark a task and its subtasks done"
	if !done {
		short = "Mark a task and its subtasks not done"
	}
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := app.loadList(st)
			if err != nil {
				return err
			}
			if err := list.SetTaskDone(taskID, done); err != nil {
				return err
			}
			state := "done"
			if !done {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is %s\n", taskID, state)
			return nil
		},
	}
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return id, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, v, time.Local)
}
