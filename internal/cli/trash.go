package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTrashCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Move tasks to and from the trash",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <task-id>",
		Short: "Move a task to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
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
			if err := list.TrashTask(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %d to trash\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List trashed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			tasks, err := st.FetchTrashed()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "Trash is empty.")
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(out, "%d %s (%d subtasks)\n", t.ID, t.Name, len(t.Subtasks))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <task-id>",
		Short: "Move a task out of the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SetTrashed(id, false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored task %d\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "empty",
		Short: "Permanently delete every trashed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			tasks, err := st.FetchTrashed()
			if err != nil {
				return err
			}
			for _, t := range tasks {
				if err := st.DeleteTask(t.ID); err != nil {
					return fmt.Errorf("delete task %d: %w", t.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", len(tasks))
			return nil
		},
	})
	return cmd
}

func newListsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show task lists with their open task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			lists, err := st.Lists()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, l := range lists {
				tasks, err := st.FetchTasksInList(l.ID)
				if err != nil {
					return fmt.Errorf("list %q: %w", l.Name, err)
				}
				open := 0
				for _, t := range tasks {
					if !t.Done {
						open++
					}
				}
				fmt.Fprintf(out, "%s\t%d open / %d\n", l.Name, open, len(tasks))
			}
			return nil
		},
	}
}
