package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"todoview/internal/notify"
)

func newRemindCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send desktop notifications for tasks that are due soon or overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			tasks, err := st.FetchTasks()
			if err != nil {
				return fmt.Errorf("fetch tasks: %w", err)
			}
			lead, err := app.cfg.ReminderLead()
			if err != nil {
				return err
			}
			r := notify.New(lead)
			now := time.Now()
			out := cmd.OutOrStdout()

			if dryRun {
				for _, t := range r.Due(tasks, now) {
					fmt.Fprintf(out, "%d %s (%s)\n", t.ID, t.Name, t.Urgency(now, lead))
				}
				return nil
			}
			n, err := r.Send(tasks, now)
			fmt.Fprintf(out, "Sent %d reminder(s)\n", n)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the tasks that would be notified without sending")
	return cmd
}
