package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"todoview/internal/model"
	"todoview/internal/view"
)

type rowOutput struct {
	Kind  string      `json:"kind" yaml:"kind"`
	Label string      `json:"label,omitempty" yaml:"label,omitempty"`
	Task  *taskOutput `json:"task,omitempty" yaml:"task,omitempty"`
}

type taskOutput struct {
	ID          int64           `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Done        bool            `json:"done" yaml:"done"`
	Priority    string          `json:"priority" yaml:"priority"`
	Deadline    string          `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Urgency     string          `json:"urgency" yaml:"urgency"`
	Progress    int             `json:"progress" yaml:"progress"`
	List        string          `json:"list,omitempty" yaml:"list,omitempty"`
	Subtasks    []subtaskOutput `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

type subtaskOutput struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Done bool   `json:"done" yaml:"done"`
}

func newListCmd(app *App) *cobra.Command {
	var filter, sort, query, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list as grouped rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := app.loadList(st)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("filter") {
				f, err := view.ParseFilter(filter)
				if err != nil {
					return err
				}
				list.SetFilter(f)
			}
			if cmd.Flags().Changed("sort") {
				m, err := view.ParseSortMask(sort)
				if err != nil {
					return err
				}
				list.SetSortMask(m)
			}
			if query != "" {
				list.SetQuery(query)
			}
			return writeRows(cmd.OutOrStdout(), list, format, time.Now())
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "all|open|completed (default from config)")
	cmd.Flags().StringVar(&sort, "sort", "", "Comma list of priority,deadline; empty for list position (default from config)")
	cmd.Flags().StringVar(&query, "query", "", "Only tasks whose name, description or subtasks contain this text")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json|yaml)")
	return cmd
}

func collectRows(list *view.List, now time.Time) []rowOutput {
	lead := list.Config().DefaultReminder
	rows := make([]rowOutput, 0, list.TotalGroupRows())
	for row := 0; row < list.TotalGroupRows(); row++ {
		if list.RowType(row) == view.PriorityDividerRow {
			rows = append(rows, rowOutput{Kind: "divider", Label: list.DividerLabel(row)})
			continue
		}
		t, _ := list.TaskAtRow(row)
		rows = append(rows, rowOutput{Kind: "task", Task: newTaskOutput(t, now, lead)})
	}
	return rows
}

func newTaskOutput(t *model.Task, now time.Time, lead time.Duration) *taskOutput {
	out := &taskOutput{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Done:        t.Done,
		Priority:    t.Priority.String(),
		Urgency:     t.Urgency(now, lead).String(),
		Progress:    t.Progress,
		List:        t.ListName,
	}
	if t.HasDeadline() {
		out.Deadline = t.Deadline.Local().Format(dateLayout)
	}
	for _, st := range t.Subtasks {
		out.Subtasks = append(out.Subtasks, subtaskOutput{ID: st.ID, Name: st.Name, Done: st.Done})
	}
	return out
}

func writeRows(w io.Writer, list *view.List, format string, now time.Time) error {
	rows := collectRows(list, now)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeText(w, rows, list.Config().ShowListName)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, rows []rowOutput, showList bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	for _, r := range rows {
		if r.Task == nil {
			if _, err := fmt.Fprintf(w, "== %s ==\n", r.Label); err != nil {
				return err
			}
			continue
		}
		t := r.Task
		check := "[ ]"
		if t.Done {
			check = "[x]"
		}
		meta := []string{t.Priority}
		if t.Deadline != "" {
			meta = append(meta, "due "+t.Deadline)
		}
		if len(t.Subtasks) > 0 {
			meta = append(meta, fmt.Sprintf("%d%%", t.Progress))
		}
		if showList && t.List != "" {
			meta = append(meta, "#"+t.List)
		}
		if _, err := fmt.Fprintf(w, "%s %d %s (%s)\n", check, t.ID, t.Name, strings.Join(meta, ", ")); err != nil {
			return err
		}
		for _, st := range t.Subtasks {
			sc := "[ ]"
			if st.Done {
				sc = "[x]"
			}
			if _, err := fmt.Fprintf(w, "    %s %d %s\n", sc, st.ID, st.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
