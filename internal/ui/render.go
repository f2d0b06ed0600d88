package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"todoview/internal/config"
	"todoview/internal/model"
	"todoview/internal/view"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	urgencyColors = map[model.Urgency]lipgloss.Color{
		model.UrgencyNotDue:  lipgloss.Color("10"),
		model.UrgencyDueSoon: lipgloss.Color("11"),
		model.UrgencyOverdue: lipgloss.Color("9"),
	}
)

var descriptionRenderer *glamour.TermRenderer

func init() {
	descriptionRenderer, _ = glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(0),
	)
}

// renderDescription renders markdown, falling back to the raw text.
func renderDescription(desc string) string {
	if strings.TrimSpace(desc) == "" {
		return subtleStyle.Render("(no description)")
	}
	if descriptionRenderer == nil {
		return desc
	}
	out, err := descriptionRenderer.Render(desc)
	if err != nil {
		return desc
	}
	return strings.Trim(out, "\n")
}

func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Tasks · %s · sort: %s", m.list.Criterion().Filter, m.list.SortMask())
	if q := m.list.Criterion().Query; q != "" {
		header += fmt.Sprintf(" · search: %q", q)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	lines := m.lines()
	if len(lines) == 0 {
		b.WriteString(subtleStyle.Render("No tasks match."))
		b.WriteString("\n")
	}
	for i, ln := range lines {
		prefix := "  "
		if i == m.cursor && m.mode == modeList {
			prefix = cursorStyle.Render("> ")
		}
		text := m.renderLine(ln)
		if m.isSelected(ln) {
			text = selectedStyle.Render(text)
		}
		b.WriteString(prefix + text + "\n")
	}

	b.WriteString("\n")
	if m.mode == modeSearch || m.mode == modeAddSubtask {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderLine(ln line) string {
	if !ln.isChild() {
		if m.list.RowType(ln.row) == view.PriorityDividerRow {
			return dividerStyle.Render("── " + m.list.DividerLabel(ln.row) + " ──")
		}
		t, _ := m.list.TaskAtRow(ln.row)
		return m.renderTask(t)
	}

	t, _ := m.list.TaskAtRow(ln.row)
	switch m.list.ChildType(ln.row, ln.child) {
	case view.DescriptionRow:
		return indent(renderDescription(t.Description), "      ")
	case view.SubtaskRow:
		st, _ := m.list.Layout().SubtaskAt(ln.row, ln.child)
		name := truncate(st.Name, m.width-12)
		if st.Done {
			return "    " + checkbox(true) + " " + doneStyle.Render(name)
		}
		return "    " + checkbox(false) + " " + name
	default:
		return "    " + subtleStyle.Render("+ add subtask")
	}
}

func (m Model) renderTask(t *model.Task) string {
	urgency := t.Urgency(m.now(), m.list.Config().DefaultReminder)
	bar := " "
	if c, ok := urgencyColors[urgency]; ok {
		bar = lipgloss.NewStyle().Foreground(c).Render("▌")
	}

	marker := "▸"
	if m.expanded[t.ID] {
		marker = "▾"
	}

	var meta []string
	if t.HasDeadline() {
		meta = append(meta, formatDeadline(t.Deadline, m.now()))
	}
	if m.list.Config().ShowListName && t.ListName != "" {
		meta = append(meta, "#"+t.ListName)
	}
	suffix := ""
	if len(meta) > 0 {
		suffix = "  " + subtleStyle.Render(strings.Join(meta, " · "))
	}

	progressView := " " + m.bar.ViewAs(float64(t.Progress)/100) + fmt.Sprintf(" %3d%%", t.Progress)

	nameWidth := m.width - runewidth.StringWidth(suffix) - 30
	name := truncate(t.Name, nameWidth)
	if t.Done {
		name = doneStyle.Render(name)
	}
	return bar + marker + " " + checkbox(t.Done) + " " + name + progressView + suffix
}

func (m Model) isSelected(ln line) bool {
	if m.selection == nil {
		return false
	}
	t, ok := m.list.TaskAtRow(ln.row)
	if !ok || t.ID != m.selection.Task.ID {
		return false
	}
	if !m.selection.IsSubtask() {
		return !ln.isChild()
	}
	if !ln.isChild() || m.list.ChildType(ln.row, ln.child) != view.SubtaskRow {
		return false
	}
	st, ok := m.list.Layout().SubtaskAt(ln.row, ln.child)
	return ok && st.ID == m.selection.Subtask.ID
}

func formatDeadline(deadline, now time.Time) string {
	return deadline.Format("Jan 2") + " (" + humanize.RelTime(deadline, now, "ago", "from now") + ")"
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// truncate shortens s to maxLen cells, appending "…" when cut.
func truncate(s string, maxLen int) string {
	if maxLen < 8 {
		maxLen = 8
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	return runewidth.Truncate(s, maxLen, "…")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s expand • %s toggle • %s undo • %s add subtask • %s search • %s filter • %s/%s sort • %s select • %s delete • %s quit",
		k.Up, k.Down, k.Expand, keyLabel(k.Toggle), k.Undo, k.AddSubtask, k.Search, k.Filter, k.SortPriority, k.SortDue, k.Select, k.Delete, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
