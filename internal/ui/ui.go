package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoview/internal/config"
	"todoview/internal/model"
	"todoview/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAddSubtask
	modeConfirmDelete
)

// line is one visible screen line: a group row, or a child of an expanded task row.
type line struct {
	row   int
	child int
}

func (l line) isChild() bool { return l.child >= 0 }

type toggle struct {
	taskID   int64
	prevDone bool
}

type Model struct {
	list       *view.List
	cfg        config.Config
	cursor     int
	expanded   map[int64]bool
	mode       mode
	input      textinput.Model
	bar        progress.Model
	status     string
	pending    string
	selection  *view.Selection
	lastToggle *toggle
	addTarget  int64
	prevQuery  string
	width      int
	watcher    *Watcher
	now        func() time.Time
}

func New(list *view.List, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		list:     list,
		cfg:      cfg,
		expanded: map[int64]bool{},
		input:    ti,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(12),
			progress.WithoutPercentage(),
		),
		status: fmt.Sprintf("Press %q to search, %q to expand, %q to quit.", cfg.Keys.Search, cfg.Keys.Expand, cfg.Keys.Quit),
		width:  80,
		now:    time.Now,
	}
}

// Run starts the terminal UI and blocks until the user quits. Log output goes to
// cfg.LogPath while the program owns the terminal.
func Run(list *view.List, cfg config.Config, dbPath string) error {
	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "todoview")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}

	m := New(list, cfg)
	w, err := NewWatcher(dbPath)
	if err != nil {
		log.Printf("warning: database watch disabled: %v", err)
	} else {
		defer w.Close()
		m.watcher = w
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.WatchCmd()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearchMode(msg)
		case modeAddSubtask:
			return m.updateAddMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	case dbChangedMsg:
		if err := m.list.Reload(); err != nil {
			log.Printf("warning: reload after change: %v", err)
			m.status = fmt.Sprintf("reload failed: %v", err)
		}
		m.cursor = clampCursor(m.cursor, len(m.lines()))
		if m.watcher != nil {
			return m, m.watcher.WatchCmd()
		}
	}
	return m, nil
}

func (m Model) bindings() []string {
	k := m.cfg.Keys
	return []string{k.Quit, k.Up, k.Down, k.Toggle, k.Expand, k.AddSubtask, k.Search, k.Filter,
		k.SortDue, k.SortPriority, k.Select, k.Delete, k.Undo}
}

// resolveKey accumulates keys while they form a prefix of a multi-key binding.
// It returns the completed sequence, or ok=false while still waiting.
func (m *Model) resolveKey(key string) (seq string, ok bool) {
	seq = m.pending + key
	prefix := false
	for _, b := range m.bindings() {
		if b == seq {
			m.pending = ""
			return seq, true
		}
		if len(b) > len(seq) && strings.HasPrefix(b, seq) {
			prefix = true
		}
	}
	if prefix {
		m.pending = seq
		return "", false
	}
	m.pending = ""
	if seq != key {
		// Abandoned sequence; retry the last key on its own.
		return m.resolveKey(key)
	}
	return key, true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	key, ok := m.resolveKey(key)
	if !ok {
		return m, nil
	}
	lines := m.lines()
	k := m.cfg.Keys

	switch key {
	case k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(lines))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(lines))
	case k.Expand:
		return m.expandOrActivate(lines)
	case k.Toggle:
		return m.toggleCurrent(lines)
	case k.AddSubtask:
		if t, ok := m.currentTask(lines); ok {
			return m.startAddSubtask(t), nil
		}
	case k.Undo:
		return m.undoToggle()
	case k.Search:
		m.mode = modeSearch
		m.prevQuery = m.list.Criterion().Query
		m.input.SetValue(m.prevQuery)
		m.input.Placeholder = "Search tasks"
		m.input.Focus()
		m.status = "Search: type to filter, enter to keep, esc to cancel"
	case k.Filter:
		next := m.list.Criterion().Filter.Next()
		m.list.SetFilter(next)
		m.cursor = clampCursor(m.cursor, len(m.lines()))
		m.status = "Showing " + next.String() + " tasks"
	case k.SortPriority:
		m.toggleSort(view.SortByPriority)
	case k.SortDue:
		m.toggleSort(view.SortByDeadline)
	case k.Select:
		if sel, ok := m.selectAt(lines); ok {
			m.selection = &sel
			m.status = "Selected " + describeSelection(sel)
		}
	case k.Delete:
		sel := m.selection
		if sel == nil {
			if s, ok := m.selectAt(lines); ok {
				sel = &s
			}
		}
		if sel == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		m.selection = sel
		m.mode = modeConfirmDelete
		if sel.IsSubtask() {
			m.status = fmt.Sprintf("Remove %s? y/n", describeSelection(*sel))
		} else {
			m.status = fmt.Sprintf("Move %s to trash? y/n", describeSelection(*sel))
		}
	}
	return m, nil
}

func (m *Model) toggleSort(cond view.SortMask) {
	if m.list.SortMask().Has(cond) {
		m.list.RemoveSortCondition(cond)
	} else {
		m.list.AddSortCondition(cond)
	}
	m.cursor = clampCursor(m.cursor, len(m.lines()))
	m.status = "Sorted by " + m.list.SortMask().String()
}

func (m Model) expandOrActivate(lines []line) (tea.Model, tea.Cmd) {
	if m.cursor >= len(lines) {
		return m, nil
	}
	cur := lines[m.cursor]
	if cur.isChild() {
		if m.list.ChildType(cur.row, cur.child) == view.AddSubtaskRow {
			t, _ := m.list.TaskAtRow(cur.row)
			return m.startAddSubtask(t), nil
		}
		return m, nil
	}
	t, ok := m.list.TaskAtRow(cur.row)
	if !ok {
		return m, nil
	}
	if m.expanded[t.ID] {
		delete(m.expanded, t.ID)
	} else {
		m.expanded[t.ID] = true
	}
	return m, nil
}

func (m Model) toggleCurrent(lines []line) (tea.Model, tea.Cmd) {
	if m.cursor >= len(lines) {
		return m, nil
	}
	cur := lines[m.cursor]
	t, ok := m.list.TaskAtRow(cur.row)
	if !ok {
		return m, nil
	}
	if !cur.isChild() {
		prev := t.Done
		id := t.ID
		if err := m.list.SetTaskDone(id, !prev); err != nil {
			log.Printf("warning: toggle task %d: %v", id, err)
			m.status = fmt.Sprintf("toggle failed: %v", err)
		} else {
			m.status = fmt.Sprintf("Toggled task, %q to undo", m.cfg.Keys.Undo)
		}
		m.lastToggle = &toggle{taskID: id, prevDone: prev}
		m.cursor = clampCursor(m.cursor, len(m.lines()))
		return m, nil
	}
	switch m.list.ChildType(cur.row, cur.child) {
	case view.SubtaskRow:
		st, _ := m.list.Layout().SubtaskAt(cur.row, cur.child)
		if err := m.list.SetSubtaskDone(t.ID, st.ID, !st.Done); err != nil {
			log.Printf("warning: toggle subtask %d: %v", st.ID, err)
			m.status = fmt.Sprintf("toggle failed: %v", err)
		} else {
			m.status = "Toggled subtask"
		}
		m.cursor = clampCursor(m.cursor, len(m.lines()))
	case view.AddSubtaskRow:
		return m.startAddSubtask(t), nil
	}
	return m, nil
}

func (m Model) undoToggle() (tea.Model, tea.Cmd) {
	if m.lastToggle == nil {
		m.status = "Nothing to undo"
		return m, nil
	}
	last := *m.lastToggle
	m.lastToggle = nil
	if err := m.list.SetTaskDone(last.taskID, last.prevDone); err != nil {
		log.Printf("warning: undo toggle of task %d: %v", last.taskID, err)
		m.status = fmt.Sprintf("undo failed: %v", err)
	} else {
		m.status = "Undid toggle"
	}
	m.cursor = clampCursor(m.cursor, len(m.lines()))
	return m, nil
}

func (m Model) startAddSubtask(t *model.Task) Model {
	if t.Trashed {
		m.status = "Trashed tasks cannot take subtasks"
		return m
	}
	m.mode = modeAddSubtask
	m.addTarget = t.ID
	m.expanded[t.ID] = true
	m.input.SetValue("")
	m.input.Placeholder = "Subtask name"
	m.input.Focus()
	m.status = fmt.Sprintf("New subtask for %q: enter to save, esc to cancel", t.Name)
	return m
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		return m, nil
	case "enter":
		if _, err := m.list.AppendSubtask(m.addTarget, m.input.Value()); err != nil {
			if errors.Is(err, view.ErrEmptyName) {
				m.status = "Name cannot be empty"
				return m, nil
			}
			log.Printf("warning: add subtask to task %d: %v", m.addTarget, err)
			m.status = fmt.Sprintf("add failed: %v", err)
		} else {
			m.status = "Added subtask"
		}
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.cursor = clampCursor(m.cursor, len(m.lines()))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		m.list.SetQuery(m.prevQuery)
		m.mode = modeList
		m.input.Blur()
		m.status = "Search cancelled"
		m.cursor = clampCursor(m.cursor, len(m.lines()))
		return m, nil
	case "enter":
		m.mode = modeList
		m.input.Blur()
		if q := m.list.Criterion().Query; q != "" {
			m.status = fmt.Sprintf("Filtered by %q", q)
		} else {
			m.status = "Search cleared"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.list.SetQuery(m.input.Value())
	m.cursor = clampCursor(m.cursor, len(m.lines()))
	return m, cmd
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.mode = modeList
		m.selection = nil
		return m, nil
	case "y", "Y", m.cfg.Keys.Confirm:
		if m.selection == nil {
			m.status = "Nothing to delete"
			m.mode = modeList
			return m, nil
		}
		sel := *m.selection
		if err := m.list.Discard(sel); err != nil {
			log.Printf("warning: delete %s: %v", describeSelection(sel), err)
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else if sel.IsSubtask() {
			m.status = "Removed subtask"
		} else {
			m.status = "Moved task to trash"
		}
		if m.lastToggle != nil && !sel.IsSubtask() && m.lastToggle.taskID == sel.Task.ID {
			m.lastToggle = nil
		}
		m.mode = modeList
		m.selection = nil
		m.cursor = clampCursor(m.cursor, len(m.lines()))
		return m, nil
	}
	return m, nil
}

// lines flattens the group rows and the child rows of expanded tasks.
func (m Model) lines() []line {
	var out []line
	for row := 0; row < m.list.TotalGroupRows(); row++ {
		out = append(out, line{row: row, child: -1})
		t, ok := m.list.TaskAtRow(row)
		if !ok || !m.expanded[t.ID] {
			continue
		}
		for child := 0; child < m.list.ChildCount(row); child++ {
			if t.Trashed && m.list.ChildType(row, child) == view.AddSubtaskRow {
				continue
			}
			out = append(out, line{row: row, child: child})
		}
	}
	return out
}

func (m Model) currentTask(lines []line) (*model.Task, bool) {
	if m.cursor >= len(lines) {
		return nil, false
	}
	return m.list.TaskAtRow(lines[m.cursor].row)
}

func (m Model) selectAt(lines []line) (view.Selection, bool) {
	if m.cursor >= len(lines) {
		return view.Selection{}, false
	}
	cur := lines[m.cursor]
	if cur.isChild() {
		return m.list.SelectChild(cur.row, cur.child)
	}
	return m.list.SelectRow(cur.row)
}

func describeSelection(sel view.Selection) string {
	if sel.IsSubtask() {
		return fmt.Sprintf("subtask %q", sel.Subtask.Name)
	}
	return fmt.Sprintf("task %q", sel.Task.Name)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
