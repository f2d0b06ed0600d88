package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"todoview/internal/model"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db   *sql.DB
	path string
}

// NewTask holds the fields supplied when a task is created.
type NewTask struct {
	ListID      int64
	Name        string
	Description string
	Priority    model.Priority
	Deadline    time.Time
	Reminder    time.Time
}

type List struct {
	ID   int64
	Name string
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: dbPath}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path is the database file the store was opened with.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS lists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id INTEGER NOT NULL DEFAULT 0,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	done INTEGER NOT NULL DEFAULT 0,
	priority INTEGER NOT NULL DEFAULT 1,
	deadline TEXT DEFAULT NULL,
	list_position INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subtasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

// ensureTaskColumns adds columns introduced after the first schema.
func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"reminder": "ALTER TABLE tasks ADD COLUMN reminder TEXT DEFAULT NULL;",
		"progress": "ALTER TABLE tasks ADD COLUMN progress INTEGER NOT NULL DEFAULT 0;",
		"trashed":  "ALTER TABLE tasks ADD COLUMN trashed INTEGER NOT NULL DEFAULT 0;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

const taskColumns = `t.id, t.list_id, COALESCE(l.name, ''), t.name, t.description, t.done, t.priority,
	t.deadline, t.reminder, t.progress, t.trashed, t.list_position, t.created_at`

// FetchTasks returns every task that is not in the trash, with its subtasks.
func (s *Store) FetchTasks() ([]model.Task, error) {
	return s.queryTasks(`WHERE t.trashed = 0`)
}

func (s *Store) FetchTrashed() ([]model.Task, error) {
	return s.queryTasks(`WHERE t.trashed = 1`)
}

func (s *Store) FetchTasksInList(listID int64) ([]model.Task, error) {
	return s.queryTasks(`WHERE t.trashed = 0 AND t.list_id = ?`, listID)
}

func (s *Store) queryTasks(where string, args ...any) ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT `+taskColumns+` FROM tasks t LEFT JOIN lists l ON l.id = t.list_id `+where+` ORDER BY t.list_position, t.id;`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	index := map[int64]int{}
	for rows.Next() {
		var t model.Task
		var doneInt, priority, trashed int
		var deadlineStr, reminderStr sql.NullString
		var createdStr string

		if err := rows.Scan(&t.ID, &t.ListID, &t.ListName, &t.Name, &t.Description, &doneInt, &priority,
			&deadlineStr, &reminderStr, &t.Progress, &trashed, &t.ListPosition, &createdStr); err != nil {
			return nil, err
		}
		t.Done = doneInt == 1
		t.Priority = model.Priority(priority)
		t.Trashed = trashed == 1
		t.Deadline = parseTime(deadlineStr)
		t.Reminder = parseTime(reminderStr)
		if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
			t.CreatedAt = created
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(tasks) == 0 {
		return tasks, nil
	}
	if err := s.attachSubtasks(tasks, index); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) attachSubtasks(tasks []model.Task, index map[int64]int) error {
	rows, err := s.db.Query(`SELECT id, task_id, name, done FROM subtasks ORDER BY task_id, id;`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var st model.Subtask
		var doneInt int
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Name, &doneInt); err != nil {
			return err
		}
		st.Done = doneInt == 1
		if i, ok := index[st.TaskID]; ok {
			tasks[i].Subtasks = append(tasks[i].Subtasks, st)
		}
	}
	return rows.Err()
}

// Task fetches a single task, trashed or not.
func (s *Store) Task(id int64) (model.Task, error) {
	tasks, err := s.queryTasks(`WHERE t.id = ?`, id)
	if err != nil {
		return model.Task{}, err
	}
	if len(tasks) == 0 {
		return model.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return tasks[0], nil
}

// AddTask appends a task to the end of its list and returns its id.
func (s *Store) AddTask(nt NewTask) (int64, error) {
	name := strings.TrimSpace(nt.Name)
	if name == "" {
		return 0, errors.New("task name is empty")
	}
	if !nt.Priority.Valid() {
		nt.Priority = model.PriorityMedium
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`INSERT INTO tasks (list_id, name, description, done, priority, deadline, reminder, list_position, created_at)
VALUES (?, ?, ?, 0, ?, ?, ?, (SELECT COALESCE(MAX(list_position), -1) + 1 FROM tasks WHERE list_id = ?), ?);`,
		nt.ListID, name, nt.Description, int(nt.Priority), formatTime(nt.Deadline), formatTime(nt.Reminder), nt.ListID, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveTask writes the task's own fields. Subtasks are saved separately.
func (s *Store) SaveTask(t model.Task) error {
	res, err := s.db.Exec(`UPDATE tasks SET list_id = ?, name = ?, description = ?, done = ?, priority = ?, deadline = ?,
reminder = ?, progress = ?, trashed = ?, list_position = ? WHERE id = ?;`,
		t.ListID, t.Name, t.Description, boolToInt(t.Done), int(t.Priority), formatTime(t.Deadline),
		formatTime(t.Reminder), t.Progress, boolToInt(t.Trashed), t.ListPosition, t.ID)
	if err != nil {
		return err
	}
	return expectRow(res, "task", t.ID)
}

func (s *Store) SetTrashed(taskID int64, trashed bool) error {
	res, err := s.db.Exec(`UPDATE tasks SET trashed = ? WHERE id = ?;`, boolToInt(trashed), taskID)
	if err != nil {
		return err
	}
	return expectRow(res, "task", taskID)
}

func (s *Store) DeleteTask(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM subtasks WHERE task_id = ?;`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	return err
}

func (s *Store) AddSubtask(taskID int64, name string) (model.Subtask, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Subtask{}, errors.New("subtask name is empty")
	}
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM tasks WHERE id = ?;`, taskID).Scan(&exists); err != nil {
		return model.Subtask{}, err
	}
	if exists == 0 {
		return model.Subtask{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	res, err := s.db.Exec(`INSERT INTO subtasks (task_id, name, done) VALUES (?, ?, 0);`, taskID, name)
	if err != nil {
		return model.Subtask{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Subtask{}, err
	}
	return model.Subtask{ID: id, TaskID: taskID, Name: name}, nil
}

func (s *Store) SaveSubtask(st model.Subtask) error {
	res, err := s.db.Exec(`UPDATE subtasks SET name = ?, done = ? WHERE id = ?;`, st.Name, boolToInt(st.Done), st.ID)
	if err != nil {
		return err
	}
	return expectRow(res, "subtask", st.ID)
}

func (s *Store) DeleteSubtask(id int64) error {
	res, err := s.db.Exec(`DELETE FROM subtasks WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	return expectRow(res, "subtask", id)
}

// AddList returns the id of the named list, creating it when missing.
func (s *Store) AddList(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("list name is empty")
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO lists (name) VALUES (?);`, name); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRow(`SELECT id FROM lists WHERE name = ?;`, name).Scan(&id)
	return id, err
}

func (s *Store) Lists() ([]List, error) {
	rows, err := s.db.Query(`SELECT id, name FROM lists ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lists []List
	for rows.Next() {
		var l List
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func expectRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
