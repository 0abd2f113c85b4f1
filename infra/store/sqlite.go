package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/focusplan/focusplan/core/model"
	corestore "github.com/focusplan/focusplan/core/store"
)

// SQLiteStore persists tasks and their plans in a SQLite database.
// Plans are stored as a JSON column next to the task row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS tasks (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        course TEXT,
        type TEXT,
        due_at INTEGER NOT NULL,
        estimated_minutes INTEGER NOT NULL,
        priority INTEGER NOT NULL,
        status TEXT NOT NULL,
        plan TEXT,
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Create inserts a new task, assigning an ID when none is set.
func (s *SQLiteStore) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	planJSON, err := marshalPlan(t.Plan)
	if err != nil {
		return model.Task{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks
        (id, title, course, type, due_at, estimated_minutes, priority, status, plan, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Course, t.Type, t.DueAt.UTC().Unix(), t.EstimatedMinutes,
		t.Priority, string(t.Status), planJSON, t.CreatedAt.Unix(), t.UpdatedAt.Unix())
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return t, nil
}

// Get returns the task with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, course, type, due_at,
        estimated_minutes, priority, status, plan, created_at, updated_at
        FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, corestore.ErrNotFound
	}
	return t, err
}

// Update replaces the stored task. The creation timestamp is preserved.
func (s *SQLiteStore) Update(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	planJSON, err := marshalPlan(t.Plan)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET
        title = ?, course = ?, type = ?, due_at = ?, estimated_minutes = ?,
        priority = ?, status = ?, plan = ?, updated_at = ?
        WHERE id = ?`,
		t.Title, t.Course, t.Type, t.DueAt.UTC().Unix(), t.EstimatedMinutes,
		t.Priority, string(t.Status), planJSON, time.Now().UTC().Unix(), t.ID)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return checkAffected(res)
}

// Delete removes the task.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return checkAffected(res)
}

// List returns tasks matching the filter, ordered by due date then ID.
func (s *SQLiteStore) List(ctx context.Context, f corestore.Filter) ([]model.Task, error) {
	query := `SELECT id, title, course, type, due_at, estimated_minutes,
        priority, status, plan, created_at, updated_at FROM tasks`
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Course != "" {
		conds = append(conds, "course = ?")
		args = append(args, f.Course)
	}
	if !f.DueBefore.IsZero() {
		conds = append(conds, "due_at < ?")
		args = append(args, f.DueBefore.UTC().Unix())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY due_at, id"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// SavePlan replaces the stored plan of the given task.
func (s *SQLiteStore) SavePlan(ctx context.Context, taskID string, p model.TaskPlan) error {
	planJSON, err := marshalPlan(&p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET plan = ?, updated_at = ? WHERE id = ?`,
		planJSON, time.Now().UTC().Unix(), taskID)
	if err != nil {
		return fmt.Errorf("save plan for %s: %w", taskID, err)
	}
	return checkAffected(res)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return corestore.ErrNotFound
	}
	return nil
}

func marshalPlan(p *model.TaskPlan) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal plan: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (model.Task, error) {
	var (
		t        model.Task
		status   string
		due      int64
		created  int64
		updated  int64
		planJSON sql.NullString
	)
	if err := r.Scan(&t.ID, &t.Title, &t.Course, &t.Type, &due,
		&t.EstimatedMinutes, &t.Priority, &status, &planJSON, &created, &updated); err != nil {
		return model.Task{}, err
	}
	t.Status = model.Status(status)
	t.DueAt = time.Unix(due, 0).UTC()
	t.CreatedAt = time.Unix(created, 0).UTC()
	t.UpdatedAt = time.Unix(updated, 0).UTC()
	if planJSON.Valid {
		var p model.TaskPlan
		if err := json.Unmarshal([]byte(planJSON.String), &p); err != nil {
			return model.Task{}, fmt.Errorf("decode plan of %s: %w", t.ID, err)
		}
		t.Plan = &p
	}
	return t, nil
}
