package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"taskboard/internal/backend"
	"taskboard/internal/models"
	"taskboard/internal/tokens"
	"taskboard/pkg/logger"
)

const dateLayout = "2006-01-02"

// updatable maps patchable fields to columns.
var updatable = map[string]string{
	"title":     "title",
	"priority":  "priority",
	"deadline":  "deadline",
	"completed": "completed",
}

// Store is a self-hosted backend.TaskStore on Postgres. With ownership enforced
// every statement is scoped to the user named by the token's subject, the same
// visibility a row-level security policy on user_id gives the hosted backend.
type Store struct {
	db               *sql.DB
	jwtSecret        string
	enforceOwnership bool
}

var _ backend.TaskStore = (*Store)(nil)

// NewStore wraps an open pool.
func NewStore(db *sql.DB, jwtSecret string, enforceOwnership bool) *Store {
	return &Store{db: db, jwtSecret: jwtSecret, enforceOwnership: enforceOwnership}
}

// Ping implements backend.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// owner returns the user id for token, "" when ownership is off.
// ok is false when ownership is on and the token does not name a user.
func (s *Store) owner(token string) (string, bool) {
	if !s.enforceOwnership {
		return "", true
	}
	claims, err := tokens.Verify(s.jwtSecret, token)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

// ListTasks returns visible tasks ordered by created_at descending.
func (s *Store) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	uid, ok := s.owner(token)
	if !ok {
		return []models.Task{}, nil
	}
	q := `SELECT id, title, priority, deadline, completed, user_id, created_at FROM tasks`
	var args []any
	if s.enforceOwnership {
		q += ` WHERE user_id = $1`
		args = append(args, uid)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		logger.Error(ctx, "Repository ListTasks failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	tasks := []models.Task{}
	for rows.Next() {
		var (
			t        models.Task
			deadline time.Time
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Priority, &deadline, &t.Completed, &t.UserID, &t.CreatedAt); err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		t.Deadline = deadline.Format(dateLayout)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// InsertTask adds a row with a fresh uuid.
func (s *Store) InsertTask(ctx context.Context, token string, task models.NewTask) error {
	uid, ok := s.owner(token)
	if !ok {
		return &backend.Error{Status: http.StatusUnauthorized, Message: "new row violates row-level security policy for table \"tasks\""}
	}
	if s.enforceOwnership && task.UserID != uid {
		return &backend.Error{Status: http.StatusForbidden, Message: "new row violates row-level security policy for table \"tasks\""}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, priority, deadline, completed, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), task.Title, string(task.Priority), task.Deadline, task.Completed, task.UserID, time.Now())
	if err != nil {
		logger.Error(ctx, "Repository InsertTask failed", "error", err)
		return err
	}
	return nil
}

// UpdateTask sets the given fields on the row. Rows outside the caller's scope are left alone.
func (s *Store) UpdateTask(ctx context.Context, token, id string, fields map[string]any) error {
	uid, ok := s.owner(token)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, known := updatable[k]; !known {
			return &backend.Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("column %q of relation \"tasks\" does not exist", k)}
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+2)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", updatable[k], i+1))
		args = append(args, fields[k])
	}
	q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if s.enforceOwnership {
		q += fmt.Sprintf(` AND user_id = $%d`, len(args)+1)
		args = append(args, uid)
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		logger.Error(ctx, "Repository UpdateTask failed", "error", err, "id", id)
		return err
	}
	return nil
}

// DeleteTask removes the row with id within the caller's scope.
func (s *Store) DeleteTask(ctx context.Context, token, id string) error {
	uid, ok := s.owner(token)
	if !ok {
		return nil
	}
	q := `DELETE FROM tasks WHERE id = $1`
	args := []any{id}
	if s.enforceOwnership {
		q += ` AND user_id = $2`
		args = append(args, uid)
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		logger.Error(ctx, "Repository DeleteTask failed", "error", err, "id", id)
		return err
	}
	return nil
}
