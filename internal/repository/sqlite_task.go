package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, user_id, title, description, life_area_code, priority_quadrant_code,
	effort_points, epic_id, sprint_id, due_date, recurring, recurrence, is_draft,
	ai_confidence, created_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		t.LifeAreaCode,
		t.PriorityQuadrantCode,
		t.EffortPoints,
		nullableStr(t.EpicID),
		nullableStr(t.SprintID),
		nullableDate(t.DueDate),
		boolToInt(t.Recurring),
		nullableStr(t.Recurrence),
		boolToInt(t.IsDraft),
		nullableFloat(t.AIConfidence),
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := r.scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) scanTask(row scanner) (*domain.Task, error) {
	var t domain.Task
	var epicID, sprintID, dueDate, recurrence sql.NullString
	var confidence sql.NullFloat64
	var recurring, isDraft int
	var createdAt string

	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.LifeAreaCode, &t.PriorityQuadrantCode,
		&t.EffortPoints, &epicID, &sprintID, &dueDate, &recurring, &recurrence, &isDraft,
		&confidence, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.EpicID = strPtr(epicID)
	t.SprintID = strPtr(sprintID)
	t.DueDate = parseNullableDate(dueDate)
	t.Recurring = intToBool(recurring)
	t.Recurrence = strPtr(recurrence)
	t.IsDraft = intToBool(isDraft)
	t.AIConfidence = floatPtr(confidence)
	if t.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
