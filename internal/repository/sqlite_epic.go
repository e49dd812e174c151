package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
)

// SQLiteEpicRepo implements EpicRepo using a SQLite database.
type SQLiteEpicRepo struct {
	db db.DBTX
}

func NewSQLiteEpicRepo(conn db.DBTX) *SQLiteEpicRepo {
	return &SQLiteEpicRepo{db: conn}
}

func (r *SQLiteEpicRepo) Create(ctx context.Context, e *domain.Epic) error {
	query := `INSERT INTO epics (id, user_id, title, description, life_area_code, color, icon,
		start_date, end_date, ai_confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Title,
		e.Description,
		e.LifeAreaCode,
		e.Color,
		nullableStr(e.Icon),
		nullableDate(e.StartDate),
		nullableDate(e.EndDate),
		nullableFloat(e.AIConfidence),
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting epic: %w", err)
	}
	return nil
}

func (r *SQLiteEpicRepo) GetByID(ctx context.Context, id string) (*domain.Epic, error) {
	query := `SELECT id, user_id, title, description, life_area_code, color, icon,
		start_date, end_date, ai_confidence, created_at
		FROM epics WHERE id = ?`

	var e domain.Epic
	var icon, startDate, endDate sql.NullString
	var confidence sql.NullFloat64
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &e.LifeAreaCode, &e.Color, &icon,
		&startDate, &endDate, &confidence, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("epic: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning epic: %w", err)
	}

	e.Icon = strPtr(icon)
	e.StartDate = parseNullableDate(startDate)
	e.EndDate = parseNullableDate(endDate)
	e.AIConfidence = floatPtr(confidence)
	if e.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &e, nil
}
