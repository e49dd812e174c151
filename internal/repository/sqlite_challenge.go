package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
)

// SQLiteChallengeRepo implements ChallengeRepo using a SQLite database.
type SQLiteChallengeRepo struct {
	db db.DBTX
}

func NewSQLiteChallengeRepo(conn db.DBTX) *SQLiteChallengeRepo {
	return &SQLiteChallengeRepo{db: conn}
}

func (r *SQLiteChallengeRepo) Create(ctx context.Context, c *domain.Challenge) error {
	query := `INSERT INTO challenges (id, user_id, name, description, life_area_code, metric_type,
		target_value, unit, duration_days, recurrence_frequency, why_statement, reward_description,
		grace_days, reminder_time, ai_confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		c.Description,
		c.LifeAreaCode,
		string(c.MetricType),
		c.TargetValue,
		nullableStr(c.Unit),
		c.DurationDays,
		string(c.Frequency),
		nullableStr(c.WhyStatement),
		nullableStr(c.RewardDescription),
		c.GraceDays,
		nullableClock(c.ReminderTime),
		nullableFloat(c.AIConfidence),
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting challenge: %w", err)
	}
	return nil
}

func (r *SQLiteChallengeRepo) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	query := `SELECT id, user_id, name, description, life_area_code, metric_type, target_value,
		unit, duration_days, recurrence_frequency, why_statement, reward_description,
		grace_days, reminder_time, ai_confidence, created_at
		FROM challenges WHERE id = ?`

	var c domain.Challenge
	var metric, frequency, createdAt string
	var unit, why, reward, reminder sql.NullString
	var confidence sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Description, &c.LifeAreaCode, &metric, &c.TargetValue,
		&unit, &c.DurationDays, &frequency, &why, &reward,
		&c.GraceDays, &reminder, &confidence, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("challenge: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning challenge: %w", err)
	}

	c.MetricType = domain.ChallengeMetric(metric)
	c.Frequency = domain.ChallengeFrequency(frequency)
	c.Unit = strPtr(unit)
	c.WhyStatement = strPtr(why)
	c.RewardDescription = strPtr(reward)
	c.ReminderTime = parseNullableClock(reminder)
	c.AIConfidence = floatPtr(confidence)
	if c.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
