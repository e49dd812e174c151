package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS pending_drafts (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL,
		intent            TEXT NOT NULL
		                  CHECK(intent IN ('task','epic','challenge','event','bill','note')),
		draft_json        TEXT NOT NULL,
		confidence        REAL NOT NULL DEFAULT 0,
		reasoning         TEXT NOT NULL DEFAULT '',
		suggestions_json  TEXT NOT NULL DEFAULT '[]',
		input_text        TEXT NOT NULL DEFAULT '',
		voice_transcript  TEXT,
		attachment_count  INTEGER NOT NULL DEFAULT 0,
		status            TEXT NOT NULL DEFAULT 'PENDING_APPROVAL'
		                  CHECK(status IN ('PENDING_APPROVAL','APPROVED','MODIFIED','REJECTED','EXPIRED')),
		created_entity_id TEXT,
		created_at        TEXT NOT NULL,
		expires_at        TEXT NOT NULL,
		decided_at        TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_pending_drafts_user_status ON pending_drafts(user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_pending_drafts_expires ON pending_drafts(status, expires_at)`,

	`CREATE TABLE IF NOT EXISTS clarification_sessions (
		id                   TEXT PRIMARY KEY,
		user_id              TEXT NOT NULL,
		original_intent      TEXT NOT NULL,
		draft_intent         TEXT NOT NULL,
		draft_json           TEXT NOT NULL,
		alternative_json     TEXT,
		alternative_decision TEXT NOT NULL DEFAULT ''
		                     CHECK(alternative_decision IN ('','ACCEPTED','REJECTED')),
		questions_json       TEXT NOT NULL DEFAULT '[]',
		answers_json         TEXT NOT NULL DEFAULT '{}',
		questions_asked      INTEGER NOT NULL DEFAULT 0,
		max_questions        INTEGER NOT NULL,
		confidence           REAL NOT NULL DEFAULT 0,
		reasoning            TEXT NOT NULL DEFAULT '',
		suggestions_json     TEXT NOT NULL DEFAULT '[]',
		input_text           TEXT NOT NULL DEFAULT '',
		voice_transcript     TEXT,
		attachment_count     INTEGER NOT NULL DEFAULT 0,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL,
		expires_at           TEXT NOT NULL,
		version              INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE INDEX IF NOT EXISTS idx_clarification_sessions_expires ON clarification_sessions(expires_at)`,

	`CREATE TABLE IF NOT EXISTS epics (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		life_area_code TEXT NOT NULL,
		color          TEXT NOT NULL DEFAULT '',
		icon           TEXT,
		start_date     TEXT,
		end_date       TEXT,
		ai_confidence  REAL,
		created_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                     TEXT PRIMARY KEY,
		user_id                TEXT NOT NULL,
		title                  TEXT NOT NULL,
		description            TEXT NOT NULL DEFAULT '',
		life_area_code         TEXT NOT NULL,
		priority_quadrant_code TEXT NOT NULL,
		effort_points          INTEGER NOT NULL
		                       CHECK(effort_points IN (1,2,3,5,8,13)),
		epic_id                TEXT,
		sprint_id              TEXT,
		due_date               TEXT,
		recurring              INTEGER NOT NULL DEFAULT 0,
		recurrence             TEXT,
		is_draft               INTEGER NOT NULL DEFAULT 0,
		ai_confidence          REAL,
		created_at             TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,

	`CREATE TABLE IF NOT EXISTS challenges (
		id                   TEXT PRIMARY KEY,
		user_id              TEXT NOT NULL,
		name                 TEXT NOT NULL,
		description          TEXT NOT NULL DEFAULT '',
		life_area_code       TEXT NOT NULL,
		metric_type          TEXT NOT NULL
		                     CHECK(metric_type IN ('YESNO','COUNT','DURATION','DISTANCE','WEIGHT','CUSTOM')),
		target_value         REAL NOT NULL,
		unit                 TEXT,
		duration_days        INTEGER NOT NULL CHECK(duration_days > 0),
		recurrence_frequency TEXT NOT NULL
		                     CHECK(recurrence_frequency IN ('DAILY','WEEKDAYS','WEEKLY','MONTHLY')),
		why_statement        TEXT,
		reward_description   TEXT,
		grace_days           INTEGER NOT NULL DEFAULT 0,
		reminder_time        TEXT,
		ai_confidence        REAL,
		created_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_challenges_user ON challenges(user_id)`,
}
