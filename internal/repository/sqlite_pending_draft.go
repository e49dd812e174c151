package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
)

// SQLitePendingDraftRepo implements PendingDraftRepo using a SQLite database.
type SQLitePendingDraftRepo struct {
	db db.DBTX
}

// NewSQLitePendingDraftRepo creates a new SQLitePendingDraftRepo. Pass a
// transaction to compose it with other writes.
func NewSQLitePendingDraftRepo(conn db.DBTX) *SQLitePendingDraftRepo {
	return &SQLitePendingDraftRepo{db: conn}
}

const pendingDraftColumns = `id, user_id, intent, draft_json, confidence, reasoning, suggestions_json,
	input_text, voice_transcript, attachment_count, status, created_entity_id,
	created_at, expires_at, decided_at`

func (r *SQLitePendingDraftRepo) Create(ctx context.Context, d *domain.PendingDraft) error {
	draftJSON, err := domain.EncodeDraft(d.Draft)
	if err != nil {
		return err
	}
	suggestions, err := encodeStrings(d.Suggestions)
	if err != nil {
		return err
	}

	query := `INSERT INTO pending_drafts (` + pendingDraftColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		d.ID,
		d.UserID,
		string(d.Intent),
		draftJSON,
		d.Confidence,
		d.Reasoning,
		suggestions,
		d.InputText,
		nullableStr(d.VoiceTranscript),
		d.AttachmentCount,
		string(d.Status),
		nullableStr(d.CreatedEntityID),
		formatTime(d.CreatedAt),
		formatTime(d.ExpiresAt),
		nullableTimeToString(d.DecidedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting pending draft: %w", err)
	}
	return nil
}

func (r *SQLitePendingDraftRepo) GetByID(ctx context.Context, id string) (*domain.PendingDraft, error) {
	query := `SELECT ` + pendingDraftColumns + ` FROM pending_drafts WHERE id = ?`
	d, err := r.scanDraft(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pending draft: %w", ErrNotFound)
	}
	return d, err
}

func (r *SQLitePendingDraftRepo) ListPendingByUser(ctx context.Context, userID string, now time.Time) ([]*domain.PendingDraft, error) {
	query := `SELECT ` + pendingDraftColumns + ` FROM pending_drafts
		WHERE user_id = ? AND status = ? AND expires_at > ?
		ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID, string(domain.DraftPendingApproval), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("listing pending drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*domain.PendingDraft
	for rows.Next() {
		d, err := r.scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending drafts: %w", err)
	}
	return drafts, nil
}

func (r *SQLitePendingDraftRepo) Transition(ctx context.Context, d *domain.PendingDraft) error {
	draftJSON, err := domain.EncodeDraft(d.Draft)
	if err != nil {
		return err
	}

	query := `UPDATE pending_drafts
		SET status = ?, intent = ?, draft_json = ?, created_entity_id = ?, decided_at = ?
		WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(d.Status),
		string(d.Intent),
		draftJSON,
		nullableStr(d.CreatedEntityID),
		nullableTimeToString(d.DecidedAt),
		d.ID,
		string(domain.DraftPendingApproval),
	)
	if err != nil {
		return fmt.Errorf("updating pending draft status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking pending draft update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pending draft %s: %w", d.ID, ErrStatusConflict)
	}
	return nil
}

func (r *SQLitePendingDraftRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE pending_drafts SET status = ?, decided_at = ?
		WHERE status = ? AND expires_at <= ?`
	stamp := formatTime(now)
	res, err := r.db.ExecContext(ctx, query,
		string(domain.DraftExpired), stamp, string(domain.DraftPendingApproval), stamp)
	if err != nil {
		return 0, fmt.Errorf("expiring stale drafts: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLitePendingDraftRepo) scanDraft(row scanner) (*domain.PendingDraft, error) {
	var d domain.PendingDraft
	var intent, draftJSON, suggestions, status, createdAt, expiresAt string
	var voice, entityID, decidedAt sql.NullString

	err := row.Scan(
		&d.ID, &d.UserID, &intent, &draftJSON, &d.Confidence, &d.Reasoning, &suggestions,
		&d.InputText, &voice, &d.AttachmentCount, &status, &entityID,
		&createdAt, &expiresAt, &decidedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning pending draft: %w", err)
	}

	d.Intent = domain.Intent(intent)
	d.Status = domain.DraftStatus(status)
	d.VoiceTranscript = strPtr(voice)
	d.CreatedEntityID = strPtr(entityID)
	d.DecidedAt = parseNullableTime(decidedAt)

	if d.Draft, err = domain.DecodeDraft(d.Intent, draftJSON); err != nil {
		return nil, err
	}
	if d.Suggestions, err = decodeStrings(suggestions); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if d.ExpiresAt, err = parseTime(expiresAt, "expires_at"); err != nil {
		return nil, err
	}
	return &d, nil
}
