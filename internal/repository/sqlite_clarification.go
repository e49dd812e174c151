package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
)

// SQLiteClarificationRepo implements ClarificationSessionRepo with
// optimistic versioning on every write.
type SQLiteClarificationRepo struct {
	db db.DBTX
}

// NewSQLiteClarificationRepo creates a new SQLiteClarificationRepo.
func NewSQLiteClarificationRepo(conn db.DBTX) *SQLiteClarificationRepo {
	return &SQLiteClarificationRepo{db: conn}
}

const sessionColumns = `id, user_id, original_intent, draft_intent, draft_json, alternative_json,
	alternative_decision, questions_json, answers_json, questions_asked, max_questions,
	confidence, reasoning, suggestions_json, input_text, voice_transcript, attachment_count,
	created_at, updated_at, expires_at, version`

// storedAlternative is the JSON shape of an AlternativeSuggestion column.
type storedAlternative struct {
	Intent domain.Intent   `json:"intent"`
	Reason string          `json:"reason"`
	Draft  json.RawMessage `json:"draft"`
}

// sessionRow holds the encoded columns shared by insert and update.
type sessionRow struct {
	draftJSON   string
	alternative interface{}
	questions   string
	answers     string
	suggestions string
}

func encodeSession(s *domain.ClarificationSession) (*sessionRow, error) {
	draftJSON, err := domain.EncodeDraft(s.Draft)
	if err != nil {
		return nil, err
	}
	row := &sessionRow{draftJSON: draftJSON}

	if s.Alternative != nil {
		altDraft, err := domain.EncodeDraft(s.Alternative.Draft)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(storedAlternative{
			Intent: s.Alternative.Intent,
			Reason: s.Alternative.Reason,
			Draft:  json.RawMessage(altDraft),
		})
		if err != nil {
			return nil, fmt.Errorf("encoding alternative: %w", err)
		}
		row.alternative = string(data)
	}

	questions := s.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("encoding questions: %w", err)
	}
	row.questions = string(data)

	answers := s.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	if data, err = json.Marshal(answers); err != nil {
		return nil, fmt.Errorf("encoding answers: %w", err)
	}
	row.answers = string(data)

	if row.suggestions, err = encodeStrings(s.Suggestions); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *SQLiteClarificationRepo) Create(ctx context.Context, s *domain.ClarificationSession) error {
	enc, err := encodeSession(s)
	if err != nil {
		return err
	}
	if s.Version == 0 {
		s.Version = 1
	}

	query := `INSERT INTO clarification_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		string(s.OriginalIntent),
		string(s.Draft.Intent()),
		enc.draftJSON,
		enc.alternative,
		string(s.AlternativeDecision),
		enc.questions,
		enc.answers,
		s.QuestionsAsked,
		s.MaxQuestions,
		s.Confidence,
		s.Reasoning,
		enc.suggestions,
		s.InputText,
		nullableStr(s.VoiceTranscript),
		s.AttachmentCount,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
		formatTime(s.ExpiresAt),
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("inserting clarification session: %w", err)
	}
	return nil
}

func (r *SQLiteClarificationRepo) GetByID(ctx context.Context, id string) (*domain.ClarificationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM clarification_sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteClarificationRepo) Update(ctx context.Context, s *domain.ClarificationSession) error {
	enc, err := encodeSession(s)
	if err != nil {
		return err
	}

	query := `UPDATE clarification_sessions SET
		draft_intent = ?, draft_json = ?, alternative_json = ?, alternative_decision = ?,
		questions_json = ?, answers_json = ?, questions_asked = ?, confidence = ?,
		updated_at = ?, expires_at = ?, version = version + 1
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(s.Draft.Intent()),
		enc.draftJSON,
		enc.alternative,
		string(s.AlternativeDecision),
		enc.questions,
		enc.answers,
		s.QuestionsAsked,
		s.Confidence,
		formatTime(s.UpdatedAt),
		formatTime(s.ExpiresAt),
		s.ID,
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("updating clarification session: %w", err)
	}
	if err := r.checkVersioned(ctx, res, s.ID); err != nil {
		return err
	}
	s.Version++
	return nil
}

func (r *SQLiteClarificationRepo) Delete(ctx context.Context, id string, version int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clarification_sessions WHERE id = ? AND version = ?`, id, version)
	if err != nil {
		return fmt.Errorf("deleting clarification session: %w", err)
	}
	return r.checkVersioned(ctx, res, id)
}

func (r *SQLiteClarificationRepo) PurgeIdle(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clarification_sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("purging idle clarification sessions: %w", err)
	}
	return res.RowsAffected()
}

// checkVersioned distinguishes a missing row from a stale version after a
// write that touched nothing.
func (r *SQLiteClarificationRepo) checkVersioned(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking clarification session write: %w", err)
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM clarification_sessions WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("clarification session: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking clarification session: %w", err)
	}
	return fmt.Errorf("clarification session %s: %w", id, ErrVersionConflict)
}

func (r *SQLiteClarificationRepo) scanSession(row scanner) (*domain.ClarificationSession, error) {
	var s domain.ClarificationSession
	var originalIntent, draftIntent, draftJSON, decision, questions, answers, suggestions string
	var createdAt, updatedAt, expiresAt string
	var alternative, voice sql.NullString

	err := row.Scan(
		&s.ID, &s.UserID, &originalIntent, &draftIntent, &draftJSON, &alternative,
		&decision, &questions, &answers, &s.QuestionsAsked, &s.MaxQuestions,
		&s.Confidence, &s.Reasoning, &suggestions, &s.InputText, &voice, &s.AttachmentCount,
		&createdAt, &updatedAt, &expiresAt, &s.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("clarification session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning clarification session: %w", err)
	}

	s.OriginalIntent = domain.Intent(originalIntent)
	s.AlternativeDecision = domain.AlternativeDecision(decision)
	s.VoiceTranscript = strPtr(voice)

	if s.Draft, err = domain.DecodeDraft(domain.Intent(draftIntent), draftJSON); err != nil {
		return nil, err
	}
	if alternative.Valid {
		var alt storedAlternative
		if err := json.Unmarshal([]byte(alternative.String), &alt); err != nil {
			return nil, fmt.Errorf("decoding alternative: %w", err)
		}
		altDraft, err := domain.DecodeDraft(alt.Intent, string(alt.Draft))
		if err != nil {
			return nil, err
		}
		s.Alternative = &domain.AlternativeSuggestion{Intent: alt.Intent, Reason: alt.Reason, Draft: altDraft}
	}
	if err := json.Unmarshal([]byte(questions), &s.Questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &s.Answers); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	if s.Suggestions, err = decodeStrings(suggestions); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	if s.ExpiresAt, err = parseTime(expiresAt, "expires_at"); err != nil {
		return nil, err
	}
	return &s, nil
}
