package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingDraftRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLitePendingDraftRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	due, err := domain.ParseDate("2026-10-20")
	require.NoError(t, err)
	voice := "call mom tomorrow"
	draft := testutil.NewTestTaskDraft("Call mom")
	draft.DueDate = &due

	d := testutil.NewTestPendingDraft("u1", "Call mom", testutil.WithDraftContent(draft))
	d.VoiceTranscript = &voice
	d.Suggestions = []string{"Set a reminder"}
	d.AttachmentCount = 2
	require.NoError(t, repo.Create(ctx, d))

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", fetched.UserID)
	assert.Equal(t, domain.IntentTask, fetched.Intent)
	assert.Equal(t, domain.DraftPendingApproval, fetched.Status)
	assert.Equal(t, []string{"Set a reminder"}, fetched.Suggestions)
	assert.Equal(t, 2, fetched.AttachmentCount)
	require.NotNil(t, fetched.VoiceTranscript)
	assert.Equal(t, voice, *fetched.VoiceTranscript)
	assert.Nil(t, fetched.CreatedEntityID)
	assert.Nil(t, fetched.DecidedAt)
	assert.True(t, d.ExpiresAt.Equal(fetched.ExpiresAt))

	task, ok := fetched.Draft.(*domain.TaskDraft)
	require.True(t, ok)
	assert.Equal(t, "Call mom", task.Title)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-10-20", task.DueDate.String())
}

func TestPendingDraftRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLitePendingDraftRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingDraftRepo_ListPendingByUser(t *testing.T) {
	repo := NewSQLitePendingDraftRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	older := testutil.NewTestPendingDraft("u1", "Older", testutil.WithDraftCreatedAt(now.Add(-2*time.Hour)))
	newer := testutil.NewTestPendingDraft("u1", "Newer", testutil.WithDraftCreatedAt(now.Add(-1*time.Hour)))
	expired := testutil.NewTestPendingDraft("u1", "Expired",
		testutil.WithDraftCreatedAt(now.Add(-25*time.Hour)))
	rejected := testutil.NewTestPendingDraft("u1", "Rejected", testutil.WithDraftStatus(domain.DraftRejected))
	otherUser := testutil.NewTestPendingDraft("u2", "Other")
	for _, d := range []*domain.PendingDraft{older, newer, expired, rejected, otherUser} {
		require.NoError(t, repo.Create(ctx, d))
	}

	list, err := repo.ListPendingByUser(ctx, "u1", now)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")
	assert.Equal(t, older.ID, list[1].ID)
}

func TestPendingDraftRepo_Transition(t *testing.T) {
	repo := NewSQLitePendingDraftRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	d := testutil.NewTestPendingDraft("u1", "Original")
	require.NoError(t, repo.Create(ctx, d))

	entityID := "task-1"
	decidedAt := time.Now().UTC()
	d.Status = domain.DraftModified
	d.Draft = testutil.NewTestTaskDraft("Replacement")
	d.CreatedEntityID = &entityID
	d.DecidedAt = &decidedAt
	require.NoError(t, repo.Transition(ctx, d))

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftModified, fetched.Status)
	assert.Equal(t, "Replacement", domain.DraftTitle(fetched.Draft))
	require.NotNil(t, fetched.CreatedEntityID)
	assert.Equal(t, entityID, *fetched.CreatedEntityID)
	require.NotNil(t, fetched.DecidedAt)
}

func TestPendingDraftRepo_Transition_ChangesVariant(t *testing.T) {
	repo := NewSQLitePendingDraftRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	d := testutil.NewTestPendingDraft("u1", "Buy milk")
	require.NoError(t, repo.Create(ctx, d))

	d.Status = domain.DraftModified
	d.Draft = &domain.NoteDraft{Title: "Buy milk", Content: "2%", LifeAreaCode: domain.DefaultLifeArea}
	d.Intent = domain.IntentNote
	require.NoError(t, repo.Transition(ctx, d))

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentNote, fetched.Intent)
	_, isNote := fetched.Draft.(*domain.NoteDraft)
	assert.True(t, isNote)
}

func TestPendingDraftRepo_Transition_OnlyFromPending(t *testing.T) {
	repo := NewSQLitePendingDraftRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	d := testutil.NewTestPendingDraft("u1", "Once")
	require.NoError(t, repo.Create(ctx, d))

	d.Status = domain.DraftApproved
	require.NoError(t, repo.Transition(ctx, d))

	d.Status = domain.DraftRejected
	err := repo.Transition(ctx, d)
	assert.ErrorIs(t, err, ErrStatusConflict)

	fetched, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftApproved, fetched.Status)
}

func TestPendingDraftRepo_ExpireStale(t *testing.T) {
	repo := NewSQLitePendingDraftRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	stale := testutil.NewTestPendingDraft("u1", "Stale", testutil.WithDraftExpiresAt(now.Add(-time.Minute)))
	fresh := testutil.NewTestPendingDraft("u1", "Fresh")
	approved := testutil.NewTestPendingDraft("u1", "Approved",
		testutil.WithDraftStatus(domain.DraftApproved), testutil.WithDraftExpiresAt(now.Add(-time.Minute)))
	for _, d := range []*domain.PendingDraft{stale, fresh, approved} {
		require.NoError(t, repo.Create(ctx, d))
	}

	n, err := repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	fetched, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftExpired, fetched.Status)

	fetched, err = repo.GetByID(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftApproved, fetched.Status, "terminal drafts are left alone")
}
