package cli

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/service"
	"github.com/alexanderramin/inbox/internal/teatest"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func startReview(t *testing.T, f *cliFixture) *teatest.Driver {
	t.Helper()
	m := newReviewModel(context.Background(), f.app.Drafts, "alice", time.Now)
	d := teatest.New(t, m, teatest.WithSize(100, 30))
	d.Start()
	return d
}

func submitN(t *testing.T, f *cliFixture, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.app.Intake.Submit(context.Background(), "alice", intelligence.IntakeInput{Text: "call mom"})
		require.NoError(t, err)
	}
}

func TestReview_EmptyQueue(t *testing.T) {
	f := newFixture(t, callMomReply)
	d := startReview(t, f)

	view := stripANSI(d.View())
	assert.Contains(t, view, "Review queue (0)")
	assert.Contains(t, view, "No drafts awaiting approval.")
}

func TestReview_ApproveSelectedDraft(t *testing.T) {
	f := newFixture(t, callMomReply)
	submitN(t, f, 2)
	d := startReview(t, f)
	assert.Contains(t, stripANSI(d.View()), "Review queue (2)")

	d.Press("a")

	view := stripANSI(d.View())
	assert.Contains(t, view, "Review queue (1)")
	assert.Contains(t, view, "Approved. Created task")

	tasks, err := f.tasks.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestReview_RejectAndNavigate(t *testing.T) {
	f := newFixture(t, callMomReply)
	submitN(t, f, 2)
	d := startReview(t, f)

	m := d.Model.(*reviewModel)
	second := *m.envs[1].DraftID

	d.Press("down")
	d.Press("j")
	assert.Equal(t, 1, d.Model.(*reviewModel).cursor, "cursor stops at the last row")

	d.Press("x")
	assert.Contains(t, stripANSI(d.View()), "Rejected")
	assert.Equal(t, 0, d.Model.(*reviewModel).cursor, "cursor clamps after the queue shrinks")

	env, err := f.app.Drafts.Get(context.Background(), "alice", second)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftRejected, *env.DraftStatus)

	tasks, err := f.tasks.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestReview_DetailsToggle(t *testing.T) {
	f := newFixture(t, callMomReply)
	submitN(t, f, 1)
	d := startReview(t, f)

	assert.NotContains(t, stripANSI(d.View()), "A single phone call.")
	d.Press("enter")
	assert.Contains(t, stripANSI(d.View()), "A single phone call.")
	d.Press("enter")
	assert.NotContains(t, stripANSI(d.View()), "A single phone call.")
}

func TestReview_RefreshPicksUpNewDrafts(t *testing.T) {
	f := newFixture(t, callMomReply)
	d := startReview(t, f)
	submitN(t, f, 1)

	assert.Contains(t, stripANSI(d.View()), "Review queue (0)")
	d.Press("r")
	assert.Contains(t, stripANSI(d.View()), "Review queue (1)")
}

func TestReview_Quit(t *testing.T) {
	f := newFixture(t, callMomReply)
	d := startReview(t, f)

	d.Press("q")
	assert.True(t, d.Quitting)
}

func TestDecisionStatus(t *testing.T) {
	id := "entity-1"
	tests := []struct {
		name string
		res  *service.DecisionResult
		err  error
		want string
	}{
		{"approved", &service.DecisionResult{Status: domain.DraftApproved, EntityType: domain.IntentBill, CreatedEntityID: &id}, nil, "Created bill entity-1"},
		{"rejected", &service.DecisionResult{DraftID: "abcdef1234", Status: domain.DraftRejected}, nil, "Rejected abcdef12"},
		{"processed", nil, &service.AlreadyProcessedError{DraftID: "abcdef1234", Status: domain.DraftApproved}, "already approved"},
		{"expired", nil, service.ErrDraftExpired, "expired"},
		{"other", nil, errors.New("disk full"), "Error: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, stripANSI(decisionStatus(tt.res, tt.err)), tt.want)
		})
	}
}

func TestReviewCmd_RequiresTerminal(t *testing.T) {
	f := newFixture(t, callMomReply)
	_, err := executeCmd(t, f.app, "", "review")
	assert.ErrorContains(t, err, "interactive terminal")
}
