package intelligence

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id string, kind domain.QuestionKind, field string, opts ...string) domain.Question {
	return domain.Question{ID: id, Prompt: id + "?", Kind: kind, Field: field, Options: opts}
}

func taskSession(t *testing.T, questions ...domain.Question) *domain.ClarificationSession {
	t.Helper()
	parsed := &ParsedResponse{
		Intent:     domain.IntentTask,
		Confidence: 0.6,
		Draft: &domain.TaskDraft{
			Title: "Stretch", LifeAreaCode: domain.LifeAreaHealth,
			PriorityQuadrantCode: domain.QuadrantImportant, EffortPoints: 3,
		},
		Questions:   questions,
		Suggestions: []string{},
	}
	return NewSession(SessionSeed{ID: "s1", UserID: "u1", InputText: "stretch"}, parsed, 5, fixedNow, time.Hour)
}

func TestNewSession_CapsQuestions(t *testing.T) {
	var qs []domain.Question
	for i := 1; i <= 8; i++ {
		qs = append(qs, question(fmt.Sprintf("q%d", i), domain.QuestionText, "description"))
	}

	s := taskSession(t, qs...)

	assert.Len(t, s.Questions, 5)
	assert.Equal(t, 5, s.MaxQuestions)
	assert.Equal(t, 0, s.QuestionsAsked)
	assert.Equal(t, "q5", s.Questions[4].ID)
	assert.Equal(t, fixedNow.Add(time.Hour), s.ExpiresAt)
	assert.Equal(t, domain.IntentTask, s.OriginalIntent)
}

func TestClampMaxQuestions(t *testing.T) {
	assert.Equal(t, 3, ClampMaxQuestions(0))
	assert.Equal(t, 3, ClampMaxQuestions(1))
	assert.Equal(t, 4, ClampMaxQuestions(4))
	assert.Equal(t, 5, ClampMaxQuestions(12))
}

func TestApplyAnswers_WritesDraftFields(t *testing.T) {
	s := taskSession(t,
		question("effort", domain.QuestionNumber, "effortPoints"),
		question("due", domain.QuestionDate, "dueDate"),
		question("repeat", domain.QuestionYesNo, "recurring"),
		question("area", domain.QuestionSingleChoice, "lifeArea", "health", "career"),
	)

	err := ApplyAnswers(s, []Answer{
		{QuestionID: "effort", Value: "5"},
		{QuestionID: "due", Value: "tomorrow"},
		{QuestionID: "repeat", Value: "Yes"},
		{QuestionID: "area", Value: "2"},
	}, fixedNow)
	require.NoError(t, err)

	task := s.Draft.(*domain.TaskDraft)
	assert.Equal(t, 5, task.EffortPoints)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-10-20", task.DueDate.String())
	assert.True(t, task.Recurring)
	assert.Equal(t, domain.LifeAreaCareer, task.LifeAreaCode)
	assert.Equal(t, "Stretch", task.Title, "untouched fields survive")

	assert.Equal(t, 4, s.QuestionsAsked)
	assert.Equal(t, map[string]string{"effort": "5", "due": "2026-10-20", "repeat": "yes", "area": "career"}, s.Answers)
}

func TestApplyAnswers_InvalidAnswerChangesNothing(t *testing.T) {
	s := taskSession(t,
		question("title", domain.QuestionText, "title"),
		question("effort", domain.QuestionNumber, "effortPoints"),
	)

	err := ApplyAnswers(s, []Answer{
		{QuestionID: "title", Value: "Stretch for ten minutes"},
		{QuestionID: "effort", Value: "a lot"},
	}, fixedNow)

	require.ErrorIs(t, err, ErrInvalidAnswer)
	assert.Equal(t, "Stretch", domain.DraftTitle(s.Draft))
	assert.Empty(t, s.Answers)
	assert.Equal(t, 0, s.QuestionsAsked)
}

func TestApplyAnswers_UnknownQuestion(t *testing.T) {
	s := taskSession(t, question("q1", domain.QuestionText, "title"))

	err := ApplyAnswers(s, []Answer{{QuestionID: "q9", Value: "x"}}, fixedNow)

	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestApplyAnswers_ReanswerDoesNotCountTwice(t *testing.T) {
	s := taskSession(t, question("q1", domain.QuestionText, "title"), question("q2", domain.QuestionText, ""))

	require.NoError(t, ApplyAnswers(s, []Answer{{QuestionID: "q1", Value: "First"}}, fixedNow))
	require.NoError(t, ApplyAnswers(s, []Answer{{QuestionID: "q1", Value: "Second"}}, fixedNow))

	assert.Equal(t, 1, s.QuestionsAsked)
	assert.Equal(t, "Second", domain.DraftTitle(s.Draft))
}

func TestApplyAnswers_DefaultsAndRequired(t *testing.T) {
	def := "no"
	optional := question("repeat", domain.QuestionYesNo, "recurring")
	optional.Default = &def
	required := question("title", domain.QuestionText, "title")
	required.Required = true
	s := taskSession(t, optional, required)

	require.NoError(t, ApplyAnswers(s, []Answer{{QuestionID: "repeat", Value: ""}}, fixedNow))
	assert.Equal(t, "no", s.Answers["repeat"])

	err := ApplyAnswers(s, []Answer{{QuestionID: "title", Value: "  "}}, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestCoerceAnswer(t *testing.T) {
	cases := []struct {
		name    string
		q       domain.Question
		raw     string
		display string
		wantErr bool
	}{
		{"yes", question("q", domain.QuestionYesNo, ""), "y", "yes", false},
		{"no", question("q", domain.QuestionYesNo, ""), "FALSE", "no", false},
		{"not yes-no", question("q", domain.QuestionYesNo, ""), "maybe", "", true},
		{"decimal", question("q", domain.QuestionNumber, ""), "2.50", "2.5", false},
		{"date", question("q", domain.QuestionDate, ""), "2026-12-24", "2026-12-24", false},
		{"today", question("q", domain.QuestionDate, ""), "Today", "2026-10-19", false},
		{"bad date", question("q", domain.QuestionDate, ""), "next week", "", true},
		{"time", question("q", domain.QuestionTime, ""), "7:30pm", "19:30", false},
		{"choice by label", question("q", domain.QuestionSingleChoice, "", "Daily", "Weekly"), "weekly", "Weekly", false},
		{"choice by index", question("q", domain.QuestionSingleChoice, "", "Daily", "Weekly"), "1", "Daily", false},
		{"choice out of range", question("q", domain.QuestionSingleChoice, "", "Daily", "Weekly"), "3", "", true},
		{"text", question("q", domain.QuestionText, ""), "  free form ", "free form", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			display, _, err := coerceAnswer(tc.q, tc.raw, fixedNow)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAnswer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.display, display)
		})
	}
}

func alternativeSession(t *testing.T) *domain.ClarificationSession {
	t.Helper()
	s := taskSession(t,
		question("minutes", domain.QuestionNumber, "targetValue"),
		question("when", domain.QuestionTime, "reminderTime"),
	)
	s.Alternative = &domain.AlternativeSuggestion{
		Intent: domain.IntentChallenge,
		Reason: "habit",
		Draft:  ConvertDraft(s.Draft, domain.IntentChallenge),
	}
	return s
}

func TestApplyAnswers_AlsoFillsAlternative(t *testing.T) {
	s := alternativeSession(t)

	require.NoError(t, ApplyAnswers(s, []Answer{
		{QuestionID: "minutes", Value: "10"},
		{QuestionID: "when", Value: "07:00"},
	}, fixedNow))

	c := s.Alternative.Draft.(*domain.ChallengeDraft)
	require.NotNil(t, c.TargetValue)
	assert.Equal(t, 10.0, *c.TargetValue)
	require.NotNil(t, c.ReminderTime)
	assert.Equal(t, "07:00", c.ReminderTime.String())
	assert.Equal(t, "Stretch", c.Name)
}

func TestSessionReady(t *testing.T) {
	t.Run("not ready before any answers", func(t *testing.T) {
		s := taskSession(t, question("q1", domain.QuestionText, ""), question("q2", domain.QuestionText, ""))
		assert.False(t, SessionReady(s))
	})

	t.Run("ready once every question is answered", func(t *testing.T) {
		s := taskSession(t, question("q1", domain.QuestionText, ""), question("q2", domain.QuestionText, ""))
		require.NoError(t, ApplyAnswers(s, []Answer{{QuestionID: "q1", Value: "a"}, {QuestionID: "q2", Value: "b"}}, fixedNow))
		assert.True(t, SessionReady(s))
	})

	t.Run("ready when required answered after one round", func(t *testing.T) {
		req := question("q1", domain.QuestionText, "")
		req.Required = true
		s := taskSession(t, req, question("q2", domain.QuestionText, ""))
		require.NoError(t, ApplyAnswers(s, []Answer{{QuestionID: "q1", Value: "a"}}, fixedNow))
		assert.True(t, SessionReady(s))
	})

	t.Run("not ready while required question is open", func(t *testing.T) {
		req := question("q2", domain.QuestionText, "")
		req.Required = true
		s := taskSession(t, question("q1", domain.QuestionText, ""), req)
		require.NoError(t, ApplyAnswers(s, []Answer{{QuestionID: "q1", Value: "a"}}, fixedNow))
		assert.False(t, SessionReady(s))
	})

	t.Run("alternative blocks readiness until decided", func(t *testing.T) {
		s := alternativeSession(t)
		require.NoError(t, ApplyAnswers(s, []Answer{{QuestionID: "minutes", Value: "10"}, {QuestionID: "when", Value: "7:00"}}, fixedNow))
		assert.False(t, SessionReady(s))

		require.NoError(t, DecideAlternative(s, true))
		assert.True(t, SessionReady(s))
	})

	t.Run("no questions and no alternative", func(t *testing.T) {
		assert.True(t, SessionReady(taskSession(t)))
	})
}

func TestDecideAlternative(t *testing.T) {
	t.Run("accept uses the alternative draft", func(t *testing.T) {
		s := alternativeSession(t)
		require.NoError(t, DecideAlternative(s, true))

		assert.Equal(t, domain.AlternativeAccepted, s.AlternativeDecision)
		assert.Equal(t, domain.IntentChallenge, FinalDraft(s).Intent())
	})

	t.Run("decline reverts to the original intent", func(t *testing.T) {
		s := alternativeSession(t)
		require.NoError(t, DecideAlternative(s, false))

		assert.Equal(t, domain.AlternativeRejected, s.AlternativeDecision)
		assert.Equal(t, domain.IntentTask, FinalDraft(s).Intent())
		assert.False(t, AwaitingAlternative(s))
	})

	t.Run("second decision is refused", func(t *testing.T) {
		s := alternativeSession(t)
		require.NoError(t, DecideAlternative(s, false))
		assert.ErrorIs(t, DecideAlternative(s, true), ErrAlternativeDecided)
	})

	t.Run("no alternative", func(t *testing.T) {
		assert.ErrorIs(t, DecideAlternative(taskSession(t), true), ErrNoAlternative)
	})
}
