package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/repository"
	"github.com/alexanderramin/inbox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CreateTask(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewTaskService(repository.NewSQLiteTaskRepo(database))
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{
		UserID: "u1", Title: "  Renew passport ", LifeAreaCode: domain.LifeAreaGrowth, EffortPoints: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renew passport", task.Title)
	assert.Equal(t, domain.QuadrantImportant, task.PriorityQuadrantCode)

	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
}

func TestTaskService_Validation(t *testing.T) {
	svc := NewTaskService(repository.NewSQLiteTaskRepo(testutil.NewTestDB(t)))
	ctx := context.Background()
	valid := CreateTaskRequest{UserID: "u1", Title: "x", LifeAreaCode: domain.LifeAreaFun, EffortPoints: 3}

	cases := map[string]func(r *CreateTaskRequest){
		"blank title":  func(r *CreateTaskRequest) { r.Title = " " },
		"bad effort":   func(r *CreateTaskRequest) { r.EffortPoints = 7 },
		"bad area":     func(r *CreateTaskRequest) { r.LifeAreaCode = "hobbies" },
		"bad quadrant": func(r *CreateTaskRequest) { r.PriorityQuadrantCode = "Q9" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			_, err := svc.CreateTask(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestEpicService_RejectsInvertedDates(t *testing.T) {
	svc := NewEpicService(repository.NewSQLiteEpicRepo(testutil.NewTestDB(t)))
	start, _ := domain.ParseDate("2026-11-01")
	end, _ := domain.ParseDate("2026-10-01")

	_, err := svc.CreateEpic(context.Background(), CreateEpicRequest{
		UserID: "u1", Title: "Move", LifeAreaCode: domain.LifeAreaEnvironment, StartDate: &start, EndDate: &end,
	})

	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestChallengeService_CreateChallenge(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewChallengeService(repository.NewSQLiteChallengeRepo(database))
	ctx := context.Background()

	c, err := svc.CreateChallenge(ctx, CreateChallengeRequest{
		UserID: "u1", Name: "Run", LifeAreaCode: domain.LifeAreaHealth, MetricType: domain.MetricDistance,
		TargetValue: 5, DurationDays: 30, Frequency: domain.FrequencyWeekly, GraceDays: 2,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MetricDistance, got.MetricType)
	assert.Equal(t, domain.FrequencyWeekly, got.Frequency)

	_, err = svc.CreateChallenge(ctx, CreateChallengeRequest{UserID: "u1", Name: "Zero", LifeAreaCode: domain.LifeAreaHealth, MetricType: domain.MetricYesNo, Frequency: domain.FrequencyDaily})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
