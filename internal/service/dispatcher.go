package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/repository"
	"github.com/google/uuid"
)

// Creators bundles the creation collaborators one dispatch may call.
type Creators struct {
	Tasks      TaskCreator
	Epics      EpicCreator
	Challenges ChallengeCreator
}

// CreatorsFactory binds creators to a transaction so entity creation commits
// together with the draft status change.
type CreatorsFactory func(tx db.DBTX) Creators

// SQLiteCreators is the CreatorsFactory for the bundled SQLite-backed
// task, epic and challenge services.
func SQLiteCreators(tx db.DBTX) Creators {
	return Creators{
		Tasks:      NewTaskService(repository.NewSQLiteTaskRepo(tx)),
		Epics:      NewEpicService(repository.NewSQLiteEpicRepo(tx)),
		Challenges: NewChallengeService(repository.NewSQLiteChallengeRepo(tx)),
	}
}

// Placeholder id prefixes for variants that have no creation collaborator
// yet. Callers can tell a stubbed id from a real one by prefix.
const (
	PlaceholderEventPrefix = "event-"
	PlaceholderBillPrefix  = "bill-"
	PlaceholderNotePrefix  = "note-"
)

const defaultChallengeTarget = 1

// Dispatcher maps a draft variant onto the matching creation call and
// returns the produced entity id.
type Dispatcher struct {
	creators Creators
	newID    func() string
}

func NewDispatcher(creators Creators) *Dispatcher {
	return &Dispatcher{creators: creators, newID: uuid.NewString}
}

// Materialize creates the entity for draft on behalf of userID. confidence is
// attached to the created record as its AI-confidence marker.
func (d *Dispatcher) Materialize(ctx context.Context, userID string, draft domain.Draft, confidence float64) (string, error) {
	switch v := draft.(type) {
	case *domain.TaskDraft:
		if d.creators.Tasks == nil {
			return "", fmt.Errorf("materializing task: no task creator configured")
		}
		task, err := d.creators.Tasks.CreateTask(ctx, CreateTaskRequest{
			UserID:               userID,
			Title:                v.Title,
			Description:          v.Description,
			LifeAreaCode:         v.LifeAreaCode,
			PriorityQuadrantCode: v.PriorityQuadrantCode,
			EffortPoints:         v.EffortPoints,
			EpicID:               v.EpicRef,
			SprintID:             v.SprintRef,
			DueDate:              v.DueDate,
			Recurring:            v.Recurring,
			Recurrence:           v.Recurrence,
			IsDraft:              false,
			AIConfidence:         &confidence,
		})
		if err != nil {
			return "", fmt.Errorf("materializing task: %w", err)
		}
		return task.ID, nil

	case *domain.EpicDraft:
		if d.creators.Epics == nil {
			return "", fmt.Errorf("materializing epic: no epic creator configured")
		}
		// Suggested tasks are not created with the epic.
		epic, err := d.creators.Epics.CreateEpic(ctx, CreateEpicRequest{
			UserID:       userID,
			Title:        v.Title,
			Description:  v.Description,
			LifeAreaCode: v.LifeAreaCode,
			Color:        v.Color,
			Icon:         v.Icon,
			StartDate:    v.StartDate,
			EndDate:      v.EndDate,
			AIConfidence: &confidence,
		})
		if err != nil {
			return "", fmt.Errorf("materializing epic: %w", err)
		}
		return epic.ID, nil

	case *domain.ChallengeDraft:
		if d.creators.Challenges == nil {
			return "", fmt.Errorf("materializing challenge: no challenge creator configured")
		}
		target := float64(defaultChallengeTarget)
		if v.TargetValue != nil {
			target = *v.TargetValue
		}
		challenge, err := d.creators.Challenges.CreateChallenge(ctx, CreateChallengeRequest{
			UserID:            userID,
			Name:              v.Name,
			Description:       v.Description,
			LifeAreaCode:      v.LifeAreaCode,
			MetricType:        domain.ParseChallengeMetric(v.MetricType),
			TargetValue:       target,
			Unit:              v.Unit,
			DurationDays:      v.DurationDays,
			Frequency:         domain.ParseChallengeFrequency(v.RecurrenceFrequency),
			WhyStatement:      v.WhyStatement,
			RewardDescription: v.RewardDescription,
			GraceDays:         v.GraceDays,
			ReminderTime:      v.ReminderTime,
			AIConfidence:      &confidence,
		})
		if err != nil {
			return "", fmt.Errorf("materializing challenge: %w", err)
		}
		return challenge.ID, nil

	case *domain.EventDraft:
		return PlaceholderEventPrefix + d.newID(), nil
	case *domain.BillDraft:
		return PlaceholderBillPrefix + d.newID(), nil
	case *domain.NoteDraft:
		return PlaceholderNotePrefix + d.newID(), nil
	default:
		return "", fmt.Errorf("materializing draft: unsupported draft type %T", draft)
	}
}
