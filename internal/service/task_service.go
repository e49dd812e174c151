package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/repository"
	"github.com/google/uuid"
)

// CreateTaskRequest carries the fields of a task to create. AIConfidence
// marks tasks that came from an approved AI draft.
type CreateTaskRequest struct {
	UserID               string
	Title                string
	Description          string
	LifeAreaCode         string
	PriorityQuadrantCode string
	EffortPoints         int
	EpicID               *string
	SprintID             *string
	DueDate              *domain.Date
	Recurring            bool
	Recurrence           *string
	IsDraft              bool
	AIConfidence         *float64
}

type taskService struct {
	tasks repository.TaskRepo
	now   func() time.Time
}

func NewTaskService(tasks repository.TaskRepo) TaskService {
	return &taskService{tasks: tasks, now: time.Now}
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrInvalidRequest)
	}
	if !domain.ValidEffortPoints[req.EffortPoints] {
		return nil, fmt.Errorf("%w: effort points must be one of 1, 2, 3, 5, 8, 13 (got %d)", ErrInvalidRequest, req.EffortPoints)
	}
	if !domain.IsLifeArea(req.LifeAreaCode) {
		return nil, fmt.Errorf("%w: unknown life area %q", ErrInvalidRequest, req.LifeAreaCode)
	}
	quadrant := req.PriorityQuadrantCode
	if quadrant == "" {
		quadrant = domain.QuadrantImportant
	}
	if !domain.IsQuadrant(quadrant) {
		return nil, fmt.Errorf("%w: unknown priority quadrant %q", ErrInvalidRequest, quadrant)
	}

	task := &domain.Task{
		ID:                   uuid.New().String(),
		UserID:               req.UserID,
		Title:                title,
		Description:          req.Description,
		LifeAreaCode:         req.LifeAreaCode,
		PriorityQuadrantCode: quadrant,
		EffortPoints:         req.EffortPoints,
		EpicID:               req.EpicID,
		SprintID:             req.SprintID,
		DueDate:              req.DueDate,
		Recurring:            req.Recurring,
		Recurrence:           req.Recurrence,
		IsDraft:              req.IsDraft,
		AIConfidence:         req.AIConfidence,
		CreatedAt:            s.now().UTC(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByUser(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}
