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

type CreateEpicRequest struct {
	UserID       string
	Title        string
	Description  string
	LifeAreaCode string
	Color        string
	Icon         *string
	StartDate    *domain.Date
	EndDate      *domain.Date
	AIConfidence *float64
}

type epicService struct {
	epics repository.EpicRepo
	now   func() time.Time
}

func NewEpicService(epics repository.EpicRepo) EpicService {
	return &epicService{epics: epics, now: time.Now}
}

func (s *epicService) CreateEpic(ctx context.Context, req CreateEpicRequest) (*domain.Epic, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: epic title is required", ErrInvalidRequest)
	}
	if !domain.IsLifeArea(req.LifeAreaCode) {
		return nil, fmt.Errorf("%w: unknown life area %q", ErrInvalidRequest, req.LifeAreaCode)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(req.StartDate.Time) {
		return nil, fmt.Errorf("%w: epic ends before it starts", ErrInvalidRequest)
	}

	epic := &domain.Epic{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		Title:        title,
		Description:  req.Description,
		LifeAreaCode: req.LifeAreaCode,
		Color:        req.Color,
		Icon:         req.Icon,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AIConfidence: req.AIConfidence,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.epics.Create(ctx, epic); err != nil {
		return nil, err
	}
	return epic, nil
}

func (s *epicService) GetByID(ctx context.Context, id string) (*domain.Epic, error) {
	return s.epics.GetByID(ctx, id)
}
