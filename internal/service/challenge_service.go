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

type CreateChallengeRequest struct {
	UserID            string
	Name              string
	Description       string
	LifeAreaCode      string
	MetricType        domain.ChallengeMetric
	TargetValue       float64
	Unit              *string
	DurationDays      int
	Frequency         domain.ChallengeFrequency
	WhyStatement      *string
	RewardDescription *string
	GraceDays         int
	ReminderTime      *domain.Clock
	AIConfidence      *float64
}

type challengeService struct {
	challenges repository.ChallengeRepo
	now        func() time.Time
}

func NewChallengeService(challenges repository.ChallengeRepo) ChallengeService {
	return &challengeService{challenges: challenges, now: time.Now}
}

func (s *challengeService) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*domain.Challenge, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: challenge name is required", ErrInvalidRequest)
	case !domain.IsLifeArea(req.LifeAreaCode):
		return nil, fmt.Errorf("%w: unknown life area %q", ErrInvalidRequest, req.LifeAreaCode)
	case req.DurationDays <= 0:
		return nil, fmt.Errorf("%w: challenge duration must be positive", ErrInvalidRequest)
	case req.GraceDays < 0:
		return nil, fmt.Errorf("%w: grace days cannot be negative", ErrInvalidRequest)
	}

	challenge := &domain.Challenge{
		ID:                uuid.New().String(),
		UserID:            req.UserID,
		Name:              name,
		Description:       req.Description,
		LifeAreaCode:      req.LifeAreaCode,
		MetricType:        req.MetricType,
		TargetValue:       req.TargetValue,
		Unit:              req.Unit,
		DurationDays:      req.DurationDays,
		Frequency:         req.Frequency,
		WhyStatement:      req.WhyStatement,
		RewardDescription: req.RewardDescription,
		GraceDays:         req.GraceDays,
		ReminderTime:      req.ReminderTime,
		AIConfidence:      req.AIConfidence,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *challengeService) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	return s.challenges.GetByID(ctx, id)
}
