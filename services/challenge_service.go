package services

import (
	"context"
	"errors"

	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
)

type CreateChallengeInput struct {
	Name string `json:"name"`
}

type ChallengeService interface {
	CreateChallenge(ctx context.Context, input CreateChallengeInput) (*models.Challenge, error)
	GetChallengeByID(ctx context.Context, id string) (*models.Challenge, error)
	ListChallenges(ctx context.Context, nameFilter string) ([]models.Challenge, error)
	DeleteChallenge(ctx context.Context, id string) error
}

type challengeService struct {
	challenges repositories.ChallengeRepository
}

func NewChallengeService(challenges repositories.ChallengeRepository) ChallengeService {
	return &challengeService{challenges: challenges}
}

func (s *challengeService) CreateChallenge(ctx context.Context, input CreateChallengeInput) (*models.Challenge, error) {
	slug := Slugify(input.Name)
	if slug == "" {
		return nil, ErrNameRequired
	}

	challenge := &models.Challenge{ID: slug, Name: input.Name}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		if errors.Is(err, repositories.ErrChallengeConflict) {
			return nil, ErrChallengeConflict
		}
		return nil, err
	}
	return challenge, nil
}

func (s *challengeService) GetChallengeByID(ctx context.Context, id string) (*models.Challenge, error) {
	challenge, err := s.challenges.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return challenge, nil
}

func (s *challengeService) ListChallenges(ctx context.Context, nameFilter string) ([]models.Challenge, error) {
	return s.challenges.List(ctx, nameFilter)
}

func (s *challengeService) DeleteChallenge(ctx context.Context, id string) error {
	err := s.challenges.Delete(ctx, id)
	if errors.Is(err, repositories.ErrChallengeNotFound) {
		return ErrChallengeNotFound
	}
	return err
}
