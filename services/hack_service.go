package services

import (
	"context"
	"errors"

	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
)

type CreateHackInput struct {
	Name string `json:"name"`
}

type HackView struct {
	Hack       *models.Hack
	Challenges []models.Snapshot
}

type HackService interface {
	CreateHack(ctx context.Context, input CreateHackInput) (*HackView, error)
	GetHackByID(ctx context.Context, id string) (*HackView, error)
	ListHacks(ctx context.Context, nameFilter string) ([]models.Hack, error)
	// DeleteHack отклоняется, пока хак числится в entries какой-либо
	// команды; предусловие, а не каскад.
	DeleteHack(ctx context.Context, id string) error
}

type hackService struct {
	hacks      repositories.HackRepository
	challenges repositories.ChallengeRepository
	teams      repositories.TeamRepository
}

func NewHackService(
	hacks repositories.HackRepository,
	challenges repositories.ChallengeRepository,
	teams repositories.TeamRepository,
) HackService {
	return &hackService{hacks: hacks, challenges: challenges, teams: teams}
}

func (s *hackService) CreateHack(ctx context.Context, input CreateHackInput) (*HackView, error) {
	slug := Slugify(input.Name)
	if slug == "" {
		return nil, ErrNameRequired
	}

	hack := &models.Hack{ID: slug, Name: input.Name, Challenges: []string{}}
	if err := s.hacks.Create(ctx, hack); err != nil {
		if errors.Is(err, repositories.ErrHackConflict) {
			return nil, ErrHackConflict
		}
		return nil, err
	}
	return &HackView{Hack: hack, Challenges: []models.Snapshot{}}, nil
}

func (s *hackService) GetHackByID(ctx context.Context, id string) (*HackView, error) {
	hack, err := s.hacks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrHackNotFound) {
			return nil, ErrHackNotFound
		}
		return nil, err
	}

	snaps, err := resolveOrdered(hack.Challenges, models.TypeChallenges, func(ids []string) ([]models.Snapshot, error) {
		challenges, listErr := s.challenges.ListByIDs(ctx, ids)
		if listErr != nil {
			return nil, listErr
		}
		out := make([]models.Snapshot, 0, len(challenges))
		for i := range challenges {
			out = append(out, challenges[i].Snapshot())
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return &HackView{Hack: hack, Challenges: snaps}, nil
}

func (s *hackService) ListHacks(ctx context.Context, nameFilter string) ([]models.Hack, error) {
	return s.hacks.List(ctx, nameFilter)
}

func (s *hackService) DeleteHack(ctx context.Context, id string) error {
	if _, err := s.hacks.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrHackNotFound) {
			return ErrHackNotFound
		}
		return err
	}

	_, err := s.teams.FindByEntry(ctx, id)
	if err == nil {
		return ErrHackHasEntries
	}
	if !errors.Is(err, repositories.ErrTeamNotFound) {
		return err
	}

	if err := s.hacks.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrHackNotFound) {
			return ErrHackNotFound
		}
		return err
	}
	return nil
}
