package services

import (
	"context"
	"errors"

	"github.com/hackdays-io/hackathon-system/events"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
)

// Три экземпляра движка связей. Каждый бэкенд переводит ошибки своего
// репозитория в сервисные и знает, как искать контейнер по участнику.

func NewTeamMembersRelation(teams repositories.TeamRepository, users repositories.UserRepository, broadcaster events.Broadcaster) RelationService {
	return NewRelationService(RelationConfig{
		ContainerType:   models.TypeTeams,
		Relation:        "members",
		MemberType:      models.TypeUsers,
		ContainerKey:    "team",
		MemberKey:       "user",
		GloballyUnique:  true,
		AlreadyAttached: ErrUserAlreadyInTeam,
	}, &teamMembersBackend{teams: teams, users: users}, broadcaster)
}

func NewTeamEntriesRelation(teams repositories.TeamRepository, hacks repositories.HackRepository, broadcaster events.Broadcaster) RelationService {
	return NewRelationService(RelationConfig{
		ContainerType:   models.TypeTeams,
		Relation:        "entries",
		MemberType:      models.TypeHacks,
		ContainerKey:    "team",
		MemberKey:       "hack",
		GloballyUnique:  true,
		AlreadyAttached: ErrHackAlreadyEntered,
	}, &teamEntriesBackend{teams: teams, hacks: hacks}, broadcaster)
}

func NewHackChallengesRelation(hacks repositories.HackRepository, challenges repositories.ChallengeRepository, broadcaster events.Broadcaster) RelationService {
	return NewRelationService(RelationConfig{
		ContainerType:   models.TypeHacks,
		Relation:        "challenges",
		MemberType:      models.TypeChallenges,
		ContainerKey:    "hack",
		MemberKey:       "challenge",
		GloballyUnique:  true,
		AlreadyAttached: ErrChallengeAlreadyClaimed,
	}, &hackChallengesBackend{hacks: hacks, challenges: challenges}, broadcaster)
}

type teamMembersBackend struct {
	teams repositories.TeamRepository
	users repositories.UserRepository
}

func (b *teamMembersBackend) GetContainer(ctx context.Context, containerID string) (*ContainerRef, error) {
	team, err := b.teams.GetByID(ctx, containerID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &ContainerRef{ID: team.ID, Name: team.Name, Refs: team.Members}, nil
}

func (b *teamMembersBackend) SaveRefs(ctx context.Context, containerID string, refs []string) error {
	err := b.teams.UpdateMembers(ctx, containerID, refs)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return ErrTeamNotFound
	}
	return err
}

func (b *teamMembersBackend) ResolveMembers(ctx context.Context, memberIDs []string) ([]models.Snapshot, error) {
	users, err := b.users.ListByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	snaps := make([]models.Snapshot, 0, len(users))
	for i := range users {
		snaps = append(snaps, users[i].Snapshot())
	}
	return snaps, nil
}

func (b *teamMembersBackend) ContainerOf(ctx context.Context, memberID string) (string, error) {
	team, err := b.teams.FindByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return "", nil
		}
		return "", err
	}
	return team.ID, nil
}

type teamEntriesBackend struct {
	teams repositories.TeamRepository
	hacks repositories.HackRepository
}

func (b *teamEntriesBackend) GetContainer(ctx context.Context, containerID string) (*ContainerRef, error) {
	team, err := b.teams.GetByID(ctx, containerID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &ContainerRef{ID: team.ID, Name: team.Name, Refs: team.Entries}, nil
}

func (b *teamEntriesBackend) SaveRefs(ctx context.Context, containerID string, refs []string) error {
	err := b.teams.UpdateEntries(ctx, containerID, refs)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return ErrTeamNotFound
	}
	return err
}

func (b *teamEntriesBackend) ResolveMembers(ctx context.Context, memberIDs []string) ([]models.Snapshot, error) {
	hacks, err := b.hacks.ListByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	snaps := make([]models.Snapshot, 0, len(hacks))
	for i := range hacks {
		snaps = append(snaps, hacks[i].Snapshot())
	}
	return snaps, nil
}

func (b *teamEntriesBackend) ContainerOf(ctx context.Context, memberID string) (string, error) {
	team, err := b.teams.FindByEntry(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return "", nil
		}
		return "", err
	}
	return team.ID, nil
}

type hackChallengesBackend struct {
	hacks      repositories.HackRepository
	challenges repositories.ChallengeRepository
}

func (b *hackChallengesBackend) GetContainer(ctx context.Context, containerID string) (*ContainerRef, error) {
	hack, err := b.hacks.GetByID(ctx, containerID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackNotFound) {
			return nil, ErrHackNotFound
		}
		return nil, err
	}
	return &ContainerRef{ID: hack.ID, Name: hack.Name, Refs: hack.Challenges}, nil
}

func (b *hackChallengesBackend) SaveRefs(ctx context.Context, containerID string, refs []string) error {
	err := b.hacks.UpdateChallenges(ctx, containerID, refs)
	if errors.Is(err, repositories.ErrHackNotFound) {
		return ErrHackNotFound
	}
	return err
}

func (b *hackChallengesBackend) ResolveMembers(ctx context.Context, memberIDs []string) ([]models.Snapshot, error) {
	challenges, err := b.challenges.ListByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	snaps := make([]models.Snapshot, 0, len(challenges))
	for i := range challenges {
		snaps = append(snaps, challenges[i].Snapshot())
	}
	return snaps, nil
}

func (b *hackChallengesBackend) ContainerOf(ctx context.Context, memberID string) (string, error) {
	hack, err := b.hacks.FindByChallenge(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackNotFound) {
			return "", nil
		}
		return "", err
	}
	return hack.ID, nil
}
