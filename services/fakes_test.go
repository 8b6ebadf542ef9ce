package services

import (
	"context"
	"strings"

	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
)

// In-memory репозитории для сервисных тестов. Семантика повторяет
// postgres-реализации: конфликт по id, not-found сентинелы, пакетный
// ListByIDs с неопределённым порядком.

type memTeamRepo struct {
	teams map[string]*models.Team
}

func newMemTeamRepo(teams ...*models.Team) *memTeamRepo {
	repo := &memTeamRepo{teams: make(map[string]*models.Team)}
	for _, team := range teams {
		copied := *team
		repo.teams[team.ID] = &copied
	}
	return repo
}

func (r *memTeamRepo) Create(ctx context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; ok {
		return repositories.ErrTeamConflict
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *memTeamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	copied.Members = append([]string{}, team.Members...)
	copied.Entries = append([]string{}, team.Entries...)
	return &copied, nil
}

func (r *memTeamRepo) List(ctx context.Context, nameFilter string) ([]models.Team, error) {
	var out []models.Team
	for _, team := range r.teams {
		if nameFilter != "" && !strings.Contains(strings.ToLower(team.Name), strings.ToLower(nameFilter)) {
			continue
		}
		out = append(out, *team)
	}
	return out, nil
}

func (r *memTeamRepo) UpdateMotto(ctx context.Context, id string, motto string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Motto = &motto
	return nil
}

func (r *memTeamRepo) UpdateMembers(ctx context.Context, id string, members []string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Members = append([]string{}, members...)
	return nil
}

func (r *memTeamRepo) UpdateEntries(ctx context.Context, id string, entries []string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Entries = append([]string{}, entries...)
	return nil
}

func (r *memTeamRepo) UpdateLogoKey(ctx context.Context, id string, key *string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = key
	return nil
}

func (r *memTeamRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *memTeamRepo) FindByMember(ctx context.Context, userID string) (*models.Team, error) {
	for _, team := range r.teams {
		for _, member := range team.Members {
			if member == userID {
				copied := *team
				return &copied, nil
			}
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *memTeamRepo) FindByEntry(ctx context.Context, hackID string) (*models.Team, error) {
	for _, team := range r.teams {
		for _, entry := range team.Entries {
			if entry == hackID {
				copied := *team
				return &copied, nil
			}
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *memTeamRepo) Count(ctx context.Context) (int, error) {
	return len(r.teams), nil
}

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*models.User)}
	for _, user := range users {
		copied := *user
		repo.users[user.ID] = &copied
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; ok {
		return repositories.ErrUserConflict
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) List(ctx context.Context, nameFilter string) ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		if nameFilter != "" && !strings.Contains(strings.ToLower(user.Name), strings.ToLower(nameFilter)) {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (r *memUserRepo) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) Count(ctx context.Context) (int, error) {
	return len(r.users), nil
}

type memHackRepo struct {
	hacks map[string]*models.Hack
}

func newMemHackRepo(hacks ...*models.Hack) *memHackRepo {
	repo := &memHackRepo{hacks: make(map[string]*models.Hack)}
	for _, hack := range hacks {
		copied := *hack
		repo.hacks[hack.ID] = &copied
	}
	return repo
}

func (r *memHackRepo) Create(ctx context.Context, hack *models.Hack) error {
	if _, ok := r.hacks[hack.ID]; ok {
		return repositories.ErrHackConflict
	}
	copied := *hack
	r.hacks[hack.ID] = &copied
	return nil
}

func (r *memHackRepo) GetByID(ctx context.Context, id string) (*models.Hack, error) {
	hack, ok := r.hacks[id]
	if !ok {
		return nil, repositories.ErrHackNotFound
	}
	copied := *hack
	copied.Challenges = append([]string{}, hack.Challenges...)
	return &copied, nil
}

func (r *memHackRepo) List(ctx context.Context, nameFilter string) ([]models.Hack, error) {
	var out []models.Hack
	for _, hack := range r.hacks {
		if nameFilter != "" && !strings.Contains(strings.ToLower(hack.Name), strings.ToLower(nameFilter)) {
			continue
		}
		out = append(out, *hack)
	}
	return out, nil
}

func (r *memHackRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Hack, error) {
	var out []models.Hack
	for _, id := range ids {
		if hack, ok := r.hacks[id]; ok {
			out = append(out, *hack)
		}
	}
	return out, nil
}

func (r *memHackRepo) UpdateChallenges(ctx context.Context, id string, challenges []string) error {
	hack, ok := r.hacks[id]
	if !ok {
		return repositories.ErrHackNotFound
	}
	hack.Challenges = append([]string{}, challenges...)
	return nil
}

func (r *memHackRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.hacks[id]; !ok {
		return repositories.ErrHackNotFound
	}
	delete(r.hacks, id)
	return nil
}

func (r *memHackRepo) FindByChallenge(ctx context.Context, challengeID string) (*models.Hack, error) {
	for _, hack := range r.hacks {
		for _, ref := range hack.Challenges {
			if ref == challengeID {
				copied := *hack
				return &copied, nil
			}
		}
	}
	return nil, repositories.ErrHackNotFound
}

func (r *memHackRepo) Count(ctx context.Context) (int, error) {
	return len(r.hacks), nil
}

type memChallengeRepo struct {
	challenges map[string]*models.Challenge
}

func newMemChallengeRepo(challenges ...*models.Challenge) *memChallengeRepo {
	repo := &memChallengeRepo{challenges: make(map[string]*models.Challenge)}
	for _, challenge := range challenges {
		copied := *challenge
		repo.challenges[challenge.ID] = &copied
	}
	return repo
}

func (r *memChallengeRepo) Create(ctx context.Context, challenge *models.Challenge) error {
	if _, ok := r.challenges[challenge.ID]; ok {
		return repositories.ErrChallengeConflict
	}
	copied := *challenge
	r.challenges[challenge.ID] = &copied
	return nil
}

func (r *memChallengeRepo) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	challenge, ok := r.challenges[id]
	if !ok {
		return nil, repositories.ErrChallengeNotFound
	}
	copied := *challenge
	return &copied, nil
}

func (r *memChallengeRepo) List(ctx context.Context, nameFilter string) ([]models.Challenge, error) {
	var out []models.Challenge
	for _, challenge := range r.challenges {
		if nameFilter != "" && !strings.Contains(strings.ToLower(challenge.Name), strings.ToLower(nameFilter)) {
			continue
		}
		out = append(out, *challenge)
	}
	return out, nil
}

func (r *memChallengeRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Challenge, error) {
	var out []models.Challenge
	for _, id := range ids {
		if challenge, ok := r.challenges[id]; ok {
			out = append(out, *challenge)
		}
	}
	return out, nil
}

func (r *memChallengeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.challenges[id]; !ok {
		return repositories.ErrChallengeNotFound
	}
	delete(r.challenges, id)
	return nil
}

func (r *memChallengeRepo) Count(ctx context.Context) (int, error) {
	return len(r.challenges), nil
}
