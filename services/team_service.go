package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hackdays-io/hackathon-system/events"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
	"github.com/hackdays-io/hackathon-system/storage"
)

var ErrLogoInvalidFormat = errors.New("logo must be png, jpeg or gif")

type CreateTeamInput struct {
	Name  string  `json:"name"`
	Motto *string `json:"motto"`
}

type UpdateTeamInput struct {
	Motto *string `json:"motto"`
}

// TeamView: команда плюс снапшоты участников и заявок в порядке массивов
// команды. Снапшоты попадают в included-секцию ответа.
type TeamView struct {
	Team    *models.Team
	Members []models.Snapshot
	Entries []models.Snapshot
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*TeamView, error)
	GetTeamByID(ctx context.Context, id string) (*TeamView, error)
	ListTeams(ctx context.Context, nameFilter string) ([]models.Team, error)
	// UpdateTeam меняет только motto. Отсутствующее или неизменившееся
	// значение не трогает запись и не шлёт событие.
	UpdateTeam(ctx context.Context, id string, input UpdateTeamInput) (*TeamView, error)
	DeleteTeam(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, id, contentType string, logo io.Reader) (*TeamView, error)
}

type teamService struct {
	teams       repositories.TeamRepository
	users       repositories.UserRepository
	hacks       repositories.HackRepository
	uploader    storage.FileUploader // nil, когда хранилище не сконфигурировано
	broadcaster events.Broadcaster
	logger      *slog.Logger
}

func NewTeamService(
	teams repositories.TeamRepository,
	users repositories.UserRepository,
	hacks repositories.HackRepository,
	uploader storage.FileUploader,
	broadcaster events.Broadcaster,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teams:       teams,
		users:       users,
		hacks:       hacks,
		uploader:    uploader,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*TeamView, error) {
	slug := Slugify(input.Name)
	if slug == "" {
		return nil, ErrNameRequired
	}

	team := &models.Team{
		ID:      slug,
		Name:    input.Name,
		Motto:   input.Motto,
		Members: []string{},
		Entries: []string{},
	}

	// Вставка оптимистичная: конфликт ловим по сигналу хранилища, а не
	// предварительной проверкой, чтобы не плодить гонку между check и insert.
	if err := s.teams.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamConflict) {
			return nil, ErrTeamConflict
		}
		return nil, err
	}

	return &TeamView{Team: team, Members: []models.Snapshot{}, Entries: []models.Snapshot{}}, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id string) (*TeamView, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return s.populateView(ctx, team)
}

func (s *teamService) ListTeams(ctx context.Context, nameFilter string) ([]models.Team, error) {
	teams, err := s.teams.List(ctx, nameFilter)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.populateLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id string, input UpdateTeamInput) (*TeamView, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if input.Motto == nil || derefString(team.Motto) == *input.Motto {
		return s.populateView(ctx, team)
	}

	if err := s.teams.UpdateMotto(ctx, id, *input.Motto); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	team.Motto = input.Motto

	view, err := s.populateView(ctx, team)
	if err != nil {
		return nil, err
	}

	members := make([]map[string]string, 0, len(view.Members))
	for _, m := range view.Members {
		members = append(members, map[string]string{"userid": m.ID, "username": m.Name})
	}
	s.broadcaster.Trigger(ctx, "teams_update_motto", map[string]interface{}{
		"teamid":   team.ID,
		"teamname": team.Name,
		"motto":    *input.Motto,
		"members":  members,
	})

	return view, nil
}

// DeleteTeam не каскадирует: команда с участниками не удаляется.
func (s *teamService) DeleteTeam(ctx context.Context, id string) error {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if len(team.Members) > 0 {
		return ErrTeamNotEmpty
	}

	if err := s.teams.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if team.LogoKey != nil && s.uploader != nil {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			s.logger.Warn("failed to delete team logo object",
				slog.String("team_id", id), slog.Any("error", delErr))
		}
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, id, contentType string, logo io.Reader) (*TeamView, error) {
	if s.uploader == nil {
		return nil, ErrLogoStorageDisabled
	}

	ext, ok := logoExtension(contentType)
	if !ok {
		return nil, ErrLogoInvalidFormat
	}

	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("teams/%s/logo-%d%s", team.ID, time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, logo); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	if err := s.teams.UpdateLogoKey(ctx, team.ID, &key); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	team.LogoKey = &key

	if oldKey != nil && *oldKey != key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous team logo object",
				slog.String("team_id", id), slog.Any("error", delErr))
		}
	}

	return s.populateView(ctx, team)
}

func (s *teamService) populateView(ctx context.Context, team *models.Team) (*TeamView, error) {
	s.populateLogoURL(team)

	memberSnaps, err := resolveOrdered(team.Members, models.TypeUsers, func(ids []string) ([]models.Snapshot, error) {
		users, listErr := s.users.ListByIDs(ctx, ids)
		if listErr != nil {
			return nil, listErr
		}
		snaps := make([]models.Snapshot, 0, len(users))
		for i := range users {
			snaps = append(snaps, users[i].Snapshot())
		}
		return snaps, nil
	})
	if err != nil {
		return nil, err
	}

	entrySnaps, err := resolveOrdered(team.Entries, models.TypeHacks, func(ids []string) ([]models.Snapshot, error) {
		hacks, listErr := s.hacks.ListByIDs(ctx, ids)
		if listErr != nil {
			return nil, listErr
		}
		snaps := make([]models.Snapshot, 0, len(hacks))
		for i := range hacks {
			snaps = append(snaps, hacks[i].Snapshot())
		}
		return snaps, nil
	})
	if err != nil {
		return nil, err
	}

	return &TeamView{Team: team, Members: memberSnaps, Entries: entrySnaps}, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team.LogoKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*team.LogoKey)
		team.LogoURL = &url
	}
}

// resolveOrdered выстраивает снапшоты в порядке массива ссылок контейнера.
func resolveOrdered(refs []string, memberType string, fetch func([]string) ([]models.Snapshot, error)) ([]models.Snapshot, error) {
	if len(refs) == 0 {
		return []models.Snapshot{}, nil
	}
	snaps, err := fetch(refs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Snapshot, len(snaps))
	for _, snap := range snaps {
		byID[snap.ID] = snap
	}
	ordered := make([]models.Snapshot, 0, len(refs))
	for _, ref := range refs {
		if snap, ok := byID[ref]; ok {
			ordered = append(ordered, snap)
		} else {
			ordered = append(ordered, models.Snapshot{Type: memberType, ID: ref})
		}
	}
	return ordered, nil
}

func logoExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/png":
		return ".png", true
	case "image/jpeg":
		return ".jpg", true
	case "image/gif":
		return ".gif", true
	default:
		return "", false
	}
}
