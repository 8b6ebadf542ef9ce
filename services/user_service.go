package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
)

type CreateUserInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserView: пользователь и, если он состоит в команде, снапшот команды.
// Команда ищется обратным сканом коллекции команд, у пользователя нет
// обратной ссылки.
type UserView struct {
	User *models.User
	Team *models.Snapshot
}

type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*UserView, error)
	ListUsers(ctx context.Context, nameFilter string) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	users repositories.UserRepository
	teams repositories.TeamRepository
}

func NewUserService(users repositories.UserRepository, teams repositories.TeamRepository) UserService {
	return &userService{users: users, teams: teams}
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	// ID пользователя приходит извне (внешняя идентичность) и обязателен.
	if strings.TrimSpace(input.ID) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}

	user := &models.User{ID: input.ID, Name: input.Name}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserConflict) {
			return nil, ErrUserConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	view := &UserView{User: user}
	team, err := s.teams.FindByMember(ctx, id)
	if err != nil {
		if !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, err
		}
	} else {
		snap := team.Snapshot()
		view.Team = &snap
	}
	return view, nil
}

func (s *userService) ListUsers(ctx context.Context, nameFilter string) ([]models.User, error) {
	return s.users.List(ctx, nameFilter)
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
