package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурсы
	ErrNotFound          = errors.New("requested resource not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrHackNotFound      = errors.New("hack not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrAttendeeNotFound  = errors.New("attendee not found")

	// Валидация входа
	ErrNameRequired        = errors.New("name is required")
	ErrIDRequired          = errors.New("id is required")
	ErrInvalidResourceType = errors.New("unexpected resource type")

	// Конфликты при создании (сигнал уникальности от хранилища)
	ErrTeamConflict      = errors.New("team already exists")
	ErrUserConflict      = errors.New("user already exists")
	ErrHackConflict      = errors.New("hack already exists")
	ErrChallengeConflict = errors.New("challenge already exists")
	ErrAttendeeConflict  = errors.New("attendee already exists")

	// Мутации связей
	ErrDuplicateMemberID       = errors.New("duplicate member id in request")
	ErrMemberAlreadyInRelation = errors.New("member is already present")
	ErrUnknownMember           = errors.New("unknown member")
	ErrMemberNotInRelation     = errors.New("member is not present")
	ErrUserAlreadyInTeam       = errors.New("user is already in a team")
	ErrHackAlreadyEntered      = errors.New("hack is already entered by a team")
	ErrChallengeAlreadyClaimed = errors.New("challenge is already claimed by a hack")

	// Предусловия удаления
	ErrTeamNotEmpty   = errors.New("team still has members")
	ErrHackHasEntries = errors.New("hack is entered by a team")

	// Загрузка логотипов
	ErrLogoStorageDisabled = errors.New("logo storage is not configured")
)
