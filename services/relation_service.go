package services

import (
	"context"
	"fmt"

	"github.com/hackdays-io/hackathon-system/events"
	"github.com/hackdays-io/hackathon-system/models"
)

// ContainerRef это минимальная проекция сущности, владеющей массивом
// связи (команда для members/entries, хак для challenges).
type ContainerRef struct {
	ID   string
	Name string
	Refs []string
}

// RelationBackend абстрагирует хранилище для одной конкретной связи.
// Реализации в relations.go переводят ошибки репозиториев в ошибки сервисов.
type RelationBackend interface {
	GetContainer(ctx context.Context, containerID string) (*ContainerRef, error)
	SaveRefs(ctx context.Context, containerID string, refs []string) error
	// ResolveMembers делает один пакетный запрос; возвращает снапшоты
	// только существующих участников, порядок не определён.
	ResolveMembers(ctx context.Context, memberIDs []string) ([]models.Snapshot, error)
	// ContainerOf возвращает id контейнера, уже ссылающегося на участника,
	// либо пустую строку. Используется только для глобально-уникальных связей.
	ContainerOf(ctx context.Context, memberID string) (string, error)
}

// RelationConfig описывает одну связь: team→members, team→entries,
// hack→challenges. Пять почти одинаковых обработчиков оригинала сведены
// к одному движку, выбираемому этой записью.
type RelationConfig struct {
	ContainerType string // JSON:API тип контейнера: "teams", "hacks"
	Relation      string // имя массива: "members", "entries", "challenges"
	MemberType    string // JSON:API тип участника: "users", "hacks", "challenges"
	ContainerKey  string // префикс ключей события: "team" → teamid/teamname
	MemberKey     string // префикс ключей события: "user" → userid/username

	// GloballyUnique: участник может числиться максимум в одном
	// контейнере по всей коллекции, а не только в этом.
	GloballyUnique bool
	// AlreadyAttached возвращается при нарушении глобальной уникальности.
	AlreadyAttached error
}

// EventName строит имя события вида teams_update_members_add.
func (c RelationConfig) EventName(verb string) string {
	return fmt.Sprintf("%s_update_%s_%s", c.ContainerType, c.Relation, verb)
}

type RelationService interface {
	Config() RelationConfig
	// List возвращает снапшоты участников строго в порядке массива
	// контейнера; движок никогда не сортирует по id или имени.
	List(ctx context.Context, containerID string) ([]models.Snapshot, error)
	Add(ctx context.Context, containerID string, memberIDs []string) error
	Remove(ctx context.Context, containerID string, memberIDs []string) error
}

type relationService struct {
	cfg         RelationConfig
	backend     RelationBackend
	broadcaster events.Broadcaster
}

func NewRelationService(cfg RelationConfig, backend RelationBackend, broadcaster events.Broadcaster) RelationService {
	return &relationService{
		cfg:         cfg,
		backend:     backend,
		broadcaster: broadcaster,
	}
}

func (s *relationService) Config() RelationConfig {
	return s.cfg
}

func (s *relationService) List(ctx context.Context, containerID string) ([]models.Snapshot, error) {
	container, err := s.backend.GetContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolveByID(ctx, container.Refs)
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.Snapshot, 0, len(container.Refs))
	for _, ref := range container.Refs {
		if snap, ok := resolved[ref]; ok {
			snapshots = append(snapshots, snap)
			continue
		}
		// Висящая ссылка (участник удалён): идентификатор сохраняем,
		// имени нет.
		snapshots = append(snapshots, models.Snapshot{Type: s.cfg.MemberType, ID: ref})
	}
	return snapshots, nil
}

// Add валидирует весь запрос до какой-либо мутации: операция либо
// применяется целиком, либо целиком отклоняется. Это инвариант уровня
// приложения, не транзакция хранилища; два конкурентных Add по одному
// участнику могут оба пройти проверку уникальности до того, как один из
// них запишется.
func (s *relationService) Add(ctx context.Context, containerID string, memberIDs []string) error {
	container, err := s.backend.GetContainer(ctx, containerID)
	if err != nil {
		return err
	}

	// Пустой запрос считается успехом, событий нет.
	if len(memberIDs) == 0 {
		return nil
	}

	if err := rejectDuplicateIDs(memberIDs); err != nil {
		return err
	}

	present := make(map[string]bool, len(container.Refs))
	for _, ref := range container.Refs {
		present[ref] = true
	}
	for _, id := range memberIDs {
		if present[id] {
			return fmt.Errorf("%w: %s", ErrMemberAlreadyInRelation, id)
		}
	}

	resolved, err := s.resolveByID(ctx, memberIDs)
	if err != nil {
		return err
	}
	for _, id := range memberIDs {
		if _, ok := resolved[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMember, id)
		}
	}

	if s.cfg.GloballyUnique {
		for _, id := range memberIDs {
			owner, ownerErr := s.backend.ContainerOf(ctx, id)
			if ownerErr != nil {
				return ownerErr
			}
			if owner != "" {
				return fmt.Errorf("%w: %s", s.cfg.AlreadyAttached, id)
			}
		}
	}

	refs := append(append([]string{}, container.Refs...), memberIDs...)
	if err := s.backend.SaveRefs(ctx, containerID, refs); err != nil {
		return err
	}

	// События уходят только после успешной записи, по одному на участника,
	// в порядке запроса.
	for _, id := range memberIDs {
		s.emit(ctx, s.cfg.EventName("add"), container, resolved[id])
	}
	return nil
}

func (s *relationService) Remove(ctx context.Context, containerID string, memberIDs []string) error {
	container, err := s.backend.GetContainer(ctx, containerID)
	if err != nil {
		return err
	}

	if len(memberIDs) == 0 {
		return nil
	}

	if err := rejectDuplicateIDs(memberIDs); err != nil {
		return err
	}

	present := make(map[string]bool, len(container.Refs))
	for _, ref := range container.Refs {
		present[ref] = true
	}
	// Участник, которого нет в контейнере, отклоняет запрос целиком.
	for _, id := range memberIDs {
		if !present[id] {
			return fmt.Errorf("%w: %s", ErrMemberNotInRelation, id)
		}
	}

	resolved, err := s.resolveByID(ctx, memberIDs)
	if err != nil {
		return err
	}

	removal := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		removal[id] = true
	}
	refs := make([]string, 0, len(container.Refs))
	for _, ref := range container.Refs {
		if !removal[ref] {
			refs = append(refs, ref)
		}
	}

	if err := s.backend.SaveRefs(ctx, containerID, refs); err != nil {
		return err
	}

	for _, id := range memberIDs {
		snap, ok := resolved[id]
		if !ok {
			snap = models.Snapshot{Type: s.cfg.MemberType, ID: id}
		}
		s.emit(ctx, s.cfg.EventName("remove"), container, snap)
	}
	return nil
}

// Повторный id внутри одного запроса отклоняет его целиком: иначе Add
// записал бы ссылку дважды, а Remove удалил бы одну ссылку, но отправил
// два события.
func rejectDuplicateIDs(memberIDs []string) error {
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateMemberID, id)
		}
		seen[id] = true
	}
	return nil
}

func (s *relationService) resolveByID(ctx context.Context, ids []string) (map[string]models.Snapshot, error) {
	snaps, err := s.backend.ResolveMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Snapshot, len(snaps))
	for _, snap := range snaps {
		byID[snap.ID] = snap
	}
	return byID, nil
}

func (s *relationService) emit(ctx context.Context, event string, container *ContainerRef, member models.Snapshot) {
	s.broadcaster.Trigger(ctx, event, map[string]interface{}{
		s.cfg.ContainerKey + "id":   container.ID,
		s.cfg.ContainerKey + "name": container.Name,
		s.cfg.MemberKey + "id":      member.ID,
		s.cfg.MemberKey + "name":    member.Name,
	})
}
