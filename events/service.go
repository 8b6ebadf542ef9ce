package events

import (
	"context"
	"log/slog"
)

// Service зеркалит каждое событие в локальный websocket-хаб и, если
// настроен внешний канал, выполняет trigger-вызов. Любой сбой доставки
// логируется и глотается: мутация, породившая событие, уже зафиксирована
// и не откатывается.
type Service struct {
	remote *PusherClient // nil, когда PUSHER_URL не задан
	hub    *Hub          // nil, когда websocket-зеркало отключено
	logger *slog.Logger
}

func NewService(remote *PusherClient, hub *Hub, logger *slog.Logger) *Service {
	return &Service{remote: remote, hub: hub, logger: logger}
}

func (s *Service) Trigger(ctx context.Context, event string, data map[string]interface{}) {
	if s.hub != nil {
		s.hub.BroadcastEvent(event, data)
	}

	if s.remote == nil {
		s.logger.Debug("event broadcast skipped: no endpoint configured",
			slog.String("event", event))
		return
	}

	if err := s.remote.Trigger(ctx, event, data); err != nil {
		s.logger.Warn("event broadcast failed",
			slog.String("event", event), slog.Any("error", err))
	}
}
