package events

import "context"

// Broadcaster рассылает уведомления об изменениях состояния во внешний
// pub/sub-канал. Доставка fire-and-forget, at-most-once: сбои логируются
// реализацией и никогда не поднимаются к вызывающему коду.
type Broadcaster interface {
	Trigger(ctx context.Context, event string, data map[string]interface{})
}

// NopBroadcaster используется, когда внешний канал не сконфигурирован
// и в тестах, где доставка не проверяется.
type NopBroadcaster struct{}

func (NopBroadcaster) Trigger(context.Context, string, map[string]interface{}) {}
