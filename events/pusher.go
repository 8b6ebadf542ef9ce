package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Пустой URL означает, что внешний канал не сконфигурирован и события
// наружу не уходят.
type PusherConfig struct {
	URL     string
	Channel string
}

// PusherClient выполняет trigger-вызов внешнего pub/sub-сервиса: один
// POST с именем события, каналом и полезной нагрузкой.
type PusherClient struct {
	url     string
	channel string
	http    *http.Client
}

func NewPusherClient(cfg PusherConfig) *PusherClient {
	channel := cfg.Channel
	if channel == "" {
		channel = "hackathon"
	}
	return &PusherClient{
		url:     cfg.URL,
		channel: channel,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type triggerRequest struct {
	Name    string                 `json:"name"`
	Channel string                 `json:"channel"`
	Data    map[string]interface{} `json:"data"`
}

func (c *PusherClient) Trigger(ctx context.Context, event string, data map[string]interface{}) error {
	body, err := json.Marshal(triggerRequest{Name: event, Channel: c.channel, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("trigger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("trigger returned status %d", resp.StatusCode)
	}
	return nil
}
