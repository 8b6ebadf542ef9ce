package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Клиент внешнего каталога идентичностей (Slack Web API). Используется
// auth-middleware для разрешения не-email имён пользователей в записи
// attendees.

var ErrIdentityNotFound = errors.New("identity not found in directory")

// Identity: внешний id и email, по которому заведён attendee.
type Identity struct {
	ID    string
	Email string
}

type Lookup interface {
	// LookupUser ищет пользователя каталога по имени.
	LookupUser(ctx context.Context, username string) (*Identity, error)
}

type SlackConfig struct {
	Token   string
	BaseURL string // по умолчанию https://slack.com/api
}

type slackClient struct {
	token   string
	baseURL string
	http    *http.Client
}

func NewSlackClient(cfg SlackConfig) Lookup {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://slack.com/api"
	}
	return &slackClient{
		token:   cfg.Token,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type slackUsersListResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Members []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Profile struct {
			Email string `json:"email"`
		} `json:"profile"`
	} `json:"members"`
}

func (c *slackClient) LookupUser(ctx context.Context, username string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users.list", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var payload slackUsersListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}
	if !payload.OK {
		return nil, fmt.Errorf("directory error: %s", payload.Error)
	}

	for _, member := range payload.Members {
		if member.Name == username {
			return &Identity{ID: member.ID, Email: member.Profile.Email}, nil
		}
	}
	return nil, ErrIdentityNotFound
}
