package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hackdays-io/hackathon-system/directory"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
	"github.com/hackdays-io/hackathon-system/utils"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAttendee Role = "attendee"
)

// Credentials кладутся в контекст запроса после успешной аутентификации.
type Credentials struct {
	Role     Role
	Username string
	Attendee *models.Attendee // nil для админа
}

// AuthConfig собирается явно при композиции приложения, а не читается
// из глобального окружения.
type AuthConfig struct {
	AdminUser       string
	AdminPassword   string
	ServicePassword string
	Realm           string
}

type Auth struct {
	cfg       AuthConfig
	attendees repositories.AttendeeRepository
	directory directory.Lookup // nil, когда внешний каталог не настроен
	logger    *slog.Logger
}

func NewAuth(cfg AuthConfig, attendees repositories.AttendeeRepository, dir directory.Lookup, logger *slog.Logger) *Auth {
	if cfg.Realm == "" {
		cfg.Realm = "hackathon"
	}
	return &Auth{cfg: cfg, attendees: attendees, directory: dir, logger: logger}
}

// RequireAdmin пропускает только точное совпадение с настроенной
// админ-учёткой; никаких внешних запросов.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := a.parseBasic(w, r)
		if !ok {
			return
		}

		if !a.isAdmin(username, password) {
			a.forbidden(w)
			return
		}

		creds := &Credentials{Role: RoleAdmin, Username: username}
		next.ServeHTTP(w, r.WithContext(withCredentials(r.Context(), creds)))
	})
}

// RequireAttendee принимает админ-учётку либо сервисный пароль с именем,
// разрешимым в attendee: напрямую по email, по кэшированному slackid или
// через живой поиск в каталоге с дозаписью кэша.
func (a *Auth) RequireAttendee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := a.parseBasic(w, r)
		if !ok {
			return
		}

		if a.isAdmin(username, password) {
			creds := &Credentials{Role: RoleAdmin, Username: username}
			next.ServeHTTP(w, r.WithContext(withCredentials(r.Context(), creds)))
			return
		}

		if !utils.CheckSecret(password, a.cfg.ServicePassword) {
			a.forbidden(w)
			return
		}

		attendee, err := a.resolveAttendee(r.Context(), username)
		if err != nil {
			a.logger.Info("attendee resolution failed",
				slog.String("username", username), slog.Any("error", err))
			a.forbidden(w)
			return
		}

		creds := &Credentials{Role: RoleAttendee, Username: username, Attendee: attendee}
		next.ServeHTTP(w, r.WithContext(withCredentials(r.Context(), creds)))
	})
}

func (a *Auth) isAdmin(username, password string) bool {
	return username == a.cfg.AdminUser && utils.CheckSecret(password, a.cfg.AdminPassword)
}

func (a *Auth) resolveAttendee(ctx context.Context, username string) (*models.Attendee, error) {
	// Email-подобное имя сверяется с attendeeid напрямую.
	if strings.Contains(username, "@") {
		return a.attendees.GetByID(ctx, username)
	}

	attendee, err := a.attendees.GetBySlackID(ctx, username)
	if err == nil {
		return attendee, nil
	}
	if !errors.Is(err, repositories.ErrAttendeeNotFound) {
		return nil, err
	}

	if a.directory == nil {
		return nil, repositories.ErrAttendeeNotFound
	}

	identity, err := a.directory.LookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	attendee, err = a.attendees.GetByID(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	// Кэш дозаписывается на первом успешном поиске; дальше запросы с этим
	// именем минуют каталог. Сбой записи не валит аутентификацию.
	if updErr := a.attendees.UpdateSlackID(ctx, attendee.ID, username); updErr != nil {
		a.logger.Warn("failed to cache slack identity",
			slog.String("attendee_id", attendee.ID), slog.Any("error", updErr))
	} else {
		attendee.SlackID = &username
	}
	return attendee, nil
}

// parseBasic разбирает заголовок Authorization. Несовпадение схемы даёт
// 401, структурно битый payload (не base64 или без двоеточия) даёт 400.
func (a *Auth) parseBasic(w http.ResponseWriter, r *http.Request) (username, password string, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		w.Header().Set("WWW-Authenticate", `Basic realm="`+a.cfg.Realm+`"`)
		a.writeError(w, http.StatusUnauthorized, "credentials are required")
		return "", "", false
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Basic" {
		a.writeError(w, http.StatusUnauthorized, "authorization scheme must be Basic")
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "credentials payload is not valid base64")
		return "", "", false
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		a.writeError(w, http.StatusBadRequest, "credentials payload must contain a colon")
		return "", "", false
	}

	return username, password, true
}

func (a *Auth) forbidden(w http.ResponseWriter) {
	a.writeError(w, http.StatusForbidden, "credentials are not valid for this resource")
}

func (a *Auth) writeError(w http.ResponseWriter, status int, detail string) {
	doc := models.ErrorDocument{
		Errors: []models.ErrorObject{{
			Status: strconv.Itoa(status),
			Title:  http.StatusText(status),
			Detail: detail,
		}},
	}
	w.Header().Set("Content-Type", models.ContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		a.logger.Error("failed to write auth error response", slog.Any("error", err))
	}
}
