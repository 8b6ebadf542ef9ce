package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/hackathon-system/directory"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
)

type fakeAttendeeRepo struct {
	attendees map[string]*models.Attendee // по id (email)

	cachedSlackIDs map[string]string // id → slackid, записанные UpdateSlackID
	updateErr      error
}

func newFakeAttendeeRepo(attendees ...*models.Attendee) *fakeAttendeeRepo {
	repo := &fakeAttendeeRepo{
		attendees:      make(map[string]*models.Attendee),
		cachedSlackIDs: make(map[string]string),
	}
	for _, a := range attendees {
		copied := *a
		repo.attendees[a.ID] = &copied
	}
	return repo
}

func (r *fakeAttendeeRepo) Create(ctx context.Context, attendee *models.Attendee) error {
	if _, ok := r.attendees[attendee.ID]; ok {
		return repositories.ErrAttendeeConflict
	}
	copied := *attendee
	r.attendees[attendee.ID] = &copied
	return nil
}

func (r *fakeAttendeeRepo) GetByID(ctx context.Context, id string) (*models.Attendee, error) {
	attendee, ok := r.attendees[id]
	if !ok {
		return nil, repositories.ErrAttendeeNotFound
	}
	copied := *attendee
	return &copied, nil
}

func (r *fakeAttendeeRepo) GetBySlackID(ctx context.Context, slackID string) (*models.Attendee, error) {
	for _, attendee := range r.attendees {
		if attendee.SlackID != nil && *attendee.SlackID == slackID {
			copied := *attendee
			return &copied, nil
		}
	}
	return nil, repositories.ErrAttendeeNotFound
}

func (r *fakeAttendeeRepo) List(ctx context.Context) ([]models.Attendee, error) {
	var out []models.Attendee
	for _, attendee := range r.attendees {
		out = append(out, *attendee)
	}
	return out, nil
}

func (r *fakeAttendeeRepo) UpdateSlackID(ctx context.Context, id, slackID string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	attendee, ok := r.attendees[id]
	if !ok {
		return repositories.ErrAttendeeNotFound
	}
	attendee.SlackID = &slackID
	r.cachedSlackIDs[id] = slackID
	return nil
}

func (r *fakeAttendeeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.attendees[id]; !ok {
		return repositories.ErrAttendeeNotFound
	}
	delete(r.attendees, id)
	return nil
}

func (r *fakeAttendeeRepo) Count(ctx context.Context) (int, error) {
	return len(r.attendees), nil
}

type fakeDirectory struct {
	identities map[string]directory.Identity // по имени
	calls      int
}

func (d *fakeDirectory) LookupUser(ctx context.Context, name string) (*directory.Identity, error) {
	d.calls++
	identity, ok := d.identities[name]
	if !ok {
		return nil, directory.ErrIdentityNotFound
	}
	return &identity, nil
}

type capturedRequest struct {
	called bool
	creds  *Credentials
}

func captureHandler(captured *capturedRequest) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.called = true
		captured.creds, _ = GetCredentialsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func basicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func newTestAuth(attendees repositories.AttendeeRepository, dir directory.Lookup) *Auth {
	return NewAuth(AuthConfig{
		AdminUser:       "admin",
		AdminPassword:   "admin-secret",
		ServicePassword: "service-secret",
	}, attendees, dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAuthMissingHeader(t *testing.T) {
	auth := newTestAuth(newFakeAttendeeRepo(), nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Basic realm=")
	assert.Equal(t, models.ContentType, rr.Header().Get("Content-Type"))
	assert.False(t, captured.called)
}

func TestAuthWrongScheme(t *testing.T) {
	auth := newTestAuth(newFakeAttendeeRepo(), nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, captured.called)
}

func TestAuthMalformedBase64(t *testing.T) {
	auth := newTestAuth(newFakeAttendeeRepo(), nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", "Basic %%%not-base64%%%")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, captured.called)
}

func TestAuthPayloadWithoutColon(t *testing.T) {
	auth := newTestAuth(newFakeAttendeeRepo(), nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("no-colon-here")))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, captured.called)
}

func TestRequireAdminAcceptsExactMatch(t *testing.T) {
	auth := newTestAuth(newFakeAttendeeRepo(), nil)
	captured := &capturedRequest{}
	handler := auth.RequireAdmin(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/challenges", nil)
	req.Header.Set("Authorization", basicAuthHeader("admin", "admin-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.True(t, captured.called)
	require.NotNil(t, captured.creds)
	assert.Equal(t, RoleAdmin, captured.creds.Role)
	assert.Equal(t, "admin", captured.creds.Username)
	assert.Nil(t, captured.creds.Attendee)
}

func TestRequireAdminRejectsAttendeeCredentials(t *testing.T) {
	repo := newFakeAttendeeRepo(&models.Attendee{ID: "adam@example.com"})
	auth := newTestAuth(repo, nil)
	captured := &capturedRequest{}
	handler := auth.RequireAdmin(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/challenges", nil)
	req.Header.Set("Authorization", basicAuthHeader("adam@example.com", "service-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, captured.called)
}

func TestRequireAttendeeAcceptsAdmin(t *testing.T) {
	auth := newTestAuth(newFakeAttendeeRepo(), nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("admin", "admin-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured.creds)
	assert.Equal(t, RoleAdmin, captured.creds.Role)
}

func TestRequireAttendeeWrongServicePassword(t *testing.T) {
	repo := newFakeAttendeeRepo(&models.Attendee{ID: "adam@example.com"})
	auth := newTestAuth(repo, nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("adam@example.com", "wrong"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, captured.called)
}

func TestRequireAttendeeResolvesByEmail(t *testing.T) {
	repo := newFakeAttendeeRepo(&models.Attendee{ID: "adam@example.com"})
	auth := newTestAuth(repo, nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("adam@example.com", "service-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured.creds)
	assert.Equal(t, RoleAttendee, captured.creds.Role)
	require.NotNil(t, captured.creds.Attendee)
	assert.Equal(t, "adam@example.com", captured.creds.Attendee.ID)
}

func TestRequireAttendeeResolvesByCachedSlackID(t *testing.T) {
	slackID := "U123"
	repo := newFakeAttendeeRepo(&models.Attendee{ID: "adam@example.com", SlackID: &slackID})
	dir := &fakeDirectory{}
	auth := newTestAuth(repo, dir)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("U123", "service-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured.creds)
	assert.Equal(t, "adam@example.com", captured.creds.Attendee.ID)
	// Кэш уже тёплый, каталог не опрашивался.
	assert.Equal(t, 0, dir.calls)
}

func TestRequireAttendeeLiveLookupBackfillsCache(t *testing.T) {
	repo := newFakeAttendeeRepo(&models.Attendee{ID: "adam@example.com"})
	dir := &fakeDirectory{identities: map[string]directory.Identity{
		"adam.display": {ID: "U123", Email: "adam@example.com"},
	}}
	auth := newTestAuth(repo, dir)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("adam.display", "service-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, dir.calls)
	assert.Equal(t, "adam.display", repo.cachedSlackIDs["adam@example.com"])

	// Повторный запрос обслуживается из кэша.
	req = httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("adam.display", "service-secret"))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, dir.calls)
}

func TestRequireAttendeeCacheWriteFailureStillAuthenticates(t *testing.T) {
	repo := newFakeAttendeeRepo(&models.Attendee{ID: "adam@example.com"})
	repo.updateErr = errors.New("write failed")
	dir := &fakeDirectory{identities: map[string]directory.Identity{
		"adam.display": {ID: "U123", Email: "adam@example.com"},
	}}
	auth := newTestAuth(repo, dir)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("adam.display", "service-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAttendeeUnknownNameWithoutDirectory(t *testing.T) {
	repo := newFakeAttendeeRepo()
	auth := newTestAuth(repo, nil)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("stranger", "service-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, captured.called)
}

func TestRequireAttendeeDirectoryMiss(t *testing.T) {
	repo := newFakeAttendeeRepo()
	dir := &fakeDirectory{}
	auth := newTestAuth(repo, dir)
	captured := &capturedRequest{}
	handler := auth.RequireAttendee(captureHandler(captured))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Header.Set("Authorization", basicAuthHeader("stranger", "service-secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 1, dir.calls)
}
