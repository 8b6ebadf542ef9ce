package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/hackathon-system/events"
	"github.com/hackdays-io/hackathon-system/middleware"
)

const testSocketSecret = "test-socket-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEventsRouter(t *testing.T) (*chi.Mux, *events.Hub) {
	t.Helper()
	hub := events.NewHub(testLogger())
	go hub.Run()

	h := NewEventsHandler(hub, testSocketSecret, testLogger())
	auth := middleware.NewAuth(middleware.AuthConfig{
		AdminUser:       "admin",
		AdminPassword:   "admin-secret",
		ServicePassword: "service-secret",
	}, nil, nil, testLogger())

	router := chi.NewRouter()
	router.With(auth.RequireAttendee).Get("/events/token", h.GetToken)
	router.Get("/events/ws", h.ServeWS)
	return router, hub
}

func fetchSocketToken(t *testing.T, router *chi.Mux) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/events/token", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:admin-secret")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var doc struct {
		Meta struct {
			Token string `json:"token"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	require.NotEmpty(t, doc.Meta.Token)
	return doc.Meta.Token
}

func TestGetTokenIssuesSignedToken(t *testing.T) {
	router, _ := newEventsRouter(t)
	tokenString := fetchSocketToken(t, router)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSocketSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "admin", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestGetTokenRequiresCredentials(t *testing.T) {
	router, _ := newEventsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/events/token", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServeWSRejectsMissingToken(t *testing.T) {
	router, _ := newEventsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/events/ws", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestServeWSRejectsForgedToken(t *testing.T) {
	router, _ := newEventsRouter(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "intruder"})
	signed, err := forged.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/events/ws?token="+signed, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestServeWSDeliversBroadcasts(t *testing.T) {
	router, hub := newEventsRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	tokenString := fetchSocketToken(t, router)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/events/ws?token=" + tokenString
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Ждём регистрации клиента в хабе до рассылки.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, hub.ClientCount())

	hub.BroadcastEvent("teams_update_members_add", map[string]interface{}{
		"teamid": "rocket",
		"userid": "adam",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg events.Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "teams_update_members_add", msg.Name)
	assert.Equal(t, "rocket", msg.Data["teamid"])
}
