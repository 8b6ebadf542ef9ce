package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hackdays-io/hackathon-system/events"
	"github.com/hackdays-io/hackathon-system/middleware"
)

const socketTokenTTL = time.Hour

// EventsHandler выдаёт краткоживущие токены для websocket-зеркала
// и апгрейдит соединения в хаб.
type EventsHandler struct {
	hub      *events.Hub
	secret   []byte
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewEventsHandler(hub *events.Hub, secret string, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		secret: []byte(secret),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Broadcast-канал доступен любому авторизованному клиенту,
			// происхождение страницы не проверяем.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetToken выдаёт подписанный токен аутентифицированному участнику.
// Токен предъявляется в query-параметре при открытии websocket.
func (h *EventsHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	creds, err := middleware.GetCredentialsFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   creds.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(socketTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	doc := map[string]interface{}{
		"meta": map[string]string{"token": signed},
	}
	if err := writeJSON(w, http.StatusOK, doc); err != nil {
		serverErrorResponse(w, err)
	}
}

// ServeWS проверяет токен и подключает клиента к хабу.
func (h *EventsHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		errorResponse(w, http.StatusForbidden, "missing token")
		return
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil || !token.Valid {
		errorResponse(w, http.StatusForbidden, "invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &events.Client{
		ID:   uuid.NewString(),
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.hub.Register(client)

	h.logger.Info("websocket client connected",
		slog.String("client_id", client.ID),
		slog.String("subject", claims.Subject))

	go client.WritePump()
	go client.ReadPump()
}
