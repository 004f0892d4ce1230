package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/freelancehub/backend/internal/realtime"
	"github.com/freelancehub/backend/internal/utils"
)

// WatchHandler upgrades authenticated clients onto the project-events
// feed. Auth comes from a query param because browsers cannot set headers
// on websocket dials.
type WatchHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
}

func NewWatchHandler(hub *realtime.Hub, jwtSecret string) *WatchHandler {
	return &WatchHandler{Hub: hub, JWTSecret: jwtSecret}
}

func (h *WatchHandler) Upgrade() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *WatchHandler) serve(conn *websocket.Conn) {
	defer conn.Close()

	tokenStr := conn.Query("token")
	if tokenStr == "" {
		return
	}

	token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return
	}

	claims, ok := token.Claims.(*utils.Claims)
	if !ok {
		return
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return
	}

	realtime.ServeClient(h.Hub, conn, uid)
}
