package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/middleware"
	"github.com/travo-app/travo-server/internal/realtime"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth is the JWT in the query string, not the Origin header.
		return true
	},
}

// WSHandler upgrades authenticated clients to a live notification stream.
type WSHandler struct {
	registry  *realtime.Registry
	jwtSecret string
	log       *zap.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(registry *realtime.Registry, jwtSecret string, log *zap.Logger) *WSHandler {
	return &WSHandler{
		registry:  registry,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

// RegisterWSRoutes registers the WebSocket endpoint
func (h *WSHandler) RegisterWSRoutes(e *echo.Echo) {
	e.GET("/ws", h.HandleConnection)
}

// RegisterSessionRoutes registers authenticated session routes
func (h *WSHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/signout", h.Signout)
}

// Signout unconditionally drops any live connection the caller has, so an
// abandoned token stops receiving pushes immediately instead of waiting for
// its socket to die. Clients call it when the user signs out.
func (h *WSHandler) Signout(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	h.registry.UnregisterAll(currentUserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Signed out"})
}

// HandleConnection authenticates the token query parameter, upgrades to a
// WebSocket, and registers the connection for pushes. The server never reads
// application data from the client; the read loop exists only to detect
// disconnects. Authentication failures are rejected before the upgrade, so
// the client sees a plain 401, not a WebSocket close frame.
func (h *WSHandler) HandleConnection(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		return nil
	}

	registered := h.registry.Register(claims.UserID, conn)
	defer func() {
		h.registry.Unregister(claims.UserID, registered)
		conn.Close()
	}()

	h.log.Info("live connection opened", zap.Uint("user_id", claims.UserID))

	if err := h.registry.Push(claims.UserID, realtime.Event{
		Event: "connected",
		Data:  echo.Map{"message": "Connected to Travo notifications"},
	}); err != nil {
		h.log.Warn("handshake frame failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil
	}

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.log.Info("live connection closed", zap.Uint("user_id", claims.UserID))
	return nil
}
