package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-midea/engagement/internal/middleware"
	"github.com/anonto42/nano-midea/engagement/internal/realtime"
	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocketHandler binds authenticated connections to the caller's channel.
type WebSocketHandler struct {
	hub      *realtime.Hub
	verifier middleware.TokenVerifier
	upgrader websocket.Upgrader
}

// NewWebSocketHandler allows any origin when allowedOrigins is empty or
// contains "*".
func NewWebSocketHandler(hub *realtime.Hub, verifier middleware.TokenVerifier, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	_, allowAll := allowed["*"]

	return &WebSocketHandler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 || allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Serve verifies the token once, upgrades and starts the client pumps. The
// token comes from the "token" query parameter or the Authorization header.
func (h *WebSocketHandler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		var err error
		token, err = middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
		}
	}

	ctx := c.Request().Context()
	actor, err := h.verifier.Verify(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	// Reject early so the caller gets a status instead of a closed socket.
	if err := h.hub.CanRegister(actor.UserID); err != nil {
		return connLimitError(err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log := logger.Ctx(ctx)
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	client, err := h.hub.Register(actor.UserID, conn)
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		_ = conn.Close()
		return nil
	}

	log := logger.Ctx(ctx)
	log.Info().Str(logger.FieldUserID, actor.UserID).Msg("websocket connected")
	go client.WritePump()
	go client.ReadPump()
	return nil
}

func connLimitError(err error) error {
	switch {
	case errors.Is(err, realtime.ErrUserConnLimit), errors.Is(err, realtime.ErrServerConnLimit):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, realtime.ErrHubClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return err
	}
}
