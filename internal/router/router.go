// Package router wires services, listeners and handlers into echo.
package router

import (
	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/handlers"
	"github.com/anonto42/nano-midea/engagement/internal/middleware"
	"github.com/anonto42/nano-midea/engagement/internal/realtime"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
	"github.com/anonto42/nano-midea/engagement/internal/services"
	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"github.com/anonto42/nano-midea/engagement/validators"
	"github.com/labstack/echo/v4"
)

// Deps are the process-wide collaborators the routes are built from.
type Deps struct {
	Store *repositories.Store
	Bus   *events.Bus
	Hub   *realtime.Hub
	// Deliverer carries realtime messages. It is the Hub itself on a single
	// instance and a RedisRelay when several instances share users.
	Deliverer      realtime.Deliverer
	Verifier       middleware.TokenVerifier
	Limits         services.PageLimits
	AllowedOrigins []string
	Health         handlers.Pinger
}

// SetupRoutes builds the services, subscribes the notification pipeline and
// the realtime fanout to the bus, and registers every route.
func SetupRoutes(e *echo.Echo, deps Deps) {
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	deliverer := deps.Deliverer
	if deliverer == nil {
		deliverer = deps.Hub
	}

	// --- Services ---
	followService := services.NewFollowService(deps.Store, deps.Bus, deps.Limits)
	likeService := services.NewLikeService(deps.Store, services.DefaultResourceRegistry(deps.Store), deps.Bus)
	commentService := services.NewCommentService(deps.Store, deps.Bus)
	bookmarkService := services.NewBookmarkService(deps.Store)
	notificationService := services.NewNotificationService(deps.Store, deps.Bus, deps.Limits)

	// --- Listeners ---
	notificationService.Subscribe(deps.Bus)
	realtime.NewFanout(deliverer).Subscribe(deps.Bus)

	e.GET("/health", handlers.HealthCheck(deps.Health))
	e.GET("/ws", handlers.NewWebSocketHandler(deps.Hub, deps.Verifier, deps.AllowedOrigins).Serve)

	api := e.Group("/api/v1")
	api.Use(middleware.Auth(deps.Verifier))

	handlers.NewFollowHandler(followService).RegisterFollowRoutes(api)
	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewSavedPostHandler(bookmarkService).RegisterSavedPostRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)

	log := logger.L()
	log.Debug().Int("routes", len(e.Routes())).Msg("routes configured")
}
