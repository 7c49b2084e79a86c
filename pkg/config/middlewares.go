package config

import (
	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware installs the request logger, panic recovery and CORS.
func SetupMiddleware(e *echo.Echo, cfg *Config) {
	e.Use(logger.EchoMiddleware(logger.L()))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
}
