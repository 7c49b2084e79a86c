// Package middleware authenticates requests and puts the caller's Actor on
// the echo context.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (models.Actor, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

// Auth rejects requests without a valid bearer token.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			actor, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				log := logger.Ctx(c.Request().Context())
				log.Debug().Err(err).Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			SetActor(c, actor)
			return next(c)
		}
	}
}

func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
	ctx := c.Request().Context()
	log := logger.Ctx(ctx).With().Str(logger.FieldUserID, actor.UserID).Logger()
	c.SetRequest(c.Request().WithContext(logger.WithLogger(ctx, log)))
}

// ActorFromContext returns the Actor set by Auth.
func ActorFromContext(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	return actor, ok && actor.UserID != ""
}
