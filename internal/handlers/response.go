package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-midea/engagement/internal/middleware"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"github.com/labstack/echo/v4"
)

func respond(c echo.Context, res models.Result) error {
	return c.JSON(res.StatusCode, res)
}

func currentActor(c echo.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return models.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return actor, nil
}

// bindAndValidate binds the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return c.Validate(req)
}

// pageParams reads page and limit from the query string. Missing or
// malformed values become zero and are normalized by the service.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

// ErrorHandler renders every error as the Result envelope with null data.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *models.AppError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = models.HTTPStatus(appErr)
		switch appErr.Code {
		case models.CodeInternal, models.CodeTransactionAborted:
			log := logger.Ctx(c.Request().Context())
			log.Error().Err(err).Str("code", appErr.Code).Msg("request failed")
		default:
			message = appErr.Message
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	default:
		log := logger.Ctx(c.Request().Context())
		log.Error().Err(err).Msg("unhandled error")
	}

	res := models.Result{StatusCode: status, Message: message, Data: nil}
	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, res)
	}
	if writeErr != nil {
		log := logger.Ctx(c.Request().Context())
		log.Warn().Err(writeErr).Msg("write error response")
	}
}
