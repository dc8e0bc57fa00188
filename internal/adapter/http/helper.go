package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"coop-lending/internal/adapter/middleware"
	"coop-lending/internal/domain/shared"
	"coop-lending/pkg/id"
)

func actorID(c echo.Context) string {
	return strings.ToLower(strings.TrimSpace(c.Request().Header.Get(middleware.HeaderActorID)))
}

// requireActor writes a 400 and returns false when the actor header is missing or malformed.
func requireActor(c echo.Context) (string, bool, error) {
	actor := actorID(c)
	if actor == "" {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + middleware.HeaderActorID})
	}
	if !id.Valid32(actor) {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + middleware.HeaderActorID})
	}
	return actor, true, nil
}

// decode binds and validates req. When ok is false the 400/422 response
// has already been written and err is what the handler should return.
func decode(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// fail maps usecase errors to HTTP codes. Unknown errors are logged and hidden.
func fail(c echo.Context, log *zap.Logger, err error) error {
	switch shared.KindOf(err) {
	case shared.KindNotFound:
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case shared.KindInvalid:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case shared.KindForbidden:
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
