// Package handlers exposes the HTTP API. Handlers bind and validate request
// payloads, call into the service layer, and translate service errors into
// HTTP status codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billfold/billfold/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: message})
}

func conflict(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, errorResponse{Error: message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// serviceError maps the service error taxonomy onto HTTP status codes.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return badRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		return conflict(c, err.Error())
	default:
		return serverError(c)
	}
}
