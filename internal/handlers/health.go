package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the health probe payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports service liveness.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
