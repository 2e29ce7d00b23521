package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/billfold/billfold/internal/auth"
)

const (
	// UserIDKey is the echo context key for the authenticated user ID.
	UserIDKey = "user_id"
	// EmailKey is the echo context key for the authenticated user's email.
	EmailKey = "email"
)

// GetUserID extracts the authenticated user ID from the echo context.
// Returns empty string if not found.
func GetUserID(c echo.Context) string {
	userID, _ := c.Get(UserIDKey).(string)
	return userID
}

// GetEmail extracts the authenticated user's email from the echo context.
// Returns empty string if not found.
func GetEmail(c echo.Context) string {
	email, _ := c.Get(EmailKey).(string)
	return email
}

// RequireAuth returns a middleware that validates JWT tokens and requires
// authentication. It extracts the token from the Authorization header,
// validates it, and stores the user ID and email on the request context.
func RequireAuth(jwtManager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			}

			claims, err := jwtManager.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(EmailKey, claims.Email)
			return next(c)
		}
	}
}
