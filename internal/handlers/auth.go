package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/middleware"
	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// AuthHandler serves registration, login, and the current-user endpoint.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
	}
}

// RegisterRequest carries a new account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUser is the user shape returned by auth endpoints.
type AuthUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// AuthResponse carries a token and the user it belongs to.
type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

func toAuthUser(user *models.User) AuthUser {
	return AuthUser{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// Register creates an account and issues a token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.authenticator.Register(c.Request().Context(), email, strings.TrimSpace(req.DisplayName), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return conflict(c, err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			return badRequest(c, err.Error())
		default:
			return serverError(c)
		}
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toAuthUser(user)})
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.authenticator.Authenticate(c.Request().Context(), email, req.Password)
	if err != nil {
		return unauthorized(c)
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: toAuthUser(user)})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	user, err := h.users.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c, "user not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toAuthUser(user))
}
