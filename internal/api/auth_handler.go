package api

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"spendbook.com/internal/domain"
)

// AuthHandler handles registration, the session lifecycle and profiles.
type AuthHandler struct {
	authSvc  domain.AuthService
	tokenSvc domain.TokenService
}

func NewAuthHandler(authSvc domain.AuthService, tokenSvc domain.TokenService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, tokenSvc: tokenSvc}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Register creates a new account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.authSvc.Register(context.Background(), domain.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully."})
}

// Login verifies credentials and returns the token pair together with the
// public profile.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, pair, err := h.authSvc.Login(context.Background(), req.Username, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"refresh": pair.Refresh,
		"access":  pair.Access,
		"msg":     "User logged in successfully.",
		"user":    user.Profile(),
	})
}

// Logout blacklists the presented refresh token and deactivates the caller.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.authSvc.Logout(context.Background(), user.ID, req.RefreshToken); err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusResetContent).JSON(fiber.Map{"msg": "User logged out successfully."})
}

// GetProfile returns the caller's public profile.
// GET /api/v1/auth/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	profile, err := h.authSvc.GetProfile(context.Background(), user.ID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(profile.Profile())
}

// UpdateProfile changes first/last name; id, username and email stay
// server-controlled and are ignored on input.
// PUT/PATCH /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.authSvc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(updated.Profile())
}

// RefreshToken exchanges a refresh token for a new access token.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Refresh) == "" {
		return handleError(c, domain.NewValidationError("refresh", "This field is required."))
	}

	access, err := h.tokenSvc.Refresh(context.Background(), req.Refresh)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"access": access})
}
