package handler

import (
	"errors"
	"log"
	"strings"

	"github.com/Integral-X/meditrack-backend/internal/auth/dto"
	"github.com/Integral-X/meditrack-backend/internal/auth/service"
	autherror "github.com/Integral-X/meditrack-backend/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
	tokens      service.TokenGenerator
}

func NewAuthHandler(authService *service.AuthService, tokens service.TokenGenerator) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// Login validates credentials and returns a fresh token pair. Every
// credential failure is the same generic 401.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.authService.ValidateUser(c.UserContext(), input.Email, input.Password)
	if err != nil {
		log.Printf("auth: credential lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	if user == nil {
		log.Printf("auth: %v", autherror.ErrInvalidCredentials)
		return unauthorized(c)
	}

	tokenPair, err := h.authService.Login(c.UserContext(), user)
	if err != nil {
		log.Printf("auth: login failed for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

// Refresh rotates a refresh token for a new pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokens, err := h.authService.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidRefreshToken) {
			return unauthorized(c)
		}
		log.Printf("auth: refresh failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// Logout revokes the caller's refresh token. Requires RequireAuth.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*service.JWTCustomClaims)
	if !ok {
		return unauthorized(c)
	}

	if err := h.authService.Logout(c.UserContext(), claims.Subject); err != nil {
		log.Printf("auth: logout failed for user %s: %v", claims.Subject, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RequireAuth verifies the bearer access token and stores its claims in the
// request locals.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		const prefix = "Bearer "

		header := c.Get("Authorization")
		if !strings.HasPrefix(header, prefix) {
			return unauthorized(c)
		}

		claims, err := h.tokens.VerifyAccessToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			log.Printf("auth: %v: %v", autherror.ErrInvalidAccessToken, err)
			return unauthorized(c)
		}

		c.Locals("claims", claims)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "unauthorized",
	})
}
