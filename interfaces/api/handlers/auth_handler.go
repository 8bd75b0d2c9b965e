package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"travelkeep/domain/dto"
	"travelkeep/domain/services"
	"travelkeep/pkg/config"
	"travelkeep/pkg/logger"
	"travelkeep/pkg/utils"
)

type AuthHandler struct {
	authService services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// GoogleLogin redirects to Google OAuth
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state, err := generateState()
	if err != nil {
		logger.AuthError("login_state", "Failed to generate state", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate state", err)
	}

	// State cookie backs the CSRF check on callback.
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	// Where the frontend wants to land after login.
	redirectURL := c.Query("redirect", "/")
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_redirect",
		Value:    redirectURL,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	logger.Auth("login_redirect", "Redirecting to Google OAuth", map[string]interface{}{
		"ip": c.IP(),
	})

	return c.Redirect(h.authService.GetGoogleAuthURL(state))
}

// GoogleCallback handles the OAuth callback from Google
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	storedState := c.Cookies("oauth_state")

	if state == "" || state != storedState {
		logger.AuthError("callback_state", "Invalid state parameter", nil, map[string]interface{}{
			"state_match": state == storedState,
		})
		return c.Redirect(h.frontendRedirect("/?error=invalid_state"))
	}

	clearCookie(c, "oauth_state")

	if errMsg := c.Query("error"); errMsg != "" {
		logger.AuthError("callback_denied", "Google returned error", nil, map[string]interface{}{
			"google_error": errMsg,
		})
		return c.Redirect(h.frontendRedirect("/?error=" + errMsg))
	}

	code := c.Query("code")
	if code == "" {
		logger.AuthError("callback_code", "Missing authorization code", nil, nil)
		return c.Redirect(h.frontendRedirect("/?error=missing_code"))
	}

	token, user, err := h.authService.HandleGoogleCallback(c.Context(), code)
	if err != nil {
		logger.AuthError("callback_exchange", "Failed to exchange code", err, nil)
		return c.Redirect(h.frontendRedirect("/?error=auth_failed"))
	}

	logger.Auth("callback_success", "User authenticated", map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})

	redirectURL := c.Cookies("oauth_redirect", "/")
	clearCookie(c, "oauth_redirect")

	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	// SPA callback route picks the token out of the query.
	frontendURL := fmt.Sprintf("%s/auth/callback?token=%s&redirect=%s", h.cfg.App.FrontendURL, token, redirectURL)
	return c.Redirect(frontendURL)
}

// GetCurrentUser returns the current authenticated user
func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	if _, err := utils.GetUserFromContext(c); err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
	user, err := h.authService.GetCurrentUser(c.Context(), token)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get user", err)
	}

	return utils.SuccessResponse(c, "User retrieved successfully", dto.UserToUserResponse(user))
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearCookie(c, "auth_token")
	return utils.SuccessResponse(c, "Logged out successfully", nil)
}

func (h *AuthHandler) frontendRedirect(path string) string {
	return h.cfg.App.FrontendURL + path
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
