package server

import (
	"errors"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignupRequest is the signup form body.
type SignupRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	ImageURL string `json:"image_url" form:"image_url"`
}

// LoginRequest is the login form body.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Signup creates an account and logs the new user in. A taken username or
// email flashes "Username already taken" and sends the visitor back to the
// signup form.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return s.redirectWithFlash(c, "/signup", "Invalid form submission")
	}

	user, err := s.authService.Signup(c.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return s.redirectWithFlash(c, "/signup", "Username already taken")
		}
		if appMsg := flashableMessage(err); appMsg != "" {
			return s.redirectWithFlash(c, "/signup", appMsg)
		}
		return respondServiceError(c, err)
	}

	if err := s.startSession(c, user.ID); err != nil {
		return respondServiceError(c, err)
	}
	observability.SignupsTotal.Inc()

	middleware.Logger.InfoContext(c.UserContext(), "user signed up",
		"user_id", user.ID, "username", user.Username)
	return c.Redirect("/", fiber.StatusFound)
}

// Login verifies credentials and sets the session cookie. Unknown usernames
// and wrong passwords both flash "Invalid credentials".
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.redirectWithFlash(c, "/login", "Invalid form submission")
	}

	user, err := s.authService.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		if models.IsCode(err, models.CodeUnauthorized) {
			observability.LoginAttempts.WithLabelValues("failure").Inc()
			return s.redirectWithFlash(c, "/login", service.FlashInvalidCredentials)
		}
		return respondServiceError(c, err)
	}

	if err := s.startSession(c, user.ID); err != nil {
		return respondServiceError(c, err)
	}
	observability.LoginAttempts.WithLabelValues("success").Inc()

	return s.redirectWithFlash(c, "/", "Hello, "+user.Username+"!")
}

// Logout destroys the session and clears the cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	if key, ok := c.Locals("sessionKey").(string); ok && key != "" {
		if err := s.sessions.Destroy(c.Context(), key); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session destroy failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(c)
	c.Locals("sessionKey", nil)
	c.Locals("userID", nil)

	return s.redirectWithFlash(c, "/login", "You have successfully logged out.")
}

// startSession replaces any existing session with a fresh authenticated one.
func (s *Server) startSession(c *fiber.Ctx, userID uint) error {
	if old, ok := c.Locals("sessionKey").(string); ok && old != "" {
		// drop the anonymous session, its flashes are superseded
		if err := s.sessions.Destroy(c.Context(), old); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "stale session cleanup failed", "error", err)
		}
	}
	key, err := s.sessions.Create(c.Context(), userID)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, key, s.sessionTTL())
	c.Locals("sessionKey", key)
	c.Locals("userID", userID)
	return nil
}

// flashableMessage returns the user-facing text for validation failures, or
// "" when the error should not be flashed.
func flashableMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		return appErr.Message
	}
	return ""
}
