package middleware

import (
	"time"

	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// FlashAccessUnauthorized is the uniform message shown whether a request was
// anonymous or acted on a resource it does not own. The two cases are
// deliberately indistinguishable.
const FlashAccessUnauthorized = "Access unauthorized."

// SetSessionCookie writes the opaque session key cookie.
func SetSessionCookie(c *fiber.Ctx, key string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    key,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// EnsureSession returns the request's session key, allocating an anonymous
// session (and setting its cookie) when none exists. Used so flash messages
// can reach visitors who are not logged in.
func EnsureSession(c *fiber.Ctx, store *session.Store, ttl time.Duration) (string, error) {
	if key, ok := c.Locals("sessionKey").(string); ok && key != "" {
		return key, nil
	}
	key, err := store.Create(c.Context(), session.AnonymousUserID)
	if err != nil {
		return "", err
	}
	SetSessionCookie(c, key, ttl)
	c.Locals("sessionKey", key)
	return key, nil
}

// SessionLoader resolves the session cookie, if any, and exposes the session
// key and authenticated user ID via Locals. It never blocks a request.
func SessionLoader(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Cookies(session.CookieName)
		if key == "" {
			return c.Next()
		}
		uid, ok, err := store.UserID(c.Context(), key)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "session lookup failed", "error", err)
			return c.Next()
		}
		if !ok {
			// stale cookie
			ClearSessionCookie(c)
			return c.Next()
		}
		c.Locals("sessionKey", key)
		if uid != session.AnonymousUserID {
			c.Locals("userID", uid)
		}
		return c.Next()
	}
}

// SessionRequired short-circuits anonymous requests with a redirect to the
// landing page and an "Access unauthorized." flash. Must run after
// SessionLoader.
func SessionRequired(store *session.Store, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userID").(uint); ok {
			return c.Next()
		}
		key, err := EnsureSession(c, store, ttl)
		if err == nil {
			if flashErr := store.AddFlash(c.Context(), key, FlashAccessUnauthorized); flashErr != nil {
				Logger.WarnContext(c.UserContext(), "flash write failed", "error", flashErr)
			}
		}
		return c.Redirect("/", fiber.StatusFound)
	}
}
