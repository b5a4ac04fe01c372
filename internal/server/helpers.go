package server

import (
	"errors"

	"warbler/internal/middleware"
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter as a positive uint. On failure it writes
// a 404 (the route named a resource that cannot exist) and returns
// errResponseWritten. Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, resource string) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(resource, c.Params("id")))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID. The second return is
// false for anonymous requests.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals("userID").(uint)
	return uid, ok
}

// mustUserID is for handlers behind SessionRequired, where a user is
// guaranteed.
func mustUserID(c *fiber.Ctx) uint {
	uid, _ := c.Locals("userID").(uint)
	return uid
}

// flash queues a one-time message on the request's session, allocating an
// anonymous session when none exists. Failures are logged, never fatal: a
// lost flash must not break the redirect.
func (s *Server) flash(c *fiber.Ctx, message string) {
	key, err := middleware.EnsureSession(c, s.sessions, s.sessionTTL())
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session for flash failed", "error", err)
		return
	}
	if err := s.sessions.AddFlash(c.Context(), key, message); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "flash write failed", "error", err)
	}
}

// redirectWithFlash queues the message and answers the mutation with a 302.
func (s *Server) redirectWithFlash(c *fiber.Ctx, location, message string) error {
	s.flash(c, message)
	return c.Redirect(location, fiber.StatusFound)
}

// popFlashes drains pending flash messages for the request's session. View
// handlers attach the result to their response.
func (s *Server) popFlashes(c *fiber.Ctx) []string {
	key, ok := c.Locals("sessionKey").(string)
	if !ok || key == "" {
		return nil
	}
	flashes, err := s.sessions.PopFlashes(c.Context(), key)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "flash read failed", "error", err)
		return nil
	}
	return flashes
}

// respondServiceError maps an AppError to its HTTP status. Unrecognized
// errors become a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeValidation, models.CodeSelfLike:
		status = fiber.StatusBadRequest
	case models.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	case models.CodeConflict:
		status = fiber.StatusConflict
	}
	return models.RespondWithError(c, status, appErr)
}
