package server

import (
	"fmt"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// NewMessageRequest is the message composition form body.
type NewMessageRequest struct {
	Text string `json:"text" form:"text"`
}

// Home is the landing page: the authenticated user's feed, or a welcome
// view for anonymous visitors. Either way it delivers pending flashes.
func (s *Server) Home(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(fiber.Map{
			"message": "What's Happening?",
			"flashes": s.popFlashes(c),
		})
	}

	p := parsePagination(c, 100)
	feed, err := s.messageService.HomeFeed(c.Context(), userID, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id":  userID,
		"messages": feed,
		"flashes":  s.popFlashes(c),
	})
}

// ShowMessage returns a single message with its author.
func (s *Server) ShowMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "Message")
	if err != nil {
		return nil
	}

	msg, err := s.messageService.GetMessage(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": msg,
		"flashes": s.popFlashes(c),
	})
}

// NewMessage posts a message for the current user and lands on their
// profile.
func (s *Server) NewMessage(c *fiber.Ctx) error {
	var req NewMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return s.redirectWithFlash(c, "/", "Invalid form submission")
	}
	userID := mustUserID(c)

	msg, err := s.messageService.PostMessage(c.Context(), userID, req.Text)
	if err != nil {
		if flashMsg := flashableMessage(err); flashMsg != "" {
			return s.redirectWithFlash(c, "/", flashMsg)
		}
		return respondServiceError(c, err)
	}

	return c.Redirect(fmt.Sprintf("/users/%d", msg.UserID), fiber.StatusFound)
}

// DeleteMessage removes a message the current user owns. Anyone else's
// attempt is answered the same way as an anonymous one.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "Message")
	if err != nil {
		return nil
	}
	userID := mustUserID(c)

	if err := s.messageService.DeleteMessage(c.Context(), userID, id); err != nil {
		if models.IsCode(err, models.CodeUnauthorized) {
			return s.redirectWithFlash(c, "/", "Access unauthorized.")
		}
		return respondServiceError(c, err)
	}

	return c.Redirect(fmt.Sprintf("/users/%d", userID), fiber.StatusFound)
}
