package server

import (
	"fmt"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the profile edit form body. Password is the
// user's current password, required to apply any change.
type UpdateProfileRequest struct {
	Username       string  `json:"username" form:"username"`
	Email          string  `json:"email" form:"email"`
	ImageURL       string  `json:"image_url" form:"image_url"`
	HeaderImageURL string  `json:"header_image_url" form:"header_image_url"`
	Bio            *string `json:"bio" form:"bio"`
	Location       *string `json:"location" form:"location"`
	Password       string  `json:"password" form:"password"`
}

// ListUsers returns all users, or a username-substring search when ?q= is
// present.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	var (
		users []models.User
		err   error
	)
	if q := c.Query("q"); q != "" {
		users, err = s.userService.SearchUsers(c.Context(), q, p.Limit, p.Offset)
	} else {
		users, err = s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":   users,
		"flashes": s.popFlashes(c),
	})
}

// ShowUser returns a profile with the user's recent messages, newest first.
func (s *Server) ShowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, 100)
	messages, err := s.messageService.MessagesByUser(c.Context(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"messages": messages,
		"flashes":  s.popFlashes(c),
	})
}

// Following lists the users the profile owner follows, oldest edge first.
func (s *Server) Following(c *fiber.Ctx) error {
	id, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}

	following, err := s.followService.Following(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id":   id,
		"following": following,
		"flashes":   s.popFlashes(c),
	})
}

// Followers lists the users following the profile owner, oldest edge first.
func (s *Server) Followers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}

	followers, err := s.followService.Followers(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id":   id,
		"followers": followers,
		"flashes":   s.popFlashes(c),
	})
}

// FollowUser creates a follow edge from the current user. A duplicate edge
// is a 409; following an unknown user is a 404.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}
	userID := mustUserID(c)

	if err := s.followService.Follow(c.Context(), userID, followeeID); err != nil {
		return respondServiceError(c, err)
	}
	observability.FollowMutations.WithLabelValues("follow").Inc()

	return c.Redirect(fmt.Sprintf("/users/%d/following", userID), fiber.StatusFound)
}

// StopFollowing removes the follow edge; removing an absent edge succeeds.
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}
	userID := mustUserID(c)

	if err := s.followService.Unfollow(c.Context(), userID, followeeID); err != nil {
		return respondServiceError(c, err)
	}
	observability.FollowMutations.WithLabelValues("unfollow").Inc()

	return c.Redirect(fmt.Sprintf("/users/%d/following", userID), fiber.StatusFound)
}

// UpdateProfile applies a profile edit after re-verifying the current
// password.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return s.redirectWithFlash(c, "/", "Invalid form submission")
	}
	userID := mustUserID(c)

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:         userID,
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Password:       req.Password,
	})
	if err != nil {
		if models.IsCode(err, models.CodeUnauthorized) {
			return s.redirectWithFlash(c, "/", service.FlashInvalidPassword)
		}
		if msg := flashableMessage(err); msg != "" {
			return s.redirectWithFlash(c, "/", msg)
		}
		return respondServiceError(c, err)
	}

	return s.redirectWithFlash(c, fmt.Sprintf("/users/%d", user.ID), "Successfully updated profile!")
}

// DeleteAccount removes the current user and everything they own, then ends
// the session.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID := mustUserID(c)

	if err := s.userService.DeleteAccount(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}

	if key, ok := c.Locals("sessionKey").(string); ok && key != "" {
		if err := s.sessions.Destroy(c.Context(), key); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session destroy failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(c)
	c.Locals("sessionKey", nil)
	c.Locals("userID", nil)

	middleware.Logger.InfoContext(c.UserContext(), "account deleted", "user_id", userID)
	return s.redirectWithFlash(c, "/signup", "Successfully deleted account.")
}

// LikedMessages shows the messages a user has liked, in like order.
func (s *Server) LikedMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "User")
	if err != nil {
		return nil
	}

	likes, err := s.messageService.LikedMessages(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id": id,
		"likes":   likes,
		"flashes": s.popFlashes(c),
	})
}

// AddLike toggles the current user's like on a message. Liking your own
// message flashes the rejection instead.
func (s *Server) AddLike(c *fiber.Ctx) error {
	messageID, err := s.parseID(c, "Message")
	if err != nil {
		return nil
	}
	userID := mustUserID(c)

	if _, err := s.messageService.ToggleLike(c.Context(), userID, messageID); err != nil {
		if models.IsCode(err, models.CodeSelfLike) {
			return s.redirectWithFlash(c, "/", "You cannot like your own message.")
		}
		return respondServiceError(c, err)
	}

	return c.Redirect("/", fiber.StatusFound)
}
