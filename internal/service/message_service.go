package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

const FlashAccessUnauthorized = "Access unauthorized."

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo}
}

func (s *MessageService) PostMessage(ctx context.Context, userID uint, text string) (*models.Message, error) {
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, err
	}
	msg := &models.Message{Text: text, UserID: userID}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.MessagesCreated.Inc()
	return msg, nil
}

func (s *MessageService) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// DeleteMessage removes the message and its likes. Only the author may
// delete; anyone else gets an unauthorized error.
func (s *MessageService) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.UserID != userID {
		return models.NewUnauthorizedError(FlashAccessUnauthorized)
	}
	return s.messageRepo.Delete(ctx, messageID)
}

func (s *MessageService) MessagesByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByUser(ctx, userID, limit, offset)
}

// HomeFeed returns the newest messages by the user and everyone they
// follow.
func (s *MessageService) HomeFeed(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.messageRepo.HomeFeed(ctx, userID, limit)
}

// ToggleLike likes the message when no like exists and removes the
// like otherwise. Liking your own message is rejected. Returns whether
// the message is liked after the call.
func (s *MessageService) ToggleLike(ctx context.Context, userID, messageID uint) (bool, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	if msg.UserID == userID {
		return false, models.NewSelfLikeError()
	}

	liked, err := s.messageRepo.IsLiked(ctx, userID, messageID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.messageRepo.Unlike(ctx, userID, messageID); err != nil {
			return false, err
		}
		observability.LikeMutations.WithLabelValues("unlike").Inc()
		return false, nil
	}
	if err := s.messageRepo.Like(ctx, userID, messageID); err != nil {
		return false, err
	}
	observability.LikeMutations.WithLabelValues("like").Inc()
	return true, nil
}

// Like creates the like edge directly; a duplicate surfaces as a
// conflict. Self-likes are rejected.
func (s *MessageService) Like(ctx context.Context, userID, messageID uint) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.UserID == userID {
		return models.NewSelfLikeError()
	}
	if err := s.messageRepo.Like(ctx, userID, messageID); err != nil {
		return err
	}
	observability.LikeMutations.WithLabelValues("like").Inc()
	return nil
}

func (s *MessageService) Unlike(ctx context.Context, userID, messageID uint) error {
	if err := s.messageRepo.Unlike(ctx, userID, messageID); err != nil {
		return err
	}
	observability.LikeMutations.WithLabelValues("unlike").Inc()
	return nil
}

// LikedMessages returns the messages userID has liked, in the order
// the likes were created.
func (s *MessageService) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.LikedMessages(ctx, userID)
}

func (s *MessageService) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.messageRepo.IsLiked(ctx, userID, messageID)
}
