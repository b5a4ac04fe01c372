package repository

import (
	"context"
	"errors"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/observability"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for message and like operations.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	HomeFeed(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	Like(ctx context.Context, userID, messageID uint) error
	Unlike(ctx context.Context, userID, messageID uint) error
	IsLiked(ctx context.Context, userID, messageID uint) (bool, error)
	LikedMessages(ctx context.Context, userID uint) ([]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	defer observability.TrackQuery("insert", "messages")()
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	key := cache.MessageKey(id)

	err := cache.Aside(ctx, key, &message, cache.MessageTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Message", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Delete removes the message together with any likes pointing at it.
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, id)
	return nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// HomeFeed returns the newest messages authored by userID or anyone they
// follow, newest first.
func (r *messageRepository) HomeFeed(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	defer observability.TrackQuery("select", "messages")()
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("user_id = ? OR user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Preload("User").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// Like inserts the edge. A duplicate pair hits the composite unique index
// and surfaces as a conflict rather than being silently swallowed.
func (r *messageRepository) Like(ctx context.Context, userID, messageID uint) error {
	edge := models.Like{UserID: userID, MessageID: messageID}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Message already liked", err)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, messageID)
	return nil
}

func (r *messageRepository) Unlike(ctx context.Context, userID, messageID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, messageID)
	return nil
}

func (r *messageRepository) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// LikedMessages returns the messages userID liked, in like creation order.
func (r *messageRepository) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("messages.*").
		Joins("JOIN likes l ON messages.id = l.message_id").
		Where("l.user_id = ?", userID).
		Order("l.created_at").
		Preload("User").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
