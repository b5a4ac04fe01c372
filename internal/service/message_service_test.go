package service

import (
	"context"
	"strings"
	"testing"

	"warbler/internal/models"
)

type messageRepoStub struct {
	createFn        func(context.Context, *models.Message) error
	getByIDFn       func(context.Context, uint) (*models.Message, error)
	deleteFn        func(context.Context, uint) error
	listByUserFn    func(context.Context, uint, int, int) ([]models.Message, error)
	homeFeedFn      func(context.Context, uint, int) ([]models.Message, error)
	likeFn          func(context.Context, uint, uint) error
	unlikeFn        func(context.Context, uint, uint) error
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	likedMessagesFn func(context.Context, uint) ([]models.Message, error)
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}
func (s *messageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *messageRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *messageRepoStub) HomeFeed(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.homeFeedFn(ctx, userID, limit)
}
func (s *messageRepoStub) Like(ctx context.Context, userID, messageID uint) error {
	return s.likeFn(ctx, userID, messageID)
}
func (s *messageRepoStub) Unlike(ctx context.Context, userID, messageID uint) error {
	return s.unlikeFn(ctx, userID, messageID)
}
func (s *messageRepoStub) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, messageID)
}
func (s *messageRepoStub) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.likedMessagesFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:        func(context.Context, *models.Message) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.Message, error) { return &models.Message{}, nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		listByUserFn:    func(context.Context, uint, int, int) ([]models.Message, error) { return nil, nil },
		homeFeedFn:      func(context.Context, uint, int) ([]models.Message, error) { return nil, nil },
		likeFn:          func(context.Context, uint, uint) error { return nil },
		unlikeFn:        func(context.Context, uint, uint) error { return nil },
		isLikedFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		likedMessagesFn: func(context.Context, uint) ([]models.Message, error) { return nil, nil },
	}
}

func TestMessageServicePostMessage(t *testing.T) {
	var created *models.Message
	repo := noopMessageRepo()
	repo.createFn = func(_ context.Context, m *models.Message) error {
		created = m
		return nil
	}

	svc := NewMessageService(repo, noopUserRepo())
	msg, err := svc.PostMessage(context.Background(), 1, "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if created == nil || msg.Text != "Hello" || msg.UserID != 1 {
		t.Fatalf("message not persisted correctly: %+v", msg)
	}
}

func TestMessageServicePostMessageValidation(t *testing.T) {
	svc := NewMessageService(noopMessageRepo(), noopUserRepo())

	for _, text := range []string{"", "   ", strings.Repeat("a", models.MaxMessageLength+1)} {
		_, err := svc.PostMessage(context.Background(), 1, text)
		assertCode(t, err, models.CodeValidation)
	}

	// exactly at the limit is fine
	if _, err := svc.PostMessage(context.Background(), 1, strings.Repeat("a", models.MaxMessageLength)); err != nil {
		t.Fatal(err)
	}
}

func TestMessageServiceDeleteByNonAuthor(t *testing.T) {
	repo := noopMessageRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 5, UserID: 10}, nil
	}
	repo.deleteFn = func(context.Context, uint) error {
		t.Fatal("delete must not run for a non-author")
		return nil
	}

	svc := NewMessageService(repo, noopUserRepo())
	err := svc.DeleteMessage(context.Background(), 11, 5)
	assertCode(t, err, models.CodeUnauthorized)
}

func TestMessageServiceDeleteByAuthor(t *testing.T) {
	var deleted uint
	repo := noopMessageRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 5, UserID: 10}, nil
	}
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}

	svc := NewMessageService(repo, noopUserRepo())
	if err := svc.DeleteMessage(context.Background(), 10, 5); err != nil {
		t.Fatal(err)
	}
	if deleted != 5 {
		t.Fatalf("expected delete of message 5, got %d", deleted)
	}
}

func TestMessageServiceToggleLikeOwnMessage(t *testing.T) {
	repo := noopMessageRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 5, UserID: 10}, nil
	}

	svc := NewMessageService(repo, noopUserRepo())
	_, err := svc.ToggleLike(context.Background(), 10, 5)
	assertCode(t, err, models.CodeSelfLike)
	if err.Error() != "You cannot like your own message." {
		t.Fatalf("unexpected message: %q", err)
	}
}

func TestMessageServiceToggleLikeRoundTrip(t *testing.T) {
	liked := false
	repo := noopMessageRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 5, UserID: 10}, nil
	}
	repo.isLikedFn = func(context.Context, uint, uint) (bool, error) { return liked, nil }
	repo.likeFn = func(context.Context, uint, uint) error {
		liked = true
		return nil
	}
	repo.unlikeFn = func(context.Context, uint, uint) error {
		liked = false
		return nil
	}

	svc := NewMessageService(repo, noopUserRepo())

	nowLiked, err := svc.ToggleLike(context.Background(), 11, 5)
	if err != nil || !nowLiked {
		t.Fatalf("first toggle should like: liked=%v err=%v", nowLiked, err)
	}
	nowLiked, err = svc.ToggleLike(context.Background(), 11, 5)
	if err != nil || nowLiked {
		t.Fatalf("second toggle should unlike: liked=%v err=%v", nowLiked, err)
	}
}

func TestMessageServiceLikeUnknownMessage(t *testing.T) {
	repo := noopMessageRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Message, error) {
		return nil, models.NewNotFoundError("Message", 999)
	}

	svc := NewMessageService(repo, noopUserRepo())
	err := svc.Like(context.Background(), 1, 999)
	assertCode(t, err, models.CodeNotFound)
}
