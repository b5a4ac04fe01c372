// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123". Optional override functions may modify the
// generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Bio:      gofakeit.Sentence(10),
		Location: gofakeit.City() + ", " + gofakeit.StateAbr(),
		ImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	user.HeaderImageURL = models.DefaultHeaderImageURL

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateMessage constructs and persists a message for the given user with a
// realistic created_at spread over the last maxDays days.
func (f *Factory) CreateMessage(user *models.User, maxDays int, overrides ...func(*models.Message)) (*models.Message, error) {
	if maxDays <= 0 {
		maxDays = 90
	}
	text := gofakeit.Sentence(f.rand.Intn(12) + 3)
	if len(text) > models.MaxMessageLength {
		text = text[:models.MaxMessageLength]
	}

	msg := &models.Message{
		Text:   text,
		UserID: user.ID,
		CreatedAt: time.Now().
			Add(-time.Duration(f.rand.Intn(maxDays)) * 24 * time.Hour).
			Add(-time.Duration(f.rand.Intn(24)) * time.Hour).
			Add(-time.Duration(f.rand.Intn(60)) * time.Minute),
	}

	for _, override := range overrides {
		override(msg)
	}

	if err := f.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// Follow creates a follow edge, ignoring duplicates so the social mesh can
// be generated with plain random pairs.
func (f *Factory) Follow(follower, followee *models.User) error {
	err := f.db.Create(&models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// Like creates a like edge, skipping self-likes and duplicates.
func (f *Factory) Like(user *models.User, msg *models.Message) error {
	if msg.UserID == user.ID {
		return nil
	}
	err := f.db.Create(&models.Like{
		UserID:    user.ID,
		MessageID: msg.ID,
	}).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}
