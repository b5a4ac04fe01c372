package seed

import (
	"fmt"
	"log"
	"strings"

	"warbler/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
}

// Seed populates the database with test data: users, their messages, a
// random follow mesh, and likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d messages...", opts.NumUsers, opts.NumMessages)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users, err := createUsers(f, db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	messages, err := createMessages(f, users, opts.NumMessages)
	if err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("%d messages created", len(messages))

	if err := createFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	if err := createLikes(f, users, messages); err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, follows, messages, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, db *gorm.DB, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A known login for manual poking at the seeded instance.
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	test := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Bio:      "Just here to test the waters.",
		ImageURL: models.DefaultImageURL,
	}
	test.HeaderImageURL = models.DefaultHeaderImageURL
	if err := db.Create(test).Error; err != nil && !isDuplicate(err) {
		return nil, err
	}
	users = append(users, test)

	for len(users) < count {
		user, err := f.CreateUser()
		if err != nil {
			if isDuplicate(err) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createMessages(f *Factory, users []*models.User, count int) ([]*models.Message, error) {
	messages := make([]*models.Message, 0, count)
	for i := 0; i < count; i++ {
		author := users[f.rand.Intn(len(users))]
		msg, err := f.CreateMessage(author, 90)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// createFollowMesh gives each user a handful of random followees.
func createFollowMesh(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, follower := range users {
		for n := f.rand.Intn(8); n > 0; n-- {
			followee := users[f.rand.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			if err := f.Follow(follower, followee); err != nil {
				return err
			}
		}
	}
	return nil
}

func createLikes(f *Factory, users []*models.User, messages []*models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	for _, user := range users {
		for n := f.rand.Intn(10); n > 0; n-- {
			if err := f.Like(user, messages[f.rand.Intn(len(messages))]); err != nil {
				return err
			}
		}
	}
	return nil
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
