package seed

import (
	"testing"

	"warbler/internal/database"
	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedPopulates(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 10, NumMessages: 30}))

	var users, messages int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Message{}).Count(&messages)
	assert.Equal(t, int64(10), users)
	assert.Equal(t, int64(30), messages)

	// the well-known login exists
	var test models.User
	require.NoError(t, db.Where("username = ?", "testuser").First(&test).Error)
}

func TestSeedNeverSelfLikes(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, Seed(db, Options{NumUsers: 5, NumMessages: 20}))

	var count int64
	db.Table("likes").
		Joins("JOIN messages ON messages.id = likes.message_id").
		Where("messages.user_id = likes.user_id").
		Count(&count)
	assert.Zero(t, count)
}

func TestFactoryFollowIgnoresDuplicates(t *testing.T) {
	db := setupSeedDB(t)
	f := NewFactory(db)

	a, err := f.CreateUser()
	require.NoError(t, err)
	b, err := f.CreateUser()
	require.NoError(t, err)

	require.NoError(t, f.Follow(a, b))
	require.NoError(t, f.Follow(a, b))

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
