package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"brewcircle/internal/models"
	"brewcircle/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

// openTestDB opens a fresh in-memory SQLite database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Cafe{},
		&models.Friendship{},
		&models.Visit{},
		&models.VisitImage{},
		&models.Participation{},
		&models.Review{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCafe(t *testing.T, db *gorm.DB, name string) *models.Cafe {
	t.Helper()
	cafe := &models.Cafe{
		Name:    name,
		Address: "123 Roast St",
		City:    "Portland",
	}
	require.NoError(t, db.Create(cafe).Error)
	return cafe
}

func newTestFriendService(db *gorm.DB) *FriendService {
	return NewFriendService(
		repository.NewFriendRepository(db),
		repository.NewUserRepository(db),
		db,
	)
}

func newTestVisitService(db *gorm.DB, friendService *FriendService) *VisitService {
	return NewVisitService(
		db,
		repository.NewCafeRepository(db),
		repository.NewVisitRepository(db),
		repository.NewParticipationRepository(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
		friendService.AreFriends,
	)
}

// makeFriends runs the full request/accept flow between two users.
func makeFriends(t *testing.T, svc *FriendService, userID, otherID uint) {
	t.Helper()
	ctx := context.Background()
	friendship, err := svc.SendRequest(ctx, userID, otherID)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, otherID, friendship.ID, true)
	require.NoError(t, err)
}
