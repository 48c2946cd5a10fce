package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"brewcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRepository_Integration(t *testing.T) {
	repo := NewFriendRepository(testDB)
	ctx := context.Background()

	// Setup users
	ts := time.Now().UnixNano()
	u1 := &models.User{Username: fmt.Sprintf("f1_%d", ts), Email: fmt.Sprintf("f1_%d@e.com", ts)}
	u2 := &models.User{Username: fmt.Sprintf("f2_%d", ts), Email: fmt.Sprintf("f2_%d@e.com", ts)}
	testDB.Create(u1)
	testDB.Create(u2)

	t.Run("Create and GetPendingIncoming", func(t *testing.T) {
		friendship := &models.Friendship{
			RequesterID: u1.ID,
			RecipientID: u2.ID,
			Status:      models.FriendshipStatusPending,
		}

		err := repo.Create(ctx, friendship)
		require.NoError(t, err)

		reqs, err := repo.GetPendingIncoming(ctx, u2.ID)
		assert.NoError(t, err)
		assert.Len(t, reqs, 1)
		assert.Equal(t, u1.ID, reqs[0].RequesterID)

		sent, err := repo.GetPendingOutgoing(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Len(t, sent, 1)
	})

	t.Run("Duplicate Create conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &models.Friendship{
			RequesterID: u1.ID,
			RecipientID: u2.ID,
			Status:      models.FriendshipStatusPending,
		})
		require.Error(t, err)
	})

	t.Run("Accept materializes both directions", func(t *testing.T) {
		f, err := repo.GetLinkBetweenUsers(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		require.NotNil(t, f)

		require.NoError(t, repo.UpdateStatus(ctx, f.ID, models.FriendshipStatusAccepted))
		require.NoError(t, repo.Create(ctx, &models.Friendship{
			RequesterID: u2.ID,
			RecipientID: u1.ID,
			Status:      models.FriendshipStatusAccepted,
		}))

		ok, err := repo.AreFriends(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.True(t, ok)
		ok, err = repo.AreFriends(ctx, u2.ID, u1.ID)
		assert.NoError(t, err)
		assert.True(t, ok)

		friends, err := repo.GetFriends(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Len(t, friends, 1)
		assert.Equal(t, u2.Username, friends[0].Username)
	})

	t.Run("RemoveBetween deletes both rows", func(t *testing.T) {
		removed, err := repo.RemoveBetween(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		ok, err := repo.AreFriends(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.False(t, ok)

		friends, _ := repo.GetFriends(ctx, u1.ID)
		assert.Empty(t, friends)
	})
}
