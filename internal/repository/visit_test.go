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

func TestVisitRepository_Integration(t *testing.T) {
	visits := NewVisitRepository(testDB)
	parts := NewParticipationRepository(testDB)
	reviews := NewReviewRepository(testDB)
	ctx := context.Background()

	ts := time.Now().UnixNano()
	creator := &models.User{Username: fmt.Sprintf("v1_%d", ts), Email: fmt.Sprintf("v1_%d@e.com", ts)}
	invitee := &models.User{Username: fmt.Sprintf("v2_%d", ts), Email: fmt.Sprintf("v2_%d@e.com", ts)}
	cafe := &models.Cafe{Name: fmt.Sprintf("cafe_%d", ts), City: "Portland"}
	testDB.Create(creator)
	testDB.Create(invitee)
	testDB.Create(cafe)

	visit := &models.Visit{
		CreatorID:       creator.ID,
		CafeID:          cafe.ID,
		VisitDate:       time.Now(),
		Status:          models.VisitStatusActive,
		IsShared:        true,
		MaxParticipants: 4,
	}
	require.NoError(t, testDB.Create(visit).Error)

	now := time.Now()
	require.NoError(t, testDB.Create(&models.Participation{
		VisitID: visit.ID, UserID: creator.ID,
		Role: models.ParticipationRoleCreator, State: models.ParticipationStateAccepted,
		InvitedAt: now, RespondedAt: &now,
	}).Error)
	require.NoError(t, testDB.Create(&models.Participation{
		VisitID: visit.ID, UserID: invitee.ID,
		Role: models.ParticipationRoleParticipant, State: models.ParticipationStatePending,
		InvitedAt: now,
	}).Error)
	require.NoError(t, testDB.Create(&models.VisitImage{
		VisitID: visit.ID, URL: "https://img.test/1.jpg", Position: 0,
	}).Error)

	t.Run("GetByIDHydrated preloads associations", func(t *testing.T) {
		got, err := visits.GetByIDHydrated(ctx, visit.ID)
		require.NoError(t, err)
		assert.Equal(t, cafe.ID, got.Cafe.ID)
		assert.Equal(t, creator.ID, got.Creator.ID)
		assert.Len(t, got.Participations, 2)
		assert.Len(t, got.Images, 1)
	})

	t.Run("ListPendingForUser", func(t *testing.T) {
		pending, err := parts.ListPendingForUser(ctx, invitee.ID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, visit.ID, pending[0].VisitID)
		require.NotNil(t, pending[0].Visit)
	})

	t.Run("RespondIfPending is a guarded update", func(t *testing.T) {
		updated, err := parts.RespondIfPending(ctx, visit.ID, invitee.ID, models.ParticipationStateAccepted)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		// Second response finds no pending row
		updated, err = parts.RespondIfPending(ctx, visit.ID, invitee.ID, models.ParticipationStateRejected)
		require.NoError(t, err)
		assert.Equal(t, int64(0), updated)

		p, err := parts.GetByVisitAndUser(ctx, visit.ID, invitee.ID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, models.ParticipationStateAccepted, p.State)
		assert.NotNil(t, p.RespondedAt)
	})

	t.Run("CountAccepted", func(t *testing.T) {
		count, err := parts.CountAccepted(ctx, visit.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Review uniqueness per visit and user", func(t *testing.T) {
		require.NoError(t, reviews.Create(ctx, &models.Review{
			VisitID: visit.ID, UserID: invitee.ID, Rating: 4,
		}))
		err := reviews.Create(ctx, &models.Review{
			VisitID: visit.ID, UserID: invitee.ID, Rating: 2,
		})
		require.Error(t, err)
	})

	t.Run("ListForUser returns accepted participations only", func(t *testing.T) {
		got, err := visits.ListForUser(ctx, invitee.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, visit.ID, got[0].ID)
	})
}
