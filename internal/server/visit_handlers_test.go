package server

import (
	"fmt"
	"net/http"
	"testing"

	"brewcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// befriend links two users directly in the database, both directions.
func befriend(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Friendship{
		RequesterID: a, RecipientID: b, Status: models.FriendshipStatusAccepted,
	}).Error)
	require.NoError(t, db.Create(&models.Friendship{
		RequesterID: b, RecipientID: a, Status: models.FriendshipStatusAccepted,
	}).Error)
}

func TestCreateVisitEndToEnd(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cafe := seedCafe(t, db, "Steam & Bean")
	befriend(t, db, alice.ID, bob.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/visits", alice.ID, map[string]any{
		"cafe_id":     cafe.ID,
		"is_shared":   true,
		"invitee_ids": []uint{bob.ID},
		"image_urls":  []string{"https://img.test/a.jpg"},
		"review":      map[string]any{"rating": 5, "comment": "Superb pour-over"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, float64(alice.ID), body["creator_id"])
	assert.Equal(t, true, body["is_shared"])
	assert.Len(t, body["participations"], 2)
	assert.Len(t, body["reviews"], 1)
	assert.Len(t, body["images"], 1)

	// Bob sees the invitation
	resp, _ = doJSON(t, app, http.MethodGet, "/api/visits/invitations", bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateVisitRejectsNonFriendInvitee(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	mallory := seedUser(t, db, "mallory")
	cafe := seedCafe(t, db, "Steam & Bean")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/visits", alice.ID, map[string]any{
		"cafe_id":     cafe.ID,
		"is_shared":   true,
		"invitee_ids": []uint{mallory.ID},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Visit{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateVisitValidationErrors(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	cafe := seedCafe(t, db, "Steam & Bean")

	// Missing cafe_id
	resp, _ := doJSON(t, app, http.MethodPost, "/api/visits", alice.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown cafe
	resp, _ = doJSON(t, app, http.MethodPost, "/api/visits", alice.ID, map[string]any{
		"cafe_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Rating out of range
	resp, _ = doJSON(t, app, http.MethodPost, "/api/visits", alice.ID, map[string]any{
		"cafe_id": cafe.ID,
		"review":  map[string]any{"rating": 9},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvitationResponseEndpoints(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cafe := seedCafe(t, db, "Steam & Bean")
	befriend(t, db, alice.ID, bob.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/visits", alice.ID, map[string]any{
		"cafe_id":     cafe.ID,
		"is_shared":   true,
		"invitee_ids": []uint{bob.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	visitID := uint(body["id"].(float64))

	resp, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/visits/%d/accept", visitID), bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", body["state"])

	// Responding again finds no pending invitation
	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/visits/%d/reject", visitID), bob.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A user without an invitation gets 404
	carol := seedUser(t, db, "carol")
	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/visits/%d/accept", visitID), carol.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAcceptWithReviewEndpoint(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cafe := seedCafe(t, db, "Steam & Bean")
	befriend(t, db, alice.ID, bob.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/visits", alice.ID, map[string]any{
		"cafe_id":     cafe.ID,
		"is_shared":   true,
		"invitee_ids": []uint{bob.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	visitID := uint(body["id"].(float64))

	resp, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/visits/%d/accept-with-review", visitID), bob.ID,
		map[string]any{"rating": 4, "comment": "Lovely cortado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", body["state"])

	// The review landed with the visit
	resp, body = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/visits/%d", visitID), bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["reviews"], 1)
}

func TestGetVisitNotFound(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/visits/9999", alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCafeEndpoints(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/cafes", alice.ID, map[string]any{
		"name": "Roast Theory", "address": "9 Kettle Ln", "city": "Portland",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cafeID := uint(body["id"].(float64))

	resp, body = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/cafes/%d", cafeID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Roast Theory", body["name"])

	// Missing required fields
	resp, _ = doJSON(t, app, http.MethodPost, "/api/cafes", alice.ID, map[string]any{
		"address": "nowhere",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
