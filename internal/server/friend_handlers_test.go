package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestLifecycle(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	// Send
	resp, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID := uint(body["id"].(float64))
	assert.Equal(t, "pending", body["status"])

	// Duplicate send conflicts
	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Status from both sides
	resp, body = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/friends/status/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending_sent", body["status"])

	resp, body = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/friends/status/%d", alice.ID), bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending_received", body["status"])

	// Accept
	resp, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d/accept", requestID), bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", body["status"])

	resp, body = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/friends/status/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "friends", body["status"])

	// Remove
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/friends/%d", alice.ID), bob.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/friends/status/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "none", body["status"])
}

func TestSendFriendRequestToSelf(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	resp, _ := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", alice.ID), alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendFriendRequestUnknownUser(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/friends/requests/9999", alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/friends/requests/abc", alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAcceptFriendRequestWrongUser(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	resp, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID := uint(body["id"].(float64))

	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d/accept", requestID), carol.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCancelFriendRequest(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	resp, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID := uint(body["id"].(float64))

	// Recipient cannot cancel
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/friends/requests/%d", requestID), bob.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Requester can
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/friends/requests/%d", requestID), alice.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Gone afterwards
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/friends/requests/%d", requestID), alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveFriendNotFriends(t *testing.T) {
	app, _, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	resp, _ := doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/friends/%d", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
