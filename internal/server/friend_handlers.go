package server

import (
	"brewcircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
// @Summary Send a friend request
// @Tags friends
// @Produce json
// @Success 201 {object} models.Friendship
// @Failure 409 {object} object{error=string}
// @Router /friends/requests/{userId} [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	friendship, sendErr := s.friendService.SendRequest(c.Context(), userID, targetUserID)
	if sendErr != nil {
		return models.RespondWithAppError(c, sendErr)
	}

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// GetPendingRequests handles GET /api/friends/requests
// @Summary List incoming pending friend requests
// @Tags friends
// @Produce json
// @Success 200 {array} models.Friendship
// @Router /friends/requests [get]
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.GetPendingIncoming(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
// @Summary List outgoing pending friend requests
// @Tags friends
// @Produce json
// @Success 200 {array} models.Friendship
// @Router /friends/requests/sent [get]
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.GetPendingOutgoing(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
// @Summary Accept a friend request
// @Tags friends
// @Produce json
// @Success 200 {object} models.Friendship
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /friends/requests/{requestId}/accept [post]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, respondErr := s.friendService.Respond(c.Context(), userID, requestID, true)
	if respondErr != nil {
		return models.RespondWithAppError(c, respondErr)
	}

	return c.JSON(friendship)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject
// @Summary Reject a friend request
// @Tags friends
// @Produce json
// @Success 200 {object} models.Friendship
// @Failure 403 {object} object{error=string}
// @Router /friends/requests/{requestId}/reject [post]
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, respondErr := s.friendService.Respond(c.Context(), userID, requestID, false)
	if respondErr != nil {
		return models.RespondWithAppError(c, respondErr)
	}

	return c.JSON(friendship)
}

// CancelFriendRequest handles DELETE /api/friends/requests/:requestId
// @Summary Cancel a friend request you sent
// @Tags friends
// @Produce json
// @Success 200 {object} models.Friendship
// @Failure 403 {object} object{error=string}
// @Router /friends/requests/{requestId} [delete]
func (s *Server) CancelFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, cancelErr := s.friendService.Cancel(c.Context(), userID, requestID)
	if cancelErr != nil {
		return models.RespondWithAppError(c, cancelErr)
	}

	return c.JSON(friendship)
}

// GetFriends handles GET /api/friends
// @Summary List friends
// @Tags friends
// @Produce json
// @Success 200 {array} models.User
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	friends, err := s.friendService.GetFriends(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(friends)
}

// GetFriendshipStatus handles GET /api/friends/status/:userId
// @Summary Get friendship status with another user
// @Tags friends
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /friends/status/{userId} [get]
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	link, getErr := s.friendRepo.GetLinkBetweenUsers(c.Context(), userID, targetUserID)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	status := "none"
	var requestID uint
	if link != nil {
		switch link.Status {
		case models.FriendshipStatusAccepted:
			status = "friends"
		case models.FriendshipStatusPending:
			requestID = link.ID
			if link.RequesterID == userID {
				status = "pending_sent"
			} else {
				status = "pending_received"
			}
		}
	}

	resp := fiber.Map{"status": status}
	if requestID != 0 {
		resp["request_id"] = requestID
	}
	return c.JSON(resp)
}

// RemoveFriend handles DELETE /api/friends/:userId
// @Summary Remove a friend
// @Tags friends
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /friends/{userId} [delete]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if removeErr := s.friendService.Remove(c.Context(), userID, targetUserID); removeErr != nil {
		return models.RespondWithAppError(c, removeErr)
	}

	return c.JSON(fiber.Map{"message": "Friend removed"})
}
