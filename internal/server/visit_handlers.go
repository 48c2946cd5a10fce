package server

import (
	"time"

	"brewcircle/internal/models"
	"brewcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateVisit handles POST /api/visits
// @Summary Create a visit
// @Description Creates a visit with optional invitations, images, and a creator review in one atomic operation
// @Tags visits
// @Accept json
// @Produce json
// @Success 201 {object} models.Visit
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 503 {object} object{error=string}
// @Router /visits [post]
func (s *Server) CreateVisit(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		CafeID          uint                 `json:"cafe_id"`
		VisitDate       *time.Time           `json:"visit_date"`
		IsShared        bool                 `json:"is_shared"`
		MaxParticipants int                  `json:"max_participants"`
		InviteeIDs      []uint               `json:"invitee_ids"`
		ImageURLs       []string             `json:"image_urls"`
		Review          *service.ReviewInput `json:"review"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.CafeID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("cafe_id is required"))
	}

	in := service.CreateVisitInput{
		UserID:          userID,
		CafeID:          req.CafeID,
		IsShared:        req.IsShared,
		MaxParticipants: req.MaxParticipants,
		InviteeIDs:      req.InviteeIDs,
		ImageURLs:       req.ImageURLs,
		Review:          req.Review,
	}
	if req.VisitDate != nil {
		in.VisitDate = *req.VisitDate
	}

	visit, err := s.visitService.CreateVisit(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(visit)
}

// GetVisit handles GET /api/visits/:id
// @Summary Get a visit with participants, reviews, and images
// @Tags visits
// @Produce json
// @Success 200 {object} models.Visit
// @Failure 404 {object} object{error=string}
// @Router /visits/{id} [get]
func (s *Server) GetVisit(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	visit, getErr := s.visitService.GetVisit(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(visit)
}

// GetMyVisits handles GET /api/visits
// @Summary List visits the user participates in
// @Tags visits
// @Produce json
// @Success 200 {array} models.Visit
// @Router /visits [get]
func (s *Server) GetMyVisits(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	visits, err := s.visitService.ListVisits(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(visits)
}

// GetCreatedVisits handles GET /api/visits/created
// @Summary List visits created by the user
// @Tags visits
// @Produce json
// @Success 200 {array} models.Visit
// @Router /visits/created [get]
func (s *Server) GetCreatedVisits(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	visits, err := s.visitService.ListCreatedVisits(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(visits)
}

// GetPendingInvitations handles GET /api/visits/invitations
// @Summary List pending visit invitations
// @Tags visits
// @Produce json
// @Success 200 {array} models.Participation
// @Router /visits/invitations [get]
func (s *Server) GetPendingInvitations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	invitations, err := s.visitService.ListPendingInvitations(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(invitations)
}

// AcceptInvitation handles POST /api/visits/:id/accept
// @Summary Accept a visit invitation
// @Tags visits
// @Produce json
// @Success 200 {object} models.Participation
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /visits/{id}/accept [post]
func (s *Server) AcceptInvitation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	visitID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	participation, respondErr := s.visitService.RespondToInvitation(c.Context(), userID, visitID, true)
	if respondErr != nil {
		return models.RespondWithAppError(c, respondErr)
	}

	return c.JSON(participation)
}

// AcceptInvitationWithReview handles POST /api/visits/:id/accept-with-review
// @Summary Accept a visit invitation and leave a review atomically
// @Tags visits
// @Accept json
// @Produce json
// @Success 200 {object} models.Participation
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /visits/{id}/accept-with-review [post]
func (s *Server) AcceptInvitationWithReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	visitID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.ReviewInput
	if bodyErr := c.BodyParser(&req); bodyErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	participation, respondErr := s.visitService.AcceptWithReview(c.Context(), userID, visitID, req)
	if respondErr != nil {
		return models.RespondWithAppError(c, respondErr)
	}

	return c.JSON(participation)
}

// RejectInvitation handles POST /api/visits/:id/reject
// @Summary Reject a visit invitation
// @Tags visits
// @Produce json
// @Success 200 {object} models.Participation
// @Failure 404 {object} object{error=string}
// @Router /visits/{id}/reject [post]
func (s *Server) RejectInvitation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	visitID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	participation, respondErr := s.visitService.RespondToInvitation(c.Context(), userID, visitID, false)
	if respondErr != nil {
		return models.RespondWithAppError(c, respondErr)
	}

	return c.JSON(participation)
}
