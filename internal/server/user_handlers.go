package server

import (
	"brewcircle/internal/models"
	"brewcircle/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		existing, err := s.userRepo.GetByUsername(c.Context(), *req.Username)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if existing != nil {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Username already taken"))
		}
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user's profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, getErr := s.userRepo.GetByID(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(user)
}
