package server

import (
	"brewcircle/internal/cache"
	"brewcircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCafes handles GET /api/cafes
// @Summary List cafes, optionally filtered by city
// @Tags cafes
// @Produce json
// @Param city query string false "Filter by city"
// @Success 200 {array} models.Cafe
// @Router /cafes [get]
func (s *Server) GetCafes(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	city := c.Query("city")

	// The unfiltered first page is the hot path, so it goes through Redis.
	if city != "" || p.Offset != 0 || p.Limit != 20 {
		cafes, err := s.cafeRepo.List(c.Context(), city, p.Limit, p.Offset)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		return c.JSON(cafes)
	}

	var cafes []models.Cafe
	err := cache.CacheAside(c.Context(), cache.CafeListKey("all"), &cafes, cache.CafeListTTL, func() error {
		var fetchErr error
		cafes, fetchErr = s.cafeRepo.List(c.Context(), "", p.Limit, p.Offset)
		return fetchErr
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(cafes)
}

// GetCafe handles GET /api/cafes/:id
// @Summary Get a cafe by ID
// @Tags cafes
// @Produce json
// @Success 200 {object} models.Cafe
// @Failure 404 {object} object{error=string}
// @Router /cafes/{id} [get]
func (s *Server) GetCafe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	cafe, getErr := s.cafeRepo.GetByID(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(cafe)
}

// CreateCafe handles POST /api/cafes
// @Summary Create a cafe
// @Tags cafes
// @Accept json
// @Produce json
// @Success 201 {object} models.Cafe
// @Failure 400 {object} object{error=string}
// @Router /cafes [post]
func (s *Server) CreateCafe(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Address  string `json:"address"`
		City     string `json:"city"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name == "" || req.City == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name and city are required"))
	}

	cafe := &models.Cafe{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		ImageURL: req.ImageURL,
	}
	if err := s.cafeRepo.Create(c.Context(), cafe); err != nil {
		return models.RespondWithAppError(c, err)
	}

	cache.Invalidate(c.Context(), cache.CafeListKey("all"))

	return c.Status(fiber.StatusCreated).JSON(cafe)
}
