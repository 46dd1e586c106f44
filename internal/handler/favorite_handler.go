package handler

import (
	"net/http"

	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// FavoriteHandler handles per-user favorite city requests
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

// List handles listing a user's favorite cities
// @Summary List favorites
// @Description List favorite cities with their latest observation
// @Tags favorites
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} dto.FavoriteEntry
// @Failure 403 {object} dto.ErrorResponse
// @Router /users/{id}/favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	entries, err := h.favoriteService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Add handles adding a city to the user's favorites
// @Summary Add favorite
// @Description Add a city by name to the user's favorites
// @Tags favorites
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.AddFavoriteRequest true "Favorite request"
// @Success 201 {object} dto.CityInfo
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id}/favorites [post]
func (h *FavoriteHandler) Add(c *gin.Context) {
	var req dto.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	city, err := h.favoriteService.Add(c.Request.Context(), c.Param("id"), req.CityName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCityInfo(city))
}

// Remove handles removing a city from the user's favorites
// @Summary Remove favorite
// @Description Remove a city by id or name from the user's favorites
// @Tags favorites
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Param city path string true "City id or name"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/favorites/{city} [delete]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	if err := h.favoriteService.Remove(c.Request.Context(), c.Param("id"), c.Param("city")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "City removed from favorites",
	})
}
