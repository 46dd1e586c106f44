package handler

import (
	"net/http"

	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// CityHandler handles city catalog requests
type CityHandler struct {
	cityService service.CityService
}

// NewCityHandler creates a new city handler
func NewCityHandler(cityService service.CityService) *CityHandler {
	return &CityHandler{
		cityService: cityService,
	}
}

// List handles listing the city catalog
// @Summary List cities
// @Description List all tracked cities
// @Tags cities
// @Produce json
// @Success 200 {array} dto.CityInfo
// @Router /cities [get]
func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.cityService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	infos := make([]dto.CityInfo, 0, len(cities))
	for _, city := range cities {
		infos = append(infos, dto.NewCityInfo(city))
	}

	c.JSON(http.StatusOK, infos)
}

// Add handles adding a city to the catalog
// @Summary Add city
// @Description Add a city, geocoding its coordinates when absent
// @Tags cities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddCityRequest true "City request"
// @Success 201 {object} dto.CityInfo
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /cities [post]
func (h *CityHandler) Add(c *gin.Context) {
	var req dto.AddCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	city, err := h.cityService.Add(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCityInfo(city))
}

// Delete handles removing a city from the catalog
// @Summary Delete city
// @Description Delete an unreferenced city
// @Tags cities
// @Security BearerAuth
// @Produce json
// @Param id path string true "City ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /cities/{id} [delete]
func (h *CityHandler) Delete(c *gin.Context) {
	if err := h.cityService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "City deleted successfully",
	})
}
