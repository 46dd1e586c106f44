package handler

import (
	"net/http"

	"github.com/AstafevaAnastasia/weather-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// WeatherHandler handles weather history requests
type WeatherHandler struct {
	weatherService service.WeatherService
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
	}
}

// History handles fetching a city's stored observations
// @Summary Get weather history
// @Description Get stored observations and statistics for a city by id or name
// @Tags weather
// @Produce json
// @Param city path string true "City id or name"
// @Success 200 {object} dto.WeatherHistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /weather/{city} [get]
func (h *WeatherHandler) History(c *gin.Context) {
	response, err := h.weatherService.History(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RefreshHourly handles pulling the hourly window from the provider
// @Summary Update hourly weather
// @Description Fetch the hourly window around now and store absent samples
// @Tags weather
// @Security BearerAuth
// @Produce json
// @Param city path string true "City id or name"
// @Success 200 {object} dto.HourlyUpdateResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /weather/update_hourly/{city} [post]
func (h *WeatherHandler) RefreshHourly(c *gin.Context) {
	response, err := h.weatherService.RefreshHourly(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Cleanup handles pruning old weather history
// @Summary Cleanup weather history
// @Description Delete observations outside the retention window, keeping each city's newest records
// @Tags weather
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CleanupResponse
// @Router /weather/cleanup [delete]
func (h *WeatherHandler) Cleanup(c *gin.Context) {
	response, err := h.weatherService.Cleanup(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
