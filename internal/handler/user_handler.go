package handler

import (
	"net/http"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user profile requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Get handles fetching a user profile
// @Summary Get user profile
// @Description Get a user's profile by id
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update handles partial profile updates
// @Summary Update user profile
// @Description Update username, email or password; password change requires the old password
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Update request"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete handles account removal
// @Summary Delete user
// @Description Delete a user account and its favorites
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "User deleted successfully",
	})
}

// Search handles user lookup by username or email substring
// @Summary Search users
// @Description Search users by username or email fragment
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param username query string false "Username fragment"
// @Param email query string false "Email fragment"
// @Success 200 {array} dto.UserInfo
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	username := c.Query("username")
	email := c.Query("email")
	if username == "" && email == "" {
		respondError(c, apperror.NewInvalidInput("username or email query parameter is required"))
		return
	}

	users, err := h.userService.Search(c.Request.Context(), username, email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
