package handler

import (
	"net/http"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(refreshCookieName, token, maxAge, "/refresh", "", true, true)
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, response.RefreshToken, response.ExpiresIn)

	c.JSON(http.StatusCreated, response.AuthResponse)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with username or email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, response.RefreshToken, response.ExpiresIn)

	c.JSON(http.StatusOK, response.AuthResponse)
}

// Refresh handles token rotation
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	// Token comes from the request body, with the httpOnly cookie as
	// fallback for browser clients.
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		cookie, cookieErr := c.Cookie(refreshCookieName)
		if cookieErr != nil || cookie == "" {
			respondError(c, apperror.NewInvalidInput("refresh token is required"))
			return
		}
		req.RefreshToken = cookie
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, response.RefreshToken, response.ExpiresIn)

	c.JSON(http.StatusOK, response.AuthResponse)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the access token and invalidate the refresh token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		respondError(c, apperror.NewUnauthorized("token claims not found in context"))
		return
	}

	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookieName)
	}

	if err := h.authService.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, "", -1)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}
