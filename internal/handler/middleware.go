package handler

import (
	"strings"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and adds user info to context
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, apperror.NewUnauthorized("authorization header is required"))
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, apperror.NewUnauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		// The service already classifies failures: a bad token is
		// Unauthorized, a failed revocation lookup is Internal.
		claims, err := authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireRole rejects requests whose authenticated role differs.
// Must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			respondError(c, apperror.NewForbidden("insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelf restricts a /users/:id route to the account owner.
// Admins pass regardless. Must run after AuthMiddleware.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != domain.RoleAdmin && c.GetString("user_id") != c.Param("id") {
			respondError(c, apperror.NewForbidden("access to another user's account is not allowed"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// claimsFromContext returns the token claims stored by AuthMiddleware.
func claimsFromContext(c *gin.Context) (*domain.TokenClaims, bool) {
	value, exists := c.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := value.(*domain.TokenClaims)
	return claims, ok
}
