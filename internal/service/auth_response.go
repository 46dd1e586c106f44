package service

import (
	"context"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
)

// AuthResponseWithRefreshToken contains auth response and refresh token
type AuthResponseWithRefreshToken struct {
	AuthResponse *dto.AuthResponse
	RefreshToken string
	ExpiresIn    int // Refresh token expiry in seconds
}

// issueTokens generates an access/refresh pair bound to the user's id
// and role and persists the refresh token hash.
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*AuthResponseWithRefreshToken, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate access token", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate refresh token", err)
	}

	refreshTokenEntity := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTokenExpiry),
	}

	if err := s.tokenRepo.Create(ctx, refreshTokenEntity); err != nil {
		return nil, apperror.NewInternal("failed to save refresh token", err)
	}

	return &AuthResponseWithRefreshToken{
		AuthResponse: &dto.AuthResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   s.jwtManager.GetAccessTokenExpiry(),
			User: dto.UserInfo{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
				Role:     user.Role,
			},
		},
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.refreshTokenExpiry.Seconds()),
	}, nil
}
