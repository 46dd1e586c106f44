package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
	"github.com/AstafevaAnastasia/weather-tracker/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	userRepo           repository.UserRepository
	tokenRepo          repository.TokenRepository
	jwtManager         *utils.JWTManager
	blacklist          TokenRevoker
	bcryptCost         int
	refreshTokenExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *utils.JWTManager,
	blacklist TokenRevoker,
	bcryptCost int,
	refreshTokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:           userRepo,
		tokenRepo:          tokenRepo,
		jwtManager:         jwtManager,
		blacklist:          blacklist,
		bcryptCost:         bcryptCost,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// Register creates an account and issues its first token pair
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResponseWithRefreshToken, error) {
	username := utils.SanitizeName(req.Username)

	if !utils.ValidateUsername(username) {
		return nil, apperror.NewInvalidInput("username must be 3-64 characters of letters, digits, '_', '.' or '-'")
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, apperror.NewInvalidInput("invalid email format")
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, apperror.NewInvalidInput("password must be at least 8 characters long")
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        utils.SanitizeEmail(req.Email),
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, apperror.NewConflict("username already taken")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperror.NewConflict("email already in use")
		}
		return nil, apperror.NewInternal("failed to create user", err)
	}

	return s.issueTokens(ctx, user)
}

// Login authenticates by username or email
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResponseWithRefreshToken, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal("failed to get user", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized("invalid password")
	}

	// Best effort; a failed timestamp update must not block the login.
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token into a new token pair
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponseWithRefreshToken, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unauthorized, "invalid refresh token", err)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, apperror.NewInternal("failed to check token revocation", err)
	}
	if revoked {
		return nil, apperror.NewUnauthorized("refresh token revoked")
	}

	tokenHash := hashToken(refreshToken)

	dbToken, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewUnauthorized("invalid refresh token")
		}
		return nil, apperror.NewInternal("failed to get token", err)
	}

	if time.Now().After(dbToken.ExpiresAt) {
		return nil, apperror.NewUnauthorized("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, dbToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewUnauthorized("user no longer exists")
		}
		return nil, apperror.NewInternal("failed to get user", err)
	}

	// Rotation: the old refresh token is unusable from here on.
	_ = s.blacklist.Revoke(ctx, claims.TokenID, time.Until(dbToken.ExpiresAt))
	_ = s.tokenRepo.DeleteByTokenHash(ctx, tokenHash)

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented access token and, when supplied, the
// refresh token. Both token ids stay revoked until their natural
// expiry, after which the record is moot.
func (s *authService) Logout(ctx context.Context, claims *domain.TokenClaims, refreshToken string) error {
	ttl := time.Until(time.Unix(claims.Exp, 0))
	if err := s.blacklist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return apperror.NewInternal("failed to revoke access token", err)
	}

	if refreshToken != "" {
		if refreshClaims, err := s.jwtManager.ValidateRefreshToken(refreshToken); err == nil {
			_ = s.blacklist.Revoke(ctx, refreshClaims.TokenID, time.Until(time.Unix(refreshClaims.Exp, 0)))
			_ = s.tokenRepo.DeleteByTokenHash(ctx, hashToken(refreshToken))
		}
	}

	return nil
}

// ValidateToken validates an access token against signature, expiry
// and the revocation set.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unauthorized, "invalid or expired token", err)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, apperror.NewInternal("failed to check token revocation", err)
	}
	if revoked {
		return nil, apperror.NewUnauthorized("token revoked")
	}

	return claims, nil
}

// hashToken hashes a token using SHA256 for at-rest storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
