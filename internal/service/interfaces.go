package service

import (
	"context"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
)

// WeatherProvider defines the external weather provider collaborator.
// Implementations surface upstream failures as weatherapi sentinel
// errors and never retry internally.
type WeatherProvider interface {
	CurrentConditions(ctx context.Context, cityName string) (domain.Sample, error)
	HourlyWindow(ctx context.Context, cityName string, before, after int) ([]domain.Sample, error)
	Geocode(ctx context.Context, cityName string) (domain.Place, error)
}

// TokenRevoker is the revocation set consulted on every token check.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResponseWithRefreshToken, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResponseWithRefreshToken, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponseWithRefreshToken, error)
	Logout(ctx context.Context, claims *domain.TokenClaims, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// UserService defines methods for user profile operations
type UserService interface {
	Get(ctx context.Context, userID string) (*dto.UserResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, userID string) error
	Search(ctx context.Context, username, email string) ([]dto.UserInfo, error)
}

// CityService defines methods for the city catalog
type CityService interface {
	Add(ctx context.Context, req *dto.AddCityRequest) (*domain.City, error)
	Delete(ctx context.Context, cityID string) error
	List(ctx context.Context) ([]*domain.City, error)
	// EnsureByName resolves a city by name, creating it from provider
	// geocoding data when unknown.
	EnsureByName(ctx context.Context, name string) (*domain.City, error)
	// Resolve accepts either a city id or a city name.
	Resolve(ctx context.Context, ref string) (*domain.City, error)
}

// WeatherService defines weather history and refresh operations
type WeatherService interface {
	History(ctx context.Context, cityRef string) (*dto.WeatherHistoryResponse, error)
	Record(ctx context.Context, cityID string, sample domain.Sample) (bool, error)
	RefreshHourly(ctx context.Context, cityRef string) (*dto.HourlyUpdateResponse, error)
	Cleanup(ctx context.Context) (*dto.CleanupResponse, error)
}

// FavoriteService defines per-user favorite city operations
type FavoriteService interface {
	Add(ctx context.Context, userID, cityName string) (*domain.City, error)
	Remove(ctx context.Context, userID, cityRef string) error
	List(ctx context.Context, userID string) ([]dto.FavoriteEntry, error)
}
