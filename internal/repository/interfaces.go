package repository

import (
	"context"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, userID string) error
	Search(ctx context.Context, username, email string) ([]*domain.User, error)
	// DeleteCascade removes the user's favorites and the user row in
	// one transaction. Refresh tokens are removed by the store's FK.
	DeleteCascade(ctx context.Context, id string) error
}

// CityRepository defines methods for city catalog operations
type CityRepository interface {
	Create(ctx context.Context, city *domain.City) error
	GetByID(ctx context.Context, id string) (*domain.City, error)
	GetByName(ctx context.Context, name string) (*domain.City, error)
	List(ctx context.Context) ([]*domain.City, error)
	// Delete fails with ErrCityInUse while any weather record or
	// favorite still references the city.
	Delete(ctx context.Context, id string) error
}

// WeatherRepository defines methods for weather observation storage
type WeatherRepository interface {
	// Insert stores an observation, silently skipping duplicates of
	// (city_id, timestamp). Reports whether a row was written.
	Insert(ctx context.Context, record *domain.WeatherRecord) (bool, error)
	ListByCity(ctx context.Context, cityID string) ([]domain.WeatherRecord, error)
	LatestByCity(ctx context.Context, cityID string) (*domain.WeatherRecord, error)
	// Prune deletes records older than cutoff for every city holding
	// more than minKeep records, always retaining each city's newest
	// minKeep rows. Returns cities processed and rows deleted.
	Prune(ctx context.Context, cutoff time.Time, minKeep int) (int, int, error)
}

// FavoriteRepository defines methods for favorite city pairs
type FavoriteRepository interface {
	Create(ctx context.Context, userID, cityID string) error
	Delete(ctx context.Context, userID, cityID string) error
	ListCitiesByUser(ctx context.Context, userID string) ([]*domain.City, error)
}

// TokenRepository defines methods for refresh token operations
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) error
}
