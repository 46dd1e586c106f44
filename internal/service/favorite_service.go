package service

import (
	"context"
	"errors"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
)

// favoriteService implements FavoriteService interface
type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	weatherRepo  repository.WeatherRepository
	cities       CityService
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	weatherRepo repository.WeatherRepository,
	cities CityService,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		weatherRepo:  weatherRepo,
		cities:       cities,
	}
}

// Add links a city to the user's favorites. A city named for the
// first time is created through the catalog.
func (s *favoriteService) Add(ctx context.Context, userID, cityName string) (*domain.City, error) {
	city, err := s.cities.EnsureByName(ctx, cityName)
	if err != nil {
		return nil, err
	}

	if err := s.favoriteRepo.Create(ctx, userID, city.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateFavorite):
			return nil, apperror.NewConflict("city is already in favorites")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NewNotFound("user not found")
		default:
			return nil, apperror.NewInternal("failed to add favorite", err)
		}
	}

	return city, nil
}

// Remove unlinks a city from the user's favorites.
func (s *favoriteService) Remove(ctx context.Context, userID, cityRef string) error {
	city, err := s.cities.Resolve(ctx, cityRef)
	if err != nil {
		return err
	}

	if err := s.favoriteRepo.Delete(ctx, userID, city.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NewNotFound("city is not in favorites")
		}
		return apperror.NewInternal("failed to remove favorite", err)
	}

	return nil
}

// List returns the user's favorite cities, each with its latest
// stored observation when one exists.
func (s *favoriteService) List(ctx context.Context, userID string) ([]dto.FavoriteEntry, error) {
	cities, err := s.favoriteRepo.ListCitiesByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to list favorites", err)
	}

	entries := make([]dto.FavoriteEntry, 0, len(cities))
	for _, city := range cities {
		entry := dto.FavoriteEntry{City: dto.NewCityInfo(city)}

		latest, err := s.weatherRepo.LatestByCity(ctx, city.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewInternal("failed to load latest weather", err)
		}
		if latest != nil {
			e := weatherEntry(latest)
			entry.LatestWeather = &e
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
