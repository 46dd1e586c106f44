package service

import (
	"context"
	"errors"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
	"github.com/AstafevaAnastasia/weather-tracker/internal/utils"
	"github.com/AstafevaAnastasia/weather-tracker/internal/weatherapi"
	"github.com/google/uuid"
)

// cityService implements CityService interface
type cityService struct {
	cityRepo repository.CityRepository
	provider WeatherProvider
}

// NewCityService creates a new city service
func NewCityService(cityRepo repository.CityRepository, provider WeatherProvider) CityService {
	return &cityService{
		cityRepo: cityRepo,
		provider: provider,
	}
}

// providerError maps weather provider sentinels to application errors
func providerError(err error, cityName string) error {
	if errors.Is(err, weatherapi.ErrCityNotFound) {
		return apperror.NewNotFound("city '" + cityName + "' not found by weather provider")
	}
	return apperror.Wrap(apperror.UpstreamUnavailable, "weather provider unavailable", err)
}

// Add creates a city. Missing coordinates are geocoded through the
// weather provider before the insert.
func (s *cityService) Add(ctx context.Context, req *dto.AddCityRequest) (*domain.City, error) {
	name := utils.SanitizeName(req.Name)
	if name == "" {
		return nil, apperror.NewInvalidInput("city name is required")
	}

	city := &domain.City{
		Name:    name,
		Country: req.Country,
	}

	if req.Latitude != nil && req.Longitude != nil {
		city.Latitude = *req.Latitude
		city.Longitude = *req.Longitude
	} else {
		place, err := s.provider.Geocode(ctx, name)
		if err != nil {
			return nil, providerError(err, name)
		}
		city.Latitude = place.Latitude
		city.Longitude = place.Longitude
		if city.Country == "" {
			city.Country = place.Country
		}
	}

	if err := s.cityRepo.Create(ctx, city); err != nil {
		if errors.Is(err, repository.ErrDuplicateCity) {
			return nil, apperror.NewConflict("city '" + name + "' already exists")
		}
		return nil, apperror.NewInternal("failed to create city", err)
	}

	return city, nil
}

// Delete removes a city unless it still has weather records or favorites
func (s *cityService) Delete(ctx context.Context, cityID string) error {
	if err := s.cityRepo.Delete(ctx, cityID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperror.NewNotFound("city not found")
		case errors.Is(err, repository.ErrCityInUse):
			return apperror.NewConflict("cannot delete city: it has related weather records or favorites")
		}
		return apperror.NewInternal("failed to delete city", err)
	}

	return nil
}

// List returns the city catalog
func (s *cityService) List(ctx context.Context) ([]*domain.City, error) {
	cities, err := s.cityRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to list cities", err)
	}
	return cities, nil
}

// EnsureByName resolves a city by name, creating it from provider
// geocoding data on first reference. A concurrent create losing to
// the uniqueness constraint falls back to the winner's row.
func (s *cityService) EnsureByName(ctx context.Context, name string) (*domain.City, error) {
	name = utils.SanitizeName(name)
	if name == "" {
		return nil, apperror.NewInvalidInput("city name is required")
	}

	city, err := s.cityRepo.GetByName(ctx, name)
	if err == nil {
		return city, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NewInternal("failed to get city", err)
	}

	place, err := s.provider.Geocode(ctx, name)
	if err != nil {
		return nil, providerError(err, name)
	}

	city = &domain.City{
		Name:      name,
		Country:   place.Country,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
	}

	if err := s.cityRepo.Create(ctx, city); err != nil {
		if errors.Is(err, repository.ErrDuplicateCity) {
			return s.lookupExisting(ctx, name)
		}
		return nil, apperror.NewInternal("failed to create city", err)
	}

	return city, nil
}

func (s *cityService) lookupExisting(ctx context.Context, name string) (*domain.City, error) {
	city, err := s.cityRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.NewInternal("failed to get city", err)
	}
	return city, nil
}

// Resolve accepts a city id or a city name. Only references that do
// not parse as an id fall through to the name lookup.
func (s *cityService) Resolve(ctx context.Context, ref string) (*domain.City, error) {
	if _, err := uuid.Parse(ref); err == nil {
		city, err := s.cityRepo.GetByID(ctx, ref)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NewNotFound("city not found")
			}
			return nil, apperror.NewInternal("failed to get city", err)
		}
		return city, nil
	}

	city, err := s.cityRepo.GetByName(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewNotFound("city '" + ref + "' not found")
		}
		return nil, apperror.NewInternal("failed to get city", err)
	}
	return city, nil
}
