package service

import (
	"context"
	"errors"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// weatherService implements WeatherService interface
type weatherService struct {
	weatherRepo     repository.WeatherRepository
	cities          CityService
	provider        WeatherProvider
	clock           clockwork.Clock
	retentionWindow time.Duration
	minKeep         int
	hoursBefore     int
	hoursAfter      int
}

// NewWeatherService creates a new weather service
func NewWeatherService(
	weatherRepo repository.WeatherRepository,
	cities CityService,
	provider WeatherProvider,
	clock clockwork.Clock,
	retentionWindow time.Duration,
	minKeep int,
	hoursBefore int,
	hoursAfter int,
) WeatherService {
	return &weatherService{
		weatherRepo:     weatherRepo,
		cities:          cities,
		provider:        provider,
		clock:           clock,
		retentionWindow: retentionWindow,
		minKeep:         minKeep,
		hoursBefore:     hoursBefore,
		hoursAfter:      hoursAfter,
	}
}

func weatherEntry(record *domain.WeatherRecord) dto.WeatherEntry {
	return dto.WeatherEntry{
		Timestamp:   record.Timestamp.Format(time.RFC3339),
		Temperature: record.Temperature,
		Humidity:    record.Humidity,
		WindSpeed:   record.WindSpeed,
		Description: record.Description,
	}
}

// resolveOrFetch resolves a city reference. An unknown name is
// created through the provider and seeded with its current
// observation, matching first-lookup behavior of the catalog.
func (s *weatherService) resolveOrFetch(ctx context.Context, cityRef string) (*domain.City, error) {
	city, err := s.cities.Resolve(ctx, cityRef)
	if err == nil {
		return city, nil
	}

	if _, uuidErr := uuid.Parse(cityRef); uuidErr == nil || !apperror.IsKind(err, apperror.NotFound) {
		return nil, err
	}

	city, err = s.cities.EnsureByName(ctx, cityRef)
	if err != nil {
		return nil, err
	}

	sample, err := s.provider.CurrentConditions(ctx, city.Name)
	if err != nil {
		return nil, providerError(err, city.Name)
	}

	if _, err := s.Record(ctx, city.ID, sample); err != nil {
		return nil, err
	}

	return city, nil
}

// History returns a city's stored observations ascending by timestamp
// with derived statistics. An empty history is an explicit "no data"
// payload, not an error.
func (s *weatherService) History(ctx context.Context, cityRef string) (*dto.WeatherHistoryResponse, error) {
	city, err := s.resolveOrFetch(ctx, cityRef)
	if err != nil {
		return nil, err
	}

	records, err := s.weatherRepo.ListByCity(ctx, city.ID)
	if err != nil {
		return nil, apperror.NewInternal("failed to list weather records", err)
	}

	response := &dto.WeatherHistoryResponse{
		CityInfo: dto.NewCityInfo(city),
	}

	if len(records) == 0 {
		response.Message = "No weather data available for " + city.Name
		return response, nil
	}

	response.WeatherData = make([]dto.WeatherEntry, 0, len(records))
	for i := range records {
		response.WeatherData = append(response.WeatherData, weatherEntry(&records[i]))
	}
	response.Statistics = domain.ComputeStats(records)

	return response, nil
}

// Record stores one observation for a city. Duplicate (city,
// timestamp) samples are skipped, reported through the bool result.
func (s *weatherService) Record(ctx context.Context, cityID string, sample domain.Sample) (bool, error) {
	if sample.Timestamp.IsZero() {
		return false, apperror.NewInvalidInput("sample timestamp is required")
	}

	record := &domain.WeatherRecord{
		CityID:      cityID,
		Temperature: sample.Temperature,
		Humidity:    sample.Humidity,
		WindSpeed:   sample.WindSpeed,
		Description: sample.Description,
		Timestamp:   sample.Timestamp,
	}

	inserted, err := s.weatherRepo.Insert(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperror.NewNotFound("city not found")
		}
		return false, apperror.NewInternal("failed to record weather", err)
	}

	return inserted, nil
}

// RefreshHourly pulls the hourly window around the current hour from
// the provider and inserts only samples whose timestamp is absent.
func (s *weatherService) RefreshHourly(ctx context.Context, cityRef string) (*dto.HourlyUpdateResponse, error) {
	city, err := s.cities.Resolve(ctx, cityRef)
	if apperror.IsKind(err, apperror.NotFound) {
		city, err = s.cities.EnsureByName(ctx, cityRef)
	}
	if err != nil {
		return nil, err
	}

	samples, err := s.provider.HourlyWindow(ctx, city.Name, s.hoursBefore, s.hoursAfter)
	if err != nil {
		return nil, providerError(err, city.Name)
	}

	response := &dto.HourlyUpdateResponse{
		Message: "Hourly weather data updated for " + city.Name,
		CityID:  city.ID,
	}

	for _, sample := range samples {
		inserted, err := s.Record(ctx, city.ID, sample)
		if err != nil {
			return nil, err
		}
		if inserted {
			response.TotalAdded++
			response.AddedStamps = append(response.AddedStamps, sample.Timestamp.Format(time.RFC3339))
		}
	}

	return response, nil
}

// Cleanup prunes weather history older than the retention window,
// always keeping each city's newest minKeep records regardless of age.
func (s *weatherService) Cleanup(ctx context.Context) (*dto.CleanupResponse, error) {
	cutoff := s.clock.Now().UTC().Add(-s.retentionWindow)

	citiesProcessed, recordsDeleted, err := s.weatherRepo.Prune(ctx, cutoff, s.minKeep)
	if err != nil {
		return nil, apperror.NewInternal("failed to prune weather history", err)
	}

	return &dto.CleanupResponse{
		Message:         "Old weather data cleanup completed",
		CitiesProcessed: citiesProcessed,
		RecordsDeleted:  recordsDeleted,
		CutoffDate:      cutoff.Format(time.RFC3339),
	}, nil
}
