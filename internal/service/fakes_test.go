package service

import (
	"context"
	"strings"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
	"github.com/google/uuid"
)

// In-memory repository fakes, faithful to the sentinel-error contract
// of the Postgres implementations.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range f.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	clone.UpdatedAt = time.Now()
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, userID string) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (f *fakeUserRepo) Search(_ context.Context, username, email string) ([]*domain.User, error) {
	var results []*domain.User
	for _, u := range f.users {
		if username != "" && strings.Contains(strings.ToLower(u.Username), strings.ToLower(username)) {
			clone := *u
			results = append(results, &clone)
			continue
		}
		if email != "" && strings.Contains(strings.ToLower(u.Email), strings.ToLower(email)) {
			clone := *u
			results = append(results, &clone)
		}
	}
	return results, nil
}

func (f *fakeUserRepo) DeleteCascade(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeCityRepo struct {
	cities map[string]*domain.City
	inUse  map[string]bool
}

func newFakeCityRepo() *fakeCityRepo {
	return &fakeCityRepo{
		cities: make(map[string]*domain.City),
		inUse:  make(map[string]bool),
	}
}

func (f *fakeCityRepo) Create(_ context.Context, city *domain.City) error {
	for _, c := range f.cities {
		if strings.EqualFold(c.Name, city.Name) {
			return repository.ErrDuplicateCity
		}
	}
	if city.ID == "" {
		city.ID = uuid.New().String()
	}
	if city.CreatedAt.IsZero() {
		city.CreatedAt = time.Now()
	}
	clone := *city
	f.cities[city.ID] = &clone
	return nil
}

func (f *fakeCityRepo) GetByID(_ context.Context, id string) (*domain.City, error) {
	city, ok := f.cities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *city
	return &clone, nil
}

func (f *fakeCityRepo) GetByName(_ context.Context, name string) (*domain.City, error) {
	for _, c := range f.cities {
		if strings.EqualFold(c.Name, name) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCityRepo) List(_ context.Context) ([]*domain.City, error) {
	var cities []*domain.City
	for _, c := range f.cities {
		clone := *c
		cities = append(cities, &clone)
	}
	return cities, nil
}

func (f *fakeCityRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.cities[id]; !ok {
		return repository.ErrNotFound
	}
	if f.inUse[id] {
		return repository.ErrCityInUse
	}
	delete(f.cities, id)
	return nil
}

type fakeWeatherRepo struct {
	records map[string][]domain.WeatherRecord
}

func newFakeWeatherRepo() *fakeWeatherRepo {
	return &fakeWeatherRepo{records: make(map[string][]domain.WeatherRecord)}
}

func (f *fakeWeatherRepo) Insert(_ context.Context, record *domain.WeatherRecord) (bool, error) {
	for _, r := range f.records[record.CityID] {
		if r.Timestamp.Equal(record.Timestamp) {
			return false, nil
		}
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	f.records[record.CityID] = append(f.records[record.CityID], *record)
	return true, nil
}

func (f *fakeWeatherRepo) ListByCity(_ context.Context, cityID string) ([]domain.WeatherRecord, error) {
	records := append([]domain.WeatherRecord(nil), f.records[cityID]...)
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j].Timestamp.Before(records[j-1].Timestamp); j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
	return records, nil
}

func (f *fakeWeatherRepo) LatestByCity(_ context.Context, cityID string) (*domain.WeatherRecord, error) {
	records, _ := f.ListByCity(context.Background(), cityID)
	if len(records) == 0 {
		return nil, repository.ErrNotFound
	}
	latest := records[len(records)-1]
	return &latest, nil
}

func (f *fakeWeatherRepo) Prune(_ context.Context, cutoff time.Time, minKeep int) (int, int, error) {
	citiesProcessed := 0
	deleted := 0
	for cityID, records := range f.records {
		if len(records) <= minKeep {
			continue
		}
		citiesProcessed++

		sorted, _ := f.ListByCity(context.Background(), cityID)
		keep := make(map[string]bool, minKeep)
		for _, r := range sorted[len(sorted)-minKeep:] {
			keep[r.ID] = true
		}

		var remaining []domain.WeatherRecord
		for _, r := range records {
			if !keep[r.ID] && r.Timestamp.Before(cutoff) {
				deleted++
				continue
			}
			remaining = append(remaining, r)
		}
		f.records[cityID] = remaining
	}
	return citiesProcessed, deleted, nil
}

type fakeFavoriteRepo struct {
	pairs  map[string]map[string]time.Time
	cities *fakeCityRepo
}

func newFakeFavoriteRepo(cities *fakeCityRepo) *fakeFavoriteRepo {
	return &fakeFavoriteRepo{
		pairs:  make(map[string]map[string]time.Time),
		cities: cities,
	}
}

func (f *fakeFavoriteRepo) Create(_ context.Context, userID, cityID string) error {
	if _, ok := f.cities.cities[cityID]; !ok {
		return repository.ErrNotFound
	}
	if f.pairs[userID] == nil {
		f.pairs[userID] = make(map[string]time.Time)
	}
	if _, ok := f.pairs[userID][cityID]; ok {
		return repository.ErrDuplicateFavorite
	}
	f.pairs[userID][cityID] = time.Now()
	return nil
}

func (f *fakeFavoriteRepo) Delete(_ context.Context, userID, cityID string) error {
	if _, ok := f.pairs[userID][cityID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.pairs[userID], cityID)
	return nil
}

func (f *fakeFavoriteRepo) ListCitiesByUser(_ context.Context, userID string) ([]*domain.City, error) {
	var cities []*domain.City
	for cityID := range f.pairs[userID] {
		if c, ok := f.cities.cities[cityID]; ok {
			clone := *c
			cities = append(cities, &clone)
		}
	}
	return cities, nil
}

type fakeTokenRepo struct {
	tokens map[string]*domain.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	if _, ok := f.tokens[token.TokenHash]; ok {
		return repository.ErrDuplicateToken
	}
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	clone := *token
	f.tokens[token.TokenHash] = &clone
	return nil
}

func (f *fakeTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	token, ok := f.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *token
	return &clone, nil
}

func (f *fakeTokenRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	if _, ok := f.tokens[tokenHash]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tokens, tokenHash)
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context) error {
	now := time.Now()
	for hash, token := range f.tokens {
		if token.ExpiresAt.Before(now) {
			delete(f.tokens, hash)
		}
	}
	return nil
}

type fakeRevoker struct {
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]bool)}
}

func (f *fakeRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], nil
}

type fakeProvider struct {
	current    domain.Sample
	currentErr error
	window     []domain.Sample
	windowErr  error
	place      domain.Place
	placeErr   error
}

func (f *fakeProvider) CurrentConditions(_ context.Context, _ string) (domain.Sample, error) {
	return f.current, f.currentErr
}

func (f *fakeProvider) HourlyWindow(_ context.Context, _ string, _, _ int) ([]domain.Sample, error) {
	return f.window, f.windowErr
}

func (f *fakeProvider) Geocode(_ context.Context, _ string) (domain.Place, error) {
	return f.place, f.placeErr
}
