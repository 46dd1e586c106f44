package repository

import (
	"github.com/AstafevaAnastasia/weather-tracker/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	City     CityRepository
	Weather  WeatherRepository
	Favorite FavoriteRepository
	Token    TokenRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		City:     NewCityRepository(db),
		Weather:  NewWeatherRepository(db),
		Favorite: NewFavoriteRepository(db),
		Token:    NewTokenRepository(db),
	}
}
