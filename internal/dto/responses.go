package dto

import "github.com/AstafevaAnastasia/weather-tracker/internal/domain"

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo represents user information in auth responses
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserResponse represents a full user profile response
type UserResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	LastLoginAt *string `json:"last_login_at"`
}

// CityInfo represents a city in responses
type CityInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCityInfo converts a domain city to its response shape
func NewCityInfo(city *domain.City) CityInfo {
	return CityInfo{
		ID:      city.ID,
		Name:    city.Name,
		Country: city.Country,
		Coordinates: Coordinates{
			Latitude:  city.Latitude,
			Longitude: city.Longitude,
		},
	}
}

// WeatherEntry represents a single observation in responses
type WeatherEntry struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
}

// WeatherHistoryResponse represents a city's weather history with
// derived statistics. Message is set instead of data when the city
// has no stored records.
type WeatherHistoryResponse struct {
	CityInfo    CityInfo             `json:"city_info"`
	WeatherData []WeatherEntry       `json:"weather_data,omitempty"`
	Statistics  *domain.HistoryStats `json:"statistics,omitempty"`
	Message     string               `json:"message,omitempty"`
}

// HourlyUpdateResponse summarizes an hourly refresh run
type HourlyUpdateResponse struct {
	Message     string   `json:"message"`
	CityID      string   `json:"city_id"`
	TotalAdded  int      `json:"total_added"`
	AddedStamps []string `json:"added_timestamps,omitempty"`
}

// CleanupResponse summarizes a weather history prune run
type CleanupResponse struct {
	Message         string `json:"message"`
	CitiesProcessed int    `json:"cities_processed"`
	RecordsDeleted  int    `json:"records_deleted"`
	CutoffDate      string `json:"cutoff_date"`
}

// FavoriteEntry pairs a favorite city with its latest observation
type FavoriteEntry struct {
	City          CityInfo      `json:"city"`
	LatestWeather *WeatherEntry `json:"latest_weather,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
