package domain

import "time"

// City represents a catalog entry. City names are unique
// case-insensitively; a city exclusively owns its weather history.
type City struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Country   string    `json:"country" db:"country"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Place is a geocoding result from the weather provider.
type Place struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
}
