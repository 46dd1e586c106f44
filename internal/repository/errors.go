package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when trying to create a user with an existing username
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateCity is returned when trying to create a city whose name is already taken
	ErrDuplicateCity = errors.New("city with this name already exists")

	// ErrDuplicateFavorite is returned when the (user, city) pair is already a favorite
	ErrDuplicateFavorite = errors.New("city is already in favorites")

	// ErrCityInUse is returned when a city still has weather records or favorites
	ErrCityInUse = errors.New("city has related records")

	// ErrDuplicateToken is returned when trying to create a token with an existing hash
	ErrDuplicateToken = errors.New("token with this hash already exists")
)
