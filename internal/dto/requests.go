package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents a login request. Identifier matches either
// username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token when it is not supplied via cookie
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateUserRequest represents a partial profile update. A password
// change requires the old password to verify.
type UpdateUserRequest struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	OldPassword *string `json:"old_password,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
}

// AddCityRequest represents a city creation request. When coordinates
// are omitted the city is geocoded through the weather provider.
type AddCityRequest struct {
	Name      string   `json:"name" binding:"required"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// AddFavoriteRequest references a city by name
type AddFavoriteRequest struct {
	CityName string `json:"city_name" binding:"required"`
}
