package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/pkg/database"
	"github.com/lib/pq"
)

// favoriteRepository implements FavoriteRepository interface
type favoriteRepository struct {
	db *database.Postgres
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *database.Postgres) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Create stores a favorite pair. The composite primary key resolves
// concurrent duplicate adds: exactly one insert wins, the loser gets
// ErrDuplicateFavorite.
func (r *favoriteRepository) Create(ctx context.Context, userID, cityID string) error {
	query := `
		INSERT INTO favorite_cities (user_id, city_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.DB.ExecContext(ctx, query, userID, cityID, time.Now())
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return fmt.Errorf("favorite (%s, %s) already exists: %w", userID, cityID, ErrDuplicateFavorite)
			case "23503": // foreign_key_violation
				return fmt.Errorf("favorite (%s, %s) references missing row: %w", userID, cityID, ErrNotFound)
			}
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}

	return nil
}

// Delete removes a favorite pair
func (r *favoriteRepository) Delete(ctx context.Context, userID, cityID string) error {
	query := `DELETE FROM favorite_cities WHERE user_id = $1 AND city_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, userID, cityID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("favorite (%s, %s) not found: %w", userID, cityID, ErrNotFound)
	}

	return nil
}

// ListCitiesByUser returns the cities a user has favorited, ordered
// by when they were added.
func (r *favoriteRepository) ListCitiesByUser(ctx context.Context, userID string) ([]*domain.City, error) {
	query := `
		SELECT c.id, c.name, c.country, c.latitude, c.longitude, c.created_at
		FROM favorite_cities f
		JOIN cities c ON c.id = f.city_id
		WHERE f.user_id = $1
		ORDER BY f.created_at ASC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite cities: %w", err)
	}
	defer rows.Close()

	var cities []*domain.City
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite city: %w", err)
		}
		cities = append(cities, city)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite cities: %w", err)
	}

	return cities, nil
}
