package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/pkg/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// cityRepository implements CityRepository interface
type cityRepository struct {
	db *database.Postgres
}

// NewCityRepository creates a new city repository
func NewCityRepository(db *database.Postgres) CityRepository {
	return &cityRepository{db: db}
}

// Create creates a new city in the database
func (r *cityRepository) Create(ctx context.Context, city *domain.City) error {
	query := `
		INSERT INTO cities (id, name, country, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if city.ID == "" {
		city.ID = uuid.New().String()
	}
	if city.CreatedAt.IsZero() {
		city.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		city.ID,
		city.Name,
		city.Country,
		city.Latitude,
		city.Longitude,
		city.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("city %s already exists: %w", city.Name, ErrDuplicateCity)
			}
		}
		return fmt.Errorf("failed to create city: %w", err)
	}

	return nil
}

const cityColumns = `id, name, country, latitude, longitude, created_at`

func scanCity(scanner interface {
	Scan(dest ...any) error
}) (*domain.City, error) {
	city := &domain.City{}
	err := scanner.Scan(
		&city.ID,
		&city.Name,
		&city.Country,
		&city.Latitude,
		&city.Longitude,
		&city.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return city, nil
}

// GetByID retrieves a city by ID
func (r *cityRepository) GetByID(ctx context.Context, id string) (*domain.City, error) {
	query := `SELECT ` + cityColumns + ` FROM cities WHERE id = $1`

	city, err := scanCity(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("city with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get city by id: %w", err)
	}

	return city, nil
}

// GetByName retrieves a city by name, matched case-insensitively
func (r *cityRepository) GetByName(ctx context.Context, name string) (*domain.City, error) {
	query := `SELECT ` + cityColumns + ` FROM cities WHERE LOWER(name) = LOWER($1)`

	city, err := scanCity(r.db.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("city %s not found: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get city by name: %w", err)
	}

	return city, nil
}

// List returns all cities ordered by name
func (r *cityRepository) List(ctx context.Context) ([]*domain.City, error) {
	query := `SELECT ` + cityColumns + ` FROM cities ORDER BY name`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	var cities []*domain.City
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, city)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cities: %w", err)
	}

	return cities, nil
}

// Delete removes a city. The reference check and the delete run in
// one transaction; a city still referenced by weather records or
// favorites is left untouched.
func (r *cityRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var weatherCount, favoriteCount int
	err = tx.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM weather_data WHERE city_id = $1),
			(SELECT COUNT(*) FROM favorite_cities WHERE city_id = $1)
	`, id).Scan(&weatherCount, &favoriteCount)
	if err != nil {
		return fmt.Errorf("failed to count city references: %w", err)
	}

	if weatherCount > 0 || favoriteCount > 0 {
		return fmt.Errorf("city has %d weather records and %d favorites: %w",
			weatherCount, favoriteCount, ErrCityInUse)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("city with id %s not found: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
