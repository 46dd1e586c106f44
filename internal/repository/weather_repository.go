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

// weatherRepository implements WeatherRepository interface
type weatherRepository struct {
	db *database.Postgres
}

// NewWeatherRepository creates a new weather repository
func NewWeatherRepository(db *database.Postgres) WeatherRepository {
	return &weatherRepository{db: db}
}

// Insert stores an observation. A duplicate (city_id, timestamp) is
// skipped rather than overwritten; the store's unique constraint is
// the arbiter under concurrent inserts.
func (r *weatherRepository) Insert(ctx context.Context, record *domain.WeatherRecord) (bool, error) {
	query := `
		INSERT INTO weather_data (id, city_id, temperature, humidity, wind_speed, description, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (city_id, timestamp) DO NOTHING
	`

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	result, err := r.db.DB.ExecContext(ctx, query,
		record.ID,
		record.CityID,
		record.Temperature,
		record.Humidity,
		record.WindSpeed,
		record.Description,
		record.Timestamp,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return false, fmt.Errorf("city %s does not exist: %w", record.CityID, ErrNotFound)
		}
		return false, fmt.Errorf("failed to insert weather record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

const weatherColumns = `id, city_id, temperature, humidity, wind_speed, description, timestamp`

// ListByCity returns all observations for a city ascending by timestamp
func (r *weatherRepository) ListByCity(ctx context.Context, cityID string) ([]domain.WeatherRecord, error) {
	query := `
		SELECT ` + weatherColumns + `
		FROM weather_data
		WHERE city_id = $1
		ORDER BY timestamp ASC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weather records: %w", err)
	}
	defer rows.Close()

	var records []domain.WeatherRecord
	for rows.Next() {
		var record domain.WeatherRecord
		err := rows.Scan(
			&record.ID,
			&record.CityID,
			&record.Temperature,
			&record.Humidity,
			&record.WindSpeed,
			&record.Description,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weather record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weather records: %w", err)
	}

	return records, nil
}

// LatestByCity returns the most recent observation for a city
func (r *weatherRepository) LatestByCity(ctx context.Context, cityID string) (*domain.WeatherRecord, error) {
	query := `
		SELECT ` + weatherColumns + `
		FROM weather_data
		WHERE city_id = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`

	record := &domain.WeatherRecord{}
	err := r.db.DB.QueryRowContext(ctx, query, cityID).Scan(
		&record.ID,
		&record.CityID,
		&record.Temperature,
		&record.Humidity,
		&record.WindSpeed,
		&record.Description,
		&record.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no weather records for city %s: %w", cityID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest weather record: %w", err)
	}

	return record, nil
}

// Prune deletes observations older than cutoff for every city holding
// more than minKeep records. Selection is by recency rank: each
// city's newest minKeep rows survive regardless of age. The whole
// sweep runs in a single transaction.
func (r *weatherRepository) Prune(ctx context.Context, cutoff time.Time, minKeep int) (int, int, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT city_id
		FROM weather_data
		GROUP BY city_id
		HAVING COUNT(*) > $1
	`, minKeep)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to select cities to prune: %w", err)
	}

	var cityIDs []string
	for rows.Next() {
		var cityID string
		if err := rows.Scan(&cityID); err != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("failed to scan city id: %w", err)
		}
		cityIDs = append(cityIDs, cityID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, 0, fmt.Errorf("failed to iterate cities: %w", err)
	}
	rows.Close()

	totalDeleted := 0
	for _, cityID := range cityIDs {
		result, err := tx.ExecContext(ctx, `
			DELETE FROM weather_data
			WHERE city_id = $1
			  AND timestamp < $2
			  AND id NOT IN (
				SELECT id FROM weather_data
				WHERE city_id = $1
				ORDER BY timestamp DESC
				LIMIT $3
			  )
		`, cityID, cutoff, minKeep)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to prune city %s: %w", cityID, err)
		}

		deleted, err := result.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		totalDeleted += int(deleted)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(cityIDs), totalDeleted, nil
}
