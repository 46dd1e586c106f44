package domain

import (
	"math"
	"time"
)

// WeatherRecord is a stored observation. Records are unique per
// (city_id, timestamp); a record belongs to exactly one city.
type WeatherRecord struct {
	ID          string    `json:"id" db:"id"`
	CityID      string    `json:"city_id" db:"city_id"`
	Temperature float64   `json:"temperature" db:"temperature"`
	Humidity    int       `json:"humidity" db:"humidity"`
	WindSpeed   float64   `json:"wind_speed" db:"wind_speed"`
	Description string    `json:"description" db:"description"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

// Sample is a normalized provider observation not yet bound to a city.
type Sample struct {
	Temperature float64
	Humidity    int
	WindSpeed   float64
	Description string
	Timestamp   time.Time
}

// HistoryStats are derived statistics over a city's weather history.
type HistoryStats struct {
	MinTemp      float64   `json:"min_temp"`
	MaxTemp      float64   `json:"max_temp"`
	AvgTemp      float64   `json:"avg_temp"`
	RecordsCount int       `json:"records_count"`
	FirstRecord  time.Time `json:"first_record"`
	LastRecord   time.Time `json:"last_record"`
}

// ComputeStats derives min/max/average temperature over records,
// which must be ordered ascending by timestamp. The average is
// rounded to one decimal place. Returns nil for an empty history.
func ComputeStats(records []WeatherRecord) *HistoryStats {
	if len(records) == 0 {
		return nil
	}

	stats := &HistoryStats{
		MinTemp:      records[0].Temperature,
		MaxTemp:      records[0].Temperature,
		RecordsCount: len(records),
		FirstRecord:  records[0].Timestamp,
		LastRecord:   records[len(records)-1].Timestamp,
	}

	var sum float64
	for _, r := range records {
		if r.Temperature < stats.MinTemp {
			stats.MinTemp = r.Temperature
		}
		if r.Temperature > stats.MaxTemp {
			stats.MaxTemp = r.Temperature
		}
		sum += r.Temperature
	}

	stats.AvgTemp = math.Round(sum/float64(len(records))*10) / 10

	return stats
}
