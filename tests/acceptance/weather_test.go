package acceptance

import (
	"net/http"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/google/uuid"
)

func (s *Suite) TestCities_AdminOnly() {
	user := s.registerUser("plainuser", "plain@example.com", "Password123")

	resp := s.doJSON(http.MethodPost, "/cities", user.AccessToken, dto.AddCityRequest{Name: "Moscow"})

	s.Equal(http.StatusForbidden, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decode(resp, &errResp)
	s.Equal("forbidden", errResp.Error)
}

func (s *Suite) TestCities_AddAndList() {
	admin := s.registerAdmin("cityadmin", "cityadmin@example.com", "Password123")

	city := s.addCity(admin.AccessToken, "Moscow")
	s.Equal("Moscow", city.Name)
	s.Equal("RU", city.Country)
	s.InDelta(55.75, city.Coordinates.Latitude, 0.001)
	s.InDelta(37.62, city.Coordinates.Longitude, 0.001)

	listResp := s.doJSON(http.MethodGet, "/cities", "", nil)
	s.Equal(http.StatusOK, listResp.StatusCode)

	var cities []dto.CityInfo
	s.decode(listResp, &cities)
	s.Require().Len(cities, 1)
	s.Equal(city.ID, cities[0].ID)
}

func (s *Suite) TestCities_DuplicateNameIsCaseInsensitive() {
	admin := s.registerAdmin("dupadmin", "dupadmin@example.com", "Password123")

	s.addCity(admin.AccessToken, "Moscow")

	resp := s.doJSON(http.MethodPost, "/cities", admin.AccessToken, dto.AddCityRequest{Name: "moscow"})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestWeather_HistoryEmptyThenPopulated() {
	admin := s.registerAdmin("weatheradmin", "weatheradmin@example.com", "Password123")
	city := s.addCity(admin.AccessToken, "Moscow")

	emptyResp := s.doJSON(http.MethodGet, "/weather/Moscow", "", nil)
	s.Equal(http.StatusOK, emptyResp.StatusCode)

	var empty dto.WeatherHistoryResponse
	s.decode(emptyResp, &empty)
	s.Equal("No weather data available for Moscow", empty.Message)
	s.Empty(empty.WeatherData)

	updateResp := s.doJSON(http.MethodPost, "/weather/update_hourly/Moscow", admin.AccessToken, nil)
	s.Equal(http.StatusOK, updateResp.StatusCode)

	var update dto.HourlyUpdateResponse
	s.decode(updateResp, &update)
	s.Equal(city.ID, update.CityID)
	s.Equal(5, update.TotalAdded)
	s.Len(update.AddedStamps, 5)

	// A second run finds every sample already stored.
	againResp := s.doJSON(http.MethodPost, "/weather/update_hourly/Moscow", admin.AccessToken, nil)
	s.Equal(http.StatusOK, againResp.StatusCode)

	var again dto.HourlyUpdateResponse
	s.decode(againResp, &again)
	s.Equal(0, again.TotalAdded)

	historyResp := s.doJSON(http.MethodGet, "/weather/Moscow", "", nil)
	s.Equal(http.StatusOK, historyResp.StatusCode)

	var history dto.WeatherHistoryResponse
	s.decode(historyResp, &history)
	s.Equal(city.ID, history.CityInfo.ID)
	s.Len(history.WeatherData, 5)
	s.Require().NotNil(history.Statistics)
	s.InDelta(12.0, history.Statistics.AvgTemp, 0.001)
	s.InDelta(10.0, history.Statistics.MinTemp, 0.001)
	s.InDelta(14.0, history.Statistics.MaxTemp, 0.001)
	s.Equal(5, history.Statistics.RecordsCount)
}

func (s *Suite) TestWeather_UnknownCityIsCreatedAndSeeded() {
	resp := s.doJSON(http.MethodGet, "/weather/Madrid", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var history dto.WeatherHistoryResponse
	s.decode(resp, &history)
	s.Equal("Madrid", history.CityInfo.Name)
	s.Len(history.WeatherData, 1)

	listResp := s.doJSON(http.MethodGet, "/cities", "", nil)
	var cities []dto.CityInfo
	s.decode(listResp, &cities)
	s.Require().Len(cities, 1)
	s.Equal("Madrid", cities[0].Name)
}

func (s *Suite) TestWeather_ProviderDoesNotKnowCity() {
	resp := s.doJSON(http.MethodGet, "/weather/Nowhereville", "", nil)

	s.Equal(http.StatusNotFound, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decode(resp, &errResp)
	s.Equal("not_found", errResp.Error)
}

func (s *Suite) TestWeather_CleanupRequiresAdmin() {
	user := s.registerUser("cleanupuser", "cleanupuser@example.com", "Password123")

	resp := s.doJSON(http.MethodDelete, "/weather/cleanup", user.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestWeather_Cleanup() {
	admin := s.registerAdmin("pruneadmin", "pruneadmin@example.com", "Password123")

	resp := s.doJSON(http.MethodDelete, "/weather/cleanup", admin.AccessToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var cleanup dto.CleanupResponse
	s.decode(resp, &cleanup)
	s.Equal("Old weather data cleanup completed", cleanup.Message)
	s.NotEmpty(cleanup.CutoffDate)
}

// seedWeatherRows inserts hourly observations for a city starting at
// base, bypassing the API so timestamps can predate the retention window.
func (s *Suite) seedWeatherRows(cityID string, base time.Time, count int) {
	for i := 0; i < count; i++ {
		_, err := s.Postgres.DB.Exec(`
			INSERT INTO weather_data (id, city_id, temperature, humidity, wind_speed, description, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), cityID, 10.0+float64(i), 50, 1.5, "clouds", base.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(err)
	}
}

func (s *Suite) TestWeather_CleanupKeepsNewestPerCity() {
	admin := s.registerAdmin("retentionadmin", "retentionadmin@example.com", "Password123")

	pruned := s.addCity(admin.AccessToken, "Moscow")
	spared := s.addCity(admin.AccessToken, "Madrid")

	// 30 records per city, every one older than the 7 day window.
	base := time.Now().UTC().Add(-30 * 24 * time.Hour).Truncate(time.Hour)
	s.seedWeatherRows(pruned.ID, base, 30)
	s.seedWeatherRows(spared.ID, base, 10)

	resp := s.doJSON(http.MethodDelete, "/weather/cleanup", admin.AccessToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var cleanup dto.CleanupResponse
	s.decode(resp, &cleanup)
	s.Equal(1, cleanup.CitiesProcessed)
	s.Equal(6, cleanup.RecordsDeleted)

	var remaining int
	err := s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM weather_data WHERE city_id = $1`, pruned.ID).Scan(&remaining)
	s.Require().NoError(err)
	s.Equal(24, remaining)

	// Exactly the newest 24 survive: the oldest six hours are gone.
	var oldest time.Time
	err = s.Postgres.DB.QueryRow(`SELECT MIN(timestamp) FROM weather_data WHERE city_id = $1`, pruned.ID).Scan(&oldest)
	s.Require().NoError(err)
	s.True(oldest.Equal(base.Add(6*time.Hour)), "oldest surviving record should be the 7th seeded row, got %s", oldest)

	// A city at or under min_keep records is never touched.
	err = s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM weather_data WHERE city_id = $1`, spared.ID).Scan(&remaining)
	s.Require().NoError(err)
	s.Equal(10, remaining)
}

func (s *Suite) TestFavorites_Flow() {
	admin := s.registerAdmin("favadmin", "favadmin@example.com", "Password123")
	user := s.registerUser("favuser", "favuser@example.com", "Password123")

	s.addCity(admin.AccessToken, "Moscow")

	updateResp := s.doJSON(http.MethodPost, "/weather/update_hourly/Moscow", admin.AccessToken, nil)
	s.Require().Equal(http.StatusOK, updateResp.StatusCode)
	updateResp.Body.Close()

	favoritesPath := "/users/" + user.User.ID + "/favorites"

	addResp := s.doJSON(http.MethodPost, favoritesPath, user.AccessToken, dto.AddFavoriteRequest{CityName: "Moscow"})
	s.Equal(http.StatusCreated, addResp.StatusCode)

	var city dto.CityInfo
	s.decode(addResp, &city)
	s.Equal("Moscow", city.Name)

	dupResp := s.doJSON(http.MethodPost, favoritesPath, user.AccessToken, dto.AddFavoriteRequest{CityName: "Moscow"})
	defer dupResp.Body.Close()
	s.Equal(http.StatusConflict, dupResp.StatusCode)

	listResp := s.doJSON(http.MethodGet, favoritesPath, user.AccessToken, nil)
	s.Equal(http.StatusOK, listResp.StatusCode)

	var favorites []dto.FavoriteEntry
	s.decode(listResp, &favorites)
	s.Require().Len(favorites, 1)
	s.Equal("Moscow", favorites[0].City.Name)
	s.Require().NotNil(favorites[0].LatestWeather)

	removeResp := s.doJSON(http.MethodDelete, favoritesPath+"/Moscow", user.AccessToken, nil)
	defer removeResp.Body.Close()
	s.Equal(http.StatusOK, removeResp.StatusCode)

	afterResp := s.doJSON(http.MethodGet, favoritesPath, user.AccessToken, nil)
	var after []dto.FavoriteEntry
	s.decode(afterResp, &after)
	s.Empty(after)
}

func (s *Suite) TestFavorites_OtherUsersAreForbidden() {
	owner := s.registerUser("owner", "owner@example.com", "Password123")
	intruder := s.registerUser("intruder", "intruder@example.com", "Password123")

	resp := s.doJSON(http.MethodGet, "/users/"+owner.User.ID+"/favorites", intruder.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestCities_DeleteInUseConflicts() {
	admin := s.registerAdmin("deladmin", "deladmin@example.com", "Password123")
	user := s.registerUser("deluser", "deluser@example.com", "Password123")

	city := s.addCity(admin.AccessToken, "Moscow")

	addResp := s.doJSON(http.MethodPost, "/users/"+user.User.ID+"/favorites", user.AccessToken, dto.AddFavoriteRequest{CityName: "Moscow"})
	s.Require().Equal(http.StatusCreated, addResp.StatusCode)
	addResp.Body.Close()

	delResp := s.doJSON(http.MethodDelete, "/cities/"+city.ID, admin.AccessToken, nil)
	defer delResp.Body.Close()

	s.Equal(http.StatusConflict, delResp.StatusCode)
}
