package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
)

// doJSON performs an authenticated JSON request against the running app.
// Pass an empty token for anonymous requests and nil body for bodiless ones.
func (s *Suite) doJSON(method, path, token string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		s.Require().NoError(err)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, &buf)
	s.Require().NoError(err)

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)

	return resp
}

func (s *Suite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(out)
	s.Require().NoError(err)
}

// registerUser creates an account through the API and returns the auth response
func (s *Suite) registerUser(username, email, password string) dto.AuthResponse {
	resp := s.doJSON(http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "registration should succeed")

	var authResp dto.AuthResponse
	s.decode(resp, &authResp)
	return authResp
}

// loginUser authenticates by username or email and returns the auth response
func (s *Suite) loginUser(identifier, password string) dto.AuthResponse {
	resp := s.doJSON(http.MethodPost, "/login", "", dto.LoginRequest{
		Identifier: identifier,
		Password:   password,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, "login should succeed")

	var authResp dto.AuthResponse
	s.decode(resp, &authResp)
	return authResp
}

// registerAdmin creates an account, promotes it to admin directly in the
// database and logs in again so the token carries the admin role.
func (s *Suite) registerAdmin(username, email, password string) dto.AuthResponse {
	s.registerUser(username, email, password)

	_, err := s.Postgres.DB.Exec("UPDATE users SET role = 'admin' WHERE email = $1", email)
	s.Require().NoError(err)

	return s.loginUser(email, password)
}

func (s *Suite) addCity(adminToken, name string) dto.CityInfo {
	resp := s.doJSON(http.MethodPost, "/cities", adminToken, dto.AddCityRequest{Name: name})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, fmt.Sprintf("adding city %s should succeed", name))

	var city dto.CityInfo
	s.decode(resp, &city)
	return city
}
