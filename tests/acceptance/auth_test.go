package acceptance

import (
	"net/http"

	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	resp := s.doJSON(http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Password123",
	})

	s.Equal(http.StatusCreated, resp.StatusCode)

	cookies := resp.Cookies()

	var authResp dto.AuthResponse
	s.decode(resp, &authResp)

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("alice", authResp.User.Username)
	s.Equal("alice@example.com", authResp.User.Email)
	s.Equal("user", authResp.User.Role)
	s.NotEmpty(authResp.User.ID)

	s.NotEmpty(cookies, "Should have refresh token cookie")
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.registerUser("bob", "bob@example.com", "Password123")

	resp := s.doJSON(http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: "bob2",
		Email:    "bob@example.com",
		Password: "Password123",
	})
	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decode(resp, &errResp)
	s.Equal("conflict", errResp.Error)
}

func (s *Suite) TestRegister_DuplicateUsername() {
	s.registerUser("carol", "carol@example.com", "Password123")

	resp := s.doJSON(http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: "carol",
		Email:    "carol2@example.com",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.doJSON(http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: "dave",
		Email:    "not-an-email",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_ShortPassword() {
	resp := s.doJSON(http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: "eve",
		Email:    "eve@example.com",
		Password: "short",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_ByUsernameAndEmail() {
	s.registerUser("frank", "frank@example.com", "Password123")

	byUsername := s.loginUser("frank", "Password123")
	s.Equal("frank@example.com", byUsername.User.Email)

	byEmail := s.loginUser("frank@example.com", "Password123")
	s.Equal("frank", byEmail.User.Username)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.registerUser("grace", "grace@example.com", "Password123")

	resp := s.doJSON(http.MethodPost, "/login", "", dto.LoginRequest{
		Identifier: "grace",
		Password:   "WrongPassword1",
	})

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decode(resp, &errResp)
	s.Equal("unauthorized", errResp.Error)
}

func (s *Suite) TestLogin_UnknownUser() {
	resp := s.doJSON(http.MethodPost, "/login", "", dto.LoginRequest{
		Identifier: "nobody@example.com",
		Password:   "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestRefresh_RotatesToken() {
	registerResp := s.doJSON(http.MethodPost, "/register", "", dto.RegisterRequest{
		Username: "henry",
		Email:    "henry@example.com",
		Password: "Password123",
	})
	s.Require().Equal(http.StatusCreated, registerResp.StatusCode)

	var refreshCookie *http.Cookie
	for _, c := range registerResp.Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	registerResp.Body.Close()
	s.Require().NotNil(refreshCookie, "registration should set a refresh token cookie")

	resp := s.doJSON(http.MethodPost, "/refresh", "", dto.RefreshRequest{
		RefreshToken: refreshCookie.Value,
	})

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.decode(resp, &authResp)
	s.NotEmpty(authResp.AccessToken)
	s.Equal("henry", authResp.User.Username)

	// The old refresh token is dead after rotation.
	retry := s.doJSON(http.MethodPost, "/refresh", "", dto.RefreshRequest{
		RefreshToken: refreshCookie.Value,
	})
	defer retry.Body.Close()

	s.Equal(http.StatusUnauthorized, retry.StatusCode)
}

func (s *Suite) TestRefresh_InvalidToken() {
	resp := s.doJSON(http.MethodPost, "/refresh", "", dto.RefreshRequest{
		RefreshToken: "garbage-token",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_RevokesAccessToken() {
	auth := s.registerUser("irene", "irene@example.com", "Password123")

	logoutResp := s.doJSON(http.MethodPost, "/logout", auth.AccessToken, nil)
	defer logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)

	profileResp := s.doJSON(http.MethodGet, "/users/"+auth.User.ID, auth.AccessToken, nil)
	defer profileResp.Body.Close()
	s.Equal(http.StatusUnauthorized, profileResp.StatusCode)
}

func (s *Suite) TestProtectedRoute_RequiresToken() {
	resp := s.doJSON(http.MethodGet, "/users/search?username=alice", "", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
