package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/config"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/handler"
	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
	"github.com/AstafevaAnastasia/weather-tracker/internal/service"
	"github.com/AstafevaAnastasia/weather-tracker/internal/utils"
	"github.com/AstafevaAnastasia/weather-tracker/internal/weatherapi"
	"github.com/AstafevaAnastasia/weather-tracker/pkg/observability"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout    = 5 * time.Second
	tokenSweepInterval = time.Hour
)

type App struct {
	infra   Infrastructure
	config  *config.Config
	router  *gin.Engine
	server  *http.Server
	janitor *service.TokenJanitor
}

type handlers struct {
	auth     *handler.AuthHandler
	user     *handler.UserHandler
	city     *handler.CityHandler
	weather  *handler.WeatherHandler
	favorite *handler.FavoriteHandler
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	clock := clockwork.NewRealClock()

	blacklistService := service.NewTokenBlacklistService(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)
	janitor := service.NewTokenJanitor(repos.Token, clock, tokenSweepInterval, infra.Logger())

	provider := weatherapi.NewClient(
		cfg.Weather.BaseURL,
		cfg.Weather.APIKey,
		cfg.Weather.Timeout.Duration,
		infra.Logger(),
	)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		jwtManager,
		blacklistService,
		cfg.Security.BCryptCost,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)
	userService := service.NewUserService(repos.User, cfg.Security.BCryptCost)
	cityService := service.NewCityService(repos.City, provider)
	weatherService := service.NewWeatherService(
		repos.Weather,
		cityService,
		provider,
		clock,
		cfg.Retention.Window.Duration,
		cfg.Retention.MinKeep,
		cfg.Weather.HoursBefore,
		cfg.Weather.HoursAfter,
	)
	favoriteService := service.NewFavoriteService(repos.Favorite, repos.Weather, cityService)

	h := handlers{
		auth:     handler.NewAuthHandler(authService),
		user:     handler.NewUserHandler(userService),
		city:     handler.NewCityHandler(cityService),
		weather:  handler.NewWeatherHandler(weatherService),
		favorite: handler.NewFavoriteHandler(favoriteService),
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("weather-tracker"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, h, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:   infra,
		config:  cfg,
		router:  router,
		server:  srv,
		janitor: janitor,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h handlers,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	authRequired := handler.AuthMiddleware(authService)
	adminOnly := handler.RequireRole(domain.RoleAdmin)
	ownerOnly := handler.RequireSelf()
	loginLimit := handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey)

	router.POST("/register", loginLimit, h.auth.Register)
	router.POST("/login", loginLimit, h.auth.Login)
	router.POST("/refresh", h.auth.Refresh)
	router.POST("/logout", authRequired, h.auth.Logout)

	users := router.Group("/users", authRequired)
	{
		users.GET("/search", h.user.Search)
		users.GET("/:id", ownerOnly, h.user.Get)
		users.PUT("/:id", ownerOnly, h.user.Update)
		users.DELETE("/:id", adminOnly, h.user.Delete)

		users.GET("/:id/favorites", ownerOnly, h.favorite.List)
		users.POST("/:id/favorites", ownerOnly, h.favorite.Add)
		users.DELETE("/:id/favorites/:city", ownerOnly, h.favorite.Remove)
	}

	cities := router.Group("/cities")
	{
		cities.GET("", h.city.List)
		cities.POST("", authRequired, adminOnly, h.city.Add)
		cities.DELETE("/:id", authRequired, adminOnly, h.city.Delete)
	}

	weather := router.Group("/weather")
	{
		weather.GET("/:city", h.weather.History)
		weather.POST("/update_hourly/:city", authRequired, adminOnly, h.weather.RefreshHourly)
		weather.DELETE("/cleanup", authRequired, adminOnly, h.weather.Cleanup)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go a.janitor.Run(ctx)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
