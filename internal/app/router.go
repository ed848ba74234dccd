package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"carrental/internal/config"
	"carrental/internal/handler"
	"carrental/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CarHandler     *handler.CarHandler
	BookingHandler *handler.BookingHandler
	ReturnHandler  *handler.ReturnHandler
	HealthHandler  *handler.HealthHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	Logger         *zerolog.Logger
	RateLimit      config.RateLimitConfig
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{Error: "Route not found"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RateLimit(deps.RateLimit))
	api.Use(middleware.Idempotency(deps.RedisClient))
	{
		api.GET("/health", deps.HealthHandler.Health)

		// Car routes.
		cars := api.Group("/cars")
		{
			cars.GET("", deps.CarHandler.ListCars)
			cars.GET("/:id", deps.CarHandler.GetCar)
			cars.POST("", deps.CarHandler.AddCar)
			cars.PUT("/:id/availability", deps.CarHandler.SetAvailability)
			cars.DELETE("/:id", deps.CarHandler.DeleteCar)
		}

		// Booking routes.
		bookings := api.Group("/bookings")
		{
			bookings.GET("", deps.BookingHandler.ListBookings)
			bookings.GET("/stats/summary", deps.BookingHandler.Stats)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.PUT("/:id/status", deps.BookingHandler.UpdateStatus)
			bookings.DELETE("/:id", deps.BookingHandler.CancelBooking)
		}

		// Return routes.
		returns := api.Group("/returns")
		{
			returns.GET("", deps.ReturnHandler.ListReturns)
			returns.GET("/stats/summary", deps.ReturnHandler.Stats)
			returns.GET("/:id", deps.ReturnHandler.GetReturn)
			returns.GET("/:id/receipt", deps.ReturnHandler.Receipt)
			returns.POST("", deps.ReturnHandler.ProcessReturn)
			returns.POST("/validate", deps.ReturnHandler.ValidateBooking)
			returns.PUT("/:id", deps.ReturnHandler.UpdateReturn)
		}
	}

	return router
}
