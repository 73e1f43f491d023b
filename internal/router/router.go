package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"   // Echo web framework
	"github.com/redis/go-redis/v9" // shared client for the limiter and cache

	"github.com/iliyamo/railway-booking/internal/config"
	"github.com/iliyamo/railway-booking/internal/handler"
	"github.com/iliyamo/railway-booking/internal/middleware"
)

// Handlers groups the route targets so callers can build them once.
type Handlers struct {
	Auth     *handler.AuthHandler
	Trains   *handler.TrainHandler
	Bookings *handler.BookingHandler
}

// Options carries the middleware settings applied to the API group.  A nil
// Redis client turns both the rate limiter and the cache into pass-throughs.
type Options struct {
	JWTSecret   string
	AdminAPIKey string
	Redis       *redis.Client
	RateLimit   config.RateLimitConfig
	BookLimit   config.RateLimitConfig
	Cache       config.CacheConfig
}

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI mounts the railway API under /api.
//
//	POST /api/signup                  public
//	POST /api/login                   public
//	POST /api/trains/create           admin key (when configured)
//	GET  /api/trains/availability     public
//	POST /api/trains/:train_id/book   bearer token, per-user booking limit
//	GET  /api/bookings/:booking_id    bearer token, cached per user
func RegisterAPI(e *echo.Echo, h Handlers, opt Options) {
	api := e.Group("/api")
	api.Use(middleware.NewTokenBucket(opt.RateLimit, opt.Redis))

	api.POST("/signup", h.Auth.Signup)
	api.POST("/login", h.Auth.Login)

	trains := api.Group("/trains")
	trains.POST("/create", h.Trains.CreateTrain, middleware.RequireAdminKey(opt.AdminAPIKey))
	trains.GET("/availability", h.Trains.Availability)
	// JWTAuth runs first so the booking limiter can key on the user.
	trains.POST("/:train_id/book", h.Bookings.BookSeats,
		middleware.JWTAuth(opt.JWTSecret),
		middleware.NewTokenBucket(opt.BookLimit, opt.Redis),
	)

	api.GET("/bookings/:booking_id", h.Bookings.GetBooking,
		middleware.JWTAuth(opt.JWTSecret),
		middleware.NewRedisCache(opt.Cache, opt.Redis),
	)
}
