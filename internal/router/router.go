// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/wesleysantana/restaurant-reservation/internal/config"
	"github.com/wesleysantana/restaurant-reservation/internal/handler"
	"github.com/wesleysantana/restaurant-reservation/internal/middleware"
)

// Handlers bundles every handler the router needs.
type Handlers struct {
	Tables        *handler.TableHandler
	BusinessHours *handler.BusinessHoursHandler
	Reservations  *handler.ReservationHandler
}

// RegisterRoutes registers the full route table.
//
// Public reads (table catalog, business-hours rules, the open check) run
// behind the Redis response cache when one is available. Reservation
// endpoints require a valid JWT with a CUSTOMER or ADMIN role and are
// rate limited per user. Registry and calendar writes are ADMIN only.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Unauthenticated browsing.
	pub := e.Group("/v1", cache)
	pub.GET("/tables", h.Tables.List)
	pub.GET("/tables/:id", h.Tables.Get)
	pub.GET("/business-hours", h.BusinessHours.List)
	pub.GET("/business-hours/check", h.BusinessHours.Check)
	pub.GET("/business-hours/:id", h.BusinessHours.Get)

	// Booking endpoints for authenticated guests.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("CUSTOMER", "ADMIN"))
	auth.Use(limit)
	auth.POST("/reservations", h.Reservations.Make)
	auth.GET("/reservations/:id", h.Reservations.Get)
	auth.DELETE("/reservations/:id", h.Reservations.Cancel)
	auth.GET("/my-reservations", h.Reservations.List)

	// Administrative management of the table registry and the calendar.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/tables", h.Tables.Create)
	admin.PATCH("/tables/:id", h.Tables.Update)
	admin.DELETE("/tables/:id", h.Tables.Delete)
	admin.POST("/business-hours", h.BusinessHours.Create)
	admin.PUT("/business-hours/:id", h.BusinessHours.Update)
	admin.DELETE("/business-hours/:id", h.BusinessHours.Delete)
}
